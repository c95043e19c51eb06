// Package preferences holds the onboarding answers and the onboarding-completed flag.
//
// Both values live under their own storage key and are loaded independently, so a corrupt
// preferences payload never hides a completed onboarding.
package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
)

// Vocabulary the recommendation API expects for locations and amenities.
var (
	locationNames = map[string]string{
		"Hanoi":            "Hà Nội",
		"Ho Chi Minh City": "Hồ Chí Minh",
		"Da Nang":          "Đà Nẵng",
	}
	amenityNames = map[string]string{
		"ac":       "air conditioning",
		"wifi":     "wi-fi",
		"pool":     "bể bơi",
		"kitchen":  "bếp",
		"washer":   "máy giặt",
		"elevator": "thang máy",
	}
)

// Locations offered by the onboarding wizard.
var Locations = []string{"Hanoi", "Ho Chi Minh City", "Da Nang"}

// Patch is a partial update. Nil fields are left unchanged; a non-nil empty Amenities
// clears the selection.
type Patch struct {
	Location        *string
	Budget          *float64
	Amenities       []string
	PropertyType    *string
	TravelFrequency *float64
}

// Store is the in-memory copy of the user's preferences backed by durable storage.
type Store struct {
	kv     storage.KeyValue
	logger *log.Logger

	mu        sync.RWMutex
	prefs     models.UserPreferences
	stored    bool
	completed bool
}

// NewStore creates a [Store] and loads any saved state. Unreadable values fall back to
// defaults.
func NewStore(kv storage.KeyValue, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		kv:     kv,
		logger: shared.WithLogger(logger, "component", "preferences"),
		prefs:  models.DefaultPreferences(),
	}
	s.load()
	return s
}

func (s *Store) load() {
	if raw, err := s.kv.Get(storage.KeyUserPreferences); err == nil {
		prefs := models.DefaultPreferences()
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			s.logger.Warn("ignoring unreadable preferences", "error", err)
		} else {
			if prefs.Amenities == nil {
				prefs.Amenities = []string{}
			}
			s.prefs = prefs
			s.stored = true
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to read preferences", "error", err)
	}

	if raw, err := s.kv.Get(storage.KeyOnboardingCompleted); err == nil {
		s.completed = raw == "true"
	} else if !errors.Is(err, storage.ErrNotFound) {
		s.logger.Warn("failed to read onboarding flag", "error", err)
	}
}

// Preferences returns a copy of the current preferences.
func (s *Store) Preferences() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// HasStored reports whether the user has saved any preferences.
func (s *Store) HasStored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stored
}

// Completed reports whether onboarding was finished.
func (s *Store) Completed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completed
}

// ShouldOnboard reports whether the wizard should be shown: onboarding is unfinished and
// nobody is logged in.
func (s *Store) ShouldOnboard(authenticated bool) bool {
	return !s.Completed() && !authenticated
}

// Update merges patch into the current preferences and persists the result.
//
// An invalid result returns [shared.ErrValidation] and changes nothing. A failed write keeps
// the new values in memory and returns [shared.ErrStorage].
func (s *Store) Update(patch Patch) (models.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs.Clone()
	if patch.Location != nil {
		next.Location = *patch.Location
	}
	if patch.Budget != nil {
		next.Budget = *patch.Budget
	}
	if patch.Amenities != nil {
		next.Amenities = dedupe(patch.Amenities)
	}
	if patch.PropertyType != nil {
		next.PropertyType = *patch.PropertyType
	}
	if patch.TravelFrequency != nil {
		next.TravelFrequency = *patch.TravelFrequency
	}

	if err := shared.Validate(next); err != nil {
		return s.prefs.Clone(), err
	}

	s.prefs = next
	s.stored = true
	return next.Clone(), s.persistLocked()
}

// ToggleAmenity selects id if absent and deselects it otherwise.
func (s *Store) ToggleAmenity(id string) (models.UserPreferences, error) {
	current := s.Preferences().Amenities
	if i := slices.Index(current, id); i >= 0 {
		current = slices.Delete(current, i, i+1)
	} else {
		current = append(current, id)
	}
	return s.Update(Patch{Amenities: current})
}

func (s *Store) persistLocked() error {
	payload, err := json.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("%w: failed to encode preferences: %v", shared.ErrStorage, err)
	}
	if err := s.kv.Set(storage.KeyUserPreferences, string(payload)); err != nil {
		s.logger.Error("failed to persist preferences", "error", err)
		return fmt.Errorf("%w: failed to persist preferences: %v", shared.ErrStorage, err)
	}
	return nil
}

// Complete marks onboarding finished.
func (s *Store) Complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completed = true
	if err := s.kv.Set(storage.KeyOnboardingCompleted, "true"); err != nil {
		s.logger.Error("failed to persist onboarding flag", "error", err)
		return fmt.Errorf("%w: failed to persist onboarding flag: %v", shared.ErrStorage, err)
	}
	return nil
}

// Reset restores defaults and removes both stored values.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs = models.DefaultPreferences()
	s.stored = false
	s.completed = false

	if err := errors.Join(
		s.kv.Remove(storage.KeyUserPreferences),
		s.kv.Remove(storage.KeyOnboardingCompleted),
	); err != nil {
		return fmt.Errorf("%w: failed to reset preferences: %v", shared.ErrStorage, err)
	}
	return nil
}

// Features returns the preferences translated into the recommendation API's vocabulary.
// Values without a translation pass through unchanged.
func (s *Store) Features() models.UserPreferences {
	return Translate(s.Preferences())
}

// Translate maps location and amenity shorthands on a copy of p.
func Translate(p models.UserPreferences) models.UserPreferences {
	out := p.Clone()
	if name, ok := locationNames[out.Location]; ok {
		out.Location = name
	}
	for i, a := range out.Amenities {
		if name, ok := amenityNames[a]; ok {
			out.Amenities[i] = name
		}
	}
	return out
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
