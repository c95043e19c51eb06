package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
)

// SavePendingBooking keeps a booking form in session storage until the user logs in.
func (s *Store) SavePendingBooking(p models.PendingBooking) (*models.PendingBooking, error) {
	if p.RequestID == "" {
		p.RequestID = shared.GenerateID()
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pending booking: %w", err)
	}
	if err := s.session.Set(storage.KeyPendingBooking, string(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return &p, nil
}

// PendingBooking returns the saved booking form without consuming it.
func (s *Store) PendingBooking() (*models.PendingBooking, bool) {
	raw, err := s.session.Get(storage.KeyPendingBooking)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read pending booking", "error", err)
		}
		return nil, false
	}

	var p models.PendingBooking
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.PropertyID <= 0 {
		s.logger.Warn("discarding unreadable pending booking", "error", err)
		return nil, false
	}
	return &p, true
}

// TakePendingBooking returns and removes the saved booking form.
func (s *Store) TakePendingBooking() (*models.PendingBooking, bool) {
	p, ok := s.PendingBooking()
	if err := s.session.Remove(storage.KeyPendingBooking); err != nil {
		s.logger.Warn("failed to remove pending booking", "error", err)
	}
	return p, ok
}
