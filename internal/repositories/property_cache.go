package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// PropertyCacheAdapter implements tasks.PropertyCacher using PropertyRepository.
//
// Each accommodation id maps to one row: a fresh fetch refreshes the snapshot in place,
// and a previously deleted row is revived rather than duplicated.
type PropertyCacheAdapter struct {
	repo *PropertyRepository
}

// NewPropertyCacheAdapter creates a new PropertyCacheAdapter with the given repository
func NewPropertyCacheAdapter(repo *PropertyRepository) *PropertyCacheAdapter {
	return &PropertyCacheAdapter{repo: repo}
}

// CacheProperty stores or refreshes the snapshot for acc.
func (a *PropertyCacheAdapter) CacheProperty(acc models.Accommodation) error {
	existing, err := a.repo.GetByAccommodationID(acc.AccommodationID)
	switch {
	case err == nil:
		if err := existing.Refresh(acc); err != nil {
			return err
		}
		return a.repo.Update(existing)
	case !errors.Is(err, shared.ErrNotFound):
		return fmt.Errorf("failed to look up cached property: %w", err)
	}

	p, err := models.NewCachedProperty(acc)
	if err != nil {
		return err
	}

	if err := a.repo.Create(p); err != nil {
		if isUniqueViolation(err) {
			return a.repo.Restore(p)
		}
		return fmt.Errorf("failed to cache property: %w", err)
	}

	return nil
}

// Cached lists every cached accommodation, decoding stored payloads.
// Rows whose payload no longer decodes are skipped.
func (a *PropertyCacheAdapter) Cached(criteria map[string]any) ([]models.Accommodation, error) {
	rows, err := a.repo.List(criteria)
	if err != nil {
		return nil, err
	}

	out := make([]models.Accommodation, 0, len(rows))
	for _, row := range rows {
		acc, err := row.Accommodation()
		if err != nil {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}
