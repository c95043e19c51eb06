package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

func TestPropertyRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewPropertyRepository(db)
			p, _ := models.NewCachedProperty(models.Accommodation{AccommodationID: 1})

			if err := repo.Create(p); err == nil {
				t.Fatal("expected validation error for empty name")
			}
		})

		t.Run("DuplicateAccommodation", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewPropertyRepository(db)
			p1, _ := models.NewCachedProperty(newAccommodation(1, "One", 100))
			p2, _ := models.NewCachedProperty(newAccommodation(1, "Two", 200))

			if err := repo.Create(p1); err != nil {
				t.Fatalf("failed to create first property: %v", err)
			}
			err := repo.Create(p2)
			if !isUniqueViolation(err) {
				t.Fatalf("expected unique violation, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewPropertyRepository(db)
			if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewPropertyRepository(db)
			p, _ := models.NewCachedProperty(newAccommodation(9, "Ghost", 100))
			p.SetID("nonexistent-id")

			if err := repo.Update(p); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("NothingDeleted", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewPropertyRepository(db)
			p, _ := models.NewCachedProperty(newAccommodation(9, "Ghost", 100))

			if err := repo.Restore(p); !errors.Is(err, shared.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			repo := NewPropertyRepository(db)
			if _, err := repo.List(nil); err == nil {
				t.Fatal("expected error listing on a closed database")
			}
		})
	})
}
