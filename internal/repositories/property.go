package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

const propertyColumns = "id, accommodation_id, name, type, location, price_per_night, payload, created_at, updated_at, deleted_at"

// PropertyRepository implements models.Repository[*models.CachedProperty] for property snapshots.
type PropertyRepository struct {
	db *sql.DB
}

// NewPropertyRepository creates a new PropertyRepository with the given database connection
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create inserts a new [models.CachedProperty] with a generated ID
func (r *PropertyRepository) Create(p *models.CachedProperty) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO cached_properties (id, accommodation_id, name, type, location, price_per_night, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		p.AccommodationID(),
		p.Name(),
		p.Type(),
		p.Location(),
		p.PricePerNight(),
		p.Payload(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	p.SetID(id)
	return nil
}

// Get retrieves a property by ID, excluding soft-deleted rows
func (r *PropertyRepository) Get(id string) (*models.CachedProperty, error) {
	query := "SELECT " + propertyColumns + " FROM cached_properties WHERE id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, id))
}

// GetByAccommodationID retrieves a property by its API id, excluding soft-deleted rows
func (r *PropertyRepository) GetByAccommodationID(accommodationID int64) (*models.CachedProperty, error) {
	query := "SELECT " + propertyColumns + " FROM cached_properties WHERE accommodation_id = ? AND deleted_at IS NULL"
	return r.scan(r.db.QueryRow(query, accommodationID))
}

// Update rewrites the snapshot of an existing property
func (r *PropertyRepository) Update(p *models.CachedProperty) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	p.SetUpdatedAt(now)

	query := `
		UPDATE cached_properties
		SET name = ?, type = ?, location = ?, price_per_night = ?, payload = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, p.Name(), p.Type(), p.Location(), p.PricePerNight(), p.Payload(), now, p.ID())
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	return expectRow(result, "property", p.ID())
}

// Restore revives a soft-deleted row for the same accommodation with a fresh snapshot.
func (r *PropertyRepository) Restore(p *models.CachedProperty) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		UPDATE cached_properties
		SET name = ?, type = ?, location = ?, price_per_night = ?, payload = ?, updated_at = ?, deleted_at = NULL
		WHERE accommodation_id = ? AND deleted_at IS NOT NULL
	`

	result, err := r.db.Exec(query, p.Name(), p.Type(), p.Location(), p.PricePerNight(), p.Payload(), now, p.AccommodationID())
	if err != nil {
		return fmt.Errorf("failed to restore property: %w", err)
	}

	return expectRow(result, "deleted property", fmt.Sprint(p.AccommodationID()))
}

// Delete soft-deletes a property by ID
func (r *PropertyRepository) Delete(id string) error {
	result, err := r.db.Exec(
		"UPDATE cached_properties SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	return expectRow(result, "property", id)
}

// List retrieves cached properties matching criteria, cheapest first.
//
// Supported criteria: "location" (string, exact), "type" (string), "max_price" (float64).
func (r *PropertyRepository) List(criteria map[string]any) ([]*models.CachedProperty, error) {
	query := "SELECT " + propertyColumns + " FROM cached_properties WHERE deleted_at IS NULL"
	args := []any{}

	if location, ok := criteria["location"].(string); ok && location != "" {
		query += " AND location = ?"
		args = append(args, location)
	}

	if kind, ok := criteria["type"].(string); ok && kind != "" {
		query += " AND type = ?"
		args = append(args, kind)
	}

	if maxPrice, ok := criteria["max_price"].(float64); ok && maxPrice > 0 {
		query += " AND price_per_night <= ?"
		args = append(args, maxPrice)
	}

	query += " ORDER BY price_per_night ASC, accommodation_id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.CachedProperty
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return properties, nil
}

func (r *PropertyRepository) scan(row rowScanner) (*models.CachedProperty, error) {
	var (
		id              string
		accommodationID int64
		name            string
		kind            string
		location        string
		price           float64
		payload         string
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := row.Scan(&id, &accommodationID, &name, &kind, &location, &price, &payload, &createdAt, &updatedAt, &deletedAt)
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: cached property", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestoreCachedProperty(id, accommodationID, name, kind, location, price, payload, createdAt, updatedAt, deleted), nil
}

func expectRow(result sql.Result, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s %s", shared.ErrNotFound, what, id)
	}
	return nil
}
