package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CachedProperty is a locally persisted snapshot of an [Accommodation].
//
// The full API payload is stored as JSON so cached rows can be rendered without a network call.
type CachedProperty struct {
	id              string
	accommodationID int64
	name            string
	propertyType    string
	location        string
	pricePerNight   float64
	payload         string
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewCachedProperty snapshots acc. The ID is assigned by the repository on create.
func NewCachedProperty(acc Accommodation) (*CachedProperty, error) {
	payload, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode accommodation %d: %w", acc.AccommodationID, err)
	}

	now := time.Now()
	return &CachedProperty{
		accommodationID: acc.AccommodationID,
		name:            acc.Name,
		propertyType:    acc.Type,
		location:        acc.Location,
		pricePerNight:   acc.PricePerNight,
		payload:         string(payload),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// RestoreCachedProperty rebuilds a row read from the database.
func RestoreCachedProperty(id string, accommodationID int64, name, propertyType, location string, price float64, payload string, createdAt, updatedAt time.Time, deletedAt *time.Time) *CachedProperty {
	return &CachedProperty{
		id:              id,
		accommodationID: accommodationID,
		name:            name,
		propertyType:    propertyType,
		location:        location,
		pricePerNight:   price,
		payload:         payload,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		deletedAt:       deletedAt,
	}
}

func (p *CachedProperty) ID() string               { return p.id }
func (p *CachedProperty) SetID(id string)          { p.id = id }
func (p *CachedProperty) AccommodationID() int64   { return p.accommodationID }
func (p *CachedProperty) Name() string             { return p.name }
func (p *CachedProperty) Type() string             { return p.propertyType }
func (p *CachedProperty) Location() string         { return p.location }
func (p *CachedProperty) PricePerNight() float64   { return p.pricePerNight }
func (p *CachedProperty) Payload() string          { return p.payload }
func (p *CachedProperty) CreatedAt() time.Time     { return p.createdAt }
func (p *CachedProperty) UpdatedAt() time.Time     { return p.updatedAt }
func (p *CachedProperty) SetUpdatedAt(t time.Time) { p.updatedAt = t }
func (p *CachedProperty) DeletedAt() *time.Time    { return p.deletedAt }
func (p *CachedProperty) IsDeleted() bool          { return p.deletedAt != nil }

// Refresh replaces the snapshot with acc, keeping identity and creation time.
func (p *CachedProperty) Refresh(acc Accommodation) error {
	if acc.AccommodationID != p.accommodationID {
		return fmt.Errorf("accommodation id mismatch: %d != %d", acc.AccommodationID, p.accommodationID)
	}
	payload, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("failed to encode accommodation %d: %w", acc.AccommodationID, err)
	}

	p.name = acc.Name
	p.propertyType = acc.Type
	p.location = acc.Location
	p.pricePerNight = acc.PricePerNight
	p.payload = string(payload)
	return nil
}

// Accommodation decodes the stored payload.
func (p *CachedProperty) Accommodation() (Accommodation, error) {
	var acc Accommodation
	if err := json.Unmarshal([]byte(p.payload), &acc); err != nil {
		return acc, fmt.Errorf("corrupt cached payload for %d: %w", p.accommodationID, err)
	}
	return acc, nil
}

// Validate implements [Model].
func (p *CachedProperty) Validate() error {
	if p.accommodationID <= 0 {
		return fmt.Errorf("accommodation id is required")
	}
	if p.name == "" {
		return fmt.Errorf("name is required")
	}
	if p.payload == "" {
		return fmt.Errorf("payload is required")
	}
	return nil
}
