package models

import (
	"strings"
)

// Property types accepted by the booking API.
const (
	PropertyTypeHotel     = "HOTEL"
	PropertyTypeApartment = "APARTMENT"
	PropertyTypeHostel    = "HOSTEL"
	PropertyTypeResort    = "RESORT"
	PropertyTypeVilla     = "VILLA"
	PropertyTypeHomestay  = "HOMESTAY"
)

// PropertyTypes lists the known property types in display order.
var PropertyTypes = []string{
	PropertyTypeHotel,
	PropertyTypeApartment,
	PropertyTypeHostel,
	PropertyTypeResort,
	PropertyTypeVilla,
	PropertyTypeHomestay,
}

// Accommodation is a bookable property owned by a host.
type Accommodation struct {
	AccommodationID         int64     `json:"accommodationId"`
	OwnerID                 int64     `json:"ownerId,omitempty"`
	Name                    string    `json:"name"`
	Description             string    `json:"description,omitempty"`
	Type                    string    `json:"type,omitempty"`
	PricePerNight           float64   `json:"pricePerNight"`
	Availability            bool      `json:"availability"`
	Location                string    `json:"location,omitempty"`
	ReviewSummary           string    `json:"reviewSummary,omitempty"`
	AverageRating           float64   `json:"averageRating,omitempty"`
	Latitude                float64   `json:"latitude,omitempty"`
	Longitude               float64   `json:"longitude,omitempty"`
	Amenities               string    `json:"amenities,omitempty"`
	Reviews                 []Review  `json:"reviews,omitempty"`
	CreatedAt               DateArray `json:"createdAt"`
	UpdatedAt               DateArray `json:"updatedAt"`
	BookingConfirmationCode string    `json:"bookingConfirmationCode,omitempty"`
	Bookings                []Booking `json:"bookings,omitempty"`
	PhotoURL                string    `json:"photoUrl,omitempty"`
}

// AmenityList splits the comma separated amenities column, dropping blanks.
func (a Accommodation) AmenityList() []string {
	if a.Amenities == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(a.Amenities, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HasCoordinates reports whether the property can be placed on a map.
func (a Accommodation) HasCoordinates() bool {
	return a.Latitude != 0 || a.Longitude != 0
}

// NewProperty is the multipart form a host submits to list a property.
type NewProperty struct {
	Name          string   `validate:"required"`
	Description   string   `validate:"required"`
	Type          string   `validate:"required,oneof=HOTEL APARTMENT HOSTEL RESORT VILLA HOMESTAY"`
	PricePerNight float64  `validate:"gt=0"`
	Location      string   `validate:"required"`
	Latitude      float64  `validate:"latitude"`
	Longitude     float64  `validate:"longitude"`
	Amenities     []string `validate:"dive,required"`
	PhotoPath     string
}
