package models

import "time"

// Booking statuses reported by the API.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking is a reservation of an accommodation.
type Booking struct {
	ID                      int64          `json:"id"`
	CheckInDate             DateArray      `json:"checkInDate"`
	CheckOutDate            DateArray      `json:"checkOutDate"`
	NumOfAdults             int            `json:"numOfAdults"`
	NumOfChildren           int            `json:"numOfChildren"`
	TotalOfGuest            int            `json:"totalOfGuest"`
	TotalPrice              float64        `json:"totalPrice,omitempty"`
	Status                  string         `json:"status,omitempty"`
	BookingConfirmationCode string         `json:"bookingConfirmationCode,omitempty"`
	Accommodation           *Accommodation `json:"accommodation,omitempty"`
	User                    *User          `json:"user,omitempty"`
}

// Nights returns the number of nights covered by the booking.
func (b Booking) Nights() int {
	return NightsBetween(b.CheckInDate.Time, b.CheckOutDate.Time)
}

// BookingRequest is the body sent to book a property. Dates use yyyy-MM-dd.
type BookingRequest struct {
	CheckInDate   string  `json:"checkInDate" validate:"required,datetime=2006-01-02"`
	CheckOutDate  string  `json:"checkOutDate" validate:"required,datetime=2006-01-02"`
	NumOfAdults   int     `json:"numOfAdults" validate:"min=1"`
	NumOfChildren int     `json:"numOfChildren" validate:"min=0"`
	TotalOfGuest  int     `json:"totalOfGuest" validate:"min=1"`
	TotalPrice    float64 `json:"totalPrice" validate:"gte=0"`
}

// PendingBooking is a booking form saved to session storage before an
// unauthenticated user is sent to log in, so it can be replayed afterwards.
type PendingBooking struct {
	RequestID  string    `json:"requestId,omitempty"`
	PropertyID int64     `json:"propertyId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
}

// NightsBetween counts calendar nights between two dates, ignoring time of day.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}
