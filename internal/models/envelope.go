package models

import (
	"bytes"
	"encoding/json"
)

// Envelope is the response wrapper returned by every booking API endpoint.
//
// Data is kept raw because its shape differs per endpoint: a user id after login,
// a wishlist array, a review summary map, and so on.
type Envelope struct {
	StatusCode              int             `json:"statusCode"`
	Message                 string          `json:"message,omitempty"`
	Data                    json.RawMessage `json:"data,omitempty"`
	Token                   string          `json:"token,omitempty"`
	Role                    string          `json:"role,omitempty"`
	ExpirationTime          string          `json:"expirationTime,omitempty"`
	BookingConfirmationCode string          `json:"bookingConfirmationCode,omitempty"`
	User                    *User           `json:"user,omitempty"`
	Accommodation           *Accommodation  `json:"accommodation,omitempty"`
	Booking                 *Booking        `json:"booking,omitempty"`
	UserList                []User          `json:"userList,omitempty"`
	AccommodationList       []Accommodation `json:"accommodationList,omitempty"`
	BookingList             []Booking       `json:"bookingList,omitempty"`
}

// HasData reports whether the envelope carries a non-null data field.
func (e *Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// DecodeData unmarshals the data field into v. A missing or null field leaves v untouched.
func (e *Envelope) DecodeData(v any) error {
	if !e.HasData() {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
