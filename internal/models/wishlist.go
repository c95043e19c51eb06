package models

// WishlistItem is a saved association between the current user and an accommodation.
//
// ID is nil until the backend assigns one.
type WishlistItem struct {
	ID            *int64        `json:"id"`
	Accommodation Accommodation `json:"accommodation"`
	CreatedAt     DateArray     `json:"createdAt"`
	UpdatedAt     DateArray     `json:"updatedAt"`
}

// AccommodationID returns the id of the saved property.
func (w WishlistItem) AccommodationID() int64 {
	return w.Accommodation.AccommodationID
}
