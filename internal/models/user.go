package models

// Account roles issued by the booking API.
const (
	RoleAdmin    = "ADMIN"
	RoleOwner    = "OWNER"
	RoleTraveler = "TRAVELER"
)

// User is an account as returned by the users endpoints.
type User struct {
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   DateArray `json:"createdAt"`
	UpdatedAt   DateArray `json:"updatedAt"`
	Bookings    []Booking `json:"bookings,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up request body.
type Registration struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=OWNER TRAVELER"`
}
