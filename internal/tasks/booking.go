package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/shopspring/decimal"
)

// MaxGuests is the largest party a single booking accepts.
const MaxGuests = 16

// ServiceFeeRate is charged on top of the nightly subtotal.
var ServiceFeeRate = decimal.RequireFromString("0.12")

// Quote is the price breakdown for a stay.
type Quote struct {
	Nights      int
	NightlyRate decimal.Decimal
	Subtotal    decimal.Decimal
	ServiceFee  decimal.Decimal
	Total       decimal.Decimal
}

// NewQuote prices a stay. Dates are compared by calendar day.
func NewQuote(nightlyRate float64, checkIn, checkOut time.Time) Quote {
	nights := models.NightsBetween(checkIn, checkOut)
	rate := decimal.NewFromFloat(nightlyRate)
	subtotal := rate.Mul(decimal.NewFromInt(int64(nights)))
	fee := subtotal.Mul(ServiceFeeRate).Round(2)

	return Quote{
		Nights:      nights,
		NightlyRate: rate,
		Subtotal:    subtotal,
		ServiceFee:  fee,
		Total:       subtotal.Add(fee),
	}
}

// BookingAPI is the subset of the REST client a booking needs.
type BookingAPI interface {
	Property(ctx context.Context, id int64) (*models.Accommodation, error)
	Profile(ctx context.Context) (*models.User, error)
	Book(ctx context.Context, propertyID, userID int64, req models.BookingRequest) (string, error)
}

// PendingStore keeps a booking across a login.
type PendingStore interface {
	IsAuthenticated() bool
	SavePendingBooking(p models.PendingBooking) (*models.PendingBooking, error)
	PendingBooking() (*models.PendingBooking, bool)
	TakePendingBooking() (*models.PendingBooking, bool)
}

// BookingInput is a stay the user wants to book.
type BookingInput struct {
	PropertyID  int64
	NightlyRate float64
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
}

// Confirmation is a successful booking.
type Confirmation struct {
	PropertyID int64
	Code       string
	Quote      Quote
}

// LoginRequiredError is returned when a booking was parked until the user logs in.
type LoginRequiredError struct {
	Redirect string
	Pending  *models.PendingBooking
}

func (e *LoginRequiredError) Error() string {
	return fmt.Sprintf("log in to finish this booking (%s)", e.Redirect)
}

func (e *LoginRequiredError) Unwrap() error { return shared.ErrAuthRequired }

// LoginRedirect is the login path that returns to the property page.
func LoginRedirect(propertyID int64) string {
	q := url.Values{}
	q.Set("redirect", fmt.Sprintf("/property/%d", propertyID))
	return "/auth/login?" + q.Encode()
}

// BookingFlow books stays for the current session.
type BookingFlow struct {
	api     BookingAPI
	session PendingStore
	logger  *log.Logger
}

// NewBookingFlow creates a [BookingFlow].
func NewBookingFlow(api BookingAPI, session PendingStore, logger *log.Logger) *BookingFlow {
	if logger == nil {
		logger = log.Default()
	}
	return &BookingFlow{
		api:     api,
		session: session,
		logger:  shared.WithLogger(logger, "component", "booking"),
	}
}

// Quote validates in and prices it without booking.
func (f *BookingFlow) Quote(in BookingInput) (Quote, error) {
	if err := validateInput(in); err != nil {
		return Quote{}, err
	}
	return NewQuote(in.NightlyRate, in.CheckIn, in.CheckOut), nil
}

func validateInput(in BookingInput) error {
	switch {
	case in.PropertyID <= 0:
		return fmt.Errorf("%w: property id is required", shared.ErrValidation)
	case in.CheckIn.IsZero() || in.CheckOut.IsZero():
		return fmt.Errorf("%w: select check-in and check-out dates", shared.ErrValidation)
	case models.NightsBetween(in.CheckIn, in.CheckOut) < 1:
		return fmt.Errorf("%w: check-out must be after check-in", shared.ErrValidation)
	case in.Guests < 1 || in.Guests > MaxGuests:
		return fmt.Errorf("%w: guests must be between 1 and %d", shared.ErrValidation, MaxGuests)
	case in.NightlyRate < 0:
		return fmt.Errorf("%w: nightly rate cannot be negative", shared.ErrValidation)
	}
	return nil
}

// Book reserves the stay for the logged-in user.
//
// Without a session the request is saved to session storage and a [*LoginRequiredError]
// carrying the login redirect is returned.
func (f *BookingFlow) Book(ctx context.Context, in BookingInput) (*Confirmation, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	if !f.session.IsAuthenticated() {
		loginErr := &LoginRequiredError{Redirect: LoginRedirect(in.PropertyID)}
		pending, err := f.session.SavePendingBooking(models.PendingBooking{
			PropertyID: in.PropertyID,
			CheckIn:    in.CheckIn.UTC(),
			CheckOut:   in.CheckOut.UTC(),
			Guests:     in.Guests,
		})
		if err != nil {
			f.logger.Warn("failed to save pending booking", "error", err)
		} else {
			loginErr.Pending = pending
		}
		return nil, loginErr
	}

	profile, err := f.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	quote := NewQuote(in.NightlyRate, in.CheckIn, in.CheckOut)
	req := models.BookingRequest{
		CheckInDate:   in.CheckIn.Format(time.DateOnly),
		CheckOutDate:  in.CheckOut.Format(time.DateOnly),
		NumOfAdults:   in.Guests,
		NumOfChildren: 0,
		TotalOfGuest:  in.Guests,
		TotalPrice:    quote.Total.InexactFloat64(),
	}
	if err := shared.Validate(req); err != nil {
		return nil, err
	}

	code, err := f.api.Book(ctx, in.PropertyID, profile.UserID, req)
	if err != nil {
		return nil, fmt.Errorf("booking failed: %w", err)
	}

	f.logger.Info("booked property", "accommodation_id", in.PropertyID, "nights", quote.Nights)
	return &Confirmation{PropertyID: in.PropertyID, Code: code, Quote: quote}, nil
}

// ResumePending books the stay parked before login.
//
// It reports false when there is no session or nothing pending. The pending request is
// dropped once booked or once it can no longer be booked; a network failure keeps it for
// another attempt.
func (f *BookingFlow) ResumePending(ctx context.Context) (*Confirmation, bool, error) {
	if !f.session.IsAuthenticated() {
		return nil, false, nil
	}

	pending, ok := f.session.PendingBooking()
	if !ok {
		return nil, false, nil
	}

	property, err := f.api.Property(ctx, pending.PropertyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			f.session.TakePendingBooking()
		}
		return nil, true, fmt.Errorf("failed to load property %d: %w", pending.PropertyID, err)
	}

	conf, err := f.Book(ctx, BookingInput{
		PropertyID:  pending.PropertyID,
		NightlyRate: property.PricePerNight,
		CheckIn:     pending.CheckIn,
		CheckOut:    pending.CheckOut,
		Guests:      pending.Guests,
	})
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			f.session.TakePendingBooking()
		}
		return nil, true, err
	}

	f.session.TakePendingBooking()
	return conf, true, nil
}
