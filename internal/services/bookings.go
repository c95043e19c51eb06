package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// Book reserves propertyID for userID and returns the confirmation code.
func (c *Client) Book(ctx context.Context, propertyID, userID int64, req models.BookingRequest) (string, error) {
	env, err := c.envelope(ctx, request{
		method: http.MethodPost,
		path:   idPath("/bookings/book-room/%s/%s", propertyID, userID),
		body:   req,
		auth:   true,
	})
	if err != nil {
		return "", err
	}
	return env.BookingConfirmationCode, nil
}

// CancelBooking cancels a booking by id.
func (c *Client) CancelBooking(ctx context.Context, bookingID int64) error {
	_, err := c.envelope(ctx, request{method: http.MethodDelete, path: idPath("/bookings/cancel/%s", bookingID), auth: true})
	return err
}

// BookingByConfirmationCode looks a booking up without requiring a session.
func (c *Client) BookingByConfirmationCode(ctx context.Context, code string) (*models.Booking, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: confirmation code is required", shared.ErrValidation)
	}

	env, err := c.envelope(ctx, request{method: http.MethodGet, path: idPath("/bookings/get-by-confirmation-code/%s", code)})
	if err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, fmt.Errorf("%w: booking %s", shared.ErrNotFound, code)
	}
	return env.Booking, nil
}
