package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// Profile resolves the logged-in user.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: "/users/get-logged-in-profile-info", auth: true})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: profile response has no user", shared.ErrAPIRequest)
	}
	return env.User, nil
}

// User fetches a user by id.
func (c *Client) User(ctx context.Context, userID int64) (*models.User, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: idPath("/users/get-by-id/%s", userID), auth: true})
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: user %d", shared.ErrNotFound, userID)
	}
	return env.User, nil
}

// UserBookings lists a user's booking history.
func (c *Client) UserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: idPath("/users/get-user-bookings/%s", userID), auth: true})
	if err != nil {
		return nil, err
	}
	if env.User != nil && len(env.User.Bookings) > 0 {
		return env.User.Bookings, nil
	}
	return env.BookingList, nil
}
