package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// GetWishlist returns the current user's saved properties in server order.
func (c *Client) GetWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: "/wishlist", auth: true})
	if err != nil {
		return nil, err
	}

	items := []models.WishlistItem{}
	if err := env.DecodeData(&items); err != nil {
		return nil, fmt.Errorf("%w: malformed wishlist: %v", shared.ErrAPIRequest, err)
	}
	return items, nil
}

// AddToWishlist saves a property. The API answers 201 with the created item,
// which is nil when the response omits it.
func (c *Client) AddToWishlist(ctx context.Context, accommodationID int64) (*models.WishlistItem, error) {
	env, err := c.envelope(ctx, request{
		method: http.MethodPost,
		path:   idPath("/wishlist/accommodation/%s", accommodationID),
		body:   struct{}{},
		auth:   true,
	})
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}

	var item models.WishlistItem
	if err := env.DecodeData(&item); err != nil {
		return nil, fmt.Errorf("%w: malformed wishlist item: %v", shared.ErrAPIRequest, err)
	}
	if item.AccommodationID() == 0 {
		return nil, nil
	}
	return &item, nil
}

// RemoveFromWishlist deletes a saved property.
func (c *Client) RemoveFromWishlist(ctx context.Context, accommodationID int64) error {
	_, err := c.envelope(ctx, request{method: http.MethodDelete, path: idPath("/wishlist/accommodation/%s", accommodationID), auth: true})
	return err
}
