package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// SearchParams filters the location search. Dates use yyyy-MM-dd.
type SearchParams struct {
	Location string
	CheckIn  string
	CheckOut string
	Types    []string
}

// Recommendations returns personalized picks for the logged-in user.
func (c *Client) Recommendations(ctx context.Context, limit int) ([]models.Accommodation, error) {
	return c.accommodationList(ctx, request{
		method: http.MethodGet,
		path:   "/recommendations",
		query:  limitQuery(limit),
		auth:   true,
	})
}

// NewUserRecommendations scores properties against onboarding answers without a session.
// Callers are expected to pass features already mapped to the API vocabulary.
func (c *Client) NewUserRecommendations(ctx context.Context, features models.UserPreferences, limit int) ([]models.Accommodation, error) {
	body := struct {
		UserFeatures models.UserPreferences `json:"user_features"`
	}{UserFeatures: features}

	return c.accommodationList(ctx, request{
		method: http.MethodPost,
		path:   "/recommendations/new",
		query:  limitQuery(limit),
		body:   body,
	})
}

// Search finds properties by location, optionally narrowed by dates and types.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]models.Accommodation, error) {
	if p.Location == "" {
		return nil, fmt.Errorf("%w: search location is required", shared.ErrValidation)
	}

	q := url.Values{}
	q.Set("searchLocation", p.Location)
	if p.CheckIn != "" {
		q.Set("checkInDate", p.CheckIn)
	}
	if p.CheckOut != "" {
		q.Set("checkOutDate", p.CheckOut)
	}
	for _, t := range p.Types {
		q.Add("types", t)
	}

	return c.accommodationList(ctx, request{method: http.MethodGet, path: "/recommendations/search", query: q, auth: true})
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		limit = 10
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
