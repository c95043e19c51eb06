package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// AccommodationReviews lists reviews for a property.
func (c *Client) AccommodationReviews(ctx context.Context, accommodationID int64) ([]models.Review, error) {
	return c.reviewList(ctx, request{method: http.MethodGet, path: idPath("/reviews/accommodation/%s", accommodationID)})
}

// UserReviews lists reviews written by a user.
func (c *Client) UserReviews(ctx context.Context, userID int64) ([]models.Review, error) {
	return c.reviewList(ctx, request{method: http.MethodGet, path: idPath("/reviews/user/%s", userID), auth: true})
}

// ReviewSummary fetches the sentiment summary of a property's reviews.
//
// A 404 means the property has no reviews yet and yields an empty summary.
func (c *Client) ReviewSummary(ctx context.Context, accommodationID int64) (*models.ReviewSummary, error) {
	env, err := c.envelope(ctx, request{method: http.MethodGet, path: idPath("/reviews/summary/%s", accommodationID)})
	if errors.Is(err, shared.ErrNotFound) {
		return &models.ReviewSummary{AccommodationID: accommodationID}, nil
	}
	if err != nil {
		return nil, err
	}

	summary := models.ReviewSummary{AccommodationID: accommodationID}
	if err := env.DecodeData(&summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateReview posts a review for a property.
func (c *Client) CreateReview(ctx context.Context, accommodationID int64, in models.ReviewInput) (*models.Review, error) {
	return c.review(ctx, request{method: http.MethodPost, path: idPath("/reviews/accommodation/%s", accommodationID), body: in, auth: true})
}

// UpdateReview edits one of the current user's reviews.
func (c *Client) UpdateReview(ctx context.Context, reviewID int64, in models.ReviewInput) (*models.Review, error) {
	return c.review(ctx, request{method: http.MethodPut, path: idPath("/reviews/%s", reviewID), body: in, auth: true})
}

// DeleteReview deletes one of the current user's reviews.
func (c *Client) DeleteReview(ctx context.Context, reviewID int64) error {
	_, err := c.envelope(ctx, request{method: http.MethodDelete, path: idPath("/reviews/%s", reviewID), auth: true})
	return err
}

func (c *Client) review(ctx context.Context, r request) (*models.Review, error) {
	env, err := c.envelope(ctx, r)
	if err != nil {
		return nil, err
	}

	var review models.Review
	if err := env.DecodeData(&review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) reviewList(ctx context.Context, r request) ([]models.Review, error) {
	env, err := c.envelope(ctx, r)
	if err != nil {
		return nil, err
	}

	reviews := []models.Review{}
	if err := env.DecodeData(&reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
