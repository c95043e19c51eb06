package models

// Review is a guest review of an accommodation.
type Review struct {
	ReviewID        int64     `json:"reviewId"`
	UserID          int64     `json:"userId"`
	Username        string    `json:"username,omitempty"`
	AccommodationID int64     `json:"accommodationId"`
	Rating          float64   `json:"rating"`
	Comment         string    `json:"comment"`
	CreatedAt       DateArray `json:"createdAt"`
	UpdatedAt       DateArray `json:"updatedAt"`
}

// ReviewInput is the body for creating or updating a review.
type ReviewInput struct {
	Rating  float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment string  `json:"comment" validate:"required,max=2000"`
}

// ReviewSummary aggregates the sentiment of an accommodation's reviews.
//
// A property without reviews yields the zero value rather than an error.
type ReviewSummary struct {
	AccommodationID    int64   `json:"accommodation_id"`
	TotalReviews       int     `json:"total_reviews"`
	PositivePercentage float64 `json:"positive_percentage"`
	NegativePercentage float64 `json:"negative_percentage"`
	PositiveSummary    string  `json:"positive_summary"`
	NegativeSummary    string  `json:"negative_summary"`
}

// Empty reports whether the summary carries no reviews.
func (s ReviewSummary) Empty() bool {
	return s.TotalReviews == 0
}
