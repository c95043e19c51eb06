package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/urfave/cli/v3"
)

// ReviewsList lists an accommodation's reviews.
func (r *Runner) ReviewsList(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "accommodation-id")
	if err != nil {
		return err
	}

	reviews, err := r.client.AccommodationReviews(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}
	r.writeReviews(reviews)
	return nil
}

// ReviewsSummary prints the sentiment summary of an accommodation's reviews.
func (r *Runner) ReviewsSummary(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "accommodation-id")
	if err != nil {
		return err
	}

	summary, err := r.client.ReviewSummary(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch review summary: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, cmd.Bool("pretty"))
	}
	r.writeReviewSummary(summary)
	return nil
}

// ReviewsMine lists the logged-in user's reviews.
func (r *Runner) ReviewsMine(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	data, _ := r.session.AuthData()

	reviews, err := r.client.UserReviews(ctx, data.UserID)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, cmd.Bool("pretty"))
	}
	r.writeReviews(reviews)
	return nil
}

func reviewInput(cmd *cli.Command) (models.ReviewInput, error) {
	in := models.ReviewInput{
		Rating:  cmd.Float("rating"),
		Comment: strings.TrimSpace(cmd.String("comment")),
	}
	return in, shared.Validate(in)
}

// ReviewsCreate reviews an accommodation.
func (r *Runner) ReviewsCreate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "accommodation-id")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}
	in, err := reviewInput(cmd)
	if err != nil {
		return err
	}

	review, err := r.client.CreateReview(ctx, id, in)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	r.logger.Info("created review", "accommodation_id", id)
	if review == nil {
		return r.writePlain("✓ Review posted\n")
	}
	return r.writePlain("✓ Review #%d posted\n", review.ReviewID)
}

// ReviewsUpdate edits one of the user's reviews.
func (r *Runner) ReviewsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "review-id")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}
	in, err := reviewInput(cmd)
	if err != nil {
		return err
	}

	if _, err := r.client.UpdateReview(ctx, id, in); err != nil {
		return fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return r.writePlain("✓ Review #%d updated\n", id)
}

// ReviewsDelete deletes one of the user's reviews after confirmation.
func (r *Runner) ReviewsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "review-id")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	ok, err := r.confirm(cmd.Bool("yes"), "Delete review #%d?", id)
	if err != nil || !ok {
		return err
	}

	if err := r.client.DeleteReview(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	return r.writePlain("✓ Review #%d deleted\n", id)
}

func (r *Runner) writeReviews(reviews []models.Review) {
	if len(reviews) == 0 {
		r.writePlain("No reviews yet.\n")
		return
	}
	for _, rv := range reviews {
		author := rv.Username
		if author == "" {
			author = fmt.Sprintf("user %d", rv.UserID)
		}
		r.writePlain("#%d %s %s (%s, property %d)\n", rv.ReviewID, stars(rv.Rating), author,
			rv.CreatedAt.Time.Format(time.DateOnly), rv.AccommodationID)
		r.writePlain("   %s\n", rv.Comment)
	}
}

func (r *Runner) writeReviewSummary(s *models.ReviewSummary) {
	if s == nil || s.Empty() {
		r.writePlain("\nNo reviews yet.\n")
		return
	}
	r.writePlainln("Reviews: %d (%.0f%% positive, %.0f%% negative)", s.TotalReviews, s.PositivePercentage, s.NegativePercentage)
	if s.PositiveSummary != "" {
		r.writePlain("  + %s\n", s.PositiveSummary)
	}
	if s.NegativeSummary != "" {
		r.writePlain("  - %s\n", s.NegativeSummary)
	}
}

func stars(rating float64) string {
	n := int(rating + 0.5)
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func reviewsCommand(r *Runner) *cli.Command {
	inputFlags := []cli.Flag{
		&cli.FloatFlag{Name: "rating", Aliases: []string{"r"}, Usage: "Rating from 1 to 5", Required: true},
		&cli.StringFlag{Name: "comment", Aliases: []string{"m"}, Usage: "Review text", Required: true},
	}

	return &cli.Command{
		Name:  "reviews",
		Usage: "Read and write reviews",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List reviews of a property",
				Arguments: []cli.Argument{&cli.StringArg{Name: "accommodation-id"}},
				Flags:     jsonFlags(),
				Action:    r.ReviewsList,
			},
			{
				Name:      "summary",
				Usage:     "Summarize reviews of a property",
				Arguments: []cli.Argument{&cli.StringArg{Name: "accommodation-id"}},
				Flags:     jsonFlags(),
				Action:    r.ReviewsSummary,
			},
			{
				Name:   "mine",
				Usage:  "List your reviews",
				Flags:  jsonFlags(),
				Action: r.ReviewsMine,
			},
			{
				Name:      "create",
				Usage:     "Review a property",
				Arguments: []cli.Argument{&cli.StringArg{Name: "accommodation-id"}},
				Flags:     inputFlags,
				Action:    r.ReviewsCreate,
			},
			{
				Name:      "update",
				Usage:     "Edit a review",
				Arguments: []cli.Argument{&cli.StringArg{Name: "review-id"}},
				Flags:     inputFlags,
				Action:    r.ReviewsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a review",
				Arguments: []cli.Argument{&cli.StringArg{Name: "review-id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.ReviewsDelete,
			},
		},
	}
}
