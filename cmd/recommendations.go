package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// RecommendationsForYou prints the three recommendation rows for the current user.
func (r *Runner) RecommendationsForYou(ctx context.Context, cmd *cli.Command) error {
	groups := r.recommender.Groups(ctx)

	if cmd.Bool("json") {
		return r.writeJSON(groups, cmd.Bool("pretty"))
	}

	if groups.Empty() {
		return r.writePlain("No recommendations right now.\n")
	}

	r.loadWishlistQuietly(ctx)
	switch groups.Source {
	case tasks.SourcePersonal:
		r.writePlain("Picked for you based on your activity\n")
	case tasks.SourcePreferences:
		r.writePlain("Picked from your travel preferences\n")
	default:
		r.writePlain("Available now\n")
	}

	for _, row := range []struct {
		title string
		list  []models.Accommodation
	}{
		{"For You", groups.ForYou},
		{"Similar Stays", groups.Similar},
		{"Trending", groups.Trending},
	} {
		if len(row.list) == 0 {
			continue
		}
		r.writePlainln("%s", row.title)
		r.writeProperties(row.list)
	}
	return nil
}

// RecommendationsNew scores properties against the stored onboarding answers.
func (r *Runner) RecommendationsNew(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.API.RecommendationLimit
	}

	list, err := r.client.NewUserRecommendations(ctx, r.prefs.Features(), limit)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(list, cmd.Bool("pretty"))
	}
	r.writeProperties(list)
	return nil
}

func recommendationsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommendations",
		Aliases: []string{"recs"},
		Usage:   "Property recommendations",
		Commands: []*cli.Command{
			{
				Name:   "for-you",
				Usage:  "Recommendations for the current session",
				Flags:  jsonFlags(),
				Action: r.RecommendationsForYou,
			},
			{
				Name:  "new",
				Usage: "Recommendations from onboarding preferences",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum results"},
				}, jsonFlags()...),
				Action: r.RecommendationsNew,
			},
		},
	}
}
