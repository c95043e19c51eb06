package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// RecommendationLimit is how many listings are requested for the home groups.
const RecommendationLimit = 12

const groupSize = RecommendationLimit / 3

// Where a set of recommendations came from.
const (
	SourcePersonal    = "personal"
	SourcePreferences = "preferences"
	SourceAvailable   = "available"
)

// RecommendationAPI is the subset of the REST client the recommender calls.
type RecommendationAPI interface {
	Recommendations(ctx context.Context, limit int) ([]models.Accommodation, error)
	NewUserRecommendations(ctx context.Context, features models.UserPreferences, limit int) ([]models.Accommodation, error)
	AvailableProperties(ctx context.Context) ([]models.Accommodation, error)
}

// Authenticator reports whether a session exists.
type Authenticator interface {
	IsAuthenticated() bool
}

// PreferenceSource exposes stored onboarding answers in the API's vocabulary.
type PreferenceSource interface {
	HasStored() bool
	Features() models.UserPreferences
}

// Groups are the three recommendation rows shown to the user.
type Groups struct {
	Source   string
	ForYou   []models.Accommodation
	Similar  []models.Accommodation
	Trending []models.Accommodation
}

// Empty reports whether every group is empty.
func (g Groups) Empty() bool {
	return len(g.ForYou) == 0 && len(g.Similar) == 0 && len(g.Trending) == 0
}

// All returns the groups concatenated.
func (g Groups) All() []models.Accommodation {
	out := make([]models.Accommodation, 0, len(g.ForYou)+len(g.Similar)+len(g.Trending))
	out = append(out, g.ForYou...)
	out = append(out, g.Similar...)
	return append(out, g.Trending...)
}

// Recommender chooses the best available recommendation source.
type Recommender struct {
	api    RecommendationAPI
	auth   Authenticator
	prefs  PreferenceSource
	logger *log.Logger
}

// NewRecommender creates a [Recommender].
func NewRecommender(api RecommendationAPI, auth Authenticator, prefs PreferenceSource, logger *log.Logger) *Recommender {
	if logger == nil {
		logger = log.Default()
	}
	return &Recommender{
		api:    api,
		auth:   auth,
		prefs:  prefs,
		logger: shared.WithLogger(logger, "component", "recommendations"),
	}
}

// Groups loads up to [RecommendationLimit] listings and splits them four per group.
//
// Logged-in users get personalized picks, anonymous users with saved preferences get
// preference-scored picks, everyone else gets available properties. Failures yield empty groups.
func (r *Recommender) Groups(ctx context.Context) Groups {
	var (
		source string
		list   []models.Accommodation
		err    error
	)

	switch {
	case r.auth.IsAuthenticated():
		source = SourcePersonal
		list, err = r.api.Recommendations(ctx, RecommendationLimit)
	case r.prefs != nil && r.prefs.HasStored():
		source = SourcePreferences
		list, err = r.api.NewUserRecommendations(ctx, r.prefs.Features(), RecommendationLimit)
	default:
		source = SourceAvailable
		list, err = r.api.AvailableProperties(ctx)
	}

	if err != nil {
		r.logger.Error("failed to load recommendations", "source", source, "error", err)
		return Groups{Source: source}
	}
	return split(source, list)
}

func split(source string, list []models.Accommodation) Groups {
	if len(list) > RecommendationLimit {
		list = list[:RecommendationLimit]
	}
	g := Groups{Source: source}
	g.ForYou = window(list, 0)
	g.Similar = window(list, groupSize)
	g.Trending = window(list, 2*groupSize)
	return g
}

func window(list []models.Accommodation, from int) []models.Accommodation {
	if from >= len(list) {
		return nil
	}
	to := min(from+groupSize, len(list))
	return list[from:to]
}
