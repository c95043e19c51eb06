package tasks

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
)

// PropertyAPI fetches a single property by id.
type PropertyAPI interface {
	Property(ctx context.Context, id int64) (*models.Accommodation, error)
}

// PropertyCacher persists fetched properties for offline listing.
type PropertyCacher interface {
	CacheProperty(acc models.Accommodation) error
}

// Engine runs bulk property operations.
type Engine struct {
	api    PropertyAPI
	cacher PropertyCacher
	logger *log.Logger
}

// NewEngine creates an [Engine]. cacher may be nil.
func NewEngine(api PropertyAPI, cacher PropertyCacher, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		api:    api,
		cacher: cacher,
		logger: shared.WithLogger(logger, "component", "tasks"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) cache(acc models.Accommodation) {
	if e.cacher == nil {
		return
	}
	if err := e.cacher.CacheProperty(acc); err != nil {
		e.logger.Warn("failed to cache property", "accommodation_id", acc.AccommodationID, "error", err)
	}
}
