package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// BulkFetchOpts tunes [Engine.FetchProperties].
type BulkFetchOpts struct {
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

func (o BulkFetchOpts) normalize() BulkFetchOpts {
	if o.NumWorkers <= 0 {
		o.NumWorkers = defaultWorkers
	}
	if o.NumWorkers > maxWorkers {
		o.NumWorkers = maxWorkers
	}
	if o.RateLimit <= 0 {
		o.RateLimit = defaultRateLimit
	}
	return o
}

// PropertyFetchResult is the outcome for one requested id.
type PropertyFetchResult struct {
	AccommodationID int64
	Property        *models.Accommodation
	Error           error
}

// BulkFetchResult holds every outcome in request order.
type BulkFetchResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []PropertyFetchResult
}

// Properties returns the successfully fetched properties in request order.
func (r *BulkFetchResult) Properties() []models.Accommodation {
	out := make([]models.Accommodation, 0, r.Succeeded)
	for _, res := range r.Results {
		if res.Error == nil && res.Property != nil {
			out = append(out, *res.Property)
		}
	}
	return out
}

type fetchJob struct {
	index int
	id    int64
}

type fetchOutcome struct {
	index  int
	result PropertyFetchResult
}

// FetchProperties loads ids concurrently with rate limiting and progress tracking.
//
// Individual failures are recorded in the result. Cancelling ctx stops dispatching; ids never
// attempted are reported as cancelled and the returned error wraps [shared.ErrCancelled].
func (e *Engine) FetchProperties(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int64,
	opts BulkFetchOpts,
) (*BulkFetchResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: property API not initialized", shared.ErrServiceUnavailable)
	}
	opts = opts.normalize()

	result := &BulkFetchResult{
		Total:   len(ids),
		Results: make([]PropertyFetchResult, len(ids)),
	}
	if len(ids) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan fetchJob, len(ids))
	outcomes := make(chan fetchOutcome, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.fetchWorker(ctx, &wg, jobs, outcomes)
	}

	go func() {
		defer close(jobs)
		e.sendProgress(prog, fetchingPropertiesUpdate(len(ids)))
		for i, id := range ids {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- fetchJob{index: i, id: id}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	done := make([]bool, len(ids))
	completed := 0
	for out := range outcomes {
		completed++
		done[out.index] = true
		result.Results[out.index] = out.result

		if out.result.Error == nil {
			result.Succeeded++
		} else {
			result.Failed++
		}
		e.sendProgress(prog, fetchedPropertyUpdate(completed, len(ids), out.result))
	}

	if completed == len(ids) {
		return result, nil
	}

	for i, id := range ids {
		if done[i] {
			continue
		}
		result.Results[i] = PropertyFetchResult{AccommodationID: id, Error: shared.ErrCancelled}
		result.Failed++
	}
	return result, fmt.Errorf("%w: fetched %d of %d properties", shared.ErrCancelled, completed, len(ids))
}

func (e *Engine) fetchWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan fetchJob,
	outcomes chan<- fetchOutcome,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := PropertyFetchResult{AccommodationID: job.id}
		acc, err := e.api.Property(ctx, job.id)
		switch {
		case err != nil:
			res.Error = err
		case acc == nil:
			res.Error = fmt.Errorf("%w: property %d", shared.ErrNotFound, job.id)
		default:
			res.Property = acc
			e.cache(*acc)
		}
		outcomes <- fetchOutcome{index: job.index, result: res}
	}
}

// ExportOpts configures [Engine.Export].
type ExportOpts struct {
	BulkFetchOpts
	Title     string // Document title (default: "Properties")
	Format    string // csv, markdown, txt or json (default: json)
	OutputDir string // Output directory (default: staybook_export_{epoch})
	Name      string // Base file name (default: properties)
}

// ExportResult describes the files an export produced.
type ExportResult struct {
	Fetch        *BulkFetchResult
	Files        []string
	ManifestPath string
}

// Export fetches ids and writes them in opts.Format alongside an export_manifest.json.
// Nothing is written when no property could be fetched.
func (e *Engine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int64,
	opts ExportOpts,
) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("staybook_export_%d", time.Now().Unix())
	}
	if opts.Name == "" {
		opts.Name = "properties"
	}
	if opts.Title == "" {
		opts.Title = "Properties"
	}
	if opts.Format == "" {
		opts.Format = "json"
	}

	fetched, err := e.FetchProperties(ctx, prog, ids, opts.BulkFetchOpts)
	if err != nil {
		return &ExportResult{Fetch: fetched}, err
	}
	result := &ExportResult{Fetch: fetched}

	properties := fetched.Properties()
	if len(properties) == 0 {
		return result, fmt.Errorf("%w: no properties to export", shared.ErrNotFound)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.sendProgress(prog, writingExportUpdate(opts.Format, len(properties)))
	export := &formatter.PropertyExport{
		Title:      opts.Title,
		ExportedAt: time.Now().UTC(),
		Properties: properties,
	}
	files, err := formatter.Write(export, opts.Format, filepath.Join(opts.OutputDir, opts.Name))
	if err != nil {
		return result, err
	}
	result.Files = files

	manifest := formatter.Manifest{
		Format:      opts.Format,
		GeneratedAt: export.ExportedAt,
		Total:       fetched.Total,
		Succeeded:   fetched.Succeeded,
		Failed:      fetched.Failed,
		Files:       files,
		Entries:     make([]formatter.ManifestEntry, 0, len(fetched.Results)),
	}
	for _, res := range fetched.Results {
		entry := formatter.ManifestEntry{AccommodationID: res.AccommodationID, Status: "success"}
		if res.Error != nil {
			entry.Status = "failed"
			entry.Error = res.Error.Error()
		} else if res.Property != nil {
			entry.Name = res.Property.Name
		}
		manifest.Entries = append(manifest.Entries, entry)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.sendProgress(prog, manifestUpdate(append(append([]string{}, files...), manifestPath)))
	return result, nil
}
