package main

import (
	"bufio"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/preferences"
	"github.com/desertthunder/staybook/internal/repositories"
	"github.com/desertthunder/staybook/internal/services"
	"github.com/desertthunder/staybook/internal/session"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
	"github.com/desertthunder/staybook/internal/tasks"
	"github.com/desertthunder/staybook/internal/ui"
	"github.com/desertthunder/staybook/internal/wishlist"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	logger      *log.Logger
	output      io.Writer
	input       *bufio.Reader
	db          *sql.DB
	transport   http.RoundTripper
	session     *session.Store
	client      *services.Client
	wishlist    *wishlist.Store
	prefs       *preferences.Store
	cache       *repositories.PropertyCacheAdapter
	engine      *tasks.Engine
	booking     *tasks.BookingFlow
	recommender *tasks.Recommender
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config    *shared.Config
	DB        *sql.DB // nil keeps client storage in memory
	Transport http.RoundTripper
	Logger    *log.Logger
	Output    io.Writer
	Input     io.Reader
}

// NewRunner wires the stores and API client around the configured storage.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	var (
		local, sessionKV storage.KeyValue
		cache            *repositories.PropertyCacheAdapter
	)
	if opts.DB != nil {
		local = repositories.NewKVRepository(opts.DB, repositories.ScopeLocal)
		sessionKV = repositories.NewKVRepository(opts.DB, repositories.ScopeSession)
		cache = repositories.NewPropertyCacheAdapter(repositories.NewPropertyRepository(opts.DB))
	} else {
		local = storage.NewMemory()
		sessionKV = storage.NewMemory()
	}

	sess := session.NewStore(local, sessionKV, opts.Logger)
	client := services.NewClient(services.Options{
		BaseURL:   opts.Config.API.BaseURL,
		Timeout:   opts.Config.API.Timeout(),
		Tokens:    sess,
		Transport: opts.Transport,
		Logger:    opts.Logger,
	})
	prefs := preferences.NewStore(local, opts.Logger)

	r := &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       bufio.NewReader(opts.Input),
		db:          opts.DB,
		transport:   opts.Transport,
		session:     sess,
		client:      client,
		prefs:       prefs,
		booking:     tasks.NewBookingFlow(client, sess, opts.Logger),
		recommender: tasks.NewRecommender(client, sess, prefs, opts.Logger),
	}
	// A nil adapter must not reach the engine as a non-nil interface.
	if cache != nil {
		r.cache = cache
		r.engine = tasks.NewEngine(client, cache, opts.Logger)
	} else {
		r.engine = tasks.NewEngine(client, nil, opts.Logger)
	}
	r.wishlist = wishlist.New(client, sess,
		wishlist.WithStaleAfter(opts.Config.Wishlist.StaleAfter()),
		wishlist.WithNotifier(ui.NewToaster(opts.Output)),
		wishlist.WithLogger(opts.Logger),
	)
	return r
}

// Close stops background wishlist work and releases the database.
func (r *Runner) Close() error {
	r.wishlist.Close()
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, propertiesCommand, bookingsCommand, reviewsCommand,
		wishlistCommand, onboardingCommand, recommendationsCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth fails early with a hint instead of letting the API reject the call.
func (r *Runner) requireAuth() error {
	if !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'staybook auth login' first", shared.ErrAuthRequired)
	}
	return nil
}

// confirm asks a yes/no question on the runner's input. skip answers yes without asking.
func (r *Runner) confirm(skip bool, format string, args ...any) (bool, error) {
	if skip {
		return true, nil
	}
	r.writePlain(format+" [y/N]: ", args...)
	line, err := r.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	r.writePlain("Aborted.\n")
	return false, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeProperties prints one line per property, marking wishlisted ones.
func (r *Runner) writeProperties(list []models.Accommodation) {
	if len(list) == 0 {
		r.writePlain("No properties found.\n")
		return
	}
	for _, p := range list {
		mark := " "
		if r.wishlist.Contains(p.AccommodationID) {
			mark = "♥"
		}
		r.writePlain("%s %-5d %-32s %-10s %-18s %s\n",
			mark, p.AccommodationID, truncate(p.Name, 32), p.Type, truncate(p.Location, 18), formatter.FormatNightly(p.PricePerNight))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// idArg parses a positive numeric positional argument.
func idArg(cmd *cli.Command, name string) (int64, error) {
	raw := strings.TrimSpace(cmd.StringArg(name))
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// idArgs parses every positional argument as an id.
func idArgs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, raw := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q is not a property id", shared.ErrInvalidArgument, raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// dateFlag parses a yyyy-MM-dd flag value. An unset flag yields the zero time.
func dateFlag(cmd *cli.Command, name string) (time.Time, error) {
	raw := strings.TrimSpace(cmd.String(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must be yyyy-mm-dd, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return t, nil
}
