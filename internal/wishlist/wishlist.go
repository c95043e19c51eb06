package wishlist

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleAfter is how long a successful fetch satisfies non-forced refreshes.
const DefaultStaleAfter = 5 * time.Minute

// LoadErrorMessage is shown when a fetch fails.
const LoadErrorMessage = "Failed to load wishlist. Please try again."

// State is the store's position in its fetch lifecycle.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// API is the subset of the booking API the store calls.
type API interface {
	GetWishlist(ctx context.Context) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, accommodationID int64) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, accommodationID int64) error
}

// Authenticator reports whether a session exists.
type Authenticator interface {
	IsAuthenticated() bool
}

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	State         State
	Items         []models.WishlistItem
	Err           string
	LastFetchedAt time.Time
}

// Option configures a [Store].
type Option func(*Store)

// WithStaleAfter overrides [DefaultStaleAfter].
func WithStaleAfter(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.staleAfter = d
		}
	}
}

// WithClock replaces [time.Now].
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithNotifier sets where user-facing messages go.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithLogger sets the store's logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = shared.WithLogger(l, "component", "wishlist") }
}

// Store caches the wishlist of the current session.
type Store struct {
	api        API
	auth       Authenticator
	notifier   Notifier
	logger     *log.Logger
	now        func() time.Time
	staleAfter time.Duration

	group   singleflight.Group
	waiters atomic.Int32
	bg      sync.WaitGroup

	mu            sync.Mutex
	state         State
	items         []models.WishlistItem
	errMsg        string
	lastFetchedAt time.Time
	version       uint64
	tombstones    map[int64]int
	closed        bool
	subscribers   []chan Snapshot
}

// New creates a [Store] in the Uninitialized state.
func New(api API, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		api:        api,
		auth:       auth,
		notifier:   discard{},
		logger:     log.Default(),
		now:        time.Now,
		staleAfter: DefaultStaleAfter,
		items:      []models.WishlistItem{},
		tombstones: make(map[int64]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh brings the cache up to date.
//
// Without a session the store becomes an empty Ready state. A fresh cache is kept unless force
// is set. Otherwise the caller joins the fetch already running for the current version, or
// starts one. ctx bounds how long this caller waits, not the shared fetch.
func (s *Store) Refresh(ctx context.Context, force bool) error {
	if !s.auth.IsAuthenticated() {
		s.mu.Lock()
		if !s.closed {
			s.version++
			s.items = []models.WishlistItem{}
			s.errMsg = ""
			s.state = Ready
			s.publishLocked()
		}
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if !force && s.freshLocked() {
		s.mu.Unlock()
		return nil
	}
	version := s.version
	s.mu.Unlock()

	key := fmt.Sprintf("wishlist:%d", version)
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return nil, s.fetch(detached, version)
	})

	s.waiters.Add(1)
	defer s.waiters.Add(-1)

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) freshLocked() bool {
	if s.lastFetchedAt.IsZero() {
		return false
	}
	return s.now().Sub(s.lastFetchedAt) <= s.staleAfter
}

// fetch performs one network read and applies it if no mutation happened meanwhile.
func (s *Store) fetch(ctx context.Context, version uint64) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.state = Loading
	s.publishLocked()
	s.mu.Unlock()

	items, err := s.api.GetWishlist(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if version != s.version {
		s.logger.Debug("discarding stale wishlist fetch", "started_at", version, "current", s.version)
		if s.state == Loading {
			s.state = Ready
		}
		s.publishLocked()
		return nil
	}

	if err != nil {
		s.logger.Error("failed to fetch wishlist", "error", err)
		s.items = []models.WishlistItem{}
		s.errMsg = LoadErrorMessage
		s.state = Error
		s.publishLocked()
		return fmt.Errorf("failed to fetch wishlist: %w", err)
	}

	kept := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		if s.tombstones[item.AccommodationID()] > 0 {
			continue
		}
		kept = append(kept, item)
	}

	s.items = kept
	s.errMsg = ""
	s.lastFetchedAt = s.now()
	s.state = Ready
	s.publishLocked()

	s.logger.Debug("wishlist refreshed", "items", len(kept))
	return nil
}

// Add saves a property. Without a session it notifies and returns [shared.ErrAuthRequired]
// without calling the API.
func (s *Store) Add(ctx context.Context, accommodationID int64) error {
	if !s.auth.IsAuthenticated() {
		s.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Authentication required",
			Message: "Please log in to add items to your wishlist.",
		})
		return shared.ErrAuthRequired
	}

	item, err := s.api.AddToWishlist(ctx, accommodationID)
	if err != nil {
		s.logger.Error("failed to add to wishlist", "accommodation_id", accommodationID, "error", err)
		s.notifier.Notify(Notification{
			Level:   LevelError,
			Title:   "Error",
			Message: "Failed to add to wishlist. Please try again.",
		})
		return fmt.Errorf("failed to add %d to wishlist: %w", accommodationID, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	if item != nil && !s.containsLocked(item.AccommodationID()) {
		s.items = append(s.items, *item)
	}
	s.version++
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(Notification{
		Level:   LevelSuccess,
		Title:   "Added to wishlist",
		Message: "The property has been added to your wishlist.",
	})

	s.refreshInBackground(ctx)
	return nil
}

// Remove deletes a saved property. The item leaves the cache before the request is sent.
// A failed delete notifies and refetches to restore server state. Without a session Remove
// does nothing.
func (s *Store) Remove(ctx context.Context, accommodationID int64) error {
	if !s.auth.IsAuthenticated() {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.items = slices.DeleteFunc(s.items, func(item models.WishlistItem) bool {
		return item.AccommodationID() == accommodationID
	})
	s.version++
	s.tombstones[accommodationID]++
	s.publishLocked()
	s.mu.Unlock()

	err := s.api.RemoveFromWishlist(ctx, accommodationID)

	s.mu.Lock()
	// Fetches that started while the delete was pending read the old server state.
	s.version++
	if s.tombstones[accommodationID]--; s.tombstones[accommodationID] <= 0 {
		delete(s.tombstones, accommodationID)
	}
	s.mu.Unlock()

	if err == nil {
		s.notifier.Notify(Notification{
			Level:   LevelInfo,
			Title:   "Removed from wishlist",
			Message: "The property has been removed from your wishlist.",
		})
		return nil
	}

	s.logger.Error("failed to remove from wishlist", "accommodation_id", accommodationID, "error", err)
	if rerr := s.Refresh(context.WithoutCancel(ctx), true); rerr != nil {
		s.logger.Warn("rollback refresh failed", "error", rerr)
	}
	s.notifier.Notify(Notification{
		Level:   LevelError,
		Title:   "Error",
		Message: "Failed to remove from wishlist. Please try again.",
	})
	return fmt.Errorf("failed to remove %d from wishlist: %w", accommodationID, err)
}

func (s *Store) refreshInBackground(ctx context.Context) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	detached := context.WithoutCancel(ctx)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := s.Refresh(detached, true); err != nil {
			s.logger.Warn("background wishlist refresh failed", "error", err)
		}
	}()
}

// Contains reports whether the cache holds the accommodation. It never calls the network.
func (s *Store) Contains(accommodationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(accommodationID)
}

func (s *Store) containsLocked(accommodationID int64) bool {
	return slices.ContainsFunc(s.items, func(item models.WishlistItem) bool {
		return item.AccommodationID() == accommodationID
	})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		State:         s.state,
		Items:         slices.Clone(s.items),
		Err:           s.errMsg,
		LastFetchedAt: s.lastFetchedAt,
	}
}

// Items returns the cached items in server order.
func (s *Store) Items() []models.WishlistItem {
	return s.Snapshot().Items
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset forgets everything, as on logout. Fetches in flight are discarded when they land.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.version++
	s.items = []models.WishlistItem{}
	s.errMsg = ""
	s.lastFetchedAt = time.Time{}
	s.state = Uninitialized
	s.tombstones = make(map[int64]int)
	s.publishLocked()
}

// Subscribe returns a channel receiving a [Snapshot] after every state change.
// Slow readers miss intermediate snapshots. The channel is closed by [Store.Close].
func (s *Store) Subscribe() <-chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 8)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Store) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Close detaches the store. Later completions no longer change its state.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

// Wait blocks until background refreshes started by [Store.Add] finish.
func (s *Store) Wait() {
	s.bg.Wait()
}

// waiting returns the number of callers currently blocked in Refresh.
func (s *Store) waiting() int {
	return int(s.waiters.Load())
}
