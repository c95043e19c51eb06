package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/staybook/internal/shared"
	tu "github.com/desertthunder/staybook/internal/testing"
	"github.com/desertthunder/staybook/internal/wishlist"
	"github.com/urfave/cli/v3"
)

const lakeHouse = `{"accommodationId":10,"name":"Lake House","type":"VILLA","pricePerNight":1000000,"location":"Hanoi","availability":true,"latitude":21.03,"longitude":105.85}`

// fakeAPI serves the subset of the booking API the commands call.
type fakeAPI struct {
	mu       sync.Mutex
	wishlist map[int64]bool
	failList bool
	booked   int
	deleted  []string
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{wishlist: map[int64]bool{}}
}

func (f *fakeAPI) record(r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
}

func (f *fakeAPI) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer t1" {
				writeJSON(w, http.StatusUnauthorized, `{"statusCode":401,"message":"Unauthorized"}`)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"statusCode":200,"token":"t1","role":"TRAVELER","data":7}`)
	})
	mux.HandleFunc("GET /users/get-logged-in-profile-info", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"statusCode":200,"user":{"userId":7,"username":"an","email":"an@example.com","role":"TRAVELER"}}`)
	}))
	mux.HandleFunc("GET /properties/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"statusCode":200,"accommodationList":[`+lakeHouse+`,{"accommodationId":11,"name":"City Loft","type":"APARTMENT","pricePerNight":500000}]}`)
	})
	mux.HandleFunc("GET /properties/property-by-id/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "10" {
			writeJSON(w, 404, `{"statusCode":404,"message":"Accommodation Not Found"}`)
			return
		}
		writeJSON(w, 200, `{"statusCode":200,"accommodation":`+lakeHouse+`}`)
	})
	mux.HandleFunc("GET /reviews/summary/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 404, `{"statusCode":404}`)
	})
	mux.HandleFunc("POST /bookings/book-room/{pid}/{uid}", authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("uid") != "7" {
			t.Errorf("expected user 7, got %s", r.PathValue("uid"))
		}
		f.mu.Lock()
		f.booked++
		f.mu.Unlock()
		writeJSON(w, 200, `{"statusCode":200,"bookingConfirmationCode":"ABC123"}`)
	}))
	mux.HandleFunc("DELETE /bookings/cancel/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, "booking "+r.PathValue("id"))
		f.mu.Unlock()
		writeJSON(w, 200, `{"statusCode":200}`)
	}))
	mux.HandleFunc("GET /wishlist", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		if f.failList {
			f.mu.Unlock()
			writeJSON(w, http.StatusInternalServerError, `{"statusCode":500,"message":"Internal Server Error"}`)
			return
		}
		var items []string
		for id := range f.wishlist {
			acc := lakeHouse
			if id != 10 {
				acc = fmt.Sprintf(`{"accommodationId":%d,"name":"Saved %d"}`, id, id)
			}
			items = append(items, fmt.Sprintf(`{"id":%d,"accommodation":%s}`, id, acc))
		}
		f.mu.Unlock()
		writeJSON(w, 200, `{"statusCode":200,"data":[`+strings.Join(items, ",")+`]}`)
	}))
	mux.HandleFunc("POST /wishlist/accommodation/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.wishlist[10] = true
		f.mu.Unlock()
		writeJSON(w, 201, `{"statusCode":201,"data":{"id":10,"accommodation":`+lakeHouse+`}}`)
	}))
	mux.HandleFunc("DELETE /wishlist/accommodation/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.wishlist, 10)
		f.deleted = append(f.deleted, "wishlist "+r.PathValue("id"))
		f.mu.Unlock()
		writeJSON(w, 200, `{"statusCode":200}`)
	}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"status":"ok"}`)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// syncBuffer guards output written by background wishlist notifications.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func newTestRunner(t *testing.T, api *fakeAPI, input string) (*Runner, *syncBuffer) {
	t.Helper()

	server := httptest.NewServer(api.handler(t))
	t.Cleanup(server.Close)

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	config := shared.DefaultConfig()
	config.API.BaseURL = server.URL

	out := &syncBuffer{}
	r := NewRunner(RunnerOpts{
		Config: config,
		DB:     db,
		Logger: shared.NewLogger(io.Discard),
		Output: out,
		Input:  strings.NewReader(input),
	})
	t.Cleanup(func() { r.Close() })
	return r, out
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{Name: "staybook", Commands: r.register(), Writer: io.Discard}
	return app.Run(context.Background(), append([]string{"staybook"}, args...))
}

func login(t *testing.T, r *Runner) {
	t.Helper()
	if err := run(r, "auth", "login", "--email", "an@example.com", "--password", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
			defer runner.Close()

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.output == nil || runner.input == nil {
				t.Error("expected default output and input")
			}
			if runner.cache != nil {
				t.Error("expected no property cache without a database")
			}
			if runner.session.IsAuthenticated() {
				t.Error("expected an empty session")
			}
		})

		t.Run("with database wires the property cache", func(t *testing.T) {
			runner, _ := newTestRunner(t, newFakeAPI(), "")
			if runner.cache == nil {
				t.Error("expected property cache")
			}
		})

		t.Run("registers every command group", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard)})
			defer runner.Close()

			names := map[string]bool{}
			for _, c := range runner.register() {
				names[c.Name] = true
			}
			for _, want := range []string{"setup", "auth", "properties", "bookings", "reviews", "wishlist", "onboarding", "recommendations", "api"} {
				if !names[want] {
					t.Errorf("missing command %q", want)
				}
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		defer runner.Close()

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.String() != "{\"key\":\"value\"}\n" {
			t.Errorf("unexpected output %q", output.String())
		}

		failing := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &tu.FWriter{}})
		defer failing.Close()
		if err := failing.writeJSON(map[string]string{}, false); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("confirm", func(t *testing.T) {
		tc := []struct {
			input string
			skip  bool
			want  bool
		}{
			{input: "y\n", want: true},
			{input: "YES\n", want: true},
			{input: "n\n", want: false},
			{input: "", want: false},
			{input: "", skip: true, want: true},
		}
		for _, tt := range tc {
			runner := NewRunner(RunnerOpts{
				Logger: shared.NewLogger(io.Discard),
				Output: io.Discard,
				Input:  strings.NewReader(tt.input),
			})
			got, err := runner.confirm(tt.skip, "Proceed?")
			runner.Close()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("confirm(%q, skip=%v) = %v, want %v", tt.input, tt.skip, got, tt.want)
			}
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login stores the session", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		login(t, r)

		if !r.session.IsAuthenticated() || !r.session.IsUser() {
			t.Fatal("expected a traveler session")
		}
		if !strings.Contains(out.String(), "Logged in (user 7, TRAVELER)") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("login rejects invalid email before calling the API", func(t *testing.T) {
		api := newFakeAPI()
		r, _ := newTestRunner(t, api, "")

		err := run(r, "auth", "login", "--email", "nope", "--password", "secret")
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if api.called("POST /auth/login") {
			t.Error("expected no login request")
		}
	})

	t.Run("password is prompted when omitted", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "secret\n")
		if err := run(r, "auth", "login", "--email", "an@example.com"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !r.session.IsAuthenticated() {
			t.Error("expected session")
		}
	})

	t.Run("status and logout", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		login(t, r)
		out.Reset()

		if err := run(r, "auth", "status"); err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(out.String(), "User ID: 7") {
			t.Errorf("unexpected status %q", out.String())
		}

		if err := run(r, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if r.session.IsAuthenticated() {
			t.Error("expected session to be cleared")
		}
		if len(r.wishlist.Items()) != 0 {
			t.Error("expected wishlist to be reset")
		}
	})

	t.Run("import adopts a token from curl", func(t *testing.T) {
		api := newFakeAPI()
		r, _ := newTestRunner(t, api, "")

		curl := fmt.Sprintf(`curl '%s/wishlist' -H 'Authorization: Bearer t1'`, r.client.BaseURL())
		if err := run(r, "auth", "import", "--curl", curl); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		data, ok := r.session.AuthData()
		if !ok || data.UserID != 7 || data.Token != "t1" {
			t.Errorf("unexpected session %+v", data)
		}
	})

	t.Run("import requires a source", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "auth", "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
	})
}

func TestBookingCommands(t *testing.T) {
	stay := []string{"--check-in", "2026-11-01", "--check-out", "2026-11-03", "--guests", "2"}

	t.Run("quote includes the service fee", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")

		if err := run(r, append(append([]string{"bookings", "quote"}, stay...), "10")...); err != nil {
			t.Fatalf("quote failed: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "Service fee: 240,000.00") || !strings.Contains(got, "Total: 2,240,000.00") {
			t.Errorf("unexpected quote %q", got)
		}
	})

	t.Run("invalid guests", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		err := run(r, "bookings", "quote", "--check-in", "2026-11-01", "--check-out", "2026-11-03", "--guests", "0", "10")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("anonymous booking resumes after login", func(t *testing.T) {
		api := newFakeAPI()
		r, out := newTestRunner(t, api, "")

		if err := run(r, append(append([]string{"bookings", "create"}, stay...), "10")...); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if !strings.Contains(out.String(), "log in to finish") {
			t.Errorf("expected login hint, got %q", out.String())
		}
		if _, ok := r.session.PendingBooking(); !ok {
			t.Fatal("expected pending booking")
		}

		login(t, r)

		if api.booked != 1 {
			t.Errorf("expected one booking, got %d", api.booked)
		}
		if !strings.Contains(out.String(), "Confirmation code: ABC123") {
			t.Errorf("expected confirmation, got %q", out.String())
		}
		if _, ok := r.session.PendingBooking(); ok {
			t.Error("expected pending booking to be consumed")
		}
	})

	t.Run("cancel asks first", func(t *testing.T) {
		api := newFakeAPI()
		r, out := newTestRunner(t, api, "n\n")
		login(t, r)

		if err := run(r, "bookings", "cancel", "4"); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if len(api.deleted) != 0 {
			t.Error("expected no cancellation")
		}
		if !strings.Contains(out.String(), "Aborted.") {
			t.Errorf("expected abort, got %q", out.String())
		}

		if err := run(r, "bookings", "cancel", "--yes", "4"); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if len(api.deleted) != 1 || api.deleted[0] != "booking 4" {
			t.Errorf("unexpected deletes %v", api.deleted)
		}
	})

	t.Run("list requires a session", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "bookings", "list"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected auth error, got %v", err)
		}
	})
}

func TestWishlistCommands(t *testing.T) {
	t.Run("add, list and remove", func(t *testing.T) {
		api := newFakeAPI()
		r, out := newTestRunner(t, api, "")
		login(t, r)

		if err := run(r, "wishlist", "add", "10"); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if !r.wishlist.Contains(10) {
			t.Fatal("expected property 10 in wishlist")
		}
		if !strings.Contains(out.String(), "Added to wishlist") {
			t.Errorf("expected notification, got %q", out.String())
		}

		out.Reset()
		if err := run(r, "properties", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(out.String(), "♥ 10") {
			t.Errorf("expected wishlist marker, got %q", out.String())
		}

		if err := run(r, "wishlist", "remove", "--yes", "10"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if r.wishlist.Contains(10) {
			t.Error("expected property 10 to be removed")
		}
		if !strings.Contains(out.String(), "Removed from wishlist") {
			t.Errorf("expected notification, got %q", out.String())
		}
	})

	t.Run("list fails while the store is in the error state", func(t *testing.T) {
		api := newFakeAPI()
		r, _ := newTestRunner(t, api, "")
		login(t, r)

		api.mu.Lock()
		api.failList = true
		api.mu.Unlock()

		if err := run(r, "wishlist", "list", "--force"); err == nil {
			t.Fatal("expected forced list to fail")
		}
		err := run(r, "wishlist", "list")
		if err == nil {
			t.Fatal("expected list to fail while the last fetch failed")
		}
		if !strings.Contains(err.Error(), wishlist.LoadErrorMessage) {
			t.Errorf("expected load error message, got %v", err)
		}
	})

	t.Run("remove without confirmation keeps the item", func(t *testing.T) {
		api := newFakeAPI()
		api.wishlist[10] = true
		r, _ := newTestRunner(t, api, "no\n")
		login(t, r)

		if err := run(r, "wishlist", "remove", "10"); err != nil {
			t.Fatalf("remove failed: %v", err)
		}
		if api.called("DELETE /wishlist/accommodation/10") {
			t.Error("expected no delete request")
		}
		if !r.wishlist.Contains(10) {
			t.Error("expected item to stay")
		}
	})

	t.Run("toggle from property page does not prompt", func(t *testing.T) {
		api := newFakeAPI()
		r, _ := newTestRunner(t, api, "")
		login(t, r)

		if err := run(r, "properties", "get", "--toggle-wishlist", "10"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if !r.wishlist.Contains(10) {
			t.Error("expected property to be saved")
		}

		if err := run(r, "properties", "get", "--toggle-wishlist", "10"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
		if r.wishlist.Contains(10) {
			t.Error("expected property to be removed")
		}
	})

	t.Run("anonymous add is rejected without a request", func(t *testing.T) {
		api := newFakeAPI()
		r, out := newTestRunner(t, api, "")

		if err := run(r, "wishlist", "add", "10"); !errors.Is(err, shared.ErrAuthRequired) {
			t.Fatalf("expected auth error, got %v", err)
		}
		if api.called("POST /wishlist/accommodation/10") {
			t.Error("expected no request")
		}
		if !strings.Contains(out.String(), "Please log in") {
			t.Errorf("expected notification, got %q", out.String())
		}
	})

	t.Run("contains", func(t *testing.T) {
		api := newFakeAPI()
		api.wishlist[10] = true
		r, out := newTestRunner(t, api, "")
		login(t, r)

		if err := run(r, "wishlist", "contains", "10"); err != nil {
			t.Fatalf("contains failed: %v", err)
		}
		if !strings.Contains(out.String(), "is in your wishlist") {
			t.Errorf("unexpected output %q", out.String())
		}
	})
}

func TestPropertyCommands(t *testing.T) {
	t.Run("export writes files and fills the cache", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		dir := filepath.Join(t.TempDir(), "export")

		if err := run(r, "properties", "export", "--format", "csv", "--output", dir, "10"); err != nil {
			t.Fatalf("export failed: %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "properties.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(tu.MustReadFile(t, filepath.Join(dir, "properties.csv")), "Lake House") {
			t.Error("expected property in csv")
		}
		if !strings.Contains(out.String(), "Exported: 1/1") {
			t.Errorf("unexpected output %q", out.String())
		}

		out.Reset()
		if err := run(r, "properties", "cached", "--json"); err != nil {
			t.Fatalf("cached failed: %v", err)
		}
		if !strings.Contains(out.String(), "Lake House") {
			t.Errorf("expected cached property, got %q", out.String())
		}
	})

	t.Run("export rejects bad ids", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "properties", "export", "ten"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("get prints details", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "properties", "get", "10"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		got := out.String()
		if !strings.Contains(got, "Lake House") || !strings.Contains(got, "1,000,000.00 / night") || !strings.Contains(got, "No reviews yet.") {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("get missing property", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "properties", "get", "99"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("map prints a link", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "properties", "map", "10"); err != nil {
			t.Fatalf("map failed: %v", err)
		}
		if !strings.Contains(out.String(), "21.03") {
			t.Errorf("unexpected link %q", out.String())
		}
	})

	t.Run("add requires an owner", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		login(t, r)
		err := run(r, "properties", "add", "--name", "x", "--description", "y", "--price", "1", "--location", "Hanoi")
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Errorf("expected auth error, got %v", err)
		}
	})
}

func TestOnboardingCommands(t *testing.T) {
	t.Run("set and status", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")

		if err := run(r, "onboarding", "set", "--location", "Da Nang", "--budget", "2000000", "--amenity", "wifi", "--amenity", "pool"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		prefs := r.prefs.Preferences()
		if prefs.Location != "Da Nang" || prefs.Budget != 2000000 || len(prefs.Amenities) != 2 {
			t.Errorf("unexpected preferences %+v", prefs)
		}
		if !strings.Contains(out.String(), "Budget: up to 2,000,000.00") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("set without flags", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "onboarding", "set"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected missing argument, got %v", err)
		}
	})

	t.Run("invalid frequency", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "onboarding", "set", "--frequency", "2"); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("complete and reset", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")

		if err := run(r, "onboarding", "complete"); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if !r.prefs.Completed() {
			t.Error("expected completed")
		}
		if err := run(r, "onboarding", "reset", "--yes"); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if r.prefs.Completed() || r.prefs.HasStored() {
			t.Error("expected preferences to be cleared")
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("get prints JSON", func(t *testing.T) {
		r, out := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "api", "get", "--compact", "health"); err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if strings.TrimSpace(out.String()) != `{"status":"ok"}` {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "api", "get", "/properties/property-by-id/99"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected API error, got %v", err)
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		r, _ := newTestRunner(t, newFakeAPI(), "")
		if err := run(r, "api", "post", "--data", "{", "/auth/login"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config writes the template", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: io.Discard})
		defer r.Close()

		if err := run(r, "setup", "config", "--config", path); err != nil {
			t.Fatalf("setup config failed: %v", err)
		}
		tu.AssertFileExists(t, path)

		if err := run(r, "setup", "config", "--config", path); err == nil {
			t.Error("expected error for existing file")
		}
	})

	t.Run("database migrates", func(t *testing.T) {
		dir := t.TempDir()

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "staybook.db")
		r := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: io.Discard})
		defer r.Close()

		if err := run(r, "setup", "database", "--config", filepath.Join(dir, "missing.toml")); err != nil {
			t.Fatalf("setup database failed: %v", err)
		}
		if _, err := os.Stat(config.Database.Path); err != nil {
			t.Errorf("expected database file: %v", err)
		}
	})
}

func TestArgs(t *testing.T) {
	ids, err := idArgs([]string{"1", " 22 "})
	if err != nil || len(ids) != 2 || ids[1] != 22 {
		t.Errorf("unexpected ids %v %v", ids, err)
	}
	if _, err := idArgs([]string{"0"}); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if got := truncate("Lake House by the Water", 10); got != "Lake Hous…" {
		t.Errorf("unexpected truncate %q", got)
	}
	if got := stars(4.4); got != "★★★★☆" {
		t.Errorf("unexpected stars %q", got)
	}
}
