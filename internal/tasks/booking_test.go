package tasks

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/session"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
	"github.com/shopspring/decimal"
)

type mockBookingAPI struct {
	property    *models.Accommodation
	propertyErr error
	profile     *models.User
	profileErr  error
	code        string
	bookErr     error

	booked []models.BookingRequest
	userID int64
}

func (m *mockBookingAPI) Property(context.Context, int64) (*models.Accommodation, error) {
	return m.property, m.propertyErr
}

func (m *mockBookingAPI) Profile(context.Context) (*models.User, error) {
	return m.profile, m.profileErr
}

func (m *mockBookingAPI) Book(_ context.Context, _, userID int64, req models.BookingRequest) (string, error) {
	if m.bookErr != nil {
		return "", m.bookErr
	}
	m.userID = userID
	m.booked = append(m.booked, req)
	return m.code, nil
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func newSession(t *testing.T, loggedIn bool) *session.Store {
	t.Helper()
	store := session.NewStore(storage.NewMemory(), storage.NewMemory(), shared.NewLogger(io.Discard))
	if loggedIn {
		env := &models.Envelope{StatusCode: 200, Token: "tok", Role: models.RoleTraveler, Data: []byte("42")}
		if err := store.StoreAuthData(env); err != nil {
			t.Fatalf("failed to log in: %v", err)
		}
	}
	return store
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(1500000, day(1), day(4))

	if q.Nights != 3 {
		t.Errorf("expected 3 nights, got %d", q.Nights)
	}
	checks := map[string]struct {
		got  decimal.Decimal
		want string
	}{
		"subtotal": {q.Subtotal, "4500000"},
		"fee":      {q.ServiceFee, "540000"},
		"total":    {q.Total, "5040000"},
	}
	for name, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s: expected %s, got %s", name, c.want, c.got)
		}
	}

	t.Run("fee is rounded to cents", func(t *testing.T) {
		q := NewQuote(10.05, day(1), day(2))
		if q.ServiceFee.String() != "1.21" {
			t.Errorf("expected 1.21, got %s", q.ServiceFee)
		}
		if q.Total.String() != "11.26" {
			t.Errorf("expected 11.26, got %s", q.Total)
		}
	})

	t.Run("reversed dates", func(t *testing.T) {
		if q := NewQuote(100, day(5), day(1)); q.Nights != 0 || !q.Total.IsZero() {
			t.Errorf("expected empty quote, got %+v", q)
		}
	})
}

func TestLoginRedirect(t *testing.T) {
	if got := LoginRedirect(7); got != "/auth/login?redirect=%2Fproperty%2F7" {
		t.Errorf("unexpected redirect %q", got)
	}
}

func TestBookingFlow(t *testing.T) {
	ctx := context.Background()
	valid := BookingInput{PropertyID: 7, NightlyRate: 100, CheckIn: day(1), CheckOut: day(3), Guests: 2}

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*BookingInput)
		}{
			{name: "missing property", mutate: func(in *BookingInput) { in.PropertyID = 0 }},
			{name: "missing dates", mutate: func(in *BookingInput) { in.CheckIn = time.Time{} }},
			{name: "same day", mutate: func(in *BookingInput) { in.CheckOut = in.CheckIn }},
			{name: "no guests", mutate: func(in *BookingInput) { in.Guests = 0 }},
			{name: "too many guests", mutate: func(in *BookingInput) { in.Guests = MaxGuests + 1 }},
			{name: "negative rate", mutate: func(in *BookingInput) { in.NightlyRate = -1 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				api := &mockBookingAPI{}
				flow := NewBookingFlow(api, newSession(t, true), nil)

				in := valid
				tt.mutate(&in)
				if _, err := flow.Book(ctx, in); !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if _, err := flow.Quote(in); !errors.Is(err, shared.ErrValidation) {
					t.Errorf("expected ErrValidation from Quote, got %v", err)
				}
				if len(api.booked) != 0 {
					t.Error("expected no booking request")
				}
			})
		}
	})

	t.Run("books for the profile user", func(t *testing.T) {
		api := &mockBookingAPI{profile: &models.User{UserID: 42}, code: "ABC123"}
		flow := NewBookingFlow(api, newSession(t, true), nil)

		conf, err := flow.Book(ctx, valid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conf.Code != "ABC123" || conf.PropertyID != 7 {
			t.Errorf("unexpected confirmation: %+v", conf)
		}
		if api.userID != 42 {
			t.Errorf("expected user 42, got %d", api.userID)
		}

		req := api.booked[0]
		if req.CheckInDate != "2025-07-01" || req.CheckOutDate != "2025-07-03" {
			t.Errorf("unexpected dates: %+v", req)
		}
		if req.NumOfAdults != 2 || req.NumOfChildren != 0 || req.TotalOfGuest != 2 {
			t.Errorf("unexpected guests: %+v", req)
		}
		if req.TotalPrice != 224 {
			t.Errorf("expected total 224, got %v", req.TotalPrice)
		}
	})

	t.Run("profile failure", func(t *testing.T) {
		api := &mockBookingAPI{profileErr: shared.ErrNetwork}
		flow := NewBookingFlow(api, newSession(t, true), nil)

		if _, err := flow.Book(ctx, valid); !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("anonymous user is sent to login", func(t *testing.T) {
		api := &mockBookingAPI{}
		sess := newSession(t, false)
		flow := NewBookingFlow(api, sess, nil)

		_, err := flow.Book(ctx, valid)
		if !errors.Is(err, shared.ErrAuthRequired) {
			t.Fatalf("expected ErrAuthRequired, got %v", err)
		}

		var loginErr *LoginRequiredError
		if !errors.As(err, &loginErr) {
			t.Fatalf("expected LoginRequiredError, got %T", err)
		}
		if loginErr.Redirect != LoginRedirect(7) {
			t.Errorf("unexpected redirect %q", loginErr.Redirect)
		}

		pending, ok := sess.PendingBooking()
		if !ok {
			t.Fatal("expected pending booking to be saved")
		}
		if pending.PropertyID != 7 || pending.Guests != 2 || !pending.CheckIn.Equal(day(1)) {
			t.Errorf("unexpected pending booking: %+v", pending)
		}
		if len(api.booked) != 0 {
			t.Error("expected no booking request")
		}
	})
}

func TestResumePending(t *testing.T) {
	ctx := context.Background()

	park := func(t *testing.T, sess *session.Store) {
		t.Helper()
		_, err := sess.SavePendingBooking(models.PendingBooking{PropertyID: 7, CheckIn: day(1), CheckOut: day(3), Guests: 2})
		if err != nil {
			t.Fatalf("failed to save pending booking: %v", err)
		}
	}

	loginAndPark := func(t *testing.T) *session.Store {
		t.Helper()
		sess := newSession(t, true)
		park(t, sess)
		return sess
	}

	t.Run("nothing pending", func(t *testing.T) {
		flow := NewBookingFlow(&mockBookingAPI{}, newSession(t, true), nil)
		if conf, ok, err := flow.ResumePending(ctx); conf != nil || ok || err != nil {
			t.Errorf("expected no-op, got %v %v %v", conf, ok, err)
		}
	})

	t.Run("waits for login", func(t *testing.T) {
		sess := newSession(t, false)
		park(t, sess)
		flow := NewBookingFlow(&mockBookingAPI{}, sess, nil)

		if _, ok, err := flow.ResumePending(ctx); ok || err != nil {
			t.Errorf("expected no-op, got %v %v", ok, err)
		}
		if _, ok := sess.PendingBooking(); !ok {
			t.Error("expected pending booking to be kept")
		}
	})

	t.Run("books and clears", func(t *testing.T) {
		sess := loginAndPark(t)
		api := &mockBookingAPI{
			property: &models.Accommodation{AccommodationID: 7, PricePerNight: 100},
			profile:  &models.User{UserID: 42},
			code:     "XYZ",
		}
		flow := NewBookingFlow(api, sess, nil)

		conf, ok, err := flow.ResumePending(ctx)
		if err != nil || !ok {
			t.Fatalf("expected booking, got %v %v", ok, err)
		}
		if conf.Code != "XYZ" || conf.Quote.Nights != 2 {
			t.Errorf("unexpected confirmation: %+v", conf)
		}
		if _, ok := sess.PendingBooking(); ok {
			t.Error("expected pending booking to be cleared")
		}
	})

	t.Run("keeps pending on network failure", func(t *testing.T) {
		sess := loginAndPark(t)
		api := &mockBookingAPI{
			property: &models.Accommodation{AccommodationID: 7, PricePerNight: 100},
			profile:  &models.User{UserID: 42},
			bookErr:  shared.ErrNetwork,
		}
		flow := NewBookingFlow(api, sess, nil)

		if _, ok, err := flow.ResumePending(ctx); !ok || !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v %v", ok, err)
		}
		if _, ok := sess.PendingBooking(); !ok {
			t.Error("expected pending booking to survive")
		}
	})

	t.Run("drops pending for a deleted property", func(t *testing.T) {
		sess := loginAndPark(t)
		flow := NewBookingFlow(&mockBookingAPI{propertyErr: shared.ErrNotFound}, sess, nil)

		if _, _, err := flow.ResumePending(ctx); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, ok := sess.PendingBooking(); ok {
			t.Error("expected pending booking to be dropped")
		}
	})
}
