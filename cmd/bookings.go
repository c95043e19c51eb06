package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/staybook/internal/formatter"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/tasks"
	"github.com/urfave/cli/v3"
)

// bookingInput reads the property argument and stay flags, pricing the stay with the
// property's current nightly rate.
func (r *Runner) bookingInput(ctx context.Context, cmd *cli.Command) (tasks.BookingInput, error) {
	id, err := idArg(cmd, "property-id")
	if err != nil {
		return tasks.BookingInput{}, err
	}
	checkIn, err := dateFlag(cmd, "check-in")
	if err != nil {
		return tasks.BookingInput{}, err
	}
	checkOut, err := dateFlag(cmd, "check-out")
	if err != nil {
		return tasks.BookingInput{}, err
	}

	property, err := r.client.Property(ctx, id)
	if err != nil {
		return tasks.BookingInput{}, fmt.Errorf("failed to fetch property %d: %w", id, err)
	}

	return tasks.BookingInput{
		PropertyID:  id,
		NightlyRate: property.PricePerNight,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      int(cmd.Int("guests")),
	}, nil
}

// BookingsQuote prices a stay without booking it.
func (r *Runner) BookingsQuote(ctx context.Context, cmd *cli.Command) error {
	in, err := r.bookingInput(ctx, cmd)
	if err != nil {
		return err
	}

	quote, err := r.booking.Quote(in)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(quoteJSON(quote), true)
	}
	r.writeQuote(quote)
	return nil
}

// BookingsCreate books a stay. Anonymous users have the request saved for after login.
func (r *Runner) BookingsCreate(ctx context.Context, cmd *cli.Command) error {
	in, err := r.bookingInput(ctx, cmd)
	if err != nil {
		return err
	}

	conf, err := r.booking.Book(ctx, in)
	var loginErr *tasks.LoginRequiredError
	switch {
	case errors.As(err, &loginErr):
		r.writePlain("You need to log in to finish this booking.\n")
		if loginErr.Pending != nil {
			r.writePlain("Your dates are saved and the booking will complete after: staybook auth login\n")
		}
		r.logger.Debug("booking parked until login", "redirect", loginErr.Redirect)
		return nil
	case err != nil:
		return err
	}

	r.writeConfirmation(conf)
	return nil
}

func (r *Runner) writeConfirmation(conf *tasks.Confirmation) {
	r.writePlainHeader("Booking Confirmed!")
	r.writePlain("Property: #%d\n", conf.PropertyID)
	r.writePlain("Confirmation code: %s\n", conf.Code)
	r.writeQuote(conf.Quote)
}

func (r *Runner) writeQuote(q tasks.Quote) {
	r.writePlain("%s x %d nights = %s\n", formatter.FormatPrice(q.NightlyRate), q.Nights, formatter.FormatPrice(q.Subtotal))
	r.writePlain("Service fee: %s\n", formatter.FormatPrice(q.ServiceFee))
	r.writePlain("Total: %s\n", formatter.FormatPrice(q.Total))
}

func quoteJSON(q tasks.Quote) map[string]any {
	return map[string]any{
		"nights":      q.Nights,
		"nightlyRate": q.NightlyRate.StringFixed(2),
		"subtotal":    q.Subtotal.StringFixed(2),
		"serviceFee":  q.ServiceFee.StringFixed(2),
		"total":       q.Total.StringFixed(2),
	}
}

// BookingsFind looks a booking up by confirmation code.
func (r *Runner) BookingsFind(ctx context.Context, cmd *cli.Command) error {
	code := strings.TrimSpace(cmd.StringArg("code"))

	booking, err := r.client.BookingByConfirmationCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to find booking: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(booking, cmd.Bool("pretty"))
	}
	r.writeBookings([]models.Booking{*booking})
	return nil
}

// BookingsList lists the logged-in user's bookings.
func (r *Runner) BookingsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	data, _ := r.session.AuthData()

	bookings, err := r.client.UserBookings(ctx, data.UserID)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(bookings, cmd.Bool("pretty"))
	}
	r.writeBookings(bookings)
	return nil
}

func (r *Runner) writeBookings(bookings []models.Booking) {
	if len(bookings) == 0 {
		r.writePlain("No bookings.\n")
		return
	}
	for _, b := range bookings {
		name := "?"
		if b.Accommodation != nil {
			name = b.Accommodation.Name
		}
		r.writePlain("#%-5d %-12s %-10s %s → %s (%d nights, %d guests) %s\n",
			b.ID, b.BookingConfirmationCode, b.Status,
			b.CheckInDate.Time.Format(time.DateOnly), b.CheckOutDate.Time.Format(time.DateOnly),
			b.Nights(), b.TotalOfGuest, name)
	}
}

// BookingsCancel cancels a booking after confirmation.
func (r *Runner) BookingsCancel(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd, "booking-id")
	if err != nil {
		return err
	}
	if err := r.requireAuth(); err != nil {
		return err
	}

	ok, err := r.confirm(cmd.Bool("yes"), "Cancel booking #%d?", id)
	if err != nil || !ok {
		return err
	}

	if err := r.client.CancelBooking(ctx, id); err != nil {
		return fmt.Errorf("failed to cancel booking %d: %w", id, err)
	}

	r.logger.Info("cancelled booking", "booking_id", id)
	return r.writePlain("✓ Cancelled booking #%d\n", id)
}

func bookingsCommand(r *Runner) *cli.Command {
	stayFlags := []cli.Flag{
		&cli.StringFlag{Name: "check-in", Usage: "Check-in date (yyyy-mm-dd)", Required: true},
		&cli.StringFlag{Name: "check-out", Usage: "Check-out date (yyyy-mm-dd)", Required: true},
		&cli.IntFlag{Name: "guests", Aliases: []string{"g"}, Usage: fmt.Sprintf("Number of guests (1-%d)", tasks.MaxGuests), Value: 1},
	}

	return &cli.Command{
		Name:    "bookings",
		Aliases: []string{"book", "b"},
		Usage:   "Book stays and manage reservations",
		Commands: []*cli.Command{
			{
				Name:      "quote",
				Usage:     "Price a stay including the service fee",
				Arguments: []cli.Argument{&cli.StringArg{Name: "property-id"}},
				Flags:     append(append([]cli.Flag{}, stayFlags...), &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}),
				Action:    r.BookingsQuote,
			},
			{
				Name:      "create",
				Usage:     "Book a stay",
				Arguments: []cli.Argument{&cli.StringArg{Name: "property-id"}},
				Flags:     stayFlags,
				Action:    r.BookingsCreate,
			},
			{
				Name:      "find",
				Usage:     "Look up a booking by confirmation code",
				Arguments: []cli.Argument{&cli.StringArg{Name: "code"}},
				Flags:     jsonFlags(),
				Action:    r.BookingsFind,
			},
			{
				Name:   "list",
				Usage:  "List your bookings",
				Flags:  jsonFlags(),
				Action: r.BookingsList,
			},
			{
				Name:      "cancel",
				Usage:     "Cancel a booking",
				Arguments: []cli.Argument{&cli.StringArg{Name: "booking-id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.BookingsCancel,
			},
		},
	}
}
