package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/services"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin exchanges credentials for a session and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	creds := models.Credentials{
		Email:    strings.TrimSpace(cmd.String("email")),
		Password: cmd.String("password"),
	}
	if creds.Password == "" {
		password, err := r.prompt("Password")
		if err != nil {
			return err
		}
		creds.Password = password
	}
	if err := shared.Validate(creds); err != nil {
		return err
	}

	r.logger.Info("logging in", "email", creds.Email)

	resp, err := r.client.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return r.completeLogin(ctx, resp)
}

// completeLogin stores the session, then reloads the wishlist and replays any booking
// parked before login.
func (r *Runner) completeLogin(ctx context.Context, resp *models.Envelope) error {
	if err := r.session.StoreAuthData(resp); err != nil {
		return err
	}

	if data, ok := r.session.AuthData(); ok {
		r.writePlain("✓ Logged in (user %d, %s)\n", data.UserID, data.Role)
	}

	if err := r.wishlist.Refresh(ctx, true); err != nil {
		r.logger.Warn("failed to load wishlist after login", "error", err)
	}

	conf, resumed, err := r.booking.ResumePending(ctx)
	switch {
	case !resumed:
	case err != nil:
		r.writePlain("✗ Your saved booking could not be completed: %v\n", err)
	default:
		r.writeConfirmation(conf)
	}
	return nil
}

// AuthRegister creates an account.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := models.Registration{
		Username:    strings.TrimSpace(cmd.String("username")),
		Email:       strings.TrimSpace(cmd.String("email")),
		PhoneNumber: cmd.String("phone"),
		Password:    cmd.String("password"),
		Role:        strings.ToUpper(cmd.String("role")),
	}
	if reg.Password == "" {
		password, err := r.prompt("Password")
		if err != nil {
			return err
		}
		reg.Password = password
	}
	if err := shared.Validate(reg); err != nil {
		return err
	}

	resp, err := r.client.Register(ctx, reg)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.logger.Info("registered account", "email", reg.Email)
	msg := resp.Message
	if msg == "" {
		msg = "Account created"
	}
	r.writePlain("✓ %s\n", msg)
	return r.writePlain("Log in with: staybook auth login --email %s\n", reg.Email)
}

// AuthLogout clears the session, the cached wishlist and any parked booking.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.session.Clear(); err != nil {
		return err
	}
	r.session.TakePendingBooking()
	r.wishlist.Reset()

	r.logger.Info("logged out")
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the stored session without calling the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	data, ok := r.session.AuthData()

	if cmd.Bool("json") {
		status := map[string]any{"authenticated": ok}
		if ok {
			status["userId"] = data.UserID
			status["role"] = data.Role
			if exp, ok := r.session.ExpiresAt(); ok {
				status["expiresAt"] = exp.Format(time.RFC3339)
			}
		}
		return r.writeJSON(status, true)
	}

	if !ok {
		r.writePlain("Authentication: ✗ Not logged in\n")
		if pending, ok := r.session.PendingBooking(); ok {
			r.writePlain("Pending booking: property %d, %s → %s\n",
				pending.PropertyID, pending.CheckIn.Format(time.DateOnly), pending.CheckOut.Format(time.DateOnly))
		}
		return nil
	}

	r.writePlain("Authentication: ✓ Logged in\n")
	r.writePlain("User ID: %d\n", data.UserID)
	r.writePlain("Role: %s\n", data.Role)
	if exp, ok := r.session.ExpiresAt(); ok {
		state := "valid"
		if time.Now().After(exp) {
			state = "expired"
		}
		r.writePlain("Token expires: %s (%s)\n", exp.Local().Format(time.DateTime), state)
	}
	return nil
}

// AuthWhoami fetches the profile of the logged-in user.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	user, err := r.client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("%s <%s>\n", user.Username, user.Email)
	r.writePlain("ID: %d\n", user.UserID)
	r.writePlain("Role: %s\n", user.Role)
	if user.PhoneNumber != "" {
		r.writePlain("Phone: %s\n", user.PhoneNumber)
	}
	return nil
}

// AuthImport adopts the bearer token from a cURL command copied out of the browser.
//
// The token is checked against the profile endpoint, which also supplies the user id and role.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var (
		req *shared.CurlRequest
		err error
	)
	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
	} else {
		req, err = shared.ParseCurlCommand(curlCmd)
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	if req.URL != "" && !strings.HasPrefix(req.URL, r.client.BaseURL()) {
		r.logger.Warn("cURL target differs from configured API", "url", req.URL, "base_url", r.client.BaseURL())
	}

	probe := services.NewClient(services.Options{
		BaseURL:   r.client.BaseURL(),
		Timeout:   r.config.API.Timeout(),
		Tokens:    oauth2.StaticTokenSource(&oauth2.Token{AccessToken: req.Token, TokenType: "Bearer"}),
		Transport: r.transport,
		Logger:    r.logger,
	})

	user, err := probe.Profile(ctx)
	if err != nil {
		return fmt.Errorf("imported token was rejected: %w", err)
	}

	r.logger.Info("imported session", "user_id", user.UserID)
	return r.completeLogin(ctx, &models.Envelope{
		Token: req.Token,
		Data:  json.RawMessage(strconv.FormatInt(user.UserID, 10)),
		Role:  user.Role,
	})
}

// prompt reads one line from the runner's input.
func (r *Runner) prompt(label string) (string, error) {
	r.writePlain("%s: ", label)
	line, err := r.input.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" && err != nil {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return line, nil
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "phone", Usage: "Phone number"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
					&cli.StringFlag{Name: "role", Usage: "TRAVELER or OWNER", Value: models.RoleTraveler},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the stored session",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "whoami",
				Usage: "Fetch the logged-in user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.AuthWhoami,
			},
			{
				Name:  "import",
				Usage: "Import a session from a cURL command copied from the browser",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "curl", Usage: "cURL command containing an Authorization header"},
					&cli.StringFlag{Name: "curl-file", Usage: "File containing the cURL command"},
				},
				Action: r.AuthImport,
			},
		},
	}
}
