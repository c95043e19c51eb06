// Package session keeps the client's authentication state in client storage.
//
// A [Store] is built once at startup around a durable [storage.KeyValue] and handed to every
// component that needs to know who is logged in. The token, user id and role are written and
// read as a unit: a partially stored session reads as logged out.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"github.com/desertthunder/staybook/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

var authKeys = []string{storage.KeyAuthToken, storage.KeyUserID, storage.KeyRole}

// AuthData is a complete stored session.
type AuthData struct {
	Token  string
	UserID int64
	Role   string
}

// Store reads and writes the auth triple. It implements [oauth2.TokenSource].
type Store struct {
	local   storage.KeyValue
	session storage.KeyValue
	logger  *log.Logger
}

// NewStore creates a [Store]. local holds the auth triple; sessionKV holds per-login
// values such as a pending booking.
func NewStore(local, sessionKV storage.KeyValue, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		local:   local,
		session: sessionKV,
		logger:  shared.WithLogger(logger, "component", "session"),
	}
}

// StoreAuthData persists the token, user id and role from a login response.
//
// The user id is read from the envelope's data field and may be a number or a numeric string.
// Invalid responses return [shared.ErrValidation] without touching storage. A failed write
// removes whatever was written and returns [shared.ErrStorage].
func (s *Store) StoreAuthData(resp *models.Envelope) error {
	if resp == nil {
		return fmt.Errorf("%w: auth response is empty", shared.ErrValidation)
	}

	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return fmt.Errorf("%w: token is missing", shared.ErrValidation)
	}

	userID, err := parseUserID(resp.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	role := strings.TrimSpace(resp.Role)
	if role == "" {
		return fmt.Errorf("%w: role is missing", shared.ErrValidation)
	}

	values := map[string]string{
		storage.KeyAuthToken: token,
		storage.KeyUserID:    strconv.FormatInt(userID, 10),
		storage.KeyRole:      role,
	}

	for _, key := range authKeys {
		if err := s.local.Set(key, values[key]); err != nil {
			s.logger.Error("failed to store auth data", "key", key, "error", err)
			if cerr := s.Clear(); cerr != nil {
				s.logger.Error("cleanup after failed write", "error", cerr)
			}
			return fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
	}

	s.logger.Debug("stored auth data", "user_id", userID, "role", role)
	return nil
}

// AuthData returns the stored session, or false when any part is missing or unreadable.
func (s *Store) AuthData() (*AuthData, bool) {
	values := make(map[string]string, len(authKeys))
	for _, key := range authKeys {
		v, err := s.local.Get(key)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				s.logger.Warn("failed to read auth data", "key", key, "error", err)
			}
			return nil, false
		}
		if v == "" {
			return nil, false
		}
		values[key] = v
	}

	userID, err := strconv.ParseInt(values[storage.KeyUserID], 10, 64)
	if err != nil {
		s.logger.Warn("stored user id is not numeric", "value", values[storage.KeyUserID])
		return nil, false
	}

	return &AuthData{
		Token:  values[storage.KeyAuthToken],
		UserID: userID,
		Role:   values[storage.KeyRole],
	}, true
}

// Clear removes the auth triple. Removing an absent session is not an error.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range authKeys {
		if err := s.local.Remove(key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("failed to clear auth data", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return nil
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.AuthData()
	return ok
}

func (s *Store) IsAdmin() bool { return s.hasRole(models.RoleAdmin) }
func (s *Store) IsOwner() bool { return s.hasRole(models.RoleOwner) }

// IsUser reports whether the session belongs to a traveler.
func (s *Store) IsUser() bool { return s.hasRole(models.RoleTraveler) }

func (s *Store) hasRole(role string) bool {
	data, ok := s.AuthData()
	return ok && data.Role == role
}

// Token implements [oauth2.TokenSource] so gated requests carry the stored bearer token.
func (s *Store) Token() (*oauth2.Token, error) {
	data, ok := s.AuthData()
	if !ok {
		return nil, shared.ErrAuthRequired
	}
	return &oauth2.Token{AccessToken: data.Token, TokenType: "Bearer"}, nil
}

// Claims decodes the registered claims of the stored token without verifying its signature.
// The client has no signing key; this is for display only.
func (s *Store) Claims() (*jwt.RegisteredClaims, error) {
	data, ok := s.AuthData()
	if !ok {
		return nil, shared.ErrAuthRequired
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(data.Token, claims); err != nil {
		return nil, fmt.Errorf("%w: token is not a JWT: %v", shared.ErrInvalidArgument, err)
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, if the token carries one.
func (s *Store) ExpiresAt() (time.Time, bool) {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func parseUserID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, errors.New("user id (data field) is missing")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, fmt.Errorf("user id is malformed: %v", err)
	}

	var text string
	switch id := v.(type) {
	case json.Number:
		text = id.String()
	case string:
		text = strings.TrimSpace(id)
	default:
		return 0, fmt.Errorf("user id has unsupported type %T", v)
	}

	userID, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user id %q is not an integer", text)
	}
	return userID, nil
}
