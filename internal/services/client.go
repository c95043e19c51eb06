package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/staybook/internal/models"
	"github.com/desertthunder/staybook/internal/shared"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL  = "http://localhost:8080"
	requestIDHeader = "X-Request-ID"
)

// Options configures a [Client].
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    oauth2.TokenSource // bearer tokens for gated endpoints
	Transport http.RoundTripper  // defaults to [http.DefaultTransport]
	Logger    *log.Logger
}

// Client talks to the booking REST API.
type Client struct {
	baseURL string
	public  *http.Client
	authed  *http.Client
	logger  *log.Logger
}

// NewClient creates a new [Client]. Without a token source every gated call fails
// with [shared.ErrAuthRequired].
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	tokens := opts.Tokens
	if tokens == nil {
		tokens = noSession{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	return &Client{
		baseURL: baseURL,
		public:  &http.Client{Timeout: opts.Timeout, Transport: base},
		authed: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: base},
		},
		logger: shared.WithLogger(logger, "component", "api"),
	}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type noSession struct{}

func (noSession) Token() (*oauth2.Token, error) {
	return nil, shared.ErrAuthRequired
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%v: %s %s returned %d: %s", e.kind, e.Method, e.Path, e.StatusCode, msg)
}

// Unwrap returns the sentinel matching the status class.
func (e *StatusError) Unwrap() error {
	return e.kind
}

func statusKind(code int) error {
	switch code {
	case http.StatusNotFound:
		return shared.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrAuthRequired
	case http.StatusServiceUnavailable:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
	auth        bool
}

// send performs r and returns the status code and body.
func (c *Client) send(ctx context.Context, r request) (int, []byte, error) {
	fullURL := c.baseURL + r.path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	body := r.raw
	contentType := r.contentType
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, fullURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := c.public
	if r.auth {
		client = c.authed
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, shared.ErrAuthRequired) {
			return 0, nil, fmt.Errorf("%s %s: %w", r.method, r.path, shared.ErrAuthRequired)
		}
		return 0, nil, fmt.Errorf("%w: %s %s: %w", shared.ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrNetwork, err)
	}

	c.logger.Debug("api call", "method", r.method, "path", r.path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start))

	return resp.StatusCode, data, nil
}

// envelope performs r and decodes the response wrapper, mapping failures to [*StatusError].
func (c *Client) envelope(ctx context.Context, r request) (*models.Envelope, error) {
	status, data, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(data, &env)

	code := status
	if decodeErr == nil && env.StatusCode >= 400 {
		code = env.StatusCode
	}
	if code < 200 || code >= 300 {
		return nil, &StatusError{Method: r.method, Path: r.path, StatusCode: code, Message: env.Message, kind: statusKind(code)}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: failed to decode response from %s: %v", shared.ErrAPIRequest, r.path, decodeErr)
	}
	if env.StatusCode == 0 {
		env.StatusCode = status
	}
	return &env, nil
}

// decode performs r and unmarshals a bare JSON body into out.
func (c *Client) decode(ctx context.Context, r request, out any) error {
	status, data, err := c.send(ctx, r)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		var env models.Envelope
		_ = json.Unmarshal(data, &env)
		return &StatusError{Method: r.method, Path: r.path, StatusCode: status, Message: env.Message, kind: statusKind(status)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response from %s: %v", shared.ErrAPIRequest, r.path, err)
	}
	return nil
}

func idPath(format string, ids ...any) string {
	escaped := make([]any, len(ids))
	for i, id := range ids {
		escaped[i] = url.PathEscape(fmt.Sprint(id))
	}
	return fmt.Sprintf(format, escaped...)
}
