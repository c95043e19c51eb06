// Raw passthrough requests for debugging the booking API
package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to path and returns the raw response.
// Non-2xx statuses are returned as data, not errors.
func (c *Client) Get(ctx context.Context, path string, auth bool) (*APIResponse, error) {
	return c.raw(ctx, request{method: http.MethodGet, path: normalizePath(path), auth: auth})
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte, auth bool) (*APIResponse, error) {
	return c.raw(ctx, request{
		method:      http.MethodPost,
		path:        normalizePath(path),
		raw:         strings.NewReader(string(data)),
		contentType: "application/json",
		auth:        auth,
	})
}

func (c *Client) raw(ctx context.Context, r request) (*APIResponse, error) {
	status, body, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}

	apiResp := &APIResponse{StatusCode: status, Body: body}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}
