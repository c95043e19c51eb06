package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/staybook/internal/models"
)

// Login exchanges credentials for a token. The returned envelope carries token, role and
// the user id in its data field; persisting them is the session store's job.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Envelope, error) {
	return c.envelope(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds})
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.Envelope, error) {
	return c.envelope(ctx, request{method: http.MethodPost, path: "/auth/register", body: reg})
}
