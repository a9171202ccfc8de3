package api

import (
	"context"
	"net/http"
)

// Login exchanges a username (or email) and password for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", false,
		LoginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", false, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
}

// Verify checks the current token and returns the identity it belongs to.
func (c *Client) Verify(ctx context.Context) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/verify", true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports server liveness. It needs no credentials.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
