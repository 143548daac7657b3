package api

import (
	"context"
	"fmt"

	"github.com/bayanapp/bayan-tui/internal/model"
)

// Login authenticates with the backend and establishes the session
// cookie used by all later calls. The returned user carries the role
// that decides which views and update checks the client runs.
func (c *Client) Login(
	ctx context.Context,
	email, password string,
) (model.User, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var resp userResponse
	if err := c.Post(ctx, "/api/login", body, &resp); err != nil {
		return model.User{}, fmt.Errorf("logging in: %w", err)
	}
	if !resp.Success {
		return model.User{}, envelopeError(resp.Message)
	}
	return resp.User, nil
}

// Logout clears the server-side session. The local cookie becomes
// useless either way, so errors are returned but rarely actionable.
func (c *Client) Logout(ctx context.Context) error {
	var resp statusResponse
	if err := c.Get(ctx, "/api/logout", &resp); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// UserInfo returns the account bound to the current session cookie.
func (c *Client) UserInfo(ctx context.Context) (model.User, error) {
	var resp userResponse
	if err := c.Get(ctx, "/api/user_info", &resp); err != nil {
		return model.User{}, fmt.Errorf("fetching user info: %w", err)
	}
	if !resp.Success {
		return model.User{}, envelopeError(resp.Message)
	}
	return resp.User, nil
}
