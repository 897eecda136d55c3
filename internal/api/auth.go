package api

import (
	"context"
	"net/http"

	"github.com/imaxretail/storefront/internal/models"
)

type userResponse struct {
	Success bool            `json:"success"`
	User    models.Identity `json:"user"`
}

// Me probes the current session. A 401 surfaces as *APIError like any other
// failure; callers decide whether that is exceptional.
func (c *Client) Me(ctx context.Context) (*models.Identity, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Identity, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
