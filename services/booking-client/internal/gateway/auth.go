package gateway

import (
	"context"
	"net/http"

	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
)

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Message     string         `json:"message"`
	AccessToken string         `json:"access_token"`
	User        model.Identity `json:"user"`
}

type userEnvelope struct {
	User model.Identity `json:"user"`
}

func (c *Client) Register(ctx context.Context, reg model.Registration) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/register", body: reg, anonymous: true}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/login", body: body, anonymous: true}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (model.Identity, error) {
	var out userEnvelope
	err := c.do(ctx, call{method: http.MethodGet, path: "/auth/profile"}, &out)
	return out.User, err
}

func (c *Client) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.Identity, error) {
	var out userEnvelope
	err := c.do(ctx, call{method: http.MethodPut, path: "/auth/profile", body: patch}, &out)
	return out.User, err
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/change-password", body: body}, nil)
}
