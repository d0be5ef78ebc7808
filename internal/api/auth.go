package api

import (
	"context"
	"net/http"

	"opsdash-cli/internal/model"
)

type RegisterRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	JobTitle    *string `json:"job_title,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Age         *int    `json:"age,omitempty"`
}

// Login exchanges credentials for a bearer token. The caller decides whether
// to persist it (only the login/logout paths may write the token store).
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	err := c.JSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.JSON(ctx, http.MethodPost, "/auth/register", req, nil)
}

// Me fetches the current identity. Under the redirect policy an expired token
// yields (nil, nil); callers treat a nil identity as signed-out.
func (c *Client) Me(ctx context.Context) (*model.Identity, error) {
	var out model.Identity
	if err := c.JSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// UpdateMe patches the current profile. The payload is caller-shaped so
// optional fields can be omitted entirely rather than sent as null.
func (c *Client) UpdateMe(ctx context.Context, payload map[string]any) (*model.Identity, error) {
	var out model.Identity
	if err := c.JSON(ctx, http.MethodPut, "/auth/me", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) RequestEmailVerification(ctx context.Context) error {
	return c.JSON(ctx, http.MethodPost, "/auth/request-email-verification", nil, nil)
}
