package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"opsdash-cli/internal/model"
)

func (c *Client) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	var out []model.User
	if err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/users/?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, payload map[string]any) (*model.User, error) {
	var out model.User
	if err := c.JSON(ctx, http.MethodPost, "/users/", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, payload map[string]any) (*model.User, error) {
	var out model.User
	if err := c.JSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// SetUserPassword is the admin reset path; users change their own password
// through the profile form instead.
func (c *Client) SetUserPassword(ctx context.Context, id, newPassword string) error {
	return c.JSON(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/password", map[string]string{
		"new_password": newPassword,
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.JSON(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}
