package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"opsdash-cli/internal/model"
)

func (c *Client) ListEvents(ctx context.Context, limit int) ([]model.Event, error) {
	var out []model.Event
	if err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/events/?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent posts a caller-shaped payload. The calendar controller builds
// it so the group_id key is present only when the caller holds the group
// capability.
func (c *Client) CreateEvent(ctx context.Context, payload map[string]any) (*model.Event, error) {
	var out model.Event
	if err := c.JSON(ctx, http.MethodPost, "/events/", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, payload map[string]any) (*model.Event, error) {
	var out model.Event
	if err := c.JSON(ctx, http.MethodPut, "/events/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.JSON(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListGroups(ctx context.Context) ([]model.Group, error) {
	var out []model.Group
	if err := c.JSON(ctx, http.MethodGet, "/groups/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
