package api

import (
	"context"
	"net/http"
	"net/url"

	"opsdash-cli/internal/model"
)

// ServerMetrics reads the metrics of the host the backend itself runs on.
func (c *Client) ServerMetrics(ctx context.Context) (*model.Metrics, error) {
	var out model.Metrics
	if err := c.JSON(ctx, http.MethodGet, "/admin/server-metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListServers(ctx context.Context) ([]model.ServerTarget, error) {
	var out []model.ServerTarget
	if err := c.JSON(ctx, http.MethodGet, "/admin/servers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddServer(ctx context.Context, host, name string) (*model.ServerTarget, error) {
	payload := map[string]any{"host": host}
	if name != "" {
		payload["name"] = name
	}
	var out model.ServerTarget
	if err := c.JSON(ctx, http.MethodPost, "/admin/servers", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) DeleteServer(ctx context.Context, id string) error {
	return c.JSON(ctx, http.MethodDelete, "/admin/servers/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ServerTargetMetrics(ctx context.Context, id string) (*model.RemoteMetrics, error) {
	var out model.RemoteMetrics
	if err := c.JSON(ctx, http.MethodGet, "/admin/servers/"+url.PathEscape(id)+"/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
