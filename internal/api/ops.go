package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"opsdash-cli/internal/model"
)

// The /v2 surface backs the live dashboard and the kanban board.

func (c *Client) ListTickets(ctx context.Context, limit int) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/v2/tickets?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTasks(ctx context.Context, limit int) ([]model.Task, error) {
	var out []model.Task
	if err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/v2/tasks?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTasksToday(ctx context.Context, limit int) ([]model.Task, error) {
	var out []model.Task
	if err := c.JSON(ctx, http.MethodGet, fmt.Sprintf("/v2/tasks/today?limit=%d", limit), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetTaskStatus(ctx context.Context, id string, status model.TaskStatus) (*model.Task, error) {
	var out model.Task
	err := c.JSON(ctx, http.MethodPatch, "/v2/tasks/"+url.PathEscape(id), map[string]any{
		"status": status,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// PipelineStatus is intentionally untyped; the dashboard renders whatever the
// CI bridge reports.
func (c *Client) PipelineStatus(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/v2/pipeline/status", nil, nil)
}
