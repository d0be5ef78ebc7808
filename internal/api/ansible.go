package api

import (
	"context"
	"net/http"

	"opsdash-cli/internal/model"
)

// AnalyzeInventory asks the backend to parse an inventory file on a path it
// can reach. For inventories local to the operator's machine, see
// internal/ansible.
func (c *Client) AnalyzeInventory(ctx context.Context, path string) (*model.InventoryAnalysis, error) {
	var out model.InventoryAnalysis
	err := c.JSON(ctx, http.MethodPost, "/ansible/analyze", map[string]string{
		"path": path,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.InventoryFile == "" && len(out.Groups) == 0 {
		return nil, nil
	}
	return &out, nil
}
