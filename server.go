package trilium

import (
	"context"
	"net/http"
	"net/url"
)

// GetAppInfo returns version and build information about the server.
func (c *Client) GetAppInfo(ctx context.Context) (*AppInfo, error) {
	var result AppInfo
	if err := c.do(ctx, http.MethodGet, "/app-info", nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateBackup asks the server to write a database backup named
// backup-<name>.db into its data directory. An existing backup with the
// same name is overwritten.
func (c *Client) CreateBackup(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPut, "/backup/"+url.PathEscape(name), nil, nil, nil)
}

// RefreshNoteOrdering pushes changed note positions under the given parent
// out to connected clients. Position changes made through PatchBranch are
// not broadcast without it.
func (c *Client) RefreshNoteOrdering(ctx context.Context, parentNoteID string) error {
	return c.do(ctx, http.MethodPost, "/refresh-note-ordering/"+url.PathEscape(parentNoteID), nil, nil, nil)
}
