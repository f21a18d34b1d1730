package trilium

import (
	"context"
	"net/http"
	"net/url"
)

// CreateBranch clones a note into another parent. If a branch for the same
// note/parent pair already exists, the server updates it instead.
func (c *Client) CreateBranch(ctx context.Context, params BranchParams) (*Branch, error) {
	var result Branch
	if err := c.do(ctx, http.MethodPost, "/branches", nil, params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetBranch retrieves a branch by ID.
func (c *Client) GetBranch(ctx context.Context, branchID string) (*Branch, error) {
	var result Branch
	if err := c.do(ctx, http.MethodGet, "/branches/"+url.PathEscape(branchID), nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PatchBranch updates the given branch properties and returns the updated
// branch.
func (c *Client) PatchBranch(ctx context.Context, branchID string, patch BranchPatch) (*Branch, error) {
	var result Branch
	if err := c.do(ctx, http.MethodPatch, "/branches/"+url.PathEscape(branchID), nil, patch, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteBranch removes one placement of a note. Deleting a note's last
// branch deletes the note as well.
func (c *Client) DeleteBranch(ctx context.Context, branchID string) error {
	return c.do(ctx, http.MethodDelete, "/branches/"+url.PathEscape(branchID), nil, nil, nil)
}
