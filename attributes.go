package trilium

import (
	"context"
	"net/http"
	"net/url"
)

// CreateAttribute attaches a label or relation to a note.
func (c *Client) CreateAttribute(ctx context.Context, params AttributeParams) (*Attribute, error) {
	var result Attribute
	if err := c.do(ctx, http.MethodPost, "/attributes", nil, params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetAttribute retrieves an attribute by ID.
func (c *Client) GetAttribute(ctx context.Context, attributeID string) (*Attribute, error) {
	var result Attribute
	if err := c.do(ctx, http.MethodGet, "/attributes/"+url.PathEscape(attributeID), nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PatchAttribute updates an attribute's value or position. Name and type
// are immutable; delete and recreate to change them.
func (c *Client) PatchAttribute(ctx context.Context, attributeID string, patch AttributePatch) (*Attribute, error) {
	var result Attribute
	if err := c.do(ctx, http.MethodPatch, "/attributes/"+url.PathEscape(attributeID), nil, patch, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteAttribute removes an attribute from its note.
func (c *Client) DeleteAttribute(ctx context.Context, attributeID string) error {
	return c.do(ctx, http.MethodDelete, "/attributes/"+url.PathEscape(attributeID), nil, nil, nil)
}
