package trilium

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// CreateAttachment attaches a file to the owning note.
func (c *Client) CreateAttachment(ctx context.Context, params AttachmentParams) (*Attachment, error) {
	var result Attachment
	if err := c.do(ctx, http.MethodPost, "/attachments", nil, params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetAttachment retrieves attachment metadata by ID. The payload itself
// comes from GetAttachmentContent.
func (c *Client) GetAttachment(ctx context.Context, attachmentID string) (*Attachment, error) {
	var result Attachment
	if err := c.do(ctx, http.MethodGet, "/attachments/"+url.PathEscape(attachmentID), nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PatchAttachment updates the given attachment properties.
func (c *Client) PatchAttachment(ctx context.Context, attachmentID string, patch AttachmentPatch) (*Attachment, error) {
	var result Attachment
	if err := c.do(ctx, http.MethodPatch, "/attachments/"+url.PathEscape(attachmentID), nil, patch, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteAttachment removes an attachment and its content.
func (c *Client) DeleteAttachment(ctx context.Context, attachmentID string) error {
	return c.do(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(attachmentID), nil, nil, nil)
}

// GetAttachmentContent returns the attachment payload.
func (c *Client) GetAttachmentContent(ctx context.Context, attachmentID string) ([]byte, error) {
	path := "/attachments/" + url.PathEscape(attachmentID) + "/content"

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment content: %w", err)
	}

	return data, nil
}

// PutAttachmentContent replaces the attachment payload.
func (c *Client) PutAttachmentContent(ctx context.Context, attachmentID string, content []byte) error {
	path := "/attachments/" + url.PathEscape(attachmentID) + "/content"

	resp, err := c.doRequest(ctx, http.MethodPut, path, nil, "application/octet-stream", bytes.NewReader(content))
	if err != nil {
		return err
	}

	return c.decodeResponse(resp, nil)
}
