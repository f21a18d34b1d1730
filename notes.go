package trilium

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// CreateNote creates a note under params.ParentNoteID and returns the new
// note together with the branch that places it.
func (c *Client) CreateNote(ctx context.Context, params CreateNoteParams) (*NoteWithBranch, error) {
	var result NoteWithBranch
	if err := c.do(ctx, http.MethodPost, "/create-note", nil, params, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetNote retrieves a note by ID, including its attributes and tree
// placement, but not its content.
func (c *Client) GetNote(ctx context.Context, noteID string) (*Note, error) {
	var result Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID), nil, nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// PatchNote updates the given note properties and returns the updated note.
func (c *Client) PatchNote(ctx context.Context, noteID string, patch NotePatch) (*Note, error) {
	var result Note
	if err := c.do(ctx, http.MethodPatch, "/notes/"+url.PathEscape(noteID), nil, patch, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteNote deletes a note and everything beneath it.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(noteID), nil, nil, nil)
}

// GetNoteContent returns the note's content. For text notes this is HTML.
func (c *Client) GetNoteContent(ctx context.Context, noteID string) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID)+"/content", nil, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read note content: %w", err)
	}

	return string(data), nil
}

// PutNoteContent replaces the note's content.
func (c *Client) PutNoteContent(ctx context.Context, noteID string, content string) error {
	path := "/notes/" + url.PathEscape(noteID) + "/content"

	resp, err := c.doRequest(ctx, http.MethodPut, path, nil, "text/plain", bytes.NewReader([]byte(content)))
	if err != nil {
		return err
	}

	return c.decodeResponse(resp, nil)
}

// ExportNote exports the subtree rooted at noteID as a zip archive in the
// given format. ExportHTML round-trips through ImportZip; ExportMarkdown is
// lossy and meant for migrating out.
func (c *Client) ExportNote(ctx context.Context, noteID string, format ExportFormat) ([]byte, error) {
	query := url.Values{}
	if format != "" {
		query.Set("format", string(format))
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/notes/"+url.PathEscape(noteID)+"/export", query, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read export archive: %w", err)
	}

	return data, nil
}

// ImportZip imports a zip archive (as produced by ExportNote) under the
// given note and returns the root of the imported subtree.
func (c *Client) ImportZip(ctx context.Context, noteID string, archive []byte) (*NoteWithBranch, error) {
	path := "/notes/" + url.PathEscape(noteID) + "/import"

	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, "application/octet-stream", bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}

	var result NoteWithBranch
	if err := c.decodeResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateRevision snapshots the note's current content as a revision.
func (c *Client) CreateRevision(ctx context.Context, noteID string) error {
	return c.do(ctx, http.MethodPost, "/notes/"+url.PathEscape(noteID)+"/revision", nil, nil, nil)
}

// SearchNotes runs a search query and returns the matching notes. The query
// string uses Trilium's search syntax; the searchql package builds such
// strings from condition trees.
func (c *Client) SearchNotes(ctx context.Context, query string, opts *SearchOptions) ([]Note, error) {
	result, err := c.SearchNotesDetailed(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	return result.Results, nil
}

// SearchNotesDetailed is SearchNotes with the full response, including the
// server's debug information when opts.Debug is set.
func (c *Client) SearchNotesDetailed(ctx context.Context, query string, opts *SearchOptions) (*SearchResponse, error) {
	var result SearchResponse
	if err := c.do(ctx, http.MethodGet, "/notes", searchQuery(query, opts), nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func searchQuery(search string, opts *SearchOptions) url.Values {
	query := url.Values{}
	query.Set("search", search)

	if opts == nil {
		return query
	}

	if opts.FastSearch {
		query.Set("fastSearch", "true")
	}
	if opts.IncludeArchivedNotes {
		query.Set("includeArchivedNotes", "true")
	}
	if opts.AncestorNoteID != "" {
		query.Set("ancestorNoteId", opts.AncestorNoteID)
	}
	if opts.AncestorDepth != "" {
		query.Set("ancestorDepth", opts.AncestorDepth)
	}
	if opts.OrderBy != "" {
		query.Set("orderBy", opts.OrderBy)
		if opts.OrderDirection != "" {
			query.Set("orderDirection", opts.OrderDirection)
		}
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Debug {
		query.Set("debug", "true")
	}

	return query
}
