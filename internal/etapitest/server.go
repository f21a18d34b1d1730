// Package etapitest provides an in-memory ETAPI server for exercising the
// client in tests. It covers the endpoints the client speaks with just
// enough of the real server's behavior to be useful: token checks, entity
// storage with parent/child bookkeeping, find-or-create calendar notes,
// and ETAPI-shaped error bodies.
//
// State is seeded through SeedNote and friends and inspected through the
// recording accessors (LastSearch, Backups, ...). The server is safe for
// concurrent use.
package etapitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/rand"
)

// DefaultToken authenticates requests against the test server.
const DefaultToken = "etapitest-token"

// DefaultPassword is accepted by the login endpoint.
const DefaultPassword = "etapitest-password"

// Server is an in-memory ETAPI server.
type Server struct {
	http *httptest.Server

	mu             sync.RWMutex
	token          string
	password       string
	notes          map[string]*trilium.Note
	noteOrder      []string
	contents       map[string]string
	branches       map[string]*trilium.Branch
	attributes     map[string]*trilium.Attribute
	attachments    map[string]*trilium.Attachment
	attachmentData map[string][]byte

	searchResults []trilium.Note
	exportData    []byte

	lastSearch url.Values
	lastExport string
	lastImport []byte
	revisions  map[string]int
	backups    []string
	refreshed  []string
	logins     int
	logouts    int
}

// NewServer starts a test server authenticated by [DefaultToken].
func NewServer() *Server {
	s := &Server{
		token:          DefaultToken,
		password:       DefaultPassword,
		notes:          make(map[string]*trilium.Note),
		contents:       make(map[string]string),
		branches:       make(map[string]*trilium.Branch),
		attributes:     make(map[string]*trilium.Attribute),
		attachments:    make(map[string]*trilium.Attachment),
		attachmentData: make(map[string][]byte),
		exportData:     []byte("PK\x03\x04etapitest"),
		revisions:      make(map[string]int),
	}
	s.http = httptest.NewServer(s.router())
	return s
}

// URL is the server's base address, without the /etapi suffix.
func (s *Server) URL() string {
	return s.http.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.http.Close()
}

// SeedNote stores a note and its content, filling in an ID and a type
// when absent, and returns the stored copy.
func (s *Server) SeedNote(note trilium.Note, content string) trilium.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeNote(note, content)
}

// SeedBranch stores a branch, filling in an ID when absent.
func (s *Server) SeedBranch(branch trilium.Branch) trilium.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if branch.BranchID == "" {
		branch.BranchID = rand.NewEntityID()
	}
	s.branches[branch.BranchID] = &branch
	return branch
}

// SeedAttribute stores an attribute and attaches it to its owning note
// when that note is seeded.
func (s *Server) SeedAttribute(attr trilium.Attribute) trilium.Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeAttribute(attr)
}

// SeedAttachment stores an attachment and its raw content.
func (s *Server) SeedAttachment(att trilium.Attachment, data []byte) trilium.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if att.AttachmentID == "" {
		att.AttachmentID = rand.NewEntityID()
	}
	s.attachments[att.AttachmentID] = &att
	s.attachmentData[att.AttachmentID] = data
	return att
}

// SetSearchResults cans the response of the search endpoint. Without it
// the endpoint returns every seeded note in seed order.
func (s *Server) SetSearchResults(notes []trilium.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchResults = notes
}

// SetExportData cans the bytes served by the export endpoint.
func (s *Server) SetExportData(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exportData = data
}

// LastSearch returns the query parameters of the most recent search.
func (s *Server) LastSearch() url.Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSearch
}

// LastExportFormat returns the format parameter of the most recent export.
func (s *Server) LastExportFormat() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastExport
}

// ImportedZip returns the body of the most recent import.
func (s *Server) ImportedZip() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastImport
}

// NoteContent returns the stored content for a note.
func (s *Server) NoteContent(noteID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[noteID]
	return content, ok
}

// AttachmentContent returns the stored content for an attachment.
func (s *Server) AttachmentContent(attachmentID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.attachmentData[attachmentID]
	return data, ok
}

// Revisions returns how many revisions were created for a note.
func (s *Server) Revisions(noteID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revisions[noteID]
}

// Backups returns the names of all requested backups.
func (s *Server) Backups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backups
}

// RefreshedParents returns the parent note IDs whose ordering was
// refreshed.
func (s *Server) RefreshedParents() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshed
}

// Logins returns how many successful logins were performed.
func (s *Server) Logins() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logins
}

// Logouts returns how many logouts were performed.
func (s *Server) Logouts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logouts
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/etapi").Subrouter()
	api.Use(s.requireAuth)

	api.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	api.HandleFunc("/auth/logout", s.handleLogout).Methods("POST")

	api.HandleFunc("/create-note", s.handleCreateNote).Methods("POST")
	api.HandleFunc("/notes", s.handleSearch).Methods("GET")
	api.HandleFunc("/notes/{noteId}", s.handleGetNote).Methods("GET")
	api.HandleFunc("/notes/{noteId}", s.handlePatchNote).Methods("PATCH")
	api.HandleFunc("/notes/{noteId}", s.handleDeleteNote).Methods("DELETE")
	api.HandleFunc("/notes/{noteId}/content", s.handleGetContent).Methods("GET")
	api.HandleFunc("/notes/{noteId}/content", s.handlePutContent).Methods("PUT")
	api.HandleFunc("/notes/{noteId}/export", s.handleExport).Methods("GET")
	api.HandleFunc("/notes/{noteId}/import", s.handleImport).Methods("POST")
	api.HandleFunc("/notes/{noteId}/revision", s.handleCreateRevision).Methods("POST")

	api.HandleFunc("/branches", s.handleCreateBranch).Methods("POST")
	api.HandleFunc("/branches/{branchId}", s.handleGetBranch).Methods("GET")
	api.HandleFunc("/branches/{branchId}", s.handlePatchBranch).Methods("PATCH")
	api.HandleFunc("/branches/{branchId}", s.handleDeleteBranch).Methods("DELETE")

	api.HandleFunc("/attributes", s.handleCreateAttribute).Methods("POST")
	api.HandleFunc("/attributes/{attributeId}", s.handleGetAttribute).Methods("GET")
	api.HandleFunc("/attributes/{attributeId}", s.handlePatchAttribute).Methods("PATCH")
	api.HandleFunc("/attributes/{attributeId}", s.handleDeleteAttribute).Methods("DELETE")

	api.HandleFunc("/attachments", s.handleCreateAttachment).Methods("POST")
	api.HandleFunc("/attachments/{attachmentId}", s.handleGetAttachment).Methods("GET")
	api.HandleFunc("/attachments/{attachmentId}", s.handlePatchAttachment).Methods("PATCH")
	api.HandleFunc("/attachments/{attachmentId}", s.handleDeleteAttachment).Methods("DELETE")
	api.HandleFunc("/attachments/{attachmentId}/content", s.handleGetAttachmentContent).Methods("GET")
	api.HandleFunc("/attachments/{attachmentId}/content", s.handlePutAttachmentContent).Methods("PUT")

	api.HandleFunc("/inbox/{date}", s.calendarHandler("inbox")).Methods("GET")
	api.HandleFunc("/calendar/days/{date}", s.calendarHandler("dateNote")).Methods("GET")
	api.HandleFunc("/calendar/weeks/{date}", s.calendarHandler("weekNote")).Methods("GET")
	api.HandleFunc("/calendar/months/{date}", s.calendarHandler("monthNote")).Methods("GET")
	api.HandleFunc("/calendar/years/{date}", s.calendarHandler("yearNote")).Methods("GET")

	api.HandleFunc("/app-info", s.handleAppInfo).Methods("GET")
	api.HandleFunc("/backup/{backupName}", s.handleBackup).Methods("PUT")
	api.HandleFunc("/refresh-note-ordering/{parentNoteId}", s.handleRefreshOrdering).Methods("POST")

	return r
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/etapi/auth/login" {
			next.ServeHTTP(w, r)
			return
		}

		s.mu.RLock()
		token := s.token
		s.mu.RUnlock()

		if r.Header.Get("Authorization") != token {
			s.writeError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if body.Password != s.password {
		s.writeError(w, http.StatusUnauthorized, "WRONG_PASSWORD", "Wrong password")
		return
	}
	s.logins++

	s.writeJSON(w, http.StatusCreated, map[string]string{"authToken": s.token})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var params trilium.CreateNoteParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}
	if params.ParentNoteID == "" || params.Title == "" || params.Type == "" {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "parentNoteId, title and type are mandatory")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if params.ParentNoteID != "root" {
		if _, ok := s.notes[params.ParentNoteID]; !ok {
			s.writeError(w, http.StatusNotFound, "NOTE_NOT_FOUND", "Note '"+params.ParentNoteID+"' not found")
			return
		}
	}

	note := s.storeNote(trilium.Note{
		NoteID: params.NoteID,
		Title:  params.Title,
		Type:   params.Type,
		Mime:   params.Mime,
	}, params.Content)

	branch := s.storeBranch(trilium.Branch{
		BranchID:     params.BranchID,
		NoteID:       note.NoteID,
		ParentNoteID: params.ParentNoteID,
		Prefix:       params.Prefix,
		NotePosition: params.NotePosition,
		IsExpanded:   params.IsExpanded,
	})

	s.writeJSON(w, http.StatusCreated, trilium.NoteWithBranch{Note: note, Branch: branch})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.lastSearch = r.URL.Query()

	results := s.searchResults
	if results == nil {
		results = make([]trilium.Note, 0, len(s.noteOrder))
		for _, id := range s.noteOrder {
			results = append(results, *s.notes[id])
		}
	}
	s.mu.Unlock()

	response := map[string]any{"results": results}
	if r.URL.Query().Get("debug") == "true" {
		response["debugInfo"] = map[string]string{"query": r.URL.Query().Get("search")}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[mux.Vars(r)["noteId"]]
	if !ok {
		s.noteNotFound(w, mux.Vars(r)["noteId"])
		return
	}
	s.writeJSON(w, http.StatusOK, note)
}

func (s *Server) handlePatchNote(w http.ResponseWriter, r *http.Request) {
	var patch trilium.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[mux.Vars(r)["noteId"]]
	if !ok {
		s.noteNotFound(w, mux.Vars(r)["noteId"])
		return
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Type != nil {
		note.Type = *patch.Type
	}
	if patch.Mime != nil {
		note.Mime = *patch.Mime
	}
	if patch.DateCreated != nil {
		note.DateCreated = *patch.DateCreated
	}
	if patch.UTCDateCreated != nil {
		note.UTCDateCreated = *patch.UTCDateCreated
	}
	note.DateModified = nowString()

	s.writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	noteID := mux.Vars(r)["noteId"]
	if _, ok := s.notes[noteID]; !ok {
		s.noteNotFound(w, noteID)
		return
	}

	s.removeNote(noteID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	noteID := mux.Vars(r)["noteId"]
	if _, ok := s.notes[noteID]; !ok {
		s.noteNotFound(w, noteID)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.contents[noteID]))
}

func (s *Server) handlePutContent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "unreadable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	noteID := mux.Vars(r)["noteId"]
	note, ok := s.notes[noteID]
	if !ok {
		s.noteNotFound(w, noteID)
		return
	}

	s.contents[noteID] = string(body)
	note.DateModified = nowString()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	noteID := mux.Vars(r)["noteId"]
	_, ok := s.notes[noteID]
	if ok {
		s.lastExport = r.URL.Query().Get("format")
	}
	data := s.exportData
	s.mu.Unlock()

	if !ok {
		s.noteNotFound(w, noteID)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "unreadable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	noteID := mux.Vars(r)["noteId"]
	if _, ok := s.notes[noteID]; !ok {
		s.noteNotFound(w, noteID)
		return
	}

	s.lastImport = body
	note := s.storeNote(trilium.Note{Title: "Imported note", Type: trilium.NoteTypeText}, "")
	branch := s.storeBranch(trilium.Branch{NoteID: note.NoteID, ParentNoteID: noteID})

	s.writeJSON(w, http.StatusCreated, trilium.NoteWithBranch{Note: note, Branch: branch})
}

func (s *Server) handleCreateRevision(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	noteID := mux.Vars(r)["noteId"]
	if _, ok := s.notes[noteID]; !ok {
		s.noteNotFound(w, noteID)
		return
	}

	s.revisions[noteID]++
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var params trilium.BranchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[params.NoteID]; !ok {
		s.noteNotFound(w, params.NoteID)
		return
	}

	// Cloning a note to the same parent twice updates the existing branch.
	for _, b := range s.branches {
		if b.NoteID == params.NoteID && b.ParentNoteID == params.ParentNoteID {
			b.Prefix = params.Prefix
			if params.NotePosition != 0 {
				b.NotePosition = params.NotePosition
			}
			b.IsExpanded = params.IsExpanded
			b.UTCDateModified = nowString()
			s.writeJSON(w, http.StatusOK, b)
			return
		}
	}

	branch := s.storeBranch(trilium.Branch{
		BranchID:     params.BranchID,
		NoteID:       params.NoteID,
		ParentNoteID: params.ParentNoteID,
		Prefix:       params.Prefix,
		NotePosition: params.NotePosition,
		IsExpanded:   params.IsExpanded,
	})
	s.writeJSON(w, http.StatusCreated, branch)
}

func (s *Server) handleGetBranch(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	branch, ok := s.branches[mux.Vars(r)["branchId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "BRANCH_NOT_FOUND", "Branch '"+mux.Vars(r)["branchId"]+"' not found")
		return
	}
	s.writeJSON(w, http.StatusOK, branch)
}

func (s *Server) handlePatchBranch(w http.ResponseWriter, r *http.Request) {
	var patch trilium.BranchPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	branch, ok := s.branches[mux.Vars(r)["branchId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "BRANCH_NOT_FOUND", "Branch '"+mux.Vars(r)["branchId"]+"' not found")
		return
	}

	if patch.Prefix != nil {
		branch.Prefix = *patch.Prefix
	}
	if patch.NotePosition != nil {
		branch.NotePosition = *patch.NotePosition
	}
	if patch.IsExpanded != nil {
		branch.IsExpanded = *patch.IsExpanded
	}
	branch.UTCDateModified = nowString()

	s.writeJSON(w, http.StatusOK, branch)
}

func (s *Server) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	branchID := mux.Vars(r)["branchId"]
	branch, ok := s.branches[branchID]
	if !ok {
		s.writeError(w, http.StatusNotFound, "BRANCH_NOT_FOUND", "Branch '"+branchID+"' not found")
		return
	}
	delete(s.branches, branchID)

	// Deleting a note's last branch deletes the note itself.
	for _, b := range s.branches {
		if b.NoteID == branch.NoteID {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	s.removeNote(branch.NoteID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAttribute(w http.ResponseWriter, r *http.Request) {
	var params trilium.AttributeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}
	if params.Type != trilium.AttributeLabel && params.Type != trilium.AttributeRelation {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "type must be label or relation")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[params.NoteID]; !ok {
		s.noteNotFound(w, params.NoteID)
		return
	}

	attr := s.storeAttribute(trilium.Attribute{
		AttributeID:   params.AttributeID,
		NoteID:        params.NoteID,
		Type:          params.Type,
		Name:          params.Name,
		Value:         params.Value,
		Position:      params.Position,
		IsInheritable: params.IsInheritable,
	})
	s.writeJSON(w, http.StatusCreated, attr)
}

func (s *Server) handleGetAttribute(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attr, ok := s.attributes[mux.Vars(r)["attributeId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTRIBUTE_NOT_FOUND", "Attribute '"+mux.Vars(r)["attributeId"]+"' not found")
		return
	}
	s.writeJSON(w, http.StatusOK, attr)
}

func (s *Server) handlePatchAttribute(w http.ResponseWriter, r *http.Request) {
	var patch trilium.AttributePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attr, ok := s.attributes[mux.Vars(r)["attributeId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTRIBUTE_NOT_FOUND", "Attribute '"+mux.Vars(r)["attributeId"]+"' not found")
		return
	}

	if patch.Value != nil {
		attr.Value = *patch.Value
	}
	if patch.Position != nil {
		attr.Position = *patch.Position
	}
	attr.UTCDateModified = nowString()
	s.syncNoteAttributes(attr.NoteID)

	s.writeJSON(w, http.StatusOK, attr)
}

func (s *Server) handleDeleteAttribute(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attrID := mux.Vars(r)["attributeId"]
	attr, ok := s.attributes[attrID]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTRIBUTE_NOT_FOUND", "Attribute '"+attrID+"' not found")
		return
	}

	delete(s.attributes, attrID)
	s.syncNoteAttributes(attr.NoteID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateAttachment(w http.ResponseWriter, r *http.Request) {
	var params trilium.AttachmentParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[params.OwnerID]; !ok {
		s.noteNotFound(w, params.OwnerID)
		return
	}

	att := trilium.Attachment{
		AttachmentID:    rand.NewEntityID(),
		OwnerID:         params.OwnerID,
		Role:            params.Role,
		Mime:            params.Mime,
		Title:           params.Title,
		Position:        params.Position,
		UTCDateModified: nowString(),
	}
	s.attachments[att.AttachmentID] = &att
	s.attachmentData[att.AttachmentID] = []byte(params.Content)

	s.writeJSON(w, http.StatusCreated, att)
}

func (s *Server) handleGetAttachment(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	att, ok := s.attachments[mux.Vars(r)["attachmentId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "Attachment '"+mux.Vars(r)["attachmentId"]+"' not found")
		return
	}
	s.writeJSON(w, http.StatusOK, att)
}

func (s *Server) handlePatchAttachment(w http.ResponseWriter, r *http.Request) {
	var patch trilium.AttachmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	att, ok := s.attachments[mux.Vars(r)["attachmentId"]]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "Attachment '"+mux.Vars(r)["attachmentId"]+"' not found")
		return
	}

	if patch.Role != nil {
		att.Role = *patch.Role
	}
	if patch.Mime != nil {
		att.Mime = *patch.Mime
	}
	if patch.Title != nil {
		att.Title = *patch.Title
	}
	if patch.Position != nil {
		att.Position = *patch.Position
	}
	att.UTCDateModified = nowString()

	s.writeJSON(w, http.StatusOK, att)
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attID := mux.Vars(r)["attachmentId"]
	if _, ok := s.attachments[attID]; !ok {
		s.writeError(w, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "Attachment '"+attID+"' not found")
		return
	}

	delete(s.attachments, attID)
	delete(s.attachmentData, attID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetAttachmentContent(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attID := mux.Vars(r)["attachmentId"]
	att, ok := s.attachments[attID]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "Attachment '"+attID+"' not found")
		return
	}

	contentType := att.Mime
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(s.attachmentData[attID])
}

func (s *Server) handlePutAttachmentContent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "PROPERTY_VALIDATION_ERROR", "unreadable body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	attID := mux.Vars(r)["attachmentId"]
	att, ok := s.attachments[attID]
	if !ok {
		s.writeError(w, http.StatusNotFound, "ATTACHMENT_NOT_FOUND", "Attachment '"+attID+"' not found")
		return
	}

	s.attachmentData[attID] = body
	att.UTCDateModified = nowString()
	w.WriteHeader(http.StatusNoContent)
}

// calendarHandler finds or creates the note labeled with the request's
// date, mirroring the server's special calendar notes.
func (s *Server) calendarHandler(labelName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := mux.Vars(r)["date"]

		s.mu.Lock()
		defer s.mu.Unlock()

		for _, id := range s.noteOrder {
			if note := s.notes[id]; note.HasLabel(labelName) {
				if v, _ := note.Label(labelName); v == date {
					s.writeJSON(w, http.StatusOK, note)
					return
				}
			}
		}

		note := s.storeNote(trilium.Note{Title: date, Type: trilium.NoteTypeText}, "")
		s.storeAttribute(trilium.Attribute{
			NoteID: note.NoteID,
			Type:   trilium.AttributeLabel,
			Name:   labelName,
			Value:  date,
		})
		s.writeJSON(w, http.StatusOK, s.notes[note.NoteID])
	}
}

func (s *Server) handleAppInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, trilium.AppInfo{
		AppVersion:             "0.63.7",
		DBVersion:              228,
		NodeVersion:            "v18.18.2",
		SyncVersion:            32,
		BuildDate:              "2023-11-08T22:56:33+01:00",
		BuildRevision:          "a0c9efdd56ba06387209c0b56b6e8bb5c1b4bd46",
		DataDirectory:          "/home/node/trilium-data",
		ClipperProtocolVersion: "1.0",
		UTCDateTime:            time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.backups = append(s.backups, mux.Vars(r)["backupName"])
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshOrdering(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.refreshed = append(s.refreshed, mux.Vars(r)["parentNoteId"])
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// storeNote fills in defaults and indexes the note. Callers hold s.mu.
func (s *Server) storeNote(note trilium.Note, content string) trilium.Note {
	if note.NoteID == "" {
		note.NoteID = rand.NewEntityID()
	}
	if note.Type == "" {
		note.Type = trilium.NoteTypeText
	}
	if note.DateCreated == "" {
		note.DateCreated = nowString()
	}
	note.DateModified = nowString()

	if _, exists := s.notes[note.NoteID]; !exists {
		s.noteOrder = append(s.noteOrder, note.NoteID)
	}
	s.notes[note.NoteID] = &note
	s.contents[note.NoteID] = content

	for _, attr := range note.Attributes {
		if attr.AttributeID == "" {
			attr.AttributeID = rand.NewEntityID()
		}
		attr.NoteID = note.NoteID
		s.attributes[attr.AttributeID] = &attr
	}
	s.syncNoteAttributes(note.NoteID)

	return note
}

// storeBranch fills in defaults and indexes the branch. Callers hold s.mu.
func (s *Server) storeBranch(branch trilium.Branch) trilium.Branch {
	if branch.BranchID == "" {
		branch.BranchID = rand.NewEntityID()
	}
	if branch.NotePosition == 0 {
		branch.NotePosition = 10 * (len(s.branches) + 1)
	}
	branch.UTCDateModified = nowString()
	s.branches[branch.BranchID] = &branch
	return branch
}

// storeAttribute indexes the attribute and refreshes its owning note.
// Callers hold s.mu.
func (s *Server) storeAttribute(attr trilium.Attribute) trilium.Attribute {
	if attr.AttributeID == "" {
		attr.AttributeID = rand.NewEntityID()
	}
	attr.UTCDateModified = nowString()
	s.attributes[attr.AttributeID] = &attr
	s.syncNoteAttributes(attr.NoteID)
	return attr
}

// syncNoteAttributes rebuilds a note's attribute list from the attribute
// index, keeping position order stable. Callers hold s.mu.
func (s *Server) syncNoteAttributes(noteID string) {
	note, ok := s.notes[noteID]
	if !ok {
		return
	}

	attrs := make([]trilium.Attribute, 0)
	for _, id := range s.attributeOrder() {
		if a := s.attributes[id]; a.NoteID == noteID {
			attrs = append(attrs, *a)
		}
	}
	note.Attributes = attrs
}

// attributeOrder returns attribute IDs sorted by position then ID so
// rebuilt lists are deterministic. Callers hold s.mu.
func (s *Server) attributeOrder() []string {
	ids := make([]string, 0, len(s.attributes))
	for id := range s.attributes {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0; j-- {
			a, b := s.attributes[ids[j-1]], s.attributes[ids[j]]
			if a.Position < b.Position || (a.Position == b.Position && a.AttributeID <= b.AttributeID) {
				break
			}
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

// removeNote deletes a note with its content, branches and attributes.
// Callers hold s.mu.
func (s *Server) removeNote(noteID string) {
	delete(s.notes, noteID)
	delete(s.contents, noteID)

	for i, id := range s.noteOrder {
		if id == noteID {
			s.noteOrder = append(s.noteOrder[:i], s.noteOrder[i+1:]...)
			break
		}
	}
	for id, b := range s.branches {
		if b.NoteID == noteID {
			delete(s.branches, id)
		}
	}
	for id, a := range s.attributes {
		if a.NoteID == noteID {
			delete(s.attributes, id)
		}
	}
}

func (s *Server) noteNotFound(w http.ResponseWriter, noteID string) {
	s.writeError(w, http.StatusNotFound, "NOTE_NOT_FOUND", "Note '"+noteID+"' not found")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
	})
}

func nowString() string {
	return time.Now().Format("2006-01-02 15:04:05.000-0700")
}
