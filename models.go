package trilium

import "encoding/json"

// NoteType enumerates the note types a Trilium server understands.
type NoteType string

const (
	NoteTypeText          NoteType = "text"
	NoteTypeCode          NoteType = "code"
	NoteTypeRender        NoteType = "render"
	NoteTypeFile          NoteType = "file"
	NoteTypeImage         NoteType = "image"
	NoteTypeSearch        NoteType = "search"
	NoteTypeRelationMap   NoteType = "relationMap"
	NoteTypeBook          NoteType = "book"
	NoteTypeNoteMap       NoteType = "noteMap"
	NoteTypeMermaid       NoteType = "mermaid"
	NoteTypeWebView       NoteType = "webView"
	NoteTypeShortcut      NoteType = "shortcut"
	NoteTypeDoc           NoteType = "doc"
	NoteTypeContentWidget NoteType = "contentWidget"
	NoteTypeLauncher      NoteType = "launcher"
)

// AttributeType discriminates the two kinds of note attributes.
type AttributeType string

const (
	AttributeLabel    AttributeType = "label"
	AttributeRelation AttributeType = "relation"
)

// ExportFormat selects the flavor of a note subtree export.
type ExportFormat string

const (
	ExportHTML     ExportFormat = "html"
	ExportMarkdown ExportFormat = "markdown"
)

// Note is a single note record.
//
// Date fields are strings in Trilium's own format, e.g.
// "2021-12-31 20:18:11.939+0100" for local and
// "2021-12-31 19:18:11.939Z" for UTC timestamps.
type Note struct {
	NoteID          string      `json:"noteId"`
	Title           string      `json:"title"`
	Type            NoteType    `json:"type"`
	Mime            string      `json:"mime,omitempty"`
	IsProtected     bool        `json:"isProtected"`
	BlobID          string      `json:"blobId,omitempty"`
	Attributes      []Attribute `json:"attributes,omitempty"`
	ParentNoteIDs   []string    `json:"parentNoteIds,omitempty"`
	ChildNoteIDs    []string    `json:"childNoteIds,omitempty"`
	ParentBranchIDs []string    `json:"parentBranchIds,omitempty"`
	ChildBranchIDs  []string    `json:"childBranchIds,omitempty"`
	DateCreated     string      `json:"dateCreated,omitempty"`
	DateModified    string      `json:"dateModified,omitempty"`
	UTCDateCreated  string      `json:"utcDateCreated,omitempty"`
	UTCDateModified string      `json:"utcDateModified,omitempty"`
}

// Label returns the value of the first label attribute named name, in
// attribute list order. Duplicate names are not deduplicated; later ones
// are simply never seen here.
func (n *Note) Label(name string) (string, bool) {
	return n.attributeValue(AttributeLabel, name)
}

// HasLabel reports whether the note carries a label named name.
func (n *Note) HasLabel(name string) bool {
	_, ok := n.Label(name)
	return ok
}

// Relation returns the target note ID of the first relation attribute named
// name, in attribute list order.
func (n *Note) Relation(name string) (string, bool) {
	return n.attributeValue(AttributeRelation, name)
}

func (n *Note) attributeValue(typ AttributeType, name string) (string, bool) {
	for _, attr := range n.Attributes {
		if attr.Type == typ && attr.Name == name {
			return attr.Value, true
		}
	}

	return "", false
}

// Attribute is a label or relation attached to a note. For relations the
// value is the target note's ID.
type Attribute struct {
	AttributeID     string        `json:"attributeId"`
	NoteID          string        `json:"noteId"`
	Type            AttributeType `json:"type"`
	Name            string        `json:"name"`
	Value           string        `json:"value,omitempty"`
	Position        int           `json:"position"`
	IsInheritable   bool          `json:"isInheritable"`
	UTCDateModified string        `json:"utcDateModified,omitempty"`
}

// Branch is one placement of a note in the tree. A note cloned into several
// parents has one branch per parent.
type Branch struct {
	BranchID        string `json:"branchId"`
	NoteID          string `json:"noteId"`
	ParentNoteID    string `json:"parentNoteId"`
	Prefix          string `json:"prefix,omitempty"`
	NotePosition    int    `json:"notePosition"`
	IsExpanded      bool   `json:"isExpanded"`
	UTCDateModified string `json:"utcDateModified,omitempty"`
}

// Attachment is a file owned by a note or a revision.
type Attachment struct {
	AttachmentID                    string `json:"attachmentId"`
	OwnerID                         string `json:"ownerId"`
	Role                            string `json:"role"`
	Mime                            string `json:"mime"`
	Title                           string `json:"title"`
	Position                        int    `json:"position"`
	BlobID                          string `json:"blobId,omitempty"`
	DateModified                    string `json:"dateModified,omitempty"`
	UTCDateModified                 string `json:"utcDateModified,omitempty"`
	UTCDateScheduledForErasureSince string `json:"utcDateScheduledForErasureSince,omitempty"`
	ContentLength                   int    `json:"contentLength,omitempty"`
}

// AppInfo describes the server build.
type AppInfo struct {
	AppVersion             string `json:"appVersion"`
	DBVersion              int    `json:"dbVersion"`
	NodeVersion            string `json:"nodeVersion"`
	SyncVersion            int    `json:"syncVersion"`
	BuildDate              string `json:"buildDate"`
	BuildRevision          string `json:"buildRevision"`
	DataDirectory          string `json:"dataDirectory"`
	ClipperProtocolVersion string `json:"clipperProtocolVersion"`
	UTCDateTime            string `json:"utcDateTime"`
}

// NoteWithBranch is the result of operations that create both a note and
// its placement, like CreateNote and ImportZip.
type NoteWithBranch struct {
	Note   Note   `json:"note"`
	Branch Branch `json:"branch"`
}

// SearchResponse is the full payload of the search endpoint. DebugInfo is
// only populated when the search was issued with Debug set.
type SearchResponse struct {
	Results   []Note          `json:"results"`
	DebugInfo json.RawMessage `json:"debugInfo,omitempty"`
}

// CreateNoteParams is the body of CreateNote. ParentNoteID, Title, Type and
// Content are required by the server. NoteID and BranchID may be supplied
// to pin the new entity IDs (see GenerateEntityID), otherwise the server
// mints them.
type CreateNoteParams struct {
	ParentNoteID   string   `json:"parentNoteId"`
	Title          string   `json:"title"`
	Type           NoteType `json:"type"`
	Content        string   `json:"content"`
	Mime           string   `json:"mime,omitempty"`
	NotePosition   int      `json:"notePosition,omitempty"`
	Prefix         string   `json:"prefix,omitempty"`
	IsExpanded     bool     `json:"isExpanded,omitempty"`
	NoteID         string   `json:"noteId,omitempty"`
	BranchID       string   `json:"branchId,omitempty"`
	DateCreated    string   `json:"dateCreated,omitempty"`
	UTCDateCreated string   `json:"utcDateCreated,omitempty"`
}

// NotePatch carries the patchable note properties. Nil fields are left
// untouched by the server.
type NotePatch struct {
	Title          *string   `json:"title,omitempty"`
	Type           *NoteType `json:"type,omitempty"`
	Mime           *string   `json:"mime,omitempty"`
	DateCreated    *string   `json:"dateCreated,omitempty"`
	UTCDateCreated *string   `json:"utcDateCreated,omitempty"`
}

// BranchParams is the body of CreateBranch. Creating a branch for a
// note/parent pair that already has one updates that branch instead.
type BranchParams struct {
	NoteID       string `json:"noteId"`
	ParentNoteID string `json:"parentNoteId"`
	Prefix       string `json:"prefix,omitempty"`
	NotePosition int    `json:"notePosition,omitempty"`
	IsExpanded   bool   `json:"isExpanded,omitempty"`
	BranchID     string `json:"branchId,omitempty"`
}

// BranchPatch carries the patchable branch properties.
type BranchPatch struct {
	Prefix       *string `json:"prefix,omitempty"`
	NotePosition *int    `json:"notePosition,omitempty"`
	IsExpanded   *bool   `json:"isExpanded,omitempty"`
}

// AttributeParams is the body of CreateAttribute.
type AttributeParams struct {
	NoteID        string        `json:"noteId"`
	Type          AttributeType `json:"type"`
	Name          string        `json:"name"`
	Value         string        `json:"value,omitempty"`
	IsInheritable bool          `json:"isInheritable,omitempty"`
	Position      int           `json:"position,omitempty"`
	AttributeID   string        `json:"attributeId,omitempty"`
}

// AttributePatch carries the patchable attribute properties. Only value and
// position can change after creation.
type AttributePatch struct {
	Value    *string `json:"value,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// AttachmentParams is the body of CreateAttachment.
type AttachmentParams struct {
	OwnerID  string `json:"ownerId"`
	Role     string `json:"role"`
	Mime     string `json:"mime"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
	Position int    `json:"position,omitempty"`
}

// AttachmentPatch carries the patchable attachment properties.
type AttachmentPatch struct {
	Role     *string `json:"role,omitempty"`
	Mime     *string `json:"mime,omitempty"`
	Title    *string `json:"title,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// SearchOptions tunes the search endpoint. The zero value means plain
// full-text search over the whole tree.
type SearchOptions struct {
	// FastSearch disables fulltext search over note contents; only titles
	// and attribute names/values are considered.
	FastSearch bool
	// IncludeArchivedNotes lifts the default exclusion of archived notes.
	IncludeArchivedNotes bool
	// AncestorNoteID restricts results to the subtree under this note.
	AncestorNoteID string
	// AncestorDepth constrains the depth relative to the ancestor, in the
	// server's notation: "eq1", "lt4", "gt2" and so on.
	AncestorDepth string
	// OrderBy names a property to sort by, e.g. "title" or
	// "#publicationDate".
	OrderBy string
	// OrderDirection is "asc" or "desc"; only meaningful with OrderBy.
	OrderDirection string
	// Limit caps the number of results. Zero means no limit.
	Limit int
	// Debug asks the server to include query parse information in the
	// response's DebugInfo.
	Debug bool
}
