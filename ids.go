package trilium

import "github.com/trilium-community/trilium.go/internal/rand"

// GenerateEntityID mints a 12-character entity ID in the alphabet Trilium
// uses for its own IDs. Pass it as NoteID/BranchID/AttributeID in create
// params when the caller needs to know an entity's ID before the server
// responds.
func GenerateEntityID() string {
	return rand.NewEntityID()
}
