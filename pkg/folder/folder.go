// Package folder defines the flat grouping container for journal entries.
package folder

import (
	"strings"

	"tableflip.dev/journal/pkg/entry"
)

// UnfiledLabel names the implicit group of entries without a folder.
const UnfiledLabel = "Unfiled"

// Folder is a named label entries can be filed under.
type Folder struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt entry.Timestamp `json:"createdAt"`
	UpdatedAt entry.Timestamp `json:"updatedAt"`
}

// Ref returns the weak reference entries use to point at f.
func (f Folder) Ref() entry.FolderRef {
	return entry.FolderRef(f.ID)
}

// NormalizeName trims surrounding whitespace; an empty result is not a valid
// folder name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Find returns the folder matching ref.
func Find(folders []Folder, ref entry.FolderRef) (Folder, bool) {
	if !ref.IsSet() {
		return Folder{}, false
	}
	for _, f := range folders {
		if f.ID == string(ref) {
			return f, true
		}
	}
	return Folder{}, false
}

// Label resolves ref to a display name, falling back to UnfiledLabel for
// unset or dangling references.
func Label(folders []Folder, ref entry.FolderRef) string {
	if f, ok := Find(folders, ref); ok {
		return f.Name
	}
	return UnfiledLabel
}
