// Package entry defines the journal entry record and its value types.
package entry

import (
	"github.com/google/uuid"
)

// UntitledLabel is shown in lists for entries without a title.
const UntitledLabel = "Untitled"

// FolderRef is a weak reference to a folder by id. The zero value means the
// entry is unfiled. A FolderRef is only ever resolved through a folder lookup,
// so a reference to a folder that no longer exists reads as unfiled.
type FolderRef string

// Unfiled is the empty folder reference.
const Unfiled FolderRef = ""

// IsSet reports whether the reference names a folder.
func (r FolderRef) IsSet() bool {
	return r != Unfiled
}

func (r FolderRef) String() string {
	return string(r)
}

// Entry is a single journal record.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
	Color     Color     `json:"color,omitempty"`
	FolderID  FolderRef `json:"folderId,omitempty"`
}

// New returns an empty entry with a fresh id, created and updated now.
func New() Entry {
	now := Now()
	return Entry{
		ID:        NewID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID returns a random unique identifier.
func NewID() string {
	return uuid.NewString()
}

// DisplayTitle returns the title or UntitledLabel when it is blank.
func (e Entry) DisplayTitle() string {
	if e.Title == "" {
		return UntitledLabel
	}
	return e.Title
}

// Touch refreshes UpdatedAt, never moving it before CreatedAt.
func (e *Entry) Touch(now Timestamp) {
	if now.Before(e.CreatedAt.Time) {
		now = e.CreatedAt
	}
	e.UpdatedAt = now
}

// ShortID returns the leading characters of the id for compact displays.
func (e Entry) ShortID() string {
	if len(e.ID) > 8 {
		return e.ID[:8]
	}
	return e.ID
}
