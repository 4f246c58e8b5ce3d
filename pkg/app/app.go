// Package app implements the entry and folder services on top of a store.
// Both services read and rewrite a whole collection on every call; journals
// are personal-scale, so there are no partial updates.
package app

import (
	"errors"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/store"
)

var (
	// ErrNoStore is returned when a service is used without a store.
	ErrNoStore = errors.New("app: no persistence configured")
	// ErrEmptyName rejects folder names that are blank after trimming.
	ErrEmptyName = errors.New("app: folder name required")
)

// Clock returns the current time. Services use it for every timestamp they
// set so tests can pin time.
type Clock func() entry.Timestamp

func (c Clock) now() entry.Timestamp {
	if c == nil {
		return entry.Now()
	}
	return c()
}

// Services bundles the entry and folder services over one store.
type Services struct {
	Entries *EntryService
	Folders *FolderService
}

// New wires both services to s.
func New(s store.Store, clock Clock) *Services {
	entries := &EntryService{Store: s}
	return &Services{
		Entries: entries,
		Folders: &FolderService{Store: s, Entries: entries, Clock: clock},
	}
}
