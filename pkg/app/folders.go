package app

import (
	"fmt"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
	"tableflip.dev/journal/pkg/store"
)

// FolderService provides CRUD over the folders collection. Deleting a folder
// also unfiles its entries through Entries.
type FolderService struct {
	Store   store.Store
	Entries *EntryService
	Clock   Clock
}

// All returns the folders in creation order.
func (s *FolderService) All() []folder.Folder {
	if s.Store == nil {
		return []folder.Folder{}
	}
	return store.ReadAll[folder.Folder](s.Store, store.Folders)
}

// Get returns the folder with id.
func (s *FolderService) Get(id string) (folder.Folder, bool) {
	return folder.Find(s.All(), entry.FolderRef(id))
}

// Create appends a new folder named name (trimmed).
func (s *FolderService) Create(name string) (folder.Folder, error) {
	if s.Store == nil {
		return folder.Folder{}, ErrNoStore
	}
	name = folder.NormalizeName(name)
	if name == "" {
		return folder.Folder{}, ErrEmptyName
	}
	now := s.Clock.now()
	f := folder.Folder{
		ID:        entry.NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	all := append(s.All(), f)
	if err := store.WriteAll(s.Store, store.Folders, all); err != nil {
		return folder.Folder{}, err
	}
	return f, nil
}

// Update renames the folder with id. Unknown ids are ignored.
func (s *FolderService) Update(id, name string) error {
	if s.Store == nil {
		return ErrNoStore
	}
	name = folder.NormalizeName(name)
	if name == "" {
		return ErrEmptyName
	}
	all := s.All()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Name = name
		now := s.Clock.now()
		if now.Before(all[i].CreatedAt.Time) {
			now = all[i].CreatedAt
		}
		all[i].UpdatedAt = now
		return store.WriteAll(s.Store, store.Folders, all)
	}
	return nil
}

// Delete removes the folder with id and unfiles every entry referencing it.
//
// Entries are unfiled before the folder record is removed. If the process
// stops between the two writes the folder survives with no entries in it,
// which is a consistent state, and calling Delete again finishes the job.
func (s *FolderService) Delete(id string) error {
	if s.Store == nil {
		return ErrNoStore
	}
	if s.Entries != nil {
		if _, err := s.Entries.Unfile(id); err != nil {
			return fmt.Errorf("app: unfile entries of folder %s: %w", id, err)
		}
	}
	all := s.All()
	kept := all[:0]
	for _, f := range all {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return store.WriteAll(s.Store, store.Folders, kept)
}
