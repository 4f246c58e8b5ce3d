package app

import (
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/store"
)

// EntryService provides CRUD over the entries collection.
type EntryService struct {
	Store store.Store
}

// All returns the entries in stored order.
func (s *EntryService) All() []entry.Entry {
	if s.Store == nil {
		return []entry.Entry{}
	}
	return store.ReadAll[entry.Entry](s.Store, store.Entries)
}

// Get returns the entry with id.
func (s *EntryService) Get(id string) (entry.Entry, bool) {
	for _, e := range s.All() {
		if e.ID == id {
			return e, true
		}
	}
	return entry.Entry{}, false
}

// Save replaces the entry with the same id in place, or inserts e as the new
// head of the collection.
func (s *EntryService) Save(e entry.Entry) error {
	if s.Store == nil {
		return ErrNoStore
	}
	all := s.All()
	for i := range all {
		if all[i].ID == e.ID {
			all[i] = e
			return store.WriteAll(s.Store, store.Entries, all)
		}
	}
	all = append([]entry.Entry{e}, all...)
	return store.WriteAll(s.Store, store.Entries, all)
}

// Delete removes the entry with id. Unknown ids are ignored.
func (s *EntryService) Delete(id string) error {
	if s.Store == nil {
		return ErrNoStore
	}
	all := s.All()
	kept := all[:0]
	for _, e := range all {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return store.WriteAll(s.Store, store.Entries, kept)
}

// Unfile clears the folder reference of every entry filed under folderID and
// returns how many entries changed. Running it again is a no-op.
func (s *EntryService) Unfile(folderID string) (int, error) {
	return s.clearFolders(func(ref entry.FolderRef) bool {
		return ref == entry.FolderRef(folderID)
	})
}

// Prune clears folder references for which valid reports false, along with
// colors outside the palette. It returns how many entries changed.
func (s *EntryService) Prune(valid func(entry.FolderRef) bool) (int, error) {
	if s.Store == nil {
		return 0, ErrNoStore
	}
	all := s.All()
	changed := 0
	for i := range all {
		dirty := false
		if all[i].FolderID.IsSet() && !valid(all[i].FolderID) {
			all[i].FolderID = entry.Unfiled
			dirty = true
		}
		if all[i].Color != "" && !all[i].Color.Valid() {
			all[i].Color = ""
			dirty = true
		}
		if dirty {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, store.WriteAll(s.Store, store.Entries, all)
}

func (s *EntryService) clearFolders(match func(entry.FolderRef) bool) (int, error) {
	if s.Store == nil {
		return 0, ErrNoStore
	}
	all := s.All()
	changed := 0
	for i := range all {
		if all[i].FolderID.IsSet() && match(all[i].FolderID) {
			all[i].FolderID = entry.Unfiled
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, store.WriteAll(s.Store, store.Entries, all)
}
