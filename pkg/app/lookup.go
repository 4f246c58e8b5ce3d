package app

import (
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
)

var (
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an id prefix matches several records.
	ErrAmbiguous = errors.New("ambiguous")
)

// Resolve finds an entry by full id or by a unique id prefix.
func (s *EntryService) Resolve(ref string) (entry.Entry, error) {
	all := s.All()
	i, err := resolve(len(all), func(i int) string { return all[i].ID }, nil, ref)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("entry %q %w", ref, err)
	}
	return all[i], nil
}

// Resolve finds a folder by full id, unique id prefix or case-insensitive
// name. Names win over prefixes.
func (s *FolderService) Resolve(ref string) (folder.Folder, error) {
	all := s.All()
	name := func(i int) string { return all[i].Name }
	i, err := resolve(len(all), func(i int) string { return all[i].ID }, name, ref)
	if err != nil {
		return folder.Folder{}, fmt.Errorf("folder %q %w", ref, err)
	}
	return all[i], nil
}

func resolve(n int, id, name func(int) string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, ErrNotFound
	}
	for i := 0; i < n; i++ {
		if id(i) == ref {
			return i, nil
		}
	}
	if name != nil {
		match := -1
		for i := 0; i < n; i++ {
			if strings.EqualFold(name(i), ref) {
				if match >= 0 {
					return -1, ErrAmbiguous
				}
				match = i
			}
		}
		if match >= 0 {
			return match, nil
		}
	}
	match := -1
	for i := 0; i < n; i++ {
		if strings.HasPrefix(id(i), ref) {
			if match >= 0 {
				return -1, ErrAmbiguous
			}
			match = i
		}
	}
	if match < 0 {
		return -1, ErrNotFound
	}
	return match, nil
}
