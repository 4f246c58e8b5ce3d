// Package mcp provides the Model Context Protocol server integration for the
// journal.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/export"
	"tableflip.dev/journal/pkg/folder"
	"tableflip.dev/journal/pkg/state"
)

// ErrConfirmRequired is returned when a delete is requested without confirm.
var ErrConfirmRequired = errors.New("mcp: destructive action requires confirm=true")

// Service runs journal operations for MCP tools and resources. Every call
// reloads from the store first so edits made by other processes are seen.
type Service struct {
	mu      sync.Mutex
	svcs    *app.Services
	ctrl    *state.Controller
	confirm bool
}

// ListOptions filters ListEntries.
type ListOptions struct {
	Folder  string
	Unfiled bool
	Color   string
}

// CreateEntryOptions captures the parameters used to create a new entry.
type CreateEntryOptions struct {
	Title   string
	Content string
	Color   string
	Folder  string
}

// UpdateEntryOptions lists the fields to change; nil fields are left alone.
// An empty Folder unfiles the entry and an empty Color clears it.
type UpdateEntryOptions struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Color   *string `json:"color"`
	Folder  *string `json:"folder"`
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Color      string `json:"color"`
	FolderID   string `json:"folderId,omitempty"`
	FolderName string `json:"folder"`
	Created    string `json:"created"`
	Updated    string `json:"updated"`
}

// FolderSummary describes a folder and how many entries are filed in it.
type FolderSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntryCount int    `json:"entryCount"`
	Updated    string `json:"updated"`
}

// NewService loads a controller over svcs. Options are passed through to the
// controller; the confirmer is owned by the service.
func NewService(svcs *app.Services, opts ...state.Option) *Service {
	s := &Service{svcs: svcs}
	opts = append(opts, state.WithConfirmer(state.ConfirmFunc(func(string) bool {
		return s.confirm
	})))
	s.ctrl = state.New(svcs, opts...)
	s.ctrl.Load()
	return s
}

// Close stops the controller.
func (s *Service) Close() {
	s.ctrl.Close()
}

func (s *Service) begin() func() {
	s.mu.Lock()
	s.ctrl.Reload()
	return s.mu.Unlock
}

// ListEntries returns entries in stored order, optionally filtered.
func (s *Service) ListEntries(ctx context.Context, opts ListOptions) ([]EntryDTO, error) {
	defer s.begin()()

	var ref entry.FolderRef
	if opts.Folder != "" {
		f, err := s.svcs.Folders.Resolve(opts.Folder)
		if err != nil {
			return nil, err
		}
		ref = f.Ref()
	}
	var color entry.Color
	if opts.Color != "" {
		c, err := entry.ParseColor(opts.Color)
		if err != nil {
			return nil, err
		}
		color = c
	}

	folders := s.ctrl.Folders()
	out := make([]EntryDTO, 0)
	for _, e := range s.ctrl.Entries() {
		_, filed := folder.Find(folders, e.FolderID)
		switch {
		case ref.IsSet() && e.FolderID != ref:
			continue
		case opts.Unfiled && filed:
			continue
		case color != "" && e.Color.OrDefault() != color:
			continue
		}
		out = append(out, toDTO(e, folders))
	}
	return out, nil
}

// SearchEntries returns up to limit entries whose title or content contains
// query, ignoring case.
func (s *Service) SearchEntries(ctx context.Context, query string, limit int) ([]EntryDTO, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errors.New("query is required")
	}
	if limit <= 0 {
		limit = 20
	}
	defer s.begin()()

	folders := s.ctrl.Folders()
	out := make([]EntryDTO, 0)
	for _, e := range s.ctrl.Entries() {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, toDTO(e, folders))
		}
	}
	return out, nil
}

// EntryByID fetches one entry by id or unique id prefix.
func (s *Service) EntryByID(ctx context.Context, ref string) (*EntryDTO, error) {
	defer s.begin()()

	e, err := s.svcs.Entries.Resolve(ref)
	if err != nil {
		return nil, err
	}
	dto := toDTO(e, s.ctrl.Folders())
	return &dto, nil
}

// CreateEntry adds an entry with the given fields.
func (s *Service) CreateEntry(ctx context.Context, opts CreateEntryOptions) (*EntryDTO, error) {
	defer s.begin()()

	p, err := s.patch(UpdateEntryOptions{
		Title:   &opts.Title,
		Content: &opts.Content,
		Color:   &opts.Color,
		Folder:  &opts.Folder,
	})
	if err != nil {
		return nil, err
	}
	e, err := s.ctrl.CreateEntry()
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.SaveEntry(e.ID, p); err != nil {
		return nil, err
	}
	return s.lookup(e.ID)
}

// UpdateEntry merges the set fields into the entry and saves it.
func (s *Service) UpdateEntry(ctx context.Context, ref string, opts UpdateEntryOptions) (*EntryDTO, error) {
	defer s.begin()()

	e, err := s.svcs.Entries.Resolve(ref)
	if err != nil {
		return nil, err
	}
	p, err := s.patch(opts)
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.SaveEntry(e.ID, p); err != nil {
		return nil, err
	}
	return s.lookup(e.ID)
}

// DeleteEntry removes the entry. confirm must be set.
func (s *Service) DeleteEntry(ctx context.Context, ref string, confirm bool) (*EntryDTO, error) {
	defer s.begin()()

	e, err := s.svcs.Entries.Resolve(ref)
	if err != nil {
		return nil, err
	}
	dto := toDTO(e, s.ctrl.Folders())
	if err := s.guarded(confirm, func() error { return s.ctrl.DeleteEntry(e.ID) }); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ListFolders returns every folder with its entry count.
func (s *Service) ListFolders(ctx context.Context) ([]FolderSummary, error) {
	defer s.begin()()

	counts := map[entry.FolderRef]int{}
	for _, e := range s.ctrl.Entries() {
		counts[e.FolderID]++
	}
	folders := s.ctrl.Folders()
	out := make([]FolderSummary, 0, len(folders))
	for _, f := range folders {
		out = append(out, toSummary(f, counts[f.Ref()]))
	}
	return out, nil
}

// CreateFolder adds a folder named name.
func (s *Service) CreateFolder(ctx context.Context, name string) (*FolderSummary, error) {
	defer s.begin()()

	f, err := s.ctrl.CreateFolder(name)
	if err != nil {
		return nil, err
	}
	sum := toSummary(f, 0)
	return &sum, nil
}

// RenameFolder renames the folder matching ref.
func (s *Service) RenameFolder(ctx context.Context, ref, name string) (*FolderSummary, error) {
	defer s.begin()()

	f, err := s.svcs.Folders.Resolve(ref)
	if err != nil {
		return nil, err
	}
	if err := s.ctrl.RenameFolder(f.ID, name); err != nil {
		return nil, err
	}
	f, _ = s.svcs.Folders.Get(f.ID)
	sum := toSummary(f, s.count(f.Ref()))
	return &sum, nil
}

// DeleteFolder removes the folder matching ref and unfiles its entries.
// confirm must be set.
func (s *Service) DeleteFolder(ctx context.Context, ref string, confirm bool) (*FolderSummary, error) {
	defer s.begin()()

	f, err := s.svcs.Folders.Resolve(ref)
	if err != nil {
		return nil, err
	}
	sum := toSummary(f, s.count(f.Ref()))
	if err := s.guarded(confirm, func() error { return s.ctrl.DeleteFolder(f.ID) }); err != nil {
		return nil, err
	}
	return &sum, nil
}

// Export renders the entries matching refs, or every entry when refs is
// empty, as one markdown document.
func (s *Service) Export(ctx context.Context, refs []string) (string, error) {
	defer s.begin()()

	var entries []entry.Entry
	if len(refs) == 0 {
		entries = s.ctrl.Entries()
	}
	for _, ref := range refs {
		e, err := s.svcs.Entries.Resolve(ref)
		if err != nil {
			return "", err
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return "", export.ErrNothingToExport
	}
	return export.FormatMany(entries), nil
}

func (s *Service) guarded(confirm bool, fn func() error) error {
	if !confirm {
		return ErrConfirmRequired
	}
	s.confirm = true
	defer func() { s.confirm = false }()
	return fn()
}

func (s *Service) patch(opts UpdateEntryOptions) (state.Patch, error) {
	p := state.Patch{Title: opts.Title, Content: opts.Content}
	if opts.Color != nil {
		c, err := entry.ParseColor(*opts.Color)
		if err != nil {
			return state.Patch{}, err
		}
		p.Color = &c
	}
	if opts.Folder != nil {
		ref := entry.Unfiled
		if strings.TrimSpace(*opts.Folder) != "" {
			f, err := s.svcs.Folders.Resolve(*opts.Folder)
			if err != nil {
				return state.Patch{}, err
			}
			ref = f.Ref()
		}
		p.Folder = &ref
	}
	return p, nil
}

func (s *Service) lookup(id string) (*EntryDTO, error) {
	e, ok := s.ctrl.Entry(id)
	if !ok {
		return nil, fmt.Errorf("entry %q %w", id, app.ErrNotFound)
	}
	dto := toDTO(e, s.ctrl.Folders())
	return &dto, nil
}

func (s *Service) count(ref entry.FolderRef) int {
	n := 0
	for _, e := range s.ctrl.Entries() {
		if e.FolderID == ref {
			n++
		}
	}
	return n
}

func toDTO(e entry.Entry, folders []folder.Folder) EntryDTO {
	dto := EntryDTO{
		ID:         e.ID,
		Title:      e.DisplayTitle(),
		Content:    e.Content,
		Color:      e.Color.String(),
		FolderName: folder.Label(folders, e.FolderID),
		Created:    e.CreatedAt.String(),
		Updated:    e.UpdatedAt.String(),
	}
	if _, ok := folder.Find(folders, e.FolderID); ok {
		dto.FolderID = e.FolderID.String()
	}
	return dto
}

func toSummary(f folder.Folder, n int) FolderSummary {
	return FolderSummary{
		ID:         f.ID,
		Name:       f.Name,
		EntryCount: n,
		Updated:    f.UpdatedAt.String(),
	}
}
