// Package state keeps the in-memory view of the journal that user interfaces
// render from. The Controller mediates every mutation: it calls the services,
// updates its cache to match what was persisted, and announces the change on
// its event channel.
package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
)

// DefaultDebounce is the idle period before buffered edits are saved.
const DefaultDebounce = time.Second

// Questions put to the Confirmer.
const (
	DeleteEntryPrompt  = "Are you sure you want to delete this entry?"
	DeleteFolderPrompt = "Are you sure you want to delete this folder? Entries will be moved to unfiled."
)

var (
	// ErrNotConfirmed is returned when a destructive action was declined.
	ErrNotConfirmed = errors.New("state: action not confirmed")
	// ErrNoSelection is returned by edits when no entry is selected.
	ErrNoSelection = errors.New("state: no entry selected")
	// ErrUnknownFolder rejects assignments to folders that do not exist.
	ErrUnknownFolder = errors.New("state: unknown folder")
)

// Patch lists the entry fields a save changes; nil fields are left alone.
type Patch struct {
	Title   *string
	Content *string
	Color   *entry.Color
	Folder  *entry.FolderRef
}

// Controller owns the cached entries and folders, the selected entry, the
// folder filter and the pending autosave. It is safe for concurrent use; the
// autosave timer fires on its own goroutine.
type Controller struct {
	mu sync.Mutex

	entries *app.EntryService
	folders *app.FolderService

	clock    app.Clock
	confirm  Confirmer
	sched    Scheduler
	debounce time.Duration
	log      zerolog.Logger

	cache       []entry.Entry
	folderCache []folder.Folder

	selected string
	filter   entry.FolderRef
	pending  *draft

	events chan Change
}

// Option configures a Controller.
type Option func(*Controller)

// WithDebounce sets the autosave idle period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithScheduler replaces the timer source used for autosave.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithConfirmer sets the guard consulted before destructive actions.
func WithConfirmer(cf Confirmer) Option {
	return func(c *Controller) { c.confirm = cf }
}

// WithClock pins the time source used for new and updated records.
func WithClock(clock app.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New returns a controller over svcs. Call Load before reading state.
func New(svcs *app.Services, opts ...Option) *Controller {
	c := &Controller{
		entries:  svcs.Entries,
		folders:  svcs.Folders,
		confirm:  Deny,
		sched:    timeScheduler{},
		debounce: DefaultDebounce,
		log:      log.Logger,
		events:   make(chan Change, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) now() entry.Timestamp {
	if c.clock == nil {
		return entry.Now()
	}
	return c.clock()
}

// Events streams change notifications. Sends never block; a slow reader may
// miss notifications but should re-read state on each one anyway.
func (c *Controller) Events() <-chan Change {
	return c.events
}

func (c *Controller) emitLocked(ch Change) {
	select {
	case c.events <- ch:
	default:
	}
}

// Load reads both collections and selects the first entry when nothing is
// selected yet.
func (c *Controller) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncLocked()
}

// Reload re-reads both collections after an outside change. The selection
// and filter survive when their targets still exist; a pending edit is kept
// unless its entry vanished.
func (c *Controller) Reload() {
	c.Load()
}

func (c *Controller) syncLocked() {
	c.cache = c.entries.All()
	c.folderCache = c.folders.All()

	if _, ok := c.indexLocked(c.selected); !ok {
		c.selected = ""
		if len(c.cache) > 0 {
			c.selected = c.cache[0].ID
		}
	}
	if c.pending != nil {
		if _, ok := c.indexLocked(c.pending.entryID); !ok {
			c.discardLocked()
		}
	}
	if _, ok := folder.Find(c.folderCache, c.filter); !ok {
		c.filter = entry.Unfiled
	}
	c.emitLocked(Change{Kind: EntriesChanged})
	c.emitLocked(Change{Kind: FoldersChanged})
}

func (c *Controller) indexLocked(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i := range c.cache {
		if c.cache[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Entries returns every cached entry in stored order.
func (c *Controller) Entries() []entry.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entry.Entry(nil), c.cache...)
}

// Visible returns the entries passing the folder filter, in stored order.
func (c *Controller) Visible() []entry.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entry.Entry, 0, len(c.cache))
	for _, e := range c.cache {
		if !c.filter.IsSet() || e.FolderID == c.filter {
			out = append(out, e)
		}
	}
	return out
}

// Entry returns the cached entry with id.
func (c *Controller) Entry(id string) (entry.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.indexLocked(id); ok {
		return c.cache[i], true
	}
	return entry.Entry{}, false
}

// Folders returns the cached folders in creation order.
func (c *Controller) Folders() []folder.Folder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]folder.Folder(nil), c.folderCache...)
}

// FolderName resolves ref for display; unknown references read as unfiled.
func (c *Controller) FolderName(ref entry.FolderRef) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return folder.Label(c.folderCache, ref)
}

// Selected returns the selected entry as last persisted.
func (c *Controller) Selected() (entry.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.indexLocked(c.selected); ok {
		return c.cache[i], true
	}
	return entry.Entry{}, false
}

// SelectedFolder returns the folder filter; Unfiled means all entries.
func (c *Controller) SelectedFolder() entry.FolderRef {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Select makes id the selected entry, discarding any unsaved edit of the
// previously selected one. It reports false for unknown ids.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.indexLocked(id); !ok {
		return false
	}
	if id == c.selected {
		return true
	}
	c.discardLocked()
	c.selected = id
	c.emitLocked(Change{Kind: SelectionChanged, ID: id})
	return true
}

// SelectFolder filters the entry list to ref; Unfiled shows everything.
func (c *Controller) SelectFolder(ref entry.FolderRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ref.IsSet() {
		if _, ok := folder.Find(c.folderCache, ref); !ok {
			return ErrUnknownFolder
		}
	}
	c.filter = ref
	c.emitLocked(Change{Kind: SelectionChanged, ID: string(ref)})
	return nil
}

// CreateEntry persists a blank entry filed under the current folder filter,
// puts it first in the list and selects it.
func (c *Controller) CreateEntry() (entry.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := entry.Entry{
		ID:        entry.NewID(),
		CreatedAt: now,
		UpdatedAt: now,
		FolderID:  c.filter,
	}
	if err := c.entries.Save(e); err != nil {
		return entry.Entry{}, err
	}
	c.discardLocked()
	c.cache = append([]entry.Entry{e}, c.cache...)
	c.selected = e.ID
	c.log.Debug().Str("entry", e.ID).Msg("entry created")
	c.emitLocked(Change{Kind: EntriesChanged, ID: e.ID})
	c.emitLocked(Change{Kind: SelectionChanged, ID: e.ID})
	return e, nil
}

// SaveEntry merges p into the entry with id, refreshes its update time and
// persists it. Unknown ids are ignored. Saving a title or content replaces any
// pending autosave of that entry.
func (c *Controller) SaveEntry(id string, p Patch) error {
	if p.Color != nil && *p.Color != "" && !p.Color.Valid() {
		return fmt.Errorf("state: unknown color %q", string(*p.Color))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p.Folder != nil && p.Folder.IsSet() {
		if _, ok := folder.Find(c.folderCache, *p.Folder); !ok {
			return ErrUnknownFolder
		}
	}
	i, ok := c.indexLocked(id)
	if !ok {
		return nil
	}
	e := c.cache[i]
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Color != nil {
		e.Color = *p.Color
	}
	if p.Folder != nil {
		e.FolderID = *p.Folder
	}
	if err := c.persistLocked(i, e); err != nil {
		return err
	}
	if (p.Title != nil || p.Content != nil) && c.pending != nil && c.pending.entryID == id {
		c.discardLocked()
	}
	return nil
}

// AssignFolder files the entry under ref, or unfiles it for Unfiled. The
// change is saved immediately.
func (c *Controller) AssignFolder(entryID string, ref entry.FolderRef) error {
	return c.SaveEntry(entryID, Patch{Folder: &ref})
}

// SetColor tags the entry with col, or clears the tag for "". The change is
// saved immediately.
func (c *Controller) SetColor(entryID string, col entry.Color) error {
	return c.SaveEntry(entryID, Patch{Color: &col})
}

func (c *Controller) persistLocked(i int, e entry.Entry) error {
	e.Touch(c.now())
	if err := c.entries.Save(e); err != nil {
		return err
	}
	c.cache[i] = e
	c.emitLocked(Change{Kind: EntriesChanged, ID: e.ID})
	return nil
}

// DeleteEntry removes the entry with id once confirmed. When the selected
// entry is deleted the first remaining entry becomes selected.
func (c *Controller) DeleteEntry(id string) error {
	if !c.confirm.Confirm(DeleteEntryPrompt) {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.entries.Delete(id); err != nil {
		return err
	}
	if c.pending != nil && c.pending.entryID == id {
		c.discardLocked()
	}
	i, ok := c.indexLocked(id)
	if !ok {
		return nil
	}
	c.cache = append(c.cache[:i], c.cache[i+1:]...)
	c.emitLocked(Change{Kind: EntriesChanged, ID: id})
	if c.selected == id {
		c.selected = ""
		if len(c.cache) > 0 {
			c.selected = c.cache[0].ID
		}
		c.emitLocked(Change{Kind: SelectionChanged, ID: c.selected})
	}
	return nil
}

// CreateFolder persists a new folder and appends it to the cache.
func (c *Controller) CreateFolder(name string) (folder.Folder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, err := c.folders.Create(name)
	if err != nil {
		return folder.Folder{}, err
	}
	c.folderCache = append(c.folderCache, f)
	c.emitLocked(Change{Kind: FoldersChanged, ID: f.ID})
	return f, nil
}

// RenameFolder renames the folder with id. Unknown ids are ignored.
func (c *Controller) RenameFolder(id, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.folders.Update(id, name); err != nil {
		return err
	}
	f, ok := c.folders.Get(id)
	if !ok {
		return nil
	}
	for i := range c.folderCache {
		if c.folderCache[i].ID == id {
			c.folderCache[i] = f
		}
	}
	c.emitLocked(Change{Kind: FoldersChanged, ID: id})
	return nil
}

// DeleteFolder removes the folder with id once confirmed. Entries filed under
// it become unfiled and a filter on it is cleared.
func (c *Controller) DeleteFolder(id string) error {
	if !c.confirm.Confirm(DeleteFolderPrompt) {
		return ErrNotConfirmed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.folders.Delete(id); err != nil {
		return err
	}
	ref := entry.FolderRef(id)
	for i := range c.cache {
		if c.cache[i].FolderID == ref {
			c.cache[i].FolderID = entry.Unfiled
		}
	}
	kept := c.folderCache[:0]
	for _, f := range c.folderCache {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	c.folderCache = kept
	if c.filter == ref {
		c.filter = entry.Unfiled
	}
	c.emitLocked(Change{Kind: FoldersChanged, ID: id})
	c.emitLocked(Change{Kind: EntriesChanged})
	return nil
}
