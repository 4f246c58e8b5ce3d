package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/store"
)

// fakeScheduler records timers and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// active returns timers that are neither stopped nor fired.
func (s *fakeScheduler) active() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fireAll runs every active timer, as if the debounce period elapsed.
func (s *fakeScheduler) fireAll() {
	for _, t := range s.active() {
		t.fired = true
		t.f()
	}
}

type fixture struct {
	store  *store.Memory
	svcs   *app.Services
	sched  *fakeScheduler
	ctrl   *Controller
	now    time.Time
	answer bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  store.NewMemory(),
		sched:  &fakeScheduler{},
		now:    time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC),
		answer: true,
	}
	clock := func() entry.Timestamp { return entry.At(f.now) }
	f.svcs = app.New(f.store, clock)
	f.ctrl = New(f.svcs,
		WithScheduler(f.sched),
		WithClock(clock),
		WithConfirmer(ConfirmFunc(func(string) bool { return f.answer })),
	)
	f.ctrl.Load()
	return f
}

func (f *fixture) tick(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestLoadSelectsFirstEntry(t *testing.T) {
	f := newFixture(t)
	ts := entry.At(f.now)
	require.NoError(t, f.svcs.Entries.Save(entry.Entry{ID: "old", CreatedAt: ts, UpdatedAt: ts}))
	require.NoError(t, f.svcs.Entries.Save(entry.Entry{ID: "new", CreatedAt: ts, UpdatedAt: ts}))

	f.ctrl.Load()

	sel, ok := f.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, "new", sel.ID)
	assert.Len(t, f.ctrl.Entries(), 2)
}

func TestCreateEntryPrependsSelectsAndStampsFilter(t *testing.T) {
	f := newFixture(t)
	first, err := f.ctrl.CreateEntry()
	require.NoError(t, err)

	work, err := f.ctrl.CreateFolder("Work")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.SelectFolder(work.Ref()))

	second, err := f.ctrl.CreateEntry()
	require.NoError(t, err)

	assert.Equal(t, entry.Unfiled, first.FolderID)
	assert.Equal(t, work.Ref(), second.FolderID)
	assert.True(t, second.CreatedAt.Equal(f.now))

	all := f.ctrl.Entries()
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	sel, _ := f.ctrl.Selected()
	assert.Equal(t, second.ID, sel.ID)

	stored, ok := f.svcs.Entries.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, second, stored)

	visible := f.ctrl.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, second.ID, visible[0].ID)
}

func TestSaveEntryMergesAndKeepsPosition(t *testing.T) {
	f := newFixture(t)
	a, _ := f.ctrl.CreateEntry()
	b, _ := f.ctrl.CreateEntry()
	f.tick(time.Minute)

	title, col := "Groceries", entry.Lime
	require.NoError(t, f.ctrl.SaveEntry(a.ID, Patch{Title: &title, Color: &col}))

	all := f.ctrl.Entries()
	assert.Equal(t, []string{b.ID, a.ID}, []string{all[0].ID, all[1].ID})
	assert.Equal(t, "Groceries", all[1].Title)
	assert.Equal(t, entry.Lime, all[1].Color)
	assert.True(t, all[1].UpdatedAt.Equal(f.now))
	assert.True(t, all[1].CreatedAt.Equal(a.CreatedAt.Time))

	stored, _ := f.svcs.Entries.Get(a.ID)
	assert.Equal(t, all[1], stored)

	assert.NoError(t, f.ctrl.SaveEntry("missing", Patch{Title: &title}))
	bad := entry.Color("mauve")
	assert.Error(t, f.ctrl.SaveEntry(a.ID, Patch{Color: &bad}))
}

func TestDeleteEntryRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()

	f.answer = false
	err := f.ctrl.DeleteEntry(e.ID)
	assert.True(t, errors.Is(err, ErrNotConfirmed))
	_, ok := f.svcs.Entries.Get(e.ID)
	assert.True(t, ok, "declined delete must not touch the store")
	assert.Len(t, f.ctrl.Entries(), 1)
}

func TestDeleteSelectedEntrySelectsFirstRemaining(t *testing.T) {
	f := newFixture(t)
	a, _ := f.ctrl.CreateEntry()
	b, _ := f.ctrl.CreateEntry()
	c, _ := f.ctrl.CreateEntry()
	require.True(t, f.ctrl.Select(b.ID))

	require.NoError(t, f.ctrl.DeleteEntry(b.ID))
	sel, ok := f.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, c.ID, sel.ID)

	require.NoError(t, f.ctrl.DeleteEntry(a.ID))
	sel, _ = f.ctrl.Selected()
	assert.Equal(t, c.ID, sel.ID, "deleting another entry keeps the selection")

	require.NoError(t, f.ctrl.DeleteEntry(c.ID))
	_, ok = f.ctrl.Selected()
	assert.False(t, ok)

	assert.NoError(t, f.ctrl.DeleteEntry("never-existed"))
}

func TestDeleteFolderUnfilesEntriesAndClearsFilter(t *testing.T) {
	f := newFixture(t)
	work, err := f.ctrl.CreateFolder("Work")
	require.NoError(t, err)
	home, err := f.ctrl.CreateFolder("Home")
	require.NoError(t, err)

	e, _ := f.ctrl.CreateEntry()
	require.NoError(t, f.ctrl.AssignFolder(e.ID, work.Ref()))
	other, _ := f.ctrl.CreateEntry()
	require.NoError(t, f.ctrl.AssignFolder(other.ID, home.Ref()))
	require.NoError(t, f.ctrl.SelectFolder(work.Ref()))
	assert.Equal(t, "Work", f.ctrl.FolderName(work.Ref()))

	f.answer = false
	assert.ErrorIs(t, f.ctrl.DeleteFolder(work.ID), ErrNotConfirmed)
	assert.Len(t, f.ctrl.Folders(), 2)

	f.answer = true
	require.NoError(t, f.ctrl.DeleteFolder(work.ID))

	got, _ := f.ctrl.Entry(e.ID)
	assert.Equal(t, entry.Unfiled, got.FolderID)
	stored, _ := f.svcs.Entries.Get(e.ID)
	assert.Equal(t, entry.Unfiled, stored.FolderID)
	kept, _ := f.ctrl.Entry(other.ID)
	assert.Equal(t, home.Ref(), kept.FolderID)

	assert.Equal(t, entry.Unfiled, f.ctrl.SelectedFolder())
	require.Len(t, f.ctrl.Folders(), 1)
	assert.Equal(t, "Home", f.ctrl.Folders()[0].Name)
	assert.Equal(t, "Unfiled", f.ctrl.FolderName(work.Ref()))
	_, ok := f.svcs.Folders.Get(work.ID)
	assert.False(t, ok)
}

func TestRenameFolder(t *testing.T) {
	f := newFixture(t)
	fo, _ := f.ctrl.CreateFolder("Wrok")
	f.tick(time.Hour)

	require.NoError(t, f.ctrl.RenameFolder(fo.ID, "Work"))
	got := f.ctrl.Folders()[0]
	assert.Equal(t, "Work", got.Name)
	assert.True(t, got.UpdatedAt.Equal(f.now))

	assert.ErrorIs(t, f.ctrl.RenameFolder(fo.ID, "  "), app.ErrEmptyName)
	assert.NoError(t, f.ctrl.RenameFolder("missing", "x"))
}

func TestAssignFolderRejectsUnknownFolder(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()
	assert.ErrorIs(t, f.ctrl.AssignFolder(e.ID, "nope"), ErrUnknownFolder)
	assert.ErrorIs(t, f.ctrl.SelectFolder("nope"), ErrUnknownFolder)
	assert.NoError(t, f.ctrl.AssignFolder(e.ID, entry.Unfiled))
}

func TestAutosaveCommitsAfterIdlePeriod(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()

	require.NoError(t, f.ctrl.EditTitle("Day one"))
	require.NoError(t, f.ctrl.EditContent("h"))
	require.NoError(t, f.ctrl.EditContent("he"))
	require.NoError(t, f.ctrl.EditContent("hello"))

	active := f.sched.active()
	require.Len(t, active, 1, "every edit restarts the one debounce timer")
	assert.Equal(t, DefaultDebounce, active[0].d)

	stored, _ := f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "", stored.Content, "nothing is saved before the timer fires")
	title, content, ok := f.ctrl.Pending()
	require.True(t, ok)
	assert.Equal(t, "Day one", title)
	assert.Equal(t, "hello", content)

	f.tick(2 * time.Second)
	f.sched.fireAll()

	stored, _ = f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "Day one", stored.Title)
	assert.Equal(t, "hello", stored.Content)
	assert.True(t, stored.UpdatedAt.Equal(f.now))
	cached, _ := f.ctrl.Entry(e.ID)
	assert.Equal(t, stored, cached)
	_, _, ok = f.ctrl.Pending()
	assert.False(t, ok)
}

func TestSwitchingEntriesDiscardsPendingEdit(t *testing.T) {
	f := newFixture(t)
	second, _ := f.ctrl.CreateEntry()
	first, _ := f.ctrl.CreateEntry()
	require.NoError(t, f.ctrl.SaveEntry(second.ID, Patch{Title: strPtr("untouched"), Content: strPtr("keep me")}))

	require.NoError(t, f.ctrl.EditContent("t"))
	require.NoError(t, f.ctrl.EditContent("ty"))
	require.NoError(t, f.ctrl.EditContent("typed"))
	stale := f.sched.active()
	require.Len(t, stale, 1)

	require.True(t, f.ctrl.Select(second.ID))
	assert.Empty(t, f.sched.active(), "switching cancels the pending timer")

	// A callback that already escaped Stop must not commit anything.
	stale[0].f()

	gotFirst, _ := f.svcs.Entries.Get(first.ID)
	assert.Equal(t, "", gotFirst.Content, "the first entry's edit is discarded whole")
	gotSecond, _ := f.svcs.Entries.Get(second.ID)
	assert.Equal(t, "untouched", gotSecond.Title)
	assert.Equal(t, "keep me", gotSecond.Content)
}

func TestStaleTimerFromEarlierEditDoesNotCommit(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()

	require.NoError(t, f.ctrl.EditContent("a"))
	first := f.sched.active()[0]
	require.NoError(t, f.ctrl.EditContent("ab"))

	first.f()
	stored, _ := f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "", stored.Content)

	f.sched.fireAll()
	stored, _ = f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "ab", stored.Content)
}

func TestFlushAndDiscard(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()

	require.NoError(t, f.ctrl.EditTitle("kept"))
	require.NoError(t, f.ctrl.Flush())
	assert.Empty(t, f.sched.active())
	stored, _ := f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "kept", stored.Title)

	require.NoError(t, f.ctrl.EditTitle("dropped"))
	f.ctrl.Discard()
	f.sched.fireAll()
	stored, _ = f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "kept", stored.Title)

	assert.NoError(t, f.ctrl.Flush(), "flush without pending edits is a no-op")
}

// flakyStore fails every write while broken is set.
type flakyStore struct {
	*store.Memory
	broken bool
}

func (s *flakyStore) Write(c store.Collection, data []byte) error {
	if s.broken {
		return errors.New("disk full")
	}
	return s.Memory.Write(c, data)
}

func TestFailedAutosaveKeepsDraft(t *testing.T) {
	fs := &flakyStore{Memory: store.NewMemory()}
	sched := &fakeScheduler{}
	svcs := app.New(fs, nil)
	ctrl := New(svcs, WithScheduler(sched))
	ctrl.Load()
	e, err := ctrl.CreateEntry()
	require.NoError(t, err)
	drain(ctrl)

	fs.broken = true
	require.NoError(t, ctrl.EditContent("precious"))
	sched.fireAll()

	var failed bool
	for _, ch := range drain(ctrl) {
		failed = failed || ch.Kind == SaveFailed
	}
	assert.True(t, failed)
	_, content, ok := ctrl.Pending()
	require.True(t, ok, "the draft survives a failed autosave")
	assert.Equal(t, "precious", content)

	assert.Error(t, ctrl.Flush())
	_, _, ok = ctrl.Pending()
	assert.True(t, ok, "the draft survives a failed flush")

	fs.broken = false
	require.NoError(t, ctrl.Flush())
	stored, _ := svcs.Entries.Get(e.ID)
	assert.Equal(t, "precious", stored.Content)
	_, _, ok = ctrl.Pending()
	assert.False(t, ok)
}

func TestEditWithoutSelection(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.ctrl.EditTitle("x"), ErrNoSelection)
}

func TestImmediateSavesKeepPendingEdit(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()
	fo, _ := f.ctrl.CreateFolder("Inbox")

	require.NoError(t, f.ctrl.EditContent("draft"))
	require.NoError(t, f.ctrl.SetColor(e.ID, entry.Violet))
	require.NoError(t, f.ctrl.AssignFolder(e.ID, fo.Ref()))

	stored, _ := f.svcs.Entries.Get(e.ID)
	assert.Equal(t, entry.Violet, stored.Color)
	assert.Equal(t, fo.Ref(), stored.FolderID)
	assert.Equal(t, "", stored.Content)

	f.sched.fireAll()
	stored, _ = f.svcs.Entries.Get(e.ID)
	assert.Equal(t, "draft", stored.Content)
	assert.Equal(t, entry.Violet, stored.Color, "autosave keeps immediately saved fields")
	assert.Equal(t, fo.Ref(), stored.FolderID)
}

func TestDeletingDraftedEntryDropsDraft(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()
	require.NoError(t, f.ctrl.EditContent("doomed"))
	require.NoError(t, f.ctrl.DeleteEntry(e.ID))
	f.sched.fireAll()
	_, ok := f.svcs.Entries.Get(e.ID)
	assert.False(t, ok, "autosave must not resurrect a deleted entry")
}

func TestReloadPicksUpOutsideChanges(t *testing.T) {
	f := newFixture(t)
	e, _ := f.ctrl.CreateEntry()
	fo, _ := f.ctrl.CreateFolder("Work")
	require.NoError(t, f.ctrl.SelectFolder(fo.Ref()))

	// Another process removes the folder and the entry.
	require.NoError(t, store.WriteAll(f.store, store.Folders, []struct{}{}))
	require.NoError(t, f.svcs.Entries.Delete(e.ID))
	other := entry.Entry{ID: "outside", CreatedAt: entry.At(f.now), UpdatedAt: entry.At(f.now)}
	require.NoError(t, f.svcs.Entries.Save(other))

	f.ctrl.Reload()

	assert.Empty(t, f.ctrl.Folders())
	assert.Equal(t, entry.Unfiled, f.ctrl.SelectedFolder())
	sel, ok := f.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, "outside", sel.ID)
}

func TestEventsAreEmitted(t *testing.T) {
	f := newFixture(t)
	drain(f.ctrl)

	_, err := f.ctrl.CreateEntry()
	require.NoError(t, err)

	kinds := map[ChangeKind]bool{}
	for _, ch := range drain(f.ctrl) {
		kinds[ch.Kind] = true
	}
	assert.True(t, kinds[EntriesChanged])
	assert.True(t, kinds[SelectionChanged])
}

func drain(c *Controller) []Change {
	var out []Change
	for {
		select {
		case ch := <-c.Events():
			out = append(out, ch)
		default:
			return out
		}
	}
}

func strPtr(s string) *string { return &s }
