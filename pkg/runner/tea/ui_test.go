package teaui

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/state"
	"tableflip.dev/journal/pkg/store"
)

type manualTimer struct {
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualScheduler never fires on its own.
type manualScheduler struct {
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) state.Timer {
	t := &manualTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

func newTestModel(t *testing.T) (Model, *app.Services, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svcs := app.New(mem, nil)
	g := &Gate{}
	ctrl := state.New(svcs, state.WithConfirmer(g), state.WithScheduler(&manualScheduler{}))
	ctrl.Load()
	m := New(ctrl, g, nil)
	m.termWidth = 120
	m.termHeight = 30
	m.applySizes()
	return m, svcs, mem
}

func TestViewShowsFoldersAndEntries(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	work, err := svcs.Folders.Create("Work")
	if err != nil {
		t.Fatal(err)
	}
	now := entry.Now()
	if err := svcs.Entries.Save(entry.Entry{ID: "e1", Title: "Standup", FolderID: work.Ref(), CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatal(err)
	}
	m.ctrl.Reload()
	m.refresh()

	view := stripANSI(m.View())
	for _, want := range []string{"Folders", "All entries (1)", "Work (1)", "Standup", "[NORMAL]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNewEntryThenWriteSavesOnEsc(t *testing.T) {
	m, svcs, _ := newTestModel(t)

	m.normalKey("n")
	if m.mode != modeTitle {
		t.Fatalf("mode = %v, want title", m.mode)
	}
	m.title.SetValue("Morning")
	m.syncDraft()
	if _, ok := m.editorKey("enter"); !ok {
		t.Fatal("enter should leave the title input")
	}
	if m.mode != modeContent {
		t.Fatalf("mode = %v, want content", m.mode)
	}

	m.content.SetValue("coffee, then code")
	m.syncDraft()
	sel, _ := m.ctrl.Selected()
	if got, _ := svcs.Entries.Get(sel.ID); got.Content != "" {
		t.Fatalf("content saved before the pause: %q", got.Content)
	}

	m.editorKey("esc")
	if m.mode != modeNormal {
		t.Fatalf("mode = %v, want normal", m.mode)
	}
	got, _ := svcs.Entries.Get(sel.ID)
	if got.Title != "Morning" || got.Content != "coffee, then code" {
		t.Fatalf("stored = %+v", got)
	}
}

func TestDeleteNeedsYes(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	m.normalKey("n")
	m.editorKey("esc")
	sel, _ := m.ctrl.Selected()

	m.normalKey("d")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, state.DeleteEntryPrompt) {
		t.Fatalf("confirm prompt missing:\n%s", view)
	}
	m.confirmKey("n")
	if _, ok := svcs.Entries.Get(sel.ID); !ok {
		t.Fatal("entry deleted without confirmation")
	}

	m.normalKey("d")
	m.confirmKey("y")
	if _, ok := svcs.Entries.Get(sel.ID); ok {
		t.Fatal("entry still stored after confirming")
	}
	if m.gate.Confirm("again") {
		t.Fatal("gate must not stay open")
	}
}

func TestDeleteFolderFromFolderPane(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	if _, err := m.ctrl.CreateFolder("Trips"); err != nil {
		t.Fatal(err)
	}
	m.refresh()
	m.normalKey("h")
	m.normalKey("j")
	if got := m.ctrl.SelectedFolder(); !got.IsSet() {
		t.Fatal("expected the folder filter to be set")
	}

	m.normalKey("d")
	if !m.confirmFolder {
		t.Fatal("expected a folder confirmation")
	}
	m.confirmKey("y")
	if n := len(svcs.Folders.All()); n != 0 {
		t.Fatalf("folders left = %d", n)
	}
	if m.ctrl.SelectedFolder().IsSet() {
		t.Fatal("filter should be cleared")
	}
}

func TestColorAndFolderCycle(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	work, _ := m.ctrl.CreateFolder("Work")
	m.normalKey("n")
	m.editorKey("esc")
	sel, _ := m.ctrl.Selected()

	m.normalKey("c")
	m.normalKey("m")
	got, _ := svcs.Entries.Get(sel.ID)
	if got.Color != entry.Red {
		t.Errorf("color = %q, want red", got.Color)
	}
	if got.FolderID != work.Ref() {
		t.Errorf("folder = %q, want %q", got.FolderID, work.Ref())
	}

	m.normalKey("m")
	m.normalKey("C")
	got, _ = svcs.Entries.Get(sel.ID)
	if got.FolderID.IsSet() || got.Color != "" {
		t.Errorf("expected unfiled and uncolored, got %+v", got)
	}
}

func TestStoreEventReloads(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	now := entry.Now()
	if err := svcs.Entries.Save(entry.Entry{ID: "outside", Title: "From elsewhere", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatal(err)
	}

	next, _ := m.Update(storeMsg{Type: store.EventCollectionChanged, Collection: store.Entries})
	m = next.(Model)
	if view := stripANSI(m.View()); !strings.Contains(view, "From elsewhere") {
		t.Fatalf("reloaded entry missing:\n%s", view)
	}
}

func TestFolderNameInput(t *testing.T) {
	m, svcs, _ := newTestModel(t)
	m.normalKey("F")
	m.input.SetValue("   ")
	m.editorKey("enter")
	if m.mode != modeFolderName || !m.statusErr {
		t.Fatal("blank names keep the prompt open with an error")
	}
	m.input.SetValue("Ideas")
	m.editorKey("enter")
	if m.mode != modeNormal {
		t.Fatalf("mode = %v", m.mode)
	}
	if f := svcs.Folders.All(); len(f) != 1 || f[0].Name != "Ideas" {
		t.Fatalf("folders = %+v", f)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func TestExternalEditorSavesContent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script editor")
	}
	script := filepath.Join(t.TempDir(), "ed")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf 'from the editor' > \"$1\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VISUAL", script)

	m, svcs, _ := newTestModel(t)
	m.normalKey("n")
	m.stopEditing()
	e, _ := m.ctrl.Selected()

	s, err := editor.Prepare(e.Content)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Cmd.Run(); err != nil {
		t.Fatal(err)
	}
	m.finishEditor(editedMsg{id: e.ID, session: s})

	got, _ := svcs.Entries.Get(e.ID)
	if got.Content != "from the editor" {
		t.Errorf("content = %q, want %q", got.Content, "from the editor")
	}
	if m.status != "Saved" {
		t.Errorf("status = %q, want Saved", m.status)
	}

	s, err = editor.Prepare("unused")
	if err != nil {
		t.Fatal(err)
	}
	m.finishEditor(editedMsg{id: e.ID, session: s, err: errors.New("exit status 1")})
	if !m.statusErr {
		t.Errorf("status = %q, want an error", m.status)
	}
}
