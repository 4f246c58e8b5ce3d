package teaui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog/log"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/runner/tea/internal/theme"
	"tableflip.dev/journal/pkg/state"
	"tableflip.dev/journal/pkg/store"
)

// Model states
type mode int

const (
	modeNormal mode = iota
	modeTitle
	modeContent
	modeFolderName
	modeConfirm
	modeHelp
)

type pane int

const (
	paneFolders pane = iota
	paneEntries
)

const allEntriesLabel = "All entries"

// Gate approves the next destructive action once the user has answered yes
// in the confirm prompt.
type Gate struct {
	approved bool
}

func (g *Gate) Confirm(string) bool {
	ok := g.approved
	g.approved = false
	return ok
}

// folder item for left list
type folderItem struct {
	ref   entry.FolderRef
	name  string
	count int
}

func (f folderItem) Title() string       { return fmt.Sprintf("%s (%d)", f.name, f.count) }
func (f folderItem) Description() string { return "" }
func (f folderItem) FilterValue() string { return f.name }

// entry item for middle list
type entryItem struct{ e entry.Entry }

func (it entryItem) Title() string {
	return theme.Dot(it.e.Color) + " " + it.e.DisplayTitle()
}
func (it entryItem) Description() string { return printers.Preview(it.e.Content, 40) }
func (it entryItem) FilterValue() string { return it.e.Title }

// messages
type changeMsg state.Change
type storeMsg store.Event

// editedMsg reports that the external editor exited.
type editedMsg struct {
	id      string
	session *editor.Session
	err     error
}

// Model contains UI state
type Model struct {
	ctrl  *state.Controller
	gate  *Gate
	watch <-chan store.Event
	theme theme.Theme

	mode    mode
	focus   pane
	preview bool

	folderList list.Model
	entryList  list.Model

	title    textinput.Model
	content  textarea.Model
	input    textinput.Model
	viewport viewport.Model

	// renamingID is the folder being renamed in modeFolderName; empty means
	// a new folder is being created.
	renamingID string
	// confirmFolder marks the pending confirmation as a folder delete.
	confirmFolder bool
	confirmID     string

	status    string
	statusErr bool

	termWidth  int
	termHeight int

	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate
}

// New creates a UI model over a loaded controller whose confirmer is g.
func New(ctrl *state.Controller, g *Gate, watch <-chan store.Event) Model {
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	// Unfocused list should not visually highlight the selected item
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	fl := list.New([]list.Item{}, dBlur, 24, 20)
	fl.SetShowHelp(false)
	fl.SetShowStatusBar(false)
	fl.SetFilteringEnabled(false)

	el := list.New([]list.Item{}, dFocus, 36, 20)
	el.SetShowHelp(false)
	el.SetShowStatusBar(false)
	el.SetFilteringEnabled(false)

	ti := textinput.New()
	ti.Placeholder = entry.UntitledLabel
	ti.CharLimit = 256
	ti.Prompt = ""

	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	in := textinput.New()
	in.CharLimit = 128
	in.Prompt = ""

	vp := viewport.New(viewport.WithWidth(40), viewport.WithHeight(20))

	m := Model{
		ctrl:       ctrl,
		gate:       g,
		watch:      watch,
		theme:      theme.Default(),
		mode:       modeNormal,
		focus:      paneEntries,
		folderList: fl,
		entryList:  el,
		title:      ti,
		content:    ta,
		input:      in,
		viewport:   vp,
		status:     "j/k move, n new, enter write, t title, c color, m move, d delete, ? help",
		focusDel:   dFocus,
		blurDel:    dBlur,
	}
	m.updateFocusHeaders()
	m.refresh()
	return m
}

// Init listens for controller and store changes
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.ctrl.Events()), waitForStore(m.watch))
}

func waitForChange(ch <-chan state.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return changeMsg(c)
	}
}

func waitForStore(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return storeMsg(ev)
	}
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case changeMsg:
		switch msg.Kind {
		case state.SaveFailed:
			m.setError(fmt.Errorf("autosave failed: %w", msg.Err))
		case state.DraftSaved:
			m.setStatus("Saved")
		}
		m.refresh()
		cmds = append(cmds, waitForChange(m.ctrl.Events()))
	case storeMsg:
		m.ctrl.Reload()
		m.refresh()
		cmds = append(cmds, waitForStore(m.watch))
	case editedMsg:
		m.finishEditor(msg)
	case tea.KeyPressMsg:
		cmds = append(cmds, m.onKey(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) onKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch m.mode {
	case modeHelp:
		if key == "q" || key == "esc" || key == "?" {
			m.mode = modeNormal
		}
		return nil
	case modeConfirm:
		return m.confirmKey(key)
	case modeTitle, modeContent, modeFolderName:
		if cmd, ok := m.editorKey(key); ok {
			return cmd
		}
		return m.forward(msg)
	default:
		return m.normalKey(key)
	}
}

// normalKey handles navigation and commands outside of text input.
func (m *Model) normalKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return m.quit()
	case "?":
		m.mode = modeHelp

	// pane focus
	case "h", "left":
		m.focus = paneFolders
		m.updateFocusHeaders()
	case "l", "right":
		m.focus = paneEntries
		m.updateFocusHeaders()
	case "tab":
		if m.focus == paneFolders {
			m.focus = paneEntries
		} else {
			m.focus = paneFolders
		}
		m.updateFocusHeaders()

	// movement
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		m.moveTo(0)
	case "G", "end":
		m.moveTo(-1)

	// entries
	case "n":
		if _, err := m.ctrl.CreateEntry(); err != nil {
			m.setError(err)
			return nil
		}
		m.refresh()
		m.focus = paneEntries
		m.updateFocusHeaders()
		return m.startTitle()
	case "t":
		return m.startTitle()
	case "enter", "i", "e":
		if m.focus == paneFolders {
			m.focus = paneEntries
			m.updateFocusHeaders()
			return nil
		}
		return m.startContent()
	case "E":
		return m.openEditor()
	case "p":
		m.preview = !m.preview
		m.renderPreview()
	case "c":
		if e, ok := m.ctrl.Selected(); ok {
			m.apply(m.ctrl.SetColor(e.ID, e.Color.Next()), "Color set to "+e.Color.Next().String())
		}
	case "C":
		if e, ok := m.ctrl.Selected(); ok {
			m.apply(m.ctrl.SetColor(e.ID, ""), "Color cleared")
		}
	case "m":
		if e, ok := m.ctrl.Selected(); ok {
			next := m.nextFolder(e.FolderID)
			m.apply(m.ctrl.AssignFolder(e.ID, next), "Moved to "+m.ctrl.FolderName(next))
		}

	// folders
	case "F":
		return m.startFolderName("", "")
	case "r":
		if f, ok := m.currentFolder(); ok && f.ref.IsSet() {
			return m.startFolderName(string(f.ref), f.name)
		}
	case "d", "delete":
		m.startConfirm()
	case "R":
		m.ctrl.Reload()
		m.refresh()
		m.setStatus("Reloaded")
	}
	return nil
}

// editorKey handles the keys that leave or commit a text input. It reports
// false for keys the input itself should receive.
func (m *Model) editorKey(key string) (tea.Cmd, bool) {
	switch m.mode {
	case modeTitle:
		switch key {
		case "enter", "tab":
			m.stopEditing()
			return m.startContent(), true
		case "esc":
			m.stopEditing()
			return nil, true
		}
	case modeContent:
		switch key {
		case "esc":
			m.stopEditing()
			return nil, true
		case "ctrl+s":
			m.flush()
			return nil, true
		}
	case modeFolderName:
		switch key {
		case "enter":
			m.commitFolderName()
			return nil, true
		case "esc":
			m.mode = modeNormal
			m.input.Reset()
			m.input.Blur()
			m.setStatus("Cancelled")
			return nil, true
		}
	}
	return nil, false
}

// forward passes msg to the active input and buffers the result.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeTitle:
		m.title, cmd = m.title.Update(msg)
	case modeContent:
		m.content, cmd = m.content.Update(msg)
	case modeFolderName:
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	m.syncDraft()
	return cmd
}

// syncDraft hands the editor text to the controller, which saves it once
// typing pauses.
func (m *Model) syncDraft() {
	e, ok := m.ctrl.Selected()
	if !ok {
		return
	}
	title, content, pending := m.ctrl.Pending()
	if !pending {
		title, content = e.Title, e.Content
	}
	var err error
	switch m.mode {
	case modeTitle:
		if v := m.title.Value(); v != title {
			err = m.ctrl.EditTitle(v)
		}
	case modeContent:
		if v := m.content.Value(); v != content {
			err = m.ctrl.EditContent(v)
		}
	}
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) confirmKey(key string) tea.Cmd {
	m.mode = modeNormal
	if key != "y" && key != "Y" {
		m.setStatus("Delete cancelled")
		return nil
	}
	m.gate.approved = true
	var err error
	if m.confirmFolder {
		err = m.ctrl.DeleteFolder(m.confirmID)
	} else {
		err = m.ctrl.DeleteEntry(m.confirmID)
	}
	m.gate.approved = false
	m.apply(err, "Deleted")
	return nil
}

func (m *Model) startConfirm() {
	if m.focus == paneFolders {
		f, ok := m.currentFolder()
		if !ok || !f.ref.IsSet() {
			return
		}
		m.confirmFolder, m.confirmID = true, string(f.ref)
	} else {
		e, ok := m.ctrl.Selected()
		if !ok {
			return
		}
		m.confirmFolder, m.confirmID = false, e.ID
	}
	m.mode = modeConfirm
}

func (m *Model) startTitle() tea.Cmd {
	e, ok := m.ctrl.Selected()
	if !ok {
		return nil
	}
	m.mode = modeTitle
	m.title.SetValue(e.Title)
	if t, _, pending := m.ctrl.Pending(); pending {
		m.title.SetValue(t)
	}
	m.title.CursorEnd()
	return m.title.Focus()
}

func (m *Model) startContent() tea.Cmd {
	e, ok := m.ctrl.Selected()
	if !ok {
		return nil
	}
	m.mode = modeContent
	m.preview = false
	m.content.SetValue(e.Content)
	if _, c, pending := m.ctrl.Pending(); pending {
		m.content.SetValue(c)
	}
	return m.content.Focus()
}

// stopEditing leaves the editor and saves right away.
func (m *Model) stopEditing() {
	m.title.Blur()
	m.content.Blur()
	m.mode = modeNormal
	m.flush()
}

func (m *Model) flush() {
	if err := m.ctrl.Flush(); err != nil {
		m.setError(err)
		return
	}
	m.refresh()
}

// openEditor saves any draft and hands the selected entry's content to
// $VISUAL or $EDITOR, suspending the program until it exits.
func (m *Model) openEditor() tea.Cmd {
	if _, ok := m.ctrl.Selected(); !ok {
		return nil
	}
	m.flush()
	e, _ := m.ctrl.Selected()
	s, err := editor.Prepare(e.Content)
	if err != nil {
		m.setError(err)
		return nil
	}
	return tea.ExecProcess(s.Cmd, func(err error) tea.Msg {
		return editedMsg{id: e.ID, session: s, err: err}
	})
}

func (m *Model) finishEditor(msg editedMsg) {
	body, err := msg.session.Finish()
	if msg.err != nil {
		m.setError(fmt.Errorf("editor: %w", msg.err))
		return
	}
	if err != nil {
		m.setError(err)
		return
	}
	e, ok := m.ctrl.Entry(msg.id)
	if !ok || body == e.Content {
		m.setStatus("No changes")
		return
	}
	m.apply(m.ctrl.SaveEntry(msg.id, state.Patch{Content: &body}), "Saved")
	m.renderPreview()
}

func (m *Model) startFolderName(id, name string) tea.Cmd {
	m.mode = modeFolderName
	m.renamingID = id
	m.input.SetValue(name)
	m.input.Placeholder = "Folder name"
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) commitFolderName() {
	name := m.input.Value()
	var err error
	msg := "Folder created"
	if m.renamingID == "" {
		_, err = m.ctrl.CreateFolder(name)
	} else {
		err = m.ctrl.RenameFolder(m.renamingID, name)
		msg = "Folder renamed"
	}
	if err != nil {
		// keep the prompt open so the name can be fixed
		m.setError(err)
		return
	}
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
	m.apply(nil, msg)
}

func (m *Model) quit() tea.Cmd {
	if err := m.ctrl.Flush(); err != nil {
		log.Error().Err(err).Msg("saving on quit")
	}
	return tea.Quit
}

func (m *Model) apply(err error, ok string) {
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus(ok)
	m.refresh()
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = "ERR: "+err.Error(), true
}

// move steps the cursor of the focused list by delta.
func (m *Model) move(delta int) {
	if m.focus == paneFolders {
		m.moveTo(m.folderList.Index() + delta)
		return
	}
	m.moveTo(m.entryList.Index() + delta)
}

// moveTo selects index i in the focused list; -1 means the last item.
func (m *Model) moveTo(i int) {
	l := &m.entryList
	if m.focus == paneFolders {
		l = &m.folderList
	}
	n := len(l.Items())
	if n == 0 {
		return
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = n - 1
	}
	l.Select(i)

	if m.focus == paneFolders {
		if f, ok := m.currentFolder(); ok {
			if err := m.ctrl.SelectFolder(f.ref); err != nil {
				m.setError(err)
			}
		}
	} else if it, ok := l.SelectedItem().(entryItem); ok {
		m.ctrl.Select(it.e.ID)
	}
	m.refresh()
}

func (m *Model) currentFolder() (folderItem, bool) {
	it, ok := m.folderList.SelectedItem().(folderItem)
	return it, ok
}

// nextFolder cycles unfiled → each folder → unfiled.
func (m *Model) nextFolder(cur entry.FolderRef) entry.FolderRef {
	folders := m.ctrl.Folders()
	if len(folders) == 0 {
		return entry.Unfiled
	}
	if !cur.IsSet() {
		return folders[0].Ref()
	}
	for i, f := range folders {
		if f.Ref() == cur {
			if i+1 < len(folders) {
				return folders[i+1].Ref()
			}
			return entry.Unfiled
		}
	}
	return entry.Unfiled
}

// refresh rebuilds both lists and the editor from the controller.
func (m *Model) refresh() {
	all := m.ctrl.Entries()
	folders := m.ctrl.Folders()
	filter := m.ctrl.SelectedFolder()

	counts := map[entry.FolderRef]int{}
	for _, e := range all {
		counts[e.FolderID]++
	}
	fItems := []list.Item{folderItem{ref: entry.Unfiled, name: allEntriesLabel, count: len(all)}}
	fIdx := 0
	for i, f := range folders {
		fItems = append(fItems, folderItem{ref: f.Ref(), name: f.Name, count: counts[f.Ref()]})
		if f.Ref() == filter {
			fIdx = i + 1
		}
	}
	m.folderList.SetItems(fItems)
	m.folderList.Select(fIdx)

	visible := m.ctrl.Visible()
	sel, hasSel := m.ctrl.Selected()
	if len(visible) > 0 && (!hasSel || !contains(visible, sel.ID)) && m.mode == modeNormal {
		m.ctrl.Select(visible[0].ID)
		sel, hasSel = m.ctrl.Selected()
	}
	eItems := make([]list.Item, 0, len(visible))
	eIdx := 0
	for i, e := range visible {
		eItems = append(eItems, entryItem{e: e})
		if hasSel && e.ID == sel.ID {
			eIdx = i
		}
	}
	m.entryList.SetItems(eItems)
	if len(eItems) > 0 {
		m.entryList.Select(eIdx)
	}

	if m.mode != modeTitle && m.mode != modeContent {
		if hasSel {
			m.title.SetValue(sel.Title)
			m.content.SetValue(sel.Content)
		} else {
			m.title.SetValue("")
			m.content.SetValue("")
		}
	}
	m.renderPreview()
}

func contains(entries []entry.Entry, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (m *Model) renderPreview() {
	if !m.preview {
		return
	}
	e, ok := m.ctrl.Selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	out, err := printers.RenderMarkdown(e.Content, max(m.viewport.Width()-2, 10))
	if err != nil {
		out = "preview unavailable: " + err.Error()
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

// View renders the folder and entry lists beside the editor
func (m Model) View() string {
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.folderList.View(), gap(" "), m.entryList.View(), gap(" "), m.editorView())

	if m.mode == modeHelp {
		help := "Keys: h/l or tab switch panes, j/k move, g/G top/bottom, n new entry, t title, enter write, E external editor, " +
			"esc stop writing (saves), ctrl+s save, p preview, c/C cycle/clear color, m cycle folder, " +
			"F new folder, r rename folder, d delete, R reload, q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}
	return body + "\n\n" + m.footerView()
}

func (m Model) editorView() string {
	e, ok := m.ctrl.Selected()
	if !ok {
		return m.theme.Editor.Meta.Render("No entry selected. Press n to write one.")
	}

	titleStyle := m.theme.Editor.Title
	if m.mode == modeTitle {
		titleStyle = m.theme.Editor.TitleActive
	}
	title := titleStyle.Render(e.DisplayTitle())
	if m.mode == modeTitle {
		title = titleStyle.Render(m.title.View())
	}

	meta := fmt.Sprintf("%s  %s  updated %s",
		theme.Badge(e.Color, e.Color.String()),
		m.ctrl.FolderName(e.FolderID),
		e.UpdatedAt.Local().Format("Jan 2 3:04 PM"))

	var content string
	switch {
	case m.preview:
		content = m.viewport.View()
	case m.mode == modeContent:
		content = m.content.View()
	default:
		content = e.Content
		if _, c, pending := m.ctrl.Pending(); pending {
			content = c
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Editor.Meta.Render(meta), "", content)
}

func (m Model) footerView() string {
	switch m.mode {
	case modeConfirm:
		prompt := state.DeleteEntryPrompt
		if m.confirmFolder {
			prompt = state.DeleteFolderPrompt
		}
		return m.theme.Footer.Prompt.Render(prompt + " (y/n)")
	case modeFolderName:
		label := "New folder: "
		if m.renamingID != "" {
			label = "Rename folder: "
		}
		return m.theme.Footer.Prompt.Render(label) + m.input.View()
	}

	modeStr := map[mode]string{
		modeNormal:  "NORMAL",
		modeTitle:   "TITLE",
		modeContent: "WRITE",
		modeHelp:    "HELP",
	}[m.mode]
	status := m.theme.Footer.Status.Render(m.status)
	if m.statusErr {
		status = m.theme.Footer.Error.Render(m.status)
	}
	if _, _, pending := m.ctrl.Pending(); pending {
		status += m.theme.Footer.Help.Render("  (unsaved)")
	}
	return m.theme.Footer.Mode.Render("["+modeStr+"]") + " " + status
}

// applySizes recalculates pane sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := clamp(m.termWidth/5, 18, 30)
	middle := clamp(m.termWidth/3, 24, 48)
	right := max(m.termWidth-left-middle-6, 20)
	// Leave room for status/footer lines
	height := max(m.termHeight-4, 5)

	m.folderList.SetSize(left, height)
	m.entryList.SetSize(middle, height)
	m.content.SetWidth(right)
	m.content.SetHeight(max(height-3, 3))
	m.viewport.SetWidth(right)
	m.viewport.SetHeight(max(height-3, 3))
	m.renderPreview()
}

// updateFocusHeaders updates pane titles to reflect which pane is focused.
func (m *Model) updateFocusHeaders() {
	// Use fixed-width 2-char prefix to avoid layout shift when focus changes.
	const on = "» "
	const off = "  "
	if m.focus == paneFolders {
		m.folderList.Title = on + "Folders"
		m.entryList.Title = off + "Entries"
		m.folderList.SetDelegate(m.focusDel)
		m.entryList.SetDelegate(m.blurDel)
	} else {
		m.folderList.Title = off + "Folders"
		m.entryList.Title = on + "Entries"
		m.folderList.SetDelegate(m.blurDel)
		m.entryList.SetDelegate(m.focusDel)
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Run loads the journal and blocks until the user quits. When w is non-nil,
// changes made by other processes are picked up while the UI runs. Log output
// is discarded while the screen is taken over.
func Run(svcs *app.Services, w store.Watcher, opts ...state.Option) error {
	defer logging.Silence()()

	g := &Gate{}
	ctrl := state.New(svcs, append(opts, state.WithConfirmer(g))...)
	ctrl.Load()
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events <-chan store.Event
	if w != nil {
		ch, err := w.Watch(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("watching journal for outside changes")
		} else {
			events = ch
		}
	}

	p := tea.NewProgram(New(ctrl, g, events), tea.WithAltScreen())
	_, err := p.Run()
	if ferr := ctrl.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
