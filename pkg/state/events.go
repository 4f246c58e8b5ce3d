package state

// ChangeKind enumerates the notifications a Controller emits.
type ChangeKind int

const (
	// EntriesChanged means the entry cache changed.
	EntriesChanged ChangeKind = iota
	// FoldersChanged means the folder cache changed.
	FoldersChanged
	// SelectionChanged means the selected entry or folder filter moved.
	SelectionChanged
	// DraftSaved means a buffered edit was committed.
	DraftSaved
	// DraftDiscarded means a buffered edit was dropped unsaved.
	DraftDiscarded
	// SaveFailed means an autosave could not be persisted.
	SaveFailed
)

func (k ChangeKind) String() string {
	switch k {
	case EntriesChanged:
		return "entries"
	case FoldersChanged:
		return "folders"
	case SelectionChanged:
		return "selection"
	case DraftSaved:
		return "saved"
	case DraftDiscarded:
		return "discarded"
	case SaveFailed:
		return "save-failed"
	default:
		return "unknown"
	}
}

// Change is one notification. ID names the affected entry or folder when
// there is a single one.
type Change struct {
	Kind ChangeKind
	ID   string
	Err  error
}

// Confirmer guards destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

var (
	// Allow confirms every action.
	Allow Confirmer = ConfirmFunc(func(string) bool { return true })
	// Deny declines every action.
	Deny Confirmer = ConfirmFunc(func(string) bool { return false })
)
