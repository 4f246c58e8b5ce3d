package repair

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
)

// Repair clears folder references to deleted folders and colors outside the
// palette, which older or hand-edited journals may contain.
type Repair struct {
	Services *app.Services
	Out      io.Writer
}

func (r *Repair) Do(ctx context.Context) error {
	if r.Services == nil {
		return errors.New("can not repair, no persistence")
	}
	folders := r.Services.Folders.All()
	n, err := r.Services.Entries.Prune(func(ref entry.FolderRef) bool {
		_, ok := folder.Find(folders, ref)
		return ok
	})
	if err != nil {
		return err
	}
	switch n {
	case 0:
		_, _ = fmt.Fprintln(r.Out, "Nothing to repair.")
	case 1:
		_, _ = fmt.Fprintln(r.Out, "Repaired 1 entry.")
	default:
		_, _ = fmt.Fprintf(r.Out, "Repaired %d entries.\n", n)
	}
	return nil
}
