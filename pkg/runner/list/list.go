package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
	"tableflip.dev/journal/pkg/printers"
)

type List struct {
	ShowID  bool
	JSON    bool
	Folder  string
	Unfiled bool
	Color   entry.Color

	// Since hides entries last updated before it; zero shows everything.
	Since time.Time

	Services *app.Services
	Out      io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Services == nil {
		return errors.New("can not list, no persistence")
	}
	folders := l.Services.Folders.All()

	title := "Journal"
	keep := func(entry.Entry) bool { return true }
	switch {
	case l.Folder != "":
		f, err := l.Services.Folders.Resolve(l.Folder)
		if err != nil {
			return err
		}
		title = f.Name
		keep = func(e entry.Entry) bool { return e.FolderID == f.Ref() }
	case l.Unfiled:
		title = folder.UnfiledLabel
		keep = func(e entry.Entry) bool {
			_, ok := folder.Find(folders, e.FolderID)
			return !ok
		}
	}

	all := l.Services.Entries.All()
	shown := make([]entry.Entry, 0, len(all))
	for _, e := range all {
		if !keep(e) {
			continue
		}
		if l.Color != "" && e.Color.OrDefault() != l.Color {
			continue
		}
		if !l.Since.IsZero() && e.UpdatedAt.Before(l.Since) {
			continue
		}
		shown = append(shown, e)
	}

	if l.JSON {
		enc := json.NewEncoder(l.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(shown)
	}

	pp := printers.PrettyPrint{Out: l.Out, ShowID: l.ShowID, Folders: folders}
	pp.TitleWithCount(title, len(shown))
	pp.Entries(shown...)
	return nil
}
