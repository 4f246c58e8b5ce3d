package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/folder"
)

const (
	defaultWidth   = 80
	previewWidth   = 40
	humanTimestamp = "Jan 2, 2006 3:04 PM"
)

type PrettyPrint struct {
	Out     io.Writer
	ShowID  bool
	Width   int
	Folders []folder.Folder

	// Render formats entry content as markdown instead of wrapped text.
	Render bool
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) width() int {
	if pp.Width <= 0 {
		return TerminalWidth(pp.out(), defaultWidth)
	}
	return pp.Width
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Entries prints one row per entry in the given order.
func (pp *PrettyPrint) Entries(entries ...entry.Entry) {
	if len(entries) == 0 {
		pp.none()
		return
	}

	y := color.New(color.FgHiYellow, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range entries {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(e.ShortID()))
		}
		row = append(row,
			Swatch(e.Color),
			e.DisplayTitle(),
			folder.Label(pp.Folders, e.FolderID),
			e.UpdatedAt.Local().Format(humanTimestamp),
			Preview(e.Content, previewWidth),
		)
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Entry prints the full entry with its content rendered as markdown.
func (pp *PrettyPrint) Entry(e entry.Entry) error {
	pp.Title(e.DisplayTitle())

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(faint.Sprint("ID"), e.ID)
	tbl.AddRow(faint.Sprint("Folder"), folder.Label(pp.Folders, e.FolderID))
	tbl.AddRow(faint.Sprint("Color"), Swatch(e.Color)+" "+e.Color.String())
	tbl.AddRow(faint.Sprint("Created"), e.CreatedAt.Local().Format(humanTimestamp))
	tbl.AddRow(faint.Sprint("Updated"), e.UpdatedAt.Local().Format(humanTimestamp))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	if strings.TrimSpace(e.Content) == "" {
		pp.none()
		return nil
	}
	body := wordwrap.String(e.Content, pp.width())
	if pp.Render {
		rendered, err := RenderMarkdown(e.Content, pp.width())
		if err != nil {
			return err
		}
		body = rendered
	}
	_, _ = fmt.Fprintln(pp.out(), strings.TrimRight(body, "\n"))
	return nil
}

// FolderTable prints every folder with the number of entries filed in it.
func (pp *PrettyPrint) FolderTable(folders []folder.Folder, entries []entry.Entry) {
	counts := make(map[entry.FolderRef]int, len(folders))
	unfiled := 0
	for _, e := range entries {
		if _, ok := folder.Find(folders, e.FolderID); ok {
			counts[e.FolderID]++
		} else {
			unfiled++
		}
	}

	y := color.New(color.FgHiYellow, color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, f := range folders {
		row := []interface{}{}
		if pp.ShowID {
			row = append(row, y.Sprint(f.ID))
		}
		row = append(row, f.Name, counts[f.Ref()])
		tbl.AddRow(row...)
	}
	row := []interface{}{}
	if pp.ShowID {
		row = append(row, "")
	}
	row = append(row, color.New(color.Italic).Sprint(folder.UnfiledLabel), unfiled)
	tbl.AddRow(row...)

	pp.Title("Folders")
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Colors prints the palette, marking the default color.
func (pp *PrettyPrint) Colors() {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range entry.Palette() {
		note := ""
		if c == entry.DefaultColor {
			note = color.New(color.Faint).Sprint("(default)")
		}
		tbl.AddRow(Swatch(c), string(c), c.Hex(), note)
	}
	pp.Title("Colors")
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Preview flattens content onto one line cut to width.
func Preview(content string, width int) string {
	flat := strings.Join(strings.Fields(content), " ")
	return truncate.StringWithTail(flat, uint(width), "…")
}
