package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/editor"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/runner/list"
	"tableflip.dev/journal/pkg/runner/show"
	"tableflip.dev/journal/pkg/state"
	"tableflip.dev/journal/pkg/timeutil"
)

func addNew(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	fo := &options.FolderOptions{}
	var title, colorName string

	cmd := &cobra.Command{
		Use:   "new [content...]",
		Short: "Write a new entry.",
		Example: `
journal new "Walked to the harbour this morning."
journal new --title "Standup" --folder work --color teal
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := entry.ParseColor(colorName)
			if err != nil {
				return output.HandleError(err)
			}
			svcs, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			if fo.Folder != "" {
				f, err := svcs.Folders.Resolve(fo.Folder)
				if err != nil {
					return output.HandleError(err)
				}
				if err := ctrl.SelectFolder(f.Ref()); err != nil {
					return output.HandleError(err)
				}
			}
			e, err := ctrl.CreateEntry()
			if err != nil {
				return output.HandleError(err)
			}
			content := strings.Join(args, " ")
			p := state.Patch{}
			if title != "" {
				p.Title = &title
			}
			if content != "" {
				p.Content = &content
			}
			if col != "" {
				p.Color = &col
			}
			if p != (state.Patch{}) {
				if err := ctrl.SaveEntry(e.ID, p); err != nil {
					return output.HandleError(err)
				}
				e, _ = ctrl.Entry(e.ID)
			}
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, e, "Created %s.\n", e.ShortID()))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Entry title.")
	cmd.Flags().StringVarP(&colorName, "color", "c", "", "Color tag, see 'journal colors'.")
	options.AddFolderArg(cmd, fo)
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	ids := &options.IDOptions{}
	fo := &options.FolderOptions{}
	var colorName, since string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first.",
		Example: `
journal list
journal list --folder work --id
journal list --unfiled --color red
journal list --since 1w
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := entry.ParseColor(colorName)
			if err != nil {
				return output.HandleError(err)
			}
			var from time.Time
			if since != "" {
				w, err := timeutil.ParseWindow(since)
				if err != nil {
					return output.HandleError(err)
				}
				from = w.Since(time.Now())
			}
			svcs, err := j.services()
			if err != nil {
				return output.HandleError(err)
			}
			l := list.List{
				ShowID:   ids.ShowID,
				JSON:     output.JSON,
				Folder:   fo.Folder,
				Unfiled:  fo.Unfiled,
				Color:    col,
				Since:    from,
				Services: svcs,
				Out:      cmd.OutOrStdout(),
			}
			return output.HandleError(l.Do(context.Background()))
		},
	}
	cmd.Flags().StringVarP(&colorName, "color", "c", "", "Only entries with this color.")
	cmd.Flags().StringVar(&since, "since", "", `Only entries updated within a window, e.g. "3d" or "1w2d".`)
	options.AddFolderArg(cmd, fo)
	options.AddUnfiledArg(cmd, fo, "Only entries outside any folder.")
	options.AddShowIDArgs(cmd, ids)
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print one entry.",
		Example: `
journal show 3f2a
journal show 3f2a --render
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := j.services()
			if err != nil {
				return output.HandleError(err)
			}
			s := show.Show{
				ID:       args[0],
				Render:   render,
				JSON:     output.JSON,
				Width:    width,
				Services: svcs,
				Out:      cmd.OutOrStdout(),
			}
			return output.HandleError(s.Do(context.Background()))
		},
	}
	cmd.Flags().BoolVarP(&render, "render", "r", false, "Render the content as markdown.")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Wrap content at this width; 0 uses the terminal width or 80.")
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	var title, content string
	var stdin, external bool

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the title or content of an entry.",
		Example: `
journal edit 3f2a --title "Sunday"
journal edit 3f2a --stdin < notes.md
journal edit 3f2a --editor
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := svcs.Entries.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			p := state.Patch{}
			if cmd.Flags().Changed("title") {
				p.Title = &title
			}
			switch {
			case stdin:
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return output.HandleError(err)
				}
				body := string(b)
				p.Content = &body
			case cmd.Flags().Changed("content"):
				p.Content = &content
			case external:
				body, err := editor.Edit(e.Content, editor.Streams{
					In:  cmd.InOrStdin(),
					Out: cmd.OutOrStdout(),
					Err: cmd.ErrOrStderr(),
				})
				if err != nil {
					return output.HandleError(err)
				}
				if body != e.Content {
					p.Content = &body
				}
				if p == (state.Patch{}) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
					return nil
				}
			}
			if p == (state.Patch{}) {
				return output.HandleError(errors.New("nothing to change, use --title, --content, --stdin or --editor"))
			}
			if err := ctrl.SaveEntry(e.ID, p); err != nil {
				return output.HandleError(err)
			}
			e, _ = ctrl.Entry(e.ID)
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, e, "Updated %s.\n", e.ShortID()))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title.")
	cmd.Flags().StringVar(&content, "content", "", "New content.")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read the new content from standard input.")
	cmd.Flags().BoolVarP(&external, "editor", "e", false, "Edit the content in $VISUAL or $EDITOR.")
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addColor(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "color ID COLOR",
		Short: "Tag an entry with a color; 'none' clears it.",
		Example: `
journal color 3f2a amber
journal color 3f2a none
`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: colorNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			if strings.EqualFold(name, "none") {
				name = ""
			}
			col, err := entry.ParseColor(name)
			if err != nil {
				return output.HandleError(err)
			}
			svcs, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := svcs.Entries.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			if err := ctrl.SetColor(e.ID, col); err != nil {
				return output.HandleError(err)
			}
			e, _ = ctrl.Entry(e.ID)
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, e, "%s is now %s.\n", e.ShortID(), e.Color.String()))
		},
	}
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addColors(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "List the available colors.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pp := printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Colors()
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addMove(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	fo := &options.FolderOptions{}

	cmd := &cobra.Command{
		Use:   "move ID [FOLDER]",
		Short: "File an entry under a folder.",
		Example: `
journal move 3f2a work
journal move 3f2a --unfile
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if fo.Unfiled {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := svcs.Entries.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			ref := entry.Unfiled
			if !fo.Unfiled {
				f, err := svcs.Folders.Resolve(args[1])
				if err != nil {
					return output.HandleError(err)
				}
				ref = f.Ref()
			}
			if err := ctrl.AssignFolder(e.ID, ref); err != nil {
				return output.HandleError(err)
			}
			e, _ = ctrl.Entry(e.ID)
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, e, "Moved %s to %s.\n", e.ShortID(), ctrl.FolderName(ref)))
		},
	}
	options.AddUnfiledArg(cmd, fo, "Take the entry out of its folder.")
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete an entry.",
		Example: `
journal delete 3f2a
journal delete 3f2a --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, ctrl, err := j.controller(confirmer(cmd, co.Yes))
			if err != nil {
				return output.HandleError(err)
			}
			e, err := svcs.Entries.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			if err := ctrl.DeleteEntry(e.ID); err != nil {
				return output.HandleError(fmt.Errorf("entry %s not deleted: %w", e.ShortID(), err))
			}
			if !output.JSON {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", e.ShortID())
			}
			return nil
		},
	}
	options.AddConfirmArgs(cmd, co)
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

// printResult writes v as JSON, or the formatted message.
func printResult(w io.Writer, asJSON bool, v interface{}, format string, a ...interface{}) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintf(w, format, a...)
	return err
}

func colorNames() []string {
	names := []string{"none"}
	for _, c := range entry.Palette() {
		names = append(names, string(c))
	}
	return names
}
