package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/export"
)

func addExport(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	eo := &options.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [ID...]",
		Short: "Export entries as markdown files.",
		Long: base.Wrap80("Export entries as markdown. Without arguments every entry " +
			"goes into one journal-export-DATE.md file. Given ids, or with --each, " +
			"every entry is written to its own DATE-title.md file."),
		Example: `
journal export
journal export 3f2a --dir ~/Desktop
journal export --each
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if eo.All && (eo.Each || len(args) > 0) {
				return output.HandleError(errors.New("--all can not be combined with --each or ids"))
			}
			svcs, err := j.services()
			if err != nil {
				return output.HandleError(err)
			}
			dir := eo.Dir
			if dir == "" {
				dir = j.config().ExportDir
			}
			x := &export.Exporter{Downloader: export.NewDirDownloader(dir)}

			var names []string
			switch {
			case len(args) > 0:
				picked := make([]entry.Entry, 0, len(args))
				for _, ref := range args {
					e, err := svcs.Entries.Resolve(ref)
					if err != nil {
						return output.HandleError(err)
					}
					picked = append(picked, e)
				}
				if len(picked) == 1 {
					var name string
					name, err = x.Entry(picked[0])
					names = []string{name}
				} else {
					names, err = x.Each(picked)
				}
			case eo.Each:
				names, err = x.Each(svcs.Entries.All())
			default:
				var name string
				name, err = x.All(svcs.Entries.All())
				names = []string{name}
			}
			if errors.Is(err, export.ErrNothingToExport) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), err.Error()+".")
				return nil
			}
			if err != nil {
				return output.HandleError(err)
			}

			paths := make([]string, len(names))
			for i, n := range names {
				paths[i] = filepath.Join(dir, n)
			}
			if output.JSON {
				return output.HandleError(printResult(cmd.OutOrStdout(), true, paths, ""))
			}
			for _, p := range paths {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			}
			return nil
		},
	}
	options.AddExportArgs(cmd, eo)
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
