package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/journal/pkg/runner/tea"
	"tableflip.dev/journal/pkg/state"
	"tableflip.dev/journal/pkg/store"
)

func addUI(topLevel *cobra.Command, j *journal) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the text-based user interface.",
		Example: `
journal ui
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := j.services()
			if err != nil {
				return err
			}
			var w store.Watcher
			if sw, ok := j.store.(store.Watcher); ok {
				w = sw
			}
			return teaui.Run(svcs, w, state.WithDebounce(j.config().Debounce))
		},
	}

	topLevel.AddCommand(cmd)
}
