package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/journal/pkg/runner/mcp"
	"tableflip.dev/journal/pkg/state"
)

func addMCP(topLevel *cobra.Command, j *journal) {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the journal to MCP clients over stdio.",
		Long: `Launch a Model Context Protocol server on stdin/stdout that exposes entries,
folders and export as tools and resources. Deletes through MCP require the
caller to pass confirm=true.`,
		Example: `
journal mcp
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := j.services()
			if err != nil {
				return err
			}
			return mcp.Runner{
				Services: svcs,
				Name:     "journal",
				Version:  version,
				Options:  []state.Option{state.WithDebounce(j.config().Debounce)},
				In:       cmd.InOrStdin(),
				Out:      cmd.OutOrStdout(),
			}.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
