package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/store"
)

func New() *cobra.Command {
	return NewWith(nil)
}

// NewWith builds the command tree over s. A nil s means the store is opened
// from the configuration when a command first needs it.
func NewWith(s store.Store) *cobra.Command {
	j := &journal{store: s}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: base.Wrap80("A personal journal of markdown entries, filed in folders."),
		Long: base.Wrap80("Write, organize and export journal entries. Entries are " +
			"markdown with a title, an optional color tag and an optional folder. " +
			"Run 'journal ui' for the interactive editor."),
		SilenceUsage:      true,
		PersistentPreRunE: j.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVar(&j.ephemeral, "ephemeral", false,
		"Keep entries in memory only; nothing is read from or written to disk.")

	AddCommands(cmd, j)
	return cmd
}

func AddCommands(topLevel *cobra.Command, j *journal) {
	addNew(topLevel, j)
	addList(topLevel, j)
	addShow(topLevel, j)
	addEdit(topLevel, j)
	addColor(topLevel, j)
	addColors(topLevel)
	addMove(topLevel, j)
	addDelete(topLevel, j)
	addFolder(topLevel, j)
	addExport(topLevel, j)
	addRepair(topLevel, j)
	addUI(topLevel, j)
	addMCP(topLevel, j)
	addVersion(topLevel)
}
