package options

import (
	"github.com/spf13/cobra"
)

// ExportOptions
type ExportOptions struct {
	All  bool
	Each bool
	Dir  string
}

func AddExportArgs(cmd *cobra.Command, o *ExportOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Export every entry into one file.")
	cmd.Flags().BoolVar(&o.Each, "each", false,
		"Export every entry into its own file.")
	cmd.Flags().StringVarP(&o.Dir, "dir", "d", "",
		"Directory to write into; defaults to export_dir from the config.")
}
