// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"
)

// FolderOptions selects a folder by name or id.
type FolderOptions struct {
	Folder  string
	Unfiled bool
}

// AddFolderArg registers --folder.
func AddFolderArg(cmd *cobra.Command, o *FolderOptions) {
	cmd.Flags().StringVarP(&o.Folder, "folder", "f", "",
		"Folder name or id.")
}

// AddUnfiledArg registers --unfiled.
func AddUnfiledArg(cmd *cobra.Command, o *FolderOptions, usage string) {
	cmd.Flags().BoolVar(&o.Unfiled, "unfiled", false, usage)
}
