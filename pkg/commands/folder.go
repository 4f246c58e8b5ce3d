package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/commands/options"
	"tableflip.dev/journal/pkg/printers"
	"tableflip.dev/journal/pkg/state"
)

func addFolder(topLevel *cobra.Command, j *journal) {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"folders"},
		Short:   "Manage folders.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addFolderList(cmd, j)
	addFolderCreate(cmd, j)
	addFolderRename(cmd, j)
	addFolderDelete(cmd, j)

	topLevel.AddCommand(cmd)
}

func addFolderList(parent *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	ids := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders with their entry counts.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := j.services()
			if err != nil {
				return output.HandleError(err)
			}
			folders := svcs.Folders.All()
			if output.JSON {
				return output.HandleError(printResult(cmd.OutOrStdout(), true, folders, ""))
			}
			pp := printers.PrettyPrint{Out: cmd.OutOrStdout(), ShowID: ids.ShowID}
			pp.FolderTable(folders, svcs.Entries.All())
			return nil
		},
	}
	options.AddShowIDArgs(cmd, ids)
	base.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addFolderCreate(parent *cobra.Command, j *journal) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a folder.",
		Example: `
journal folder create Work
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			f, err := ctrl.CreateFolder(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, f, "Created folder %s (%s).\n", f.Name, f.ID))
		},
	}
	base.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addFolderRename(parent *cobra.Command, j *journal) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "rename FOLDER NAME",
		Short: "Rename a folder.",
		Example: `
journal folder rename Wrok Work
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, ctrl, err := j.controller(state.Deny)
			if err != nil {
				return output.HandleError(err)
			}
			f, err := svcs.Folders.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			if err := ctrl.RenameFolder(f.ID, args[1]); err != nil {
				return output.HandleError(err)
			}
			f, _ = svcs.Folders.Get(f.ID)
			return output.HandleError(printResult(cmd.OutOrStdout(), output.JSON, f, "Renamed folder to %s.\n", f.Name))
		},
	}
	base.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

func addFolderDelete(parent *cobra.Command, j *journal) {
	output := &base.OutputOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete FOLDER",
		Aliases: []string{"rm"},
		Short:   "Delete a folder; its entries become unfiled.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, ctrl, err := j.controller(confirmer(cmd, co.Yes))
			if err != nil {
				return output.HandleError(err)
			}
			f, err := svcs.Folders.Resolve(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			if err := ctrl.DeleteFolder(f.ID); err != nil {
				return output.HandleError(fmt.Errorf("folder %s not deleted: %w", f.Name, err))
			}
			if !output.JSON {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s.\n", f.Name)
			}
			return nil
		},
	}
	options.AddConfirmArgs(cmd, co)
	base.AddOutputArg(cmd, output)

	parent.AddCommand(cmd)
}

