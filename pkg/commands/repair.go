package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/journal/pkg/runner/repair"
)

func addRepair(topLevel *cobra.Command, j *journal) {
	output := &base.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "repair",
		Short: base.Wrap80("Unfile entries whose folder no longer exists and clear unknown colors."),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := j.services()
			if err != nil {
				return output.HandleError(err)
			}
			r := repair.Repair{Services: svcs, Out: cmd.OutOrStdout()}
			return output.HandleError(r.Do(context.Background()))
		},
	}
	base.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
