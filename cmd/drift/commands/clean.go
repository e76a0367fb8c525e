package commands

import (
	"github.com/driftbuild/drift/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the files created by the workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force-delete")
			internals, _ := cmd.Flags().GetBool("include-internals")
			taskID, _ := cmd.Flags().GetString("task")
			return c.app.Clean(cmd.Context(), app.CleanOptions{
				TaskID:           taskID,
				ForceDelete:      force,
				IncludeInternals: internals,
			})
		},
	}
	cmd.Flags().BoolP("force-delete", "f", false, "Delete without confirmation")
	cmd.Flags().Bool("include-internals", false, "Also delete the internal state directory")
	cmd.Flags().StringP("task", "t", "", "Clean only the subgraph needed for this task id, alias, or tag")
	return cmd
}
