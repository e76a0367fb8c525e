package commands

import (
	"github.com/driftbuild/drift/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			taskID, _ := cmd.Flags().GetString("task")
			return c.app.Run(cmd.Context(), app.RunOptions{
				TaskID: taskID,
				Force:  force,
				DryRun: dryRun,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Rerun the entire workflow, regardless of task state")
	cmd.Flags().BoolP("dry-run", "d", false, "Report which tasks would run and how long it would take")
	cmd.Flags().StringP("task", "t", "", "Run only the subgraph needed for this task id, alias, or tag")
	return cmd
}
