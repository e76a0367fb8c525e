package commands

import (
	"github.com/driftbuild/drift/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "List, write, or restore workspace archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			write, _ := cmd.Flags().GetBool("write")
			restore, _ := cmd.Flags().GetString("restore")
			exclude, _ := cmd.Flags().GetBool("exclude-internals")
			return c.app.Archive(cmd.Context(), app.ArchiveOptions{
				Restore:          restore,
				Write:            write,
				ExcludeInternals: exclude,
			})
		},
	}
	cmd.Flags().BoolP("write", "w", false, "Write a new archive of the workspace")
	cmd.Flags().StringP("restore", "r", "", "Restore the named archive in place")
	cmd.Flags().Bool("exclude-internals", false, "Leave state tables and the log out of the archive")
	return cmd
}
