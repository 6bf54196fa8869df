package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/modroll/internal/ui/style"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Update every outdated module in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := c.app.Run(cmd.Context(), runOptions(cmd))
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d updated, %d up to date, %d excluded %s\n",
				style.Success.Render(style.Check),
				summary.Updated,
				summary.Skipped,
				summary.Excluded,
				style.Muted.Render("in "+summary.Duration.String()),
			)
			return nil
		},
	}
}
