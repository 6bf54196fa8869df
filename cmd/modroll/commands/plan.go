package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the layered rollout order without installing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := c.app.Plan(cmd.Context(), runOptions(cmd))
			if err != nil {
				return err
			}
			return renderPlan(cmd.OutOrStdout(), plan)
		},
	}
}
