package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "List installed modules with a newer registry version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pkgs, err := c.app.Outdated(cmd.Context(), runOptions(cmd))
			if err != nil {
				return err
			}
			return renderOutdated(cmd.OutOrStdout(), pkgs)
		},
	}
}
