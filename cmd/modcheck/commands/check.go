package commands

import (
	"github.com/a-peyrard/modcheck/manifest"
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <manifest>...",
		Short: "Check the modules described in YAML manifests",
		Long:  "Check the modules described in YAML manifests. All the manifests are merged in a single scope.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := manifest.LoadFiles(cmd.Context(), args...)
			if err != nil {
				return err
			}
			return c.check(cmd, modules)
		},
	}

	cmd.Flags().BoolP("describe", "d", false, "Print the holders and the lookups of every definition")

	return cmd
}
