package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set at link time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmdo := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(cmdo, "modcheck version %s (commit: %s, date: %s)\n", Version, Commit, Date)
		},
	}
}
