package commands

import (
	"fmt"
	"strings"

	"github.com/a-peyrard/modcheck/internal/scan"
	"github.com/a-peyrard/modcheck/option"
	"github.com/a-peyrard/modcheck/slices"
	"github.com/spf13/cobra"
)

func (c *CLI) newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [packages]...",
		Short: "Check the @provider constructors of Go packages",
		Long:  "Check the @provider constructors of Go packages, one module per package. Packages default to ./...",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"./..."}
			}

			dir, _ := cmd.Flags().GetString("dir")
			tests, _ := cmd.Flags().GetBool("tests")
			list, _ := cmd.Flags().GetBool("list")

			opts := []option.Option[scan.Options]{scan.WithLogger(c.logger), scan.WithDir(dir)}
			if tests {
				opts = append(opts, scan.WithTests())
			}
			providers, err := scan.Scan(cmd.Context(), args, opts...)
			if err != nil {
				return err
			}

			if list {
				_, _ = fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s\n\n",
					strings.Join(slices.Map(providers, scan.ProviderDefinition.String), "\n----\n"),
				)
			}
			return c.check(cmd, scan.Modules(providers))
		},
	}

	cmd.Flags().String("dir", "", "Directory the packages are resolved from")
	cmd.Flags().Bool("tests", false, "Also scan test files")
	cmd.Flags().BoolP("list", "l", false, "Print the providers found")
	cmd.Flags().BoolP("describe", "d", false, "Print the holders and the lookups of every definition")

	return cmd
}
