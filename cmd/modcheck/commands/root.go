// Package commands implements the modcheck command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/a-peyrard/modcheck"
	"github.com/a-peyrard/modcheck/internal/render"
	"github.com/a-peyrard/modcheck/option"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrCheckFailed is returned once the outcome of a failed check was printed.
var ErrCheckFailed = errors.New("check failed")

// CLI represents the command line interface for modcheck.
type CLI struct {
	rootCmd *cobra.Command

	settings *Settings
	logger   zerolog.Logger
}

// New creates a new CLI instance.
func New() *CLI {
	rootCmd := &cobra.Command{
		Use:           "modcheck",
		Short:         "Verify dependency injection modules without instantiating anything",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		Commit,
		Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("config", defaultConfigFile, "Settings file")
	flags.Bool("strict", false, "Report lookups served by several definitions")
	flags.String("log-level", defaultLogLevel, "Log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "Disable colors")

	c := &CLI{
		rootCmd: rootCmd,
		logger:  zerolog.Nop(),
	}
	rootCmd.PersistentPreRunE = c.setup

	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newScanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	settings, err := loadSettings(path, !flags.Changed("config"))
	if err != nil {
		return err
	}
	if flags.Changed("strict") {
		settings.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("log-level") {
		settings.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("no-color") {
		settings.NoColor, _ = flags.GetBool("no-color")
	}

	logger, err := newLogger(cmd.ErrOrStderr(), settings)
	if err != nil {
		return err
	}

	c.settings = settings
	c.logger = logger
	return nil
}

// check runs the verification and prints its outcome.
func (c *CLI) check(cmd *cobra.Command, modules []*modcheck.Module) error {
	opts := []option.Option[modcheck.CheckOptions]{modcheck.WithLogger(c.logger)}
	if c.settings.Strict {
		opts = append(opts, modcheck.Strict())
	}

	report, checkErr := modcheck.CheckModules(modules, opts...)

	describe, _ := cmd.Flags().GetBool("describe")
	if describe && report != nil {
		_, _ = io.WriteString(cmd.OutOrStdout(), report.Describe())
	}
	if err := render.New(cmd.OutOrStdout(), c.settings.NoColor).Report(report, checkErr); err != nil {
		return fmt.Errorf("failed to print report:\n\t%w", err)
	}
	if checkErr != nil {
		return fmt.Errorf("%w:\n\t%w", ErrCheckFailed, checkErr)
	}
	return nil
}
