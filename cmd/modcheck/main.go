// Package main is the entry point of modcheck.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-peyrard/modcheck/cmd/modcheck/commands"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli := commands.New()
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		// the report already tells what failed
		if !errors.Is(err, commands.ErrCheckFailed) {
			_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		}
		return 1
	}
	return 0
}
