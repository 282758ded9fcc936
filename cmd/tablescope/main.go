// Command tablescope renders tabular records as treemaps and co-occurrence
// graphs.
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/internal/cli"
	"github.com/matzehuels/tablescope/pkg/errors"
)

// Set by -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var version, commit, date string

// Exit codes beyond the generic failure.
const (
	exitFailure  = 1
	exitUsage    = 2   // bad flag, option or config value
	exitNoInput  = 66  // records or config file missing (sysexits EX_NOINPUT)
	exitCanceled = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the command line in args and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cli.SetVersion(version, commit, date)

	c := cli.New(stderr, cli.LogInfo)
	root := newRoot(c)
	root.SetArgs(args)
	root.SetErr(stderr)
	root.SilenceErrors = true

	err := root.ExecuteContext(ctx)
	code := exitCode(err)
	if err != nil && code != exitCanceled {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return code
}

// newRoot adds --verbose to the root command. The level is only known once
// flags are parsed, so it is applied ahead of the CLI's own pre-run.
func newRoot(c *cli.CLI) *cobra.Command {
	var verbose bool
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun != nil {
			return preRun(cmd, args)
		}
		return nil
	}
	return root
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitCanceled
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidViz:
		return exitUsage
	case errors.ErrCodeFileNotFound:
		return exitNoInput
	}
	return exitFailure
}
