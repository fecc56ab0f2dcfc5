package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/internal/cli"
	"github.com/matzehuels/orngkit/pkg/errors"
)

// Exit codes beyond the generic failure.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code for it.
func report(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	code := errors.GetCode(err)
	if code == "" {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitFailure
	}
	fmt.Fprintf(os.Stderr, "Error: %s (%s)\n", errors.UserMessage(err), code)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidTarget, errors.ErrCodeInvalidLinkage, errors.ErrCodeInvalidRenderer:
		return exitUsage
	}
	return exitFailure
}
