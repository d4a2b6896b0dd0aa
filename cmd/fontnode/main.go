package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ru4ls/ComfyUI-Google-Fonts/internal/cli"
	errs "github.com/ru4ls/ComfyUI-Google-Fonts/pkg/errors"
)

const (
	exitFailure     = 1
	exitUsage       = 2   // a render parameter was rejected
	exitInterrupted = 130 // SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log catalog, cache and render events")

	// The level must be set before setup loads config, which logs.
	setup := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return setup(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// report prints err and returns the process exit code for it.
func report(w io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	msg := errs.UserMessage(err)
	if code := errs.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, code)
	}
	fmt.Fprintln(w, "Error:", msg)
	if errs.IsValidation(err) {
		return exitUsage
	}
	return exitFailure
}
