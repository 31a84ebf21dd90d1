package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/torosent/postfire/internal/config"
	"github.com/torosent/postfire/internal/output"
	"github.com/torosent/postfire/internal/runner"
	"github.com/torosent/postfire/internal/tracing"
)

const tracingShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		var uErr *usageError
		if errors.As(err, &uErr) {
			fmt.Fprintf(stderr, "Error: %v\n\n%s", uErr.err, cmd.UsageString())
		}
	}
	return exitCode(err)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postfire",
		Short: "Send one HTTP request described by a settings file",
		Long: `postfire reads appsettings.json, sends a single HTTP request with the
configured verb, authentication, body and headers, and writes the status line
and response body to response.txt.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
	config.RegisterFlags(cmd)
	cmd.AddCommand(newVersionCommand(stdout))
	return cmd
}

func run(cmd *cobra.Command, stdout, stderr io.Writer) error {
	cfg, err := config.NewLoader().Load(cmd.Flags())
	if err != nil {
		console := output.NewConsole(output.WithWriter(stdout), output.WithErrWriter(stderr))
		console.Error("Error: %v", err)
		return &runner.StageError{Stage: runner.StageConfig, Err: err}
	}

	console := output.NewConsole(
		output.WithWriter(stdout),
		output.WithErrWriter(stderr),
		output.WithVerbose(cfg.Verbose),
		output.WithNoColor(cfg.NoColor),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		console.Error("Error: %v", err)
		return &runner.StageError{Stage: runner.StageConfig, Err: err}
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			console.Debug("tracing shutdown: %v", err)
		}
	}()

	_, err = runner.Run(ctx, cfg, console, runner.Options{Tracing: tp})
	if err != nil {
		if console.Verbose() {
			console.Error("Error: %+v", err)
		} else {
			console.Error("Error: %v", err)
		}
		return err
	}
	return nil
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
