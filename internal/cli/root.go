// Package cli wires the config/project/resolve/graph/filter/plan/exec
// packages into the two user-facing subcommands (§6): `projects
// [list|graph]` and `run <task>`.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/wreport"
)

// Version is the CLI's reported version, set at build time via ldflags.
var Version = "dev"

// NewRootCommand builds the `wiggum` command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wiggum",
		Short:         "Discover workspace projects and run tasks across them in dependency order",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newProjectsCommand())
	root.AddCommand(newRunCommand())

	return root
}

// Execute runs the command tree to completion under a context cancelled on
// SIGINT/SIGTERM, printing any error and returning the process exit code.
func Execute(ctx context.Context) int {
	ctx = setupSignalHandler(ctx)

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		wreport.CaptureError(err)
		fmt.Fprintln(os.Stderr, "error:", err)
		return diag.ExitCode(err)
	}
	return 0
}

// setupSignalHandler cancels the returned context on the first SIGINT or
// SIGTERM, so in-flight children receive it and the run exits non-zero
// rather than leaving orphaned processes.
func setupSignalHandler(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-parent.Done():
		}
		signal.Stop(sigCh)
		close(sigCh)
	}()

	return ctx
}
