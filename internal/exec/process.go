// Package exec runs per-project task commands: one child process per
// project, streamed or captured depending on the run's failure-capture
// mode, scheduled level-by-level with bounded concurrency.
package exec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	osexec "os/exec"
	"time"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

const gracefulShutdownTimeout = 5 * time.Second

// ProcessResult is the outcome of one child process.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// RunProcess runs tool with args in cwd, inheriting the parent environment.
// Output is always captured into the returned ProcessResult. When stream is
// true it is also written through to the process's own stdout/stderr as
// produced (the default); failure-capture modes (--ai-prompt/--autofix)
// pass stream=false so nothing reaches the terminal until the run-level
// summary decides what to surface. ctx cancellation (forwarded SIGINT)
// terminates the child gracefully, then forcefully after
// gracefulShutdownTimeout.
func RunProcess(ctx context.Context, tool string, args []string, cwd string, stream bool) (ProcessResult, error) {
	cmd := osexec.Command(tool, args...) //nolint:gosec // tool/args come from the resolved task plan, not untrusted input
	cmd.Dir = cwd
	cmd.Env = os.Environ()
	setupProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	if stream {
		cmd.Stdout = io.MultiWriter(&stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(&stderr, os.Stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	if err := cmd.Start(); err != nil {
		return ProcessResult{}, diag.Wrap(diag.KindChildFailed, err, "starting %s", tool)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		terminateProcess(cmd)
		select {
		case waitErr = <-done:
		case <-time.After(gracefulShutdownTimeout):
			forceKillProcess(cmd)
			waitErr = <-done
		}
	}

	return processResult(stdout, stderr, waitErr)
}

func processResult(stdout, stderr bytes.Buffer, err error) (ProcessResult, error) {
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return ProcessResult{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}, nil
		}
		return ProcessResult{Stdout: stdout.String(), Stderr: stderr.String()}, err
	}
	return ProcessResult{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
