package exec

import (
	"context"
	"fmt"
	"os"
	osexec "os/exec"
	"strings"

	"github.com/mattn/go-isatty"
)

// AutofixCmdEnv names an external command the runner hands a structured
// remediation request to when --autofix is selected on an interactive
// terminal. What that command does with it -- launch an AI assistant,
// open an editor, page a human -- is entirely out of scope for the
// runner; this is only the handoff point.
const AutofixCmdEnv = "WIGGUM_AUTOFIX_CMD"

// ForceNonInteractiveEnv forces --autofix to fall back to prompt-only mode
// even when stdout looks like a terminal.
const ForceNonInteractiveEnv = "WIGGUM_FORCE_NON_INTERACTIVE"

// FailureMode is which failure-capture behavior a run uses.
type FailureMode int

const (
	FailureModeNone FailureMode = iota
	FailureModePrompt
	FailureModeAutofix
)

// Captures reports whether mode requires capturing (rather than streaming)
// child output.
func (m FailureMode) Captures() bool { return m != FailureModeNone }

// ResolveFailureMode implements spec.md §4.8's mode selection: --ai-prompt
// always prints a prompt; --autofix does too unless stdout is an
// interactive terminal, in which case it forwards to the external
// collaborator instead.
func ResolveFailureMode(aiPrompt, autofix bool) FailureMode {
	switch {
	case aiPrompt:
		return FailureModePrompt
	case autofix && isInteractive():
		return FailureModeAutofix
	case autofix:
		return FailureModePrompt
	default:
		return FailureModeNone
	}
}

func isInteractive() bool {
	if os.Getenv(ForceNonInteractiveEnv) != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// BuildRemediationPrompt renders the failed projects in results as a
// plain-text remediation prompt, including captured stdout/stderr.
func BuildRemediationPrompt(taskName string, results []ProjectResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task %q failed for the following projects:\n\n", taskName)
	for _, r := range results {
		if r.State != Failed {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s): exit code %d\n", r.Entry.Project.Name, r.Entry.Cwd, r.Result.ExitCode)
		fmt.Fprintf(&b, "  command: %s %s\n", r.Entry.Tool, strings.Join(r.Entry.Args, " "))
		if r.Result.Stdout != "" {
			fmt.Fprintf(&b, "  stdout:\n%s\n", indentLines(r.Result.Stdout))
		}
		if r.Result.Stderr != "" {
			fmt.Fprintf(&b, "  stderr:\n%s\n", indentLines(r.Result.Stderr))
		}
	}
	return b.String()
}

func indentLines(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}

// ForwardToCollaborator hands prompt to the command named by AutofixCmdEnv
// on its stdin. With no collaborator configured, it just prints the
// prompt, since there is nowhere else to forward it.
func ForwardToCollaborator(ctx context.Context, prompt string) error {
	cmdline := os.Getenv(AutofixCmdEnv)
	if cmdline == "" {
		fmt.Print(prompt)
		return nil
	}

	cmd := osexec.CommandContext(ctx, "sh", "-c", cmdline) //nolint:gosec // operator-controlled env var, not user input
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
