package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

// commonFlags holds the runner options shared by every subcommand (§6).
type commonFlags struct {
	root            string
	config          string
	projectPatterns []string
	noInferImports  bool
	json            bool
}

// runOnlyFlagNames are flags `run` gives real meaning to. `projects`
// registers them too (hidden, via registerRunOnlyFlags) purely so it can
// reject them with a specific diagnostic instead of falling through to
// cobra's generic "unknown flag" parse error, per spec.md §6 ("`projects`
// rejects run-only flags ... with a specific diagnostic").
var runOnlyFlagNames = []string{"parallel", "concurrency", "dry-run", "ai-prompt", "autofix"}

// registerRunOnlyFlags adds run's flags to cmd as hidden no-ops, so they
// parse instead of erroring, and rejectRunOnlyFlags can then produce a
// targeted diagnostic for whichever of them the caller actually set.
func registerRunOnlyFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Int("parallel", 0, "")
	cmd.PersistentFlags().Int("concurrency", 0, "")
	cmd.PersistentFlags().Bool("dry-run", false, "")
	cmd.PersistentFlags().Bool("ai-prompt", false, "")
	cmd.PersistentFlags().Bool("autofix", false, "")
	for _, name := range runOnlyFlagNames {
		_ = cmd.PersistentFlags().MarkHidden(name)
	}
}

// rejectRunOnlyFlags fails with InvalidFlag, naming every run-only flag the
// caller explicitly set, if any.
func rejectRunOnlyFlags(cmd *cobra.Command) error {
	var set []string
	for _, name := range runOnlyFlagNames {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) == 0 {
		return nil
	}
	return diag.New(diag.KindInvalidFlag, "projects does not support run-only flag(s): %s", strings.Join(set, ", "))
}

// expandPatterns splits every comma-separated --project/-p value into
// individual wildcard patterns, trimming whitespace and dropping empties.
func expandPatterns(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
