package exec

import (
	"os"
	"strconv"
	"strings"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

// ParallelEnvVar overrides DefaultParallel when no explicit --parallel flag
// is given.
const ParallelEnvVar = "WIGGUM_RUNNER_PARALLEL"

// DefaultParallel is how many projects within a single level run
// concurrently absent any override.
const DefaultParallel = 4

// ResolveParallel picks the run's concurrency limit. An explicit --parallel
// flag wins and must be a positive integer (InvalidFlag otherwise).
// Otherwise ParallelEnvVar is consulted: unset or blank falls back to
// DefaultParallel, anything else must parse as a positive integer
// (InvalidEnvVar otherwise).
func ResolveParallel(explicit int, explicitSet bool) (int, error) {
	if explicitSet {
		if explicit <= 0 {
			return 0, diag.New(diag.KindInvalidFlag, "--parallel must be a positive integer, got %d", explicit)
		}
		return explicit, nil
	}

	raw := strings.TrimSpace(os.Getenv(ParallelEnvVar))
	if raw == "" {
		return DefaultParallel, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, diag.New(diag.KindInvalidEnvVar, "%s must be a positive integer, got %q", ParallelEnvVar, raw)
	}
	return n, nil
}
