// Package task defines the closed set of per-project task names the
// runner accepts, and the pluggable resolver that maps a task plus a
// project to the concrete tool invocation. Which package manager or build
// tool actually gets launched is an external dispatcher's concern; this
// package only fixes the vocabulary and the injection point.
package task

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// Names is the closed set of task names `run` understands.
var Names = []string{"build", "test", "lint", "typecheck", "format", "clean"}

// IsSupported reports whether name is one of Names.
func IsSupported(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// Unsupported builds the diagnostic for an unrecognized task name.
func Unsupported(name string) error {
	return diag.New(diag.KindInvalidFlag, "unsupported task %q (supported: %s)", name, strings.Join(Names, ", "))
}

// Resolution is what a task resolves to for one project: the tool binary
// to run and its base arguments, before the project's own accumulated args
// and any `--` passthrough arguments are appended.
type Resolution struct {
	Tool string
	Args []string
}

// Resolver maps a task name and project to a Resolution.
type Resolver func(taskName string, p project.Project) Resolution

var toolConfigBinary = regexp.MustCompile(`^(rslib|rsbuild|rspack|rspress|rstest|rslint)\.config\.`)

// DefaultToolResolver is the resolver used unless a hosting CLI injects its
// own package-manager detection or tool discovery (both out of scope for
// the runner). Projects registered via a tool-specific config file run
// that tool's own binary directly; everything else runs as an npm script.
// A hosting main package may overwrite this var; the runner's own CLI
// leaves it as is.
var DefaultToolResolver Resolver = defaultResolve

func defaultResolve(taskName string, p project.Project) Resolution {
	if p.ConfigFile != "" {
		if m := toolConfigBinary.FindStringSubmatch(filepath.Base(p.ConfigFile)); m != nil {
			return Resolution{Tool: m[1], Args: []string{taskName}}
		}
	}
	return Resolution{Tool: "npm", Args: []string{"run", taskName}}
}

// Resolve delegates to DefaultToolResolver, tolerating a caller that nils
// it out entirely.
func Resolve(taskName string, p project.Project) Resolution {
	if DefaultToolResolver == nil {
		return defaultResolve(taskName, p)
	}
	return DefaultToolResolver(taskName, p)
}
