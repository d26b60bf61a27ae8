package cli

import (
	"context"
	"strings"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/filter"
	"github.com/ScriptedAlchemy/wiggum/internal/fsutil"
	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

// workspace is the fully discovered, graphed, and (optionally) filtered
// state every subcommand operates on.
type workspace struct {
	rootDir    string
	configPath string
	projects   []project.Project
	graph      *graph.Graph
}

// discover runs the C2->C4->C5->C6 pipeline: load config, collect
// projects, resolve manifest (and, if enabled, inferred) dependency
// edges, and build the graph. maxInferFiles is only consulted when
// includeInferred is true.
func discover(ctx context.Context, rootDir, configPath string, includeInferred bool, maxInferFiles int) (*workspace, error) {
	normalizedRoot, err := fsutil.Normalize(rootDir)
	if err != nil {
		return nil, diag.Wrap(diag.KindConfigNotFound, err, "resolving --root %s", rootDir)
	}

	result, err := project.Collect(normalizedRoot, configPath)
	if err != nil {
		return nil, err
	}

	manifestEdges := resolve.ManifestEdges(result.Projects, result.NameByPackageName)

	var inferredEdges []resolve.Edge
	if includeInferred {
		inferredEdges, err = resolve.InferredEdges(ctx, result.Projects, result.NameByPackageName, maxInferFiles)
		if err != nil {
			return nil, err
		}
	}

	g := graph.Build(result.Projects, manifestEdges, inferredEdges)

	return &workspace{
		rootDir:    normalizedRoot,
		configPath: result.ConfigPath,
		projects:   result.Projects,
		graph:      g,
	}, nil
}

// checkCycles fails fast with CycleDetected, spelling out one offending
// cycle the way scenario 3 expects ("@s/a -> @s/b").
func checkCycles(g *graph.Graph) error {
	if len(g.Cycles) == 0 {
		return nil
	}
	first := g.Cycles[0]
	return diag.New(diag.KindCycleDetected,
		"Circular project dependencies detected: %s", strings.Join(first, " -> "))
}

// applyFilters narrows a workspace's projects by patterns and, for run
// flows, expands the selection to its transitive dependency closure before
// restricting both the project list and the graph to what survives.
func applyFilters(ws *workspace, patterns []string, closeDependencies bool) error {
	filtered, err := filter.Apply(ws.projects, patterns)
	if err != nil {
		return err
	}

	names := make([]string, len(filtered))
	for i, p := range filtered {
		names[i] = p.Name
	}

	if closeDependencies {
		names = filter.DependencyClosure(ws.graph, names)
	}

	ws.graph = graph.Restrict(ws.graph, names)
	ws.projects = filter.RestrictToNames(ws.projects, names)
	return nil
}
