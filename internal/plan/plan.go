// Package plan turns a filtered, ordered project set into per-project
// execution plans, and renders the dry-run JSON document of spec §6.
package plan

import (
	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/task"
)

// Entry is one project's resolved command, per spec.md §3's ExecutionPlan
// entry: { project, cwd, tool, args }. Args is the task resolver's own base
// arguments followed by the project's accumulated config args and finally
// any `--` passthrough arguments.
type Entry struct {
	Project project.Project
	Cwd     string
	Tool    string
	Args    []string
}

// TopologicalProjects flattens a graph's levels into topological order and
// looks each name up in projects.
func TopologicalProjects(levels [][]string, projects []project.Project) []project.Project {
	byName := make(map[string]project.Project, len(projects))
	for _, p := range projects {
		byName[p.Name] = p
	}
	ordered := make([]project.Project, 0, len(projects))
	for _, level := range levels {
		for _, name := range level {
			if p, ok := byName[name]; ok {
				ordered = append(ordered, p)
			}
		}
	}
	return ordered
}

// Build constructs one Entry per project, in the order projects is given
// (callers pass TopologicalProjects output to honor dependency order).
func Build(projects []project.Project, taskName string, passthroughArgs []string) []Entry {
	entries := make([]Entry, 0, len(projects))
	for _, p := range projects {
		res := task.Resolve(taskName, p)
		args := make([]string, 0, len(res.Args)+len(p.Args)+len(passthroughArgs))
		args = append(args, res.Args...)
		args = append(args, p.Args...)
		args = append(args, passthroughArgs...)
		entries = append(entries, Entry{Project: p, Cwd: p.Root, Tool: res.Tool, Args: args})
	}
	return entries
}

// DependencyNames returns project name's manifest-edge and inferred-edge
// dependency names (the projects it depends on), reading them out of g's
// edge list. An edge's From is the dependency, To is the dependent.
func DependencyNames(g *graph.Graph, name string) (manifest []string, inferred []string) {
	for _, e := range g.Edges {
		if e.To != name {
			continue
		}
		if e.Reason == "manifest" {
			manifest = append(manifest, e.From)
		} else {
			inferred = append(inferred, e.From)
		}
	}
	return manifest, inferred
}
