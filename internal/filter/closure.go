package filter

import (
	"sort"

	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// DependencyClosure expands selected project names to include every
// project they transitively depend on, per g's edges. Used by `run` flows
// only: a `projects` listing reports exactly the filtered set, but
// executing a task against a project must also run its dependencies first.
func DependencyClosure(g *graph.Graph, selected []string) []string {
	dependsOn := make(map[string][]string, len(g.Edges))
	for _, e := range g.Edges {
		dependsOn[e.To] = append(dependsOn[e.To], e.From)
	}

	seen := make(map[string]bool, len(selected))
	var stack []string
	for _, name := range selected {
		if !seen[name] {
			seen[name] = true
			stack = append(stack, name)
		}
	}
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		for _, dep := range dependsOn[cur] {
			if !seen[dep] {
				seen[dep] = true
				stack = append(stack, dep)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RestrictToNames returns the subset of projects whose name is in names.
func RestrictToNames(projects []project.Project, names []string) []project.Project {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	var out []project.Project
	for _, p := range projects {
		if allowed[p.Name] {
			out = append(out, p)
		}
	}
	return out
}
