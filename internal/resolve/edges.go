// Package resolve turns a project's manifest dependency names and
// (optionally) its scanned source imports into dependency edges between
// in-workspace projects, ready for internal/graph to assemble into a
// Graph.
package resolve

import (
	"sort"

	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

// Reason records why an edge exists, so the graph can report which
// projects were linked by declared dependencies versus inferred imports.
type Reason string

const (
	ReasonManifest Reason = "manifest"
	ReasonInferred Reason = "inferred"
)

// Edge is a directed dependency: From is the supplier, To is the
// dependent project that depends on it.
type Edge struct {
	From   string
	To     string
	Reason Reason
}

// ManifestEdges maps every project's manifest dependency package names to
// in-workspace project names via nameByPackageName, dropping unresolved
// external dependencies and self-references. An edge's From is the
// dependency (supplier) and To is the dependent (consumer), so From always
// precedes To in topological order.
func ManifestEdges(projects []project.Project, nameByPackageName map[string]string) []Edge {
	var edges []Edge
	for _, p := range projects {
		for depPkg := range p.DependencyPackageNames {
			target, ok := nameByPackageName[depPkg]
			if !ok || target == p.Name {
				continue
			}
			edges = append(edges, Edge{From: target, To: p.Name, Reason: ReasonManifest})
		}
	}
	return dedupeSortEdges(edges)
}

func dedupeSortEdges(edges []Edge) []Edge {
	seen := make(map[Edge]struct{}, len(edges))
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Reason < out[j].Reason
	})
	return out
}
