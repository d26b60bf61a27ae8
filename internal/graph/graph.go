// Package graph assembles a project set and its dependency edges into a
// deterministic dependency graph: a topological level ordering (Kahn's
// algorithm) for execution, and strongly-connected components (Tarjan's
// algorithm) to report cycles. Everything here is pure and does no I/O.
package graph

import (
	"sort"

	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

// Node is one project as it appears in the graph.
type Node struct {
	Name string
	Root string
}

// Edge is a dependency edge surviving reason-merge: when both a manifest
// edge and an inferred edge exist for the same (From, To) pair, the
// manifest edge wins and the inferred one is dropped.
type Edge struct {
	From   string
	To     string
	Reason resolve.Reason
}

// Graph is the fully assembled dependency graph.
type Graph struct {
	Nodes  []Node
	Edges  []Edge
	Levels [][]string // topological levels in execution order, each name-sorted
	Cycles [][]string // each member-sorted; Build drops self-loop edges, so every cycle has 2+ members
}

// Build merges manifest and inferred edges (manifest wins on conflict),
// then computes the level ordering and cycle set.
func Build(projects []project.Project, manifestEdges, inferredEdges []resolve.Edge) *Graph {
	nodes := make([]Node, 0, len(projects))
	nodeSet := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		nodes = append(nodes, Node{Name: p.Name, Root: p.Root})
		nodeSet[p.Name] = struct{}{}
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].Root < nodes[j].Root
	})

	edges := mergeEdges(manifestEdges, inferredEdges, nodeSet)

	g := &Graph{Nodes: nodes, Edges: edges}
	g.Levels = computeLevels(nodes, edges)
	g.Cycles = computeCycles(nodes, edges)
	return g
}

type edgeKey struct{ from, to string }

func mergeEdges(manifestEdges, inferredEdges []resolve.Edge, nodeSet map[string]struct{}) []Edge {
	winners := make(map[edgeKey]resolve.Reason)
	for _, e := range manifestEdges {
		if !validEdge(e, nodeSet) {
			continue
		}
		winners[edgeKey{e.From, e.To}] = resolve.ReasonManifest
	}
	for _, e := range inferredEdges {
		if !validEdge(e, nodeSet) {
			continue
		}
		key := edgeKey{e.From, e.To}
		if _, ok := winners[key]; ok {
			continue
		}
		winners[key] = resolve.ReasonInferred
	}

	out := make([]Edge, 0, len(winners))
	for k, reason := range winners {
		out = append(out, Edge{From: k.from, To: k.to, Reason: reason})
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

func validEdge(e resolve.Edge, nodeSet map[string]struct{}) bool {
	if e.From == e.To {
		return false
	}
	_, fromOK := nodeSet[e.From]
	_, toOK := nodeSet[e.To]
	return fromOK && toOK
}

// computeLevels runs Kahn's algorithm over the dependency edges (From is
// the supplier, To is the dependent): a node is ready once every supplier
// it depends on has already been placed in an earlier level. Nodes left
// over after the queue drains belong to a cycle and are omitted (see
// computeCycles).
func computeLevels(nodes []Node, edges []Edge) [][]string {
	dependents := make(map[string][]string) // from -> tos that depend on it
	indegree := make(map[string]int)         // name -> number of unresolved deps
	for _, n := range nodes {
		indegree[n.Name] = 0
	}
	for _, e := range edges {
		indegree[e.To]++
		dependents[e.From] = append(dependents[e.From], e.To)
	}
	for from := range dependents {
		sort.Strings(dependents[from])
	}

	remaining := make(map[string]int, len(indegree))
	for k, v := range indegree {
		remaining[k] = v
	}

	var frontier []string
	for _, n := range nodes {
		if remaining[n.Name] == 0 {
			frontier = append(frontier, n.Name)
		}
	}
	sort.Strings(frontier)

	var levels [][]string
	placed := make(map[string]struct{})
	for len(frontier) > 0 {
		levels = append(levels, frontier)
		var next []string
		seenNext := make(map[string]struct{})
		for _, name := range frontier {
			placed[name] = struct{}{}
		}
		for _, name := range frontier {
			for _, dependent := range dependents[name] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					if _, ok := seenNext[dependent]; !ok {
						seenNext[dependent] = struct{}{}
						next = append(next, dependent)
					}
				}
			}
		}
		sort.Strings(next)
		frontier = next
	}

	return levels
}

// computeCycles runs Tarjan's strongly-connected-components algorithm over
// the "depends on" edges and reports every SCC of size >= 2, plus every
// self-loop, as a cycle.
func computeCycles(nodes []Node, edges []Edge) [][]string {
	adjacency := make(map[string][]string)
	selfLoop := make(map[string]bool)
	for _, e := range edges {
		if e.From == e.To {
			selfLoop[e.From] = true
			continue
		}
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for k := range adjacency {
		sort.Strings(adjacency[k])
	}

	t := &tarjan{
		adjacency: adjacency,
		index:     make(map[string]int),
		lowlink:   make(map[string]int),
		onStack:   make(map[string]bool),
	}
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	sort.Strings(names)

	for _, name := range names {
		if _, visited := t.index[name]; !visited {
			t.strongConnect(name)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		if len(scc) >= 2 {
			sort.Strings(scc)
			cycles = append(cycles, scc)
		}
	}
	for name := range selfLoop {
		cycles = append(cycles, []string{name})
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

type tarjan struct {
	adjacency map[string][]string
	index     map[string]int
	lowlink   map[string]int
	onStack   map[string]bool
	stack     []string
	counter   int
	sccs      [][]string
}

func (t *tarjan) strongConnect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.adjacency[v] {
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
