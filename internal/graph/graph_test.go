package graph

import (
	"reflect"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

func projects(names ...string) []project.Project {
	out := make([]project.Project, len(names))
	for i, n := range names {
		out[i] = project.Project{Name: n, Root: "/ws/" + n}
	}
	return out
}

func TestBuild_SimpleChain(t *testing.T) {
	// @s/app depends on @s/shared: the edge runs shared -> app (From is
	// the supplier), matching the levels it produces.
	manifestEdges := []resolve.Edge{{From: "@s/shared", To: "@s/app", Reason: resolve.ReasonManifest}}

	g := Build(projects("@s/app", "@s/shared"), manifestEdges, nil)

	want := [][]string{{"@s/shared"}, {"@s/app"}}
	if !reflect.DeepEqual(g.Levels, want) {
		t.Errorf("Levels = %v, want %v", g.Levels, want)
	}
	if len(g.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none", g.Cycles)
	}
	if len(g.Edges) != 1 || g.Edges[0].From != "@s/shared" || g.Edges[0].To != "@s/app" {
		t.Errorf("Edges = %v, want shared->app", g.Edges)
	}
}

func TestBuild_ManifestWinsOverInferred(t *testing.T) {
	manifestEdges := []resolve.Edge{{From: "b", To: "a", Reason: resolve.ReasonManifest}}
	inferredEdges := []resolve.Edge{{From: "b", To: "a", Reason: resolve.ReasonInferred}}

	g := Build(projects("a", "b"), manifestEdges, inferredEdges)

	if len(g.Edges) != 1 {
		t.Fatalf("Edges = %v, want exactly one merged edge", g.Edges)
	}
	if g.Edges[0].Reason != resolve.ReasonManifest {
		t.Errorf("Reason = %v, want manifest to win", g.Edges[0].Reason)
	}
}

func TestBuild_Cycle(t *testing.T) {
	edges := []resolve.Edge{
		{From: "@s/a", To: "@s/b", Reason: resolve.ReasonManifest},
		{From: "@s/b", To: "@s/a", Reason: resolve.ReasonManifest},
	}

	g := Build(projects("@s/a", "@s/b"), edges, nil)

	if len(g.Cycles) != 1 {
		t.Fatalf("Cycles = %v, want exactly one cycle", g.Cycles)
	}
	want := []string{"@s/a", "@s/b"}
	if !reflect.DeepEqual(g.Cycles[0], want) {
		t.Errorf("Cycles[0] = %v, want %v", g.Cycles[0], want)
	}
	if len(g.Levels) != 0 {
		t.Errorf("Levels = %v, want none (every node stuck in the cycle)", g.Levels)
	}
}

func TestBuild_SelfLoopIsDropped(t *testing.T) {
	edges := []resolve.Edge{{From: "a", To: "a", Reason: resolve.ReasonManifest}}

	// Self-loops are dropped as invalid edges before reaching Kahn/Tarjan
	// (validEdge rejects From == To), so a self-referential manifest entry
	// produces no edge and no cycle rather than a spurious single-node SCC.
	g := Build(projects("a"), edges, nil)

	if len(g.Edges) != 0 {
		t.Errorf("Edges = %v, want none (self-loop dropped)", g.Edges)
	}
	if len(g.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none", g.Cycles)
	}
}

func TestRestrict_DropsEdgesOutsideSelection(t *testing.T) {
	edges := []resolve.Edge{
		{From: "shared", To: "app", Reason: resolve.ReasonManifest},
		{From: "shared", To: "other", Reason: resolve.ReasonManifest},
	}
	g := Build(projects("app", "shared", "other"), edges, nil)

	restricted := Restrict(g, []string{"app", "shared"})

	if len(restricted.Nodes) != 2 {
		t.Fatalf("Nodes = %v, want 2", restricted.Nodes)
	}
	if len(restricted.Edges) != 1 || restricted.Edges[0].To != "app" {
		t.Errorf("Edges = %v, want only shared->app", restricted.Edges)
	}
	want := [][]string{{"shared"}, {"app"}}
	if !reflect.DeepEqual(restricted.Levels, want) {
		t.Errorf("Levels = %v, want %v", restricted.Levels, want)
	}
}
