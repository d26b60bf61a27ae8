package filter

import (
	"reflect"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

func TestDependencyClosure_ExpandsToSuppliers(t *testing.T) {
	// app depends on shared, shared depends on utils: shared -> app,
	// utils -> shared. Selecting app must pull in both transitively.
	g := &graph.Graph{
		Nodes: []graph.Node{{Name: "app"}, {Name: "shared"}, {Name: "utils"}},
		Edges: []graph.Edge{
			{From: "shared", To: "app", Reason: resolve.ReasonManifest},
			{From: "utils", To: "shared", Reason: resolve.ReasonManifest},
		},
	}

	got := DependencyClosure(g, []string{"app"})

	want := []string{"app", "shared", "utils"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DependencyClosure() = %v, want %v", got, want)
	}
}

func TestDependencyClosure_UnrelatedProjectNotPulledIn(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{Name: "app"}, {Name: "shared"}, {Name: "other"}},
		Edges: []graph.Edge{{From: "shared", To: "app", Reason: resolve.ReasonManifest}},
	}

	got := DependencyClosure(g, []string{"other"})

	want := []string{"other"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DependencyClosure() = %v, want %v", got, want)
	}
}
