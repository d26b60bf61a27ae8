package plan

import (
	"reflect"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

func TestBuild_ArgsComposition(t *testing.T) {
	projects := []project.Project{{Name: "@s/app", Root: "/ws/app", Args: []string{"--flag"}}}

	entries := Build(projects, "test", []string{"--watch"})

	if len(entries) != 1 {
		t.Fatalf("Build() = %v, want 1 entry", entries)
	}
	e := entries[0]
	want := []string{"run", "test", "--flag", "--watch"}
	if !reflect.DeepEqual(e.Args, want) {
		t.Errorf("Args = %v, want %v", e.Args, want)
	}
	if e.Cwd != "/ws/app" {
		t.Errorf("Cwd = %q, want /ws/app", e.Cwd)
	}
}

func TestTopologicalProjects_FlattensLevels(t *testing.T) {
	projects := []project.Project{{Name: "app"}, {Name: "shared"}}
	levels := [][]string{{"shared"}, {"app"}}

	got := TopologicalProjects(levels, projects)

	if len(got) != 2 || got[0].Name != "shared" || got[1].Name != "app" {
		t.Errorf("TopologicalProjects() = %v, want [shared, app]", got)
	}
}

func TestDependencyNames_ReadsIncomingEdges(t *testing.T) {
	g := &graph.Graph{
		Edges: []graph.Edge{
			{From: "shared", To: "app", Reason: resolve.ReasonManifest},
			{From: "utils", To: "app", Reason: resolve.ReasonInferred},
		},
	}

	manifest, inferred := DependencyNames(g, "app")

	if len(manifest) != 1 || manifest[0] != "shared" {
		t.Errorf("manifest = %v, want [shared]", manifest)
	}
	if len(inferred) != 1 || inferred[0] != "utils" {
		t.Errorf("inferred = %v, want [utils]", inferred)
	}
}
