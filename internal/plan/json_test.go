package plan

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/ScriptedAlchemy/wiggum/internal/graph"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
	"github.com/ScriptedAlchemy/wiggum/internal/resolve"
)

func TestRenderJSON_DryRunKeyOrder(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{Name: "@s/shared", Root: "/ws/packages/shared"}, {Name: "@s/app", Root: "/ws/packages/app"}},
		Edges: []graph.Edge{{From: "@s/shared", To: "@s/app", Reason: resolve.ReasonManifest}},
		Levels: [][]string{{"@s/shared"}, {"@s/app"}},
	}
	projects := []project.Project{
		{Name: "@s/shared", Root: "/ws/packages/shared"},
		{Name: "@s/app", Root: "/ws/packages/app"},
	}
	entries := Build(TopologicalProjects(g.Levels, projects), "build", nil)

	out, err := RenderJSON(DocumentOptions{
		Task:        "build",
		RootDir:     "/ws",
		ConfigPath:  "/ws/wiggum.config.json",
		Graph:       g,
		Projects:    projects,
		PlanEntries: entries,
		IncludeTask: true, IncludeGraph: true, IncludePlan: true,
	})
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}

	keys := []string{`"task"`, `"rootDir"`, `"configPath"`, `"graph"`, `"projects"`, `"plan"`}
	s := string(out)
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, k)
		if idx < 0 {
			t.Fatalf("document missing key %s: %s", k, s)
		}
		if idx < last {
			t.Fatalf("key %s out of order in document: %s", k, s)
		}
		last = idx
	}

	if gjson.GetBytes(out, "graph.edges.0.from").String() != "@s/shared" {
		t.Errorf("graph.edges.0.from = %q, want @s/shared", gjson.GetBytes(out, "graph.edges.0.from").String())
	}
	if gjson.GetBytes(out, "plan.1.project").String() != "@s/app" {
		t.Errorf("plan.1.project = %q, want @s/app", gjson.GetBytes(out, "plan.1.project").String())
	}
}

func TestRenderJSON_ListOmitsGraphAndPlan(t *testing.T) {
	projects := []project.Project{{Name: "@s/app", Root: "/ws/packages/app"}}

	out, err := RenderJSON(DocumentOptions{RootDir: "/ws", Projects: projects})
	if err != nil {
		t.Fatalf("RenderJSON() error = %v", err)
	}
	if gjson.GetBytes(out, "graph").Exists() {
		t.Error("graph present, want omitted for list document")
	}
	if gjson.GetBytes(out, "plan").Exists() {
		t.Error("plan present, want omitted for list document")
	}
	if gjson.GetBytes(out, "task").Exists() {
		t.Error("task present, want omitted for list document")
	}
}
