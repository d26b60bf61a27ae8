package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func TestDiscoverAndApplyFilters_DependencyClosure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "wiggum.config.json"), `{"projects": ["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages/app/package.json"), `{
		"name": "@s/app",
		"dependencies": {"@s/shared": "workspace:*"}
	}`)
	writeFile(t, filepath.Join(root, "packages/shared/package.json"), `{"name": "@s/shared"}`)
	writeFile(t, filepath.Join(root, "packages/tools/package.json"), `{"name": "@s/tools"}`)

	ws, err := discover(context.Background(), root, "", false, 0)
	if err != nil {
		t.Fatalf("discover() error = %v", err)
	}
	if len(ws.projects) != 3 {
		t.Fatalf("projects = %v, want 3", ws.projects)
	}

	if err := applyFilters(ws, []string{"@s/app"}, true); err != nil {
		t.Fatalf("applyFilters() error = %v", err)
	}

	var names []string
	for _, p := range ws.projects {
		names = append(names, p.Name)
	}
	if len(names) != 2 {
		t.Fatalf("projects after closure = %v, want [@s/app, @s/shared]", names)
	}
	for _, want := range []string{"@s/app", "@s/shared"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("projects = %v, want to include %s", names, want)
		}
	}
	if len(ws.graph.Levels) != 2 || ws.graph.Levels[0][0] != "@s/shared" || ws.graph.Levels[1][0] != "@s/app" {
		t.Errorf("Levels = %v, want [[@s/shared],[@s/app]]", ws.graph.Levels)
	}
}

func TestCheckCycles_DetectsAndFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "wiggum.config.json"), `{"projects": ["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages/a/package.json"), `{
		"name": "@s/a",
		"dependencies": {"@s/b": "workspace:*"}
	}`)
	writeFile(t, filepath.Join(root, "packages/b/package.json"), `{
		"name": "@s/b",
		"dependencies": {"@s/a": "workspace:*"}
	}`)

	ws, err := discover(context.Background(), root, "", false, 0)
	if err != nil {
		t.Fatalf("discover() error = %v", err)
	}

	err = checkCycles(ws.graph)
	if err == nil {
		t.Fatal("checkCycles() error = nil, want CycleDetected")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.KindCycleDetected {
		t.Errorf("error = %v, want CycleDetected", err)
	}
}

func TestDiscoverAndApplyFilters_NoProjectsSelectedFails(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "wiggum.config.json"), `{"projects": ["packages/*"]}`)
	writeFile(t, filepath.Join(root, "packages/app/package.json"), `{"name": "@s/app"}`)

	ws, err := discover(context.Background(), root, "", false, 0)
	if err != nil {
		t.Fatalf("discover() error = %v", err)
	}

	err = applyFilters(ws, []string{"no-such-project"}, false)
	if err == nil {
		t.Fatal("applyFilters() error = nil, want NoProjectsSelected")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.KindNoProjectsSelected {
		t.Errorf("error = %v, want NoProjectsSelected", err)
	}
}
