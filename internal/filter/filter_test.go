package filter

import (
	"reflect"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

func sample() []project.Project {
	return []project.Project{
		{Name: "@s/app", Root: "/ws/packages/app"},
		{Name: "@s/shared", Root: "/ws/packages/shared"},
		{Name: "@s/tools", Root: "/ws/packages/tools"},
	}
}

func TestApply_NoPatternsReturnsAll(t *testing.T) {
	got, err := Apply(sample(), nil)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Apply() = %v, want all 3 projects", got)
	}
}

func TestApply_PositiveAndNegative(t *testing.T) {
	got, err := Apply(sample(), []string{"@s/*", "!@s/tools"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	want := []string{"@s/app", "@s/shared"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestApply_MatchesMultiSegmentRootPattern(t *testing.T) {
	got, err := Apply(sample(), []string{"packages/app"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "@s/app" {
		t.Errorf("Apply(\"packages/app\") = %v, want only @s/app", got)
	}
}

func TestApply_EmptyResultFails(t *testing.T) {
	_, err := Apply(sample(), []string{"no-such-project"})
	if err == nil {
		t.Fatal("Apply() error = nil, want NoProjectsSelected")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.KindNoProjectsSelected {
		t.Errorf("error = %v, want NoProjectsSelected", err)
	}
}
