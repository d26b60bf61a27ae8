package resolve

import (
	"reflect"
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/project"
)

func TestManifestEdges_DirectionIsSupplierToConsumer(t *testing.T) {
	projects := []project.Project{
		{Name: "@s/app", DependencyPackageNames: map[string]struct{}{"@s/shared": {}}},
		{Name: "@s/shared"},
	}
	nameByPackageName := map[string]string{"@s/shared": "@s/shared"}

	got := ManifestEdges(projects, nameByPackageName)

	want := []Edge{{From: "@s/shared", To: "@s/app", Reason: ReasonManifest}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ManifestEdges() = %v, want %v", got, want)
	}
}

func TestManifestEdges_DropsSelfReferenceAndUnresolved(t *testing.T) {
	projects := []project.Project{
		{Name: "a", DependencyPackageNames: map[string]struct{}{"a": {}, "external": {}}},
	}
	nameByPackageName := map[string]string{"a": "a"}

	got := ManifestEdges(projects, nameByPackageName)

	if len(got) != 0 {
		t.Errorf("ManifestEdges() = %v, want none", got)
	}
}
