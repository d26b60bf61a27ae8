package resolve

import (
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

func TestResolveMaxFilesPerProject(t *testing.T) {
	cases := []struct {
		name    string
		env     string
		want    int
		wantErr bool
	}{
		{name: "unset", env: "", want: DefaultMaxFilesPerProject},
		{name: "whitespace only", env: "   ", want: DefaultMaxFilesPerProject},
		{name: "valid override", env: "12", want: 12},
		{name: "zero", env: "0", wantErr: true},
		{name: "negative", env: "-5", wantErr: true},
		{name: "non numeric", env: "abc", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(MaxFilesEnvVar, tc.env)

			got, err := ResolveMaxFilesPerProject()
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ResolveMaxFilesPerProject() error = nil, want error")
				}
				var derr *diag.Error
				if ok := asDiagError(err, &derr); !ok || derr.Kind != diag.KindInvalidEnvVar {
					t.Errorf("error kind = %v, want InvalidEnvVar", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveMaxFilesPerProject() error = %v, want nil", err)
			}
			if got != tc.want {
				t.Errorf("ResolveMaxFilesPerProject() = %d, want %d", got, tc.want)
			}
		})
	}
}

func asDiagError(err error, target **diag.Error) bool {
	de, ok := err.(*diag.Error)
	if !ok {
		return false
	}
	*target = de
	return true
}

func TestPackageNameFromSpecifier(t *testing.T) {
	cases := map[string]string{
		"./local":          "",
		"/abs":             "",
		"@scope/pkg/sub":   "@scope/pkg",
		"@scope/pkg":       "@scope/pkg",
		"lodash/debounce":  "lodash",
		"lodash":           "lodash",
	}
	for spec, want := range cases {
		if got := packageNameFromSpecifier(spec); got != want {
			t.Errorf("packageNameFromSpecifier(%q) = %q, want %q", spec, got, want)
		}
	}
}

func TestExtractSpecifiers(t *testing.T) {
	src := `
import foo from '@s/b/runtime';
import '@s/side-effect';
export { x } from '@s/c';
const mod = require('@s/d');
const dyn = import(/* webpackChunkName: "x" */ '@s/e');
`
	specs := extractSpecifiers(src)
	want := map[string]bool{"@s/b/runtime": true, "@s/side-effect": true, "@s/c": true, "@s/d": true, "@s/e": true}
	if len(specs) != len(want) {
		t.Fatalf("extractSpecifiers() = %v, want %d entries", specs, len(want))
	}
	for _, s := range specs {
		if !want[s] {
			t.Errorf("unexpected specifier %q", s)
		}
	}
}
