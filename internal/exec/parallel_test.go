package exec

import (
	"testing"

	"github.com/ScriptedAlchemy/wiggum/internal/diag"
)

func TestResolveParallel_ExplicitWins(t *testing.T) {
	t.Setenv(ParallelEnvVar, "9")

	got, err := ResolveParallel(2, true)
	if err != nil {
		t.Fatalf("ResolveParallel() error = %v", err)
	}
	if got != 2 {
		t.Errorf("ResolveParallel() = %d, want 2", got)
	}
}

func TestResolveParallel_ExplicitNonPositiveFails(t *testing.T) {
	_, err := ResolveParallel(0, true)
	if err == nil {
		t.Fatal("ResolveParallel() error = nil, want InvalidFlag")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.KindInvalidFlag {
		t.Errorf("error = %v, want InvalidFlag", err)
	}
}

func TestResolveParallel_EnvVarFallback(t *testing.T) {
	t.Setenv(ParallelEnvVar, "7")

	got, err := ResolveParallel(0, false)
	if err != nil {
		t.Fatalf("ResolveParallel() error = %v", err)
	}
	if got != 7 {
		t.Errorf("ResolveParallel() = %d, want 7", got)
	}
}

func TestResolveParallel_UnsetFallsBackToDefault(t *testing.T) {
	t.Setenv(ParallelEnvVar, "")

	got, err := ResolveParallel(0, false)
	if err != nil {
		t.Fatalf("ResolveParallel() error = %v", err)
	}
	if got != DefaultParallel {
		t.Errorf("ResolveParallel() = %d, want %d", got, DefaultParallel)
	}
}

func TestResolveParallel_InvalidEnvVarFails(t *testing.T) {
	t.Setenv(ParallelEnvVar, "not-a-number")

	_, err := ResolveParallel(0, false)
	if err == nil {
		t.Fatal("ResolveParallel() error = nil, want InvalidEnvVar")
	}
	derr, ok := err.(*diag.Error)
	if !ok || derr.Kind != diag.KindInvalidEnvVar {
		t.Errorf("error = %v, want InvalidEnvVar", err)
	}
}
