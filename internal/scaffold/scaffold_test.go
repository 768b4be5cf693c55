package scaffold

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func testScaffolder() *Scaffolder {
	return NewScaffolder(EmbeddedAssets{}, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestInitWritesPersonasAndTemplate(t *testing.T) {
	dir := t.TempDir()
	s := testScaffolder()

	if err := s.Init(dir, "myrepo"); err != nil {
		t.Fatal(err)
	}

	for _, persona := range []string{"developer.md", "reviewer.md", "integration-tester.md"} {
		path := filepath.Join(dir, Dir, PersonasSubdir, persona)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing persona %s: %v", persona, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "TEMPLATE_plan.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Repository: myrepo") {
		t.Errorf("template not rendered with repo name:\n%s", data)
	}
}

func TestInitIsRerunnable(t *testing.T) {
	dir := t.TempDir()
	s := testScaffolder()

	if err := s.Init(dir, "myrepo"); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(dir, "myrepo"); err != nil {
		t.Fatalf("second init must succeed: %v", err)
	}
}

func TestPersona(t *testing.T) {
	s := testScaffolder()

	data, err := s.Persona(IntegrationPersona)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Integration Tester") {
		t.Errorf("unexpected persona content:\n%s", data)
	}

	if _, err := s.Persona("no-such-persona"); err == nil {
		t.Error("expected error for unknown persona")
	}
}

func TestIsIntegrationPlan(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"plans/integration-tester.md", true},
		{"integration-smoke_plan.md", true},
		{"/abs/path/integration-tester.md", true},
		{"fix-auth_plan.md", false},
		{"plans/feature.md", false},
	}

	for _, tt := range tests {
		if got := IsIntegrationPlan(tt.path); got != tt.want {
			t.Errorf("IsIntegrationPlan(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestRemoveScaffold(t *testing.T) {
	dir := t.TempDir()
	logger := log.NewWithOptions(io.Discard, log.Options{})

	// Absent: successful no-op.
	if err := RemoveScaffold(dir, logger); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Join(dir, Dir, PersonasSubdir), 0755); err != nil {
		t.Fatal(err)
	}
	if err := RemoveScaffold(dir, logger); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, Dir)); !os.IsNotExist(err) {
		t.Error("scaffold directory should be gone")
	}
}

func TestStagedPlans(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fix-auth_plan.md", "other_plan.md", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	plans := StagedPlans(dir)
	if len(plans) != 2 {
		t.Errorf("expected 2 staged plans, got %v", plans)
	}
}
