// Package scaffold copies the bundled persona files and plan template into
// a project, and knows how to find them again for reset.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"
)

//go:embed assets
var embedded embed.FS

const (
	// Dir is the project-local scaffold directory.
	Dir = ".agentmux"

	// PersonasSubdir is where persona files land inside Dir.
	PersonasSubdir = "personas"

	// PlanGlob matches staged plan files in the project root; reset removes
	// everything it matches.
	PlanGlob = "*_plan.md"

	// IntegrationPersona is the persona substituted for plan files that
	// launch the integration tester.
	IntegrationPersona = "integration-tester"
)

// AssetSource provides the bundled static assets. The default source reads
// from the binary's embedded filesystem; tests can substitute their own.
type AssetSource interface {
	Assets() (fs.FS, error)
}

// EmbeddedAssets serves the assets compiled into the binary.
type EmbeddedAssets struct{}

// Assets returns the embedded asset tree.
func (EmbeddedAssets) Assets() (fs.FS, error) {
	return fs.Sub(embedded, "assets")
}

// Scaffolder writes scaffold files into a project directory.
type Scaffolder struct {
	source AssetSource
	log    *log.Logger
}

// NewScaffolder creates a Scaffolder over the given asset source.
func NewScaffolder(source AssetSource, logger *log.Logger) *Scaffolder {
	return &Scaffolder{source: source, log: logger}
}

// templateData is what the plan template is rendered with.
type templateData struct {
	RepoName string
}

// Init copies the persona files into <dir>/.agentmux/personas/ and renders
// the plan template to <dir>/TEMPLATE_plan.md. Existing files are
// overwritten; init is safe to re-run.
func (s *Scaffolder) Init(dir, repoName string) error {
	assets, err := s.source.Assets()
	if err != nil {
		return fmt.Errorf("open assets: %w", err)
	}

	personasDir := filepath.Join(dir, Dir, PersonasSubdir)
	if err := os.MkdirAll(personasDir, 0755); err != nil {
		return fmt.Errorf("create personas dir: %w", err)
	}

	entries, err := fs.ReadDir(assets, PersonasSubdir)
	if err != nil {
		return fmt.Errorf("read bundled personas: %w", err)
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(assets, path.Join(PersonasSubdir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read persona %s: %w", entry.Name(), err)
		}
		target := filepath.Join(personasDir, entry.Name())
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("write persona %s: %w", entry.Name(), err)
		}
		s.log.Debug("wrote persona", "path", target)
	}

	tmplData, err := fs.ReadFile(assets, "plan_template.md")
	if err != nil {
		return fmt.Errorf("read plan template: %w", err)
	}
	tmpl, err := template.New("plan").Parse(string(tmplData))
	if err != nil {
		return fmt.Errorf("parse plan template: %w", err)
	}

	out, err := os.Create(filepath.Join(dir, "TEMPLATE_plan.md"))
	if err != nil {
		return fmt.Errorf("create plan template: %w", err)
	}
	defer out.Close()

	if err := tmpl.Execute(out, templateData{RepoName: repoName}); err != nil {
		return fmt.Errorf("render plan template: %w", err)
	}

	s.log.Info("scaffolded project", "dir", filepath.Join(dir, Dir))
	return nil
}

// Persona returns the bundled persona file contents by name (without the
// .md extension).
func (s *Scaffolder) Persona(name string) ([]byte, error) {
	assets, err := s.source.Assets()
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(assets, path.Join(PersonasSubdir, name+".md"))
	if err != nil {
		return nil, fmt.Errorf("no bundled persona %q: %w", name, err)
	}
	return data, nil
}

// IsIntegrationPlan reports whether a plan file triggers the integration
// tester persona substitution. The rule is a fixed filename convention, not
// a general template mechanism: the base name names the persona or carries
// the "integration-" marker.
func IsIntegrationPlan(planPath string) bool {
	base := filepath.Base(planPath)
	return strings.Contains(base, IntegrationPersona) || strings.HasPrefix(base, "integration-")
}

// RemoveScaffold deletes the project-local scaffold directory. Absence is a
// successful no-op.
func RemoveScaffold(dir string, logger *log.Logger) error {
	path := filepath.Join(dir, Dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("no scaffold directory to remove", "path", path)
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove scaffold: %w", err)
	}
	logger.Info("removed scaffold directory", "path", path)
	return nil
}

// StagedPlans lists plan files in the project root matching the staged-plan
// naming convention. Returns an empty list on any failure.
func StagedPlans(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, PlanGlob))
	if err != nil {
		return nil
	}
	return matches
}
