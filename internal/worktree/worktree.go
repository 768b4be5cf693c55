// Package worktree manages the git worktree lifecycle for workers.
package worktree

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mkrall/agentmux/internal/config"
	"github.com/mkrall/agentmux/internal/run"
	"github.com/mkrall/agentmux/internal/worker"
)

// AgentConfigDir is the optional local agent-configuration directory copied
// into every new worktree so the agent CLI picks up project settings.
const AgentConfigDir = ".claude"

// Manager creates, locates, and destroys git worktrees keyed by branch name.
// It never terminates the process; all failures are reported to the caller.
type Manager struct {
	cfg    config.Config
	runner run.Runner
	log    *log.Logger
}

// NewManager creates a worktree Manager.
func NewManager(cfg config.Config, runner run.Runner, logger *log.Logger) *Manager {
	return &Manager{cfg: cfg, runner: runner, log: logger}
}

// Info describes one live worktree from git's listing.
type Info struct {
	Path   string
	Branch string
}

// git runs a git command in the invoking repository.
func (m *Manager) git(args ...string) run.Result {
	return m.runner.Run("git", args, run.Opts{})
}

// Create makes a fresh worktree for the descriptor's branch, based on the
// configured default branch (or HEAD when that branch does not exist). A
// stale worktree or branch left by a previous run is force-removed first,
// with a warning. The optional agent config directory is copied into the
// new tree.
func (m *Manager) Create(d worker.Descriptor) error {
	if _, err := os.Stat(d.WorktreePath); err == nil {
		m.log.Warn("worktree already exists, removing before re-create", "path", d.WorktreePath)
		if err := m.Remove(d.Branch); err != nil {
			return fmt.Errorf("remove stale worktree: %w", err)
		}
		if err := m.DeleteBranch(d.Branch); err != nil {
			return fmt.Errorf("delete stale branch: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(d.WorktreePath), 0755); err != nil {
		return fmt.Errorf("create worktree root: %w", err)
	}

	base := m.cfg.DefaultBranch
	if !m.branchExists(base) {
		m.log.Debug("default branch not found, branching from HEAD", "branch", base)
		base = "HEAD"
	}

	res := m.git("worktree", "add", "-b", d.Branch, d.WorktreePath, base)
	if res.Failed() {
		return fmt.Errorf("git worktree add: %s", gitFailure(res))
	}
	m.log.Info("created worktree", "branch", d.Branch, "path", d.WorktreePath)

	if _, err := os.Stat(AgentConfigDir); err == nil {
		if err := copyDir(AgentConfigDir, filepath.Join(d.WorktreePath, AgentConfigDir)); err != nil {
			m.log.Warn("could not copy agent config dir into worktree", "err", err)
		}
	}

	return nil
}

// Setup runs the project's setup hook (the conventional `make setup` target)
// inside the worktree. A failing hook is fatal and triggers rollback: the
// worktree and its branch are removed before the error is returned.
func (m *Manager) Setup(d worker.Descriptor) error {
	if _, err := os.Stat(filepath.Join(d.WorktreePath, "Makefile")); err != nil {
		m.log.Info("no Makefile in worktree, skipping setup hook", "branch", d.Branch)
		return nil
	}

	m.log.Info("running setup hook", "branch", d.Branch)
	res := m.runner.Run("make", []string{"setup"}, run.Opts{Dir: d.WorktreePath})
	if !res.Failed() {
		return nil
	}

	m.log.Warn("setup hook failed, rolling back worktree and branch", "branch", d.Branch)
	if err := m.Remove(d.Branch); err != nil {
		m.log.Warn("rollback: could not remove worktree", "err", err)
	}
	if err := m.DeleteBranch(d.Branch); err != nil {
		m.log.Warn("rollback: could not delete branch", "err", err)
	}
	return fmt.Errorf("make setup: %s", gitFailure(res))
}

// Remove deletes the worktree for a branch. An absent directory is a
// successful no-op. Otherwise the tree is made writable best-effort, removed
// gracefully through git, and force-deleted from the filesystem if git
// refuses; an error surfaces only after both paths have been tried.
func (m *Manager) Remove(branch string) error {
	path := m.cfg.WorktreePath(branch)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		m.log.Info("worktree not found, nothing to remove", "path", path)
		return nil
	}

	// Build artifacts are sometimes written read-only; make sure removal
	// can proceed either way.
	if err := makeWritable(path); err != nil {
		m.log.Warn("could not fix worktree permissions", "err", err)
	}

	res := m.git("worktree", "remove", "--force", path)
	if res.Failed() {
		m.log.Warn("git worktree remove failed, falling back to filesystem delete", "stderr", strings.TrimSpace(res.Stderr))
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove worktree %s: %w", path, err)
		}
	}
	m.log.Info("removed worktree", "path", path)
	return nil
}

// DeleteBranch force-deletes a branch. An absent branch is a successful
// no-op.
func (m *Manager) DeleteBranch(branch string) error {
	if !m.branchExists(branch) {
		m.log.Info("branch not found, nothing to delete", "branch", branch)
		return nil
	}

	res := m.git("branch", "-D", branch)
	if res.Failed() {
		return fmt.Errorf("git branch -D %s: %s", branch, gitFailure(res))
	}
	m.log.Info("deleted branch", "branch", branch)
	return nil
}

// Prune reconciles git's worktree bookkeeping after manual directory
// deletions. Best effort: failures are warnings, never fatal.
func (m *Manager) Prune() {
	res := m.git("worktree", "prune")
	if res.Failed() {
		m.log.Warn("git worktree prune failed", "stderr", strings.TrimSpace(res.Stderr))
	}
}

// ListMatching enumerates live worktrees whose directory name carries this
// repository's worker prefix. Returns an empty list when none match or when
// the listing itself fails.
func (m *Manager) ListMatching() []Info {
	res := m.git("worktree", "list", "--porcelain")
	if res.Failed() {
		m.log.Warn("git worktree list failed", "stderr", strings.TrimSpace(res.Stderr))
		return nil
	}

	var matched []Info
	for _, info := range parsePorcelain(res.Stdout) {
		if strings.HasPrefix(filepath.Base(info.Path), m.cfg.WorktreePrefix()) {
			matched = append(matched, info)
		}
	}
	return matched
}

// branchExists checks whether a local branch exists.
func (m *Manager) branchExists(branch string) bool {
	return !m.git("show-ref", "--verify", "--quiet", "refs/heads/"+branch).Failed()
}

// parsePorcelain parses `git worktree list --porcelain` output into Infos.
func parsePorcelain(out string) []Info {
	var infos []Info
	var current *Info

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		field, value, _ := strings.Cut(line, " ")
		switch field {
		case "worktree":
			infos = append(infos, Info{Path: value})
			current = &infos[len(infos)-1]
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "detached":
			if current != nil && current.Branch == "" {
				current.Branch = "detached"
			}
		}
	}
	return infos
}

// gitFailure renders a failed result for error messages, preferring stderr.
func gitFailure(res run.Result) string {
	if s := strings.TrimSpace(res.Stderr); s != "" {
		return s
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}

// makeWritable adds owner write permission to everything under root.
func makeWritable(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return os.Chmod(path, info.Mode().Perm()|0200)
	})
}

// copyDir recursively copies src into dst, preserving file modes.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode().Perm())
	})
}

// copyFile copies one regular file.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
