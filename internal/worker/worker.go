// Package worker defines the identity of one orchestrated unit of work.
package worker

import "github.com/mkrall/agentmux/internal/config"

// Descriptor identifies one worker: a branch, its worktree, its plan file,
// and its tmux window. It is derived from the branch name and the resolved
// configuration on every invocation and never persisted; discovery of live
// workers goes through git and tmux instead of a manifest.
type Descriptor struct {
	Branch       string // branch name, window name, and naming key
	WorktreePath string // WorktreeRoot/<repo>_<branch>
	PlanFile     string // caller-supplied markdown plan, staged into the worktree
	WindowTarget string // "<session>:<branch>"
}

// New builds a Descriptor for the given branch and plan file.
func New(cfg config.Config, branch, planFile string) Descriptor {
	return Descriptor{
		Branch:       branch,
		WorktreePath: cfg.WorktreePath(branch),
		PlanFile:     planFile,
		WindowTarget: cfg.WindowTarget(branch),
	}
}
