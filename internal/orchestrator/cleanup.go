package orchestrator

import (
	"fmt"
	"os"
	"strings"

	"github.com/mkrall/agentmux/internal/format"
	"github.com/mkrall/agentmux/internal/scaffold"
)

// Cleanup tears down one worker by branch name: window, worktree, branch,
// then prune. Every step is best-effort and logs its own warning on
// failure; the goal is maximal cleanup, not all-or-nothing. Cleanup always
// finishes with a summary of resources still alive.
func (o *Orchestrator) Cleanup(branch string) error {
	if w, ok := o.windows.FindWindow(branch); ok {
		if _, err := o.windows.KillWindow(w.Target()); err != nil {
			o.log.Warn("could not kill window", "target", w.Target(), "err", err)
		} else {
			o.log.Info("killed window", "target", w.Target())
		}
	} else {
		o.log.Info("window not found, nothing to kill", "window", branch)
	}

	if err := o.trees.Remove(branch); err != nil {
		o.log.Warn("could not remove worktree", "branch", branch, "err", err)
	}

	if err := o.trees.DeleteBranch(branch); err != nil {
		o.log.Warn("could not delete branch", "branch", branch, "err", err)
	}

	o.trees.Prune()

	o.printSummary()
	return nil
}

// Reset discovers and tears down every worker-pattern resource system-wide,
// asking for confirmation before each destructive step. Declining one
// resource leaves it untouched and moves on to the next.
func (o *Orchestrator) Reset(projectDir string) error {
	if err := scaffold.RemoveScaffold(projectDir, o.log); err != nil {
		o.log.Warn("could not remove scaffold directory", "err", err)
	}

	for _, plan := range scaffold.StagedPlans(projectDir) {
		if err := os.Remove(plan); err != nil {
			o.log.Warn("could not remove staged plan", "path", plan, "err", err)
		} else {
			o.log.Info("removed staged plan", "path", plan)
		}
	}

	// Snapshot worker branches before deletion so window matching below
	// still knows which names were ours.
	workerBranches := make(map[string]bool)
	trees := o.trees.ListMatching()
	for _, info := range trees {
		workerBranches[info.Branch] = true
	}

	if len(trees) == 0 {
		o.log.Info("no worker worktrees found")
	}
	for _, info := range trees {
		if !o.confirm.Confirm(fmt.Sprintf("Remove worktree %s (branch %s)", info.Path, info.Branch)) {
			o.log.Info("skipped worktree", "path", info.Path)
			continue
		}
		if err := o.trees.Remove(info.Branch); err != nil {
			o.log.Warn("could not remove worktree", "branch", info.Branch, "err", err)
		}
		if err := o.trees.DeleteBranch(info.Branch); err != nil {
			o.log.Warn("could not delete branch", "branch", info.Branch, "err", err)
		}
	}

	agentWindows := o.discoverAgentWindows(workerBranches)
	if len(agentWindows) == 0 {
		o.log.Info("no worker windows found")
	}
	for _, target := range agentWindows {
		if !o.confirm.Confirm(fmt.Sprintf("Kill window %s", target)) {
			o.log.Info("skipped window", "target", target)
			continue
		}
		if _, err := o.windows.KillWindow(target); err != nil {
			o.log.Warn("could not kill window", "target", target, "err", err)
		}
	}

	o.trees.Prune()

	o.printSummary()
	return nil
}

// discoverAgentWindows walks every live session and returns the targets of
// windows that look like ours: named after a discovered worker branch, or
// carrying the fixed "integration-" marker. The match is a naming
// convention, deliberately kept loose — there is no manifest to consult.
func (o *Orchestrator) discoverAgentWindows(workerBranches map[string]bool) []string {
	var targets []string
	for _, session := range o.windows.ListSessions() {
		for _, w := range o.windows.ListWindows(session) {
			if workerBranches[w.Name] || strings.HasPrefix(w.Name, "integration-") {
				targets = append(targets, w.Target())
			}
		}
	}
	return targets
}

// printSummary reports the worker-pattern resources still alive after a
// cleanup or reset pass.
func (o *Orchestrator) printSummary() {
	trees := o.trees.ListMatching()
	format.Header("remaining worktrees: %d", len(trees))
	if len(trees) > 0 {
		tbl := format.NewTable("BRANCH", "PATH")
		for _, info := range trees {
			tbl.AddRow(info.Branch, info.Path)
		}
		fmt.Fprint(format.Out, tbl.String())
	}

	sessions := o.windows.ListSessions()
	format.Header("live sessions: %d", len(sessions))
	for _, session := range sessions {
		names := make([]string, 0)
		for _, w := range o.windows.ListWindows(session) {
			names = append(names, w.Name)
		}
		format.Item("%s: %s", session, strings.Join(names, ", "))
	}
}
