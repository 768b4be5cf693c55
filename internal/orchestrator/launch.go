package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mkrall/agentmux/internal/errors"
	"github.com/mkrall/agentmux/internal/scaffold"
	"github.com/mkrall/agentmux/internal/worker"
)

// Launch brings up one worker: worktree, setup hook, staged prompt, session
// window, running agent. The sequence is linear; a fatal step returns
// immediately. The only compensating action is the setup hook's own
// rollback inside the worktree manager — resources created before a later
// failure are left for `agentmux cleanup`.
func (o *Orchestrator) Launch(branch, planFile string) error {
	for _, tool := range []string{"git", "tmux", o.agentBin} {
		if _, err := o.lookPath(tool); err != nil {
			return errors.ToolNotFound(tool)
		}
	}

	if _, err := os.Stat(planFile); err != nil {
		return errors.PlanFileNotFound(planFile)
	}

	d := worker.New(o.cfg, branch, planFile)

	if err := o.trees.Create(d); err != nil {
		return errors.WorktreeCreateFailed(branch, err)
	}

	if err := o.trees.Setup(d); err != nil {
		return errors.SetupFailed(branch, err)
	}

	promptName, err := o.stagePrompt(d)
	if err != nil {
		return errors.Wrap(errors.CategoryRuntime, "failed to stage prompt file", err)
	}

	w, err := o.windows.EnsureWindow(o.session(), branch, d.WorktreePath)
	if err != nil {
		return errors.TmuxOperationFailed("new-window", err)
	}

	result, err := o.agent.Start(w.Target(), promptName)
	if err != nil {
		return errors.Wrap(errors.CategoryRuntime, "failed to start agent", err)
	}

	o.log.Info("worker launched",
		"branch", branch,
		"window", w.Target(),
		"agentSession", result.SessionID)
	o.log.Info(fmt.Sprintf("attach with: tmux select-window -t %s", w.Target()))
	return nil
}

// stagePrompt writes the worker's initial prompt into the worktree and
// returns its name relative to the worktree root. Plan files that launch
// the integration tester get the bundled persona substituted for their
// literal content; everything else is copied verbatim. This substitution is
// a fixed special case, not a template mechanism.
func (o *Orchestrator) stagePrompt(d worker.Descriptor) (string, error) {
	var content []byte
	var err error

	if scaffold.IsIntegrationPlan(d.PlanFile) {
		o.log.Debug("substituting integration tester persona for plan file", "plan", d.PlanFile)
		content, err = o.personas.Persona(scaffold.IntegrationPersona)
	} else {
		content, err = os.ReadFile(d.PlanFile)
	}
	if err != nil {
		return "", err
	}

	name := filepath.Base(d.PlanFile)
	if err := os.WriteFile(filepath.Join(d.WorktreePath, name), content, 0644); err != nil {
		return "", err
	}
	return name, nil
}
