// Package orchestrator composes the worktree and window managers into the
// launch, cleanup, and reset flows.
package orchestrator

import (
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/mkrall/agentmux/internal/config"
	"github.com/mkrall/agentmux/internal/worker"
	"github.com/mkrall/agentmux/internal/worktree"
	"github.com/mkrall/agentmux/pkg/agent"
	"github.com/mkrall/agentmux/pkg/tmux"
)

// WorktreeManager is the worktree lifecycle surface the orchestrator needs.
// *worktree.Manager implements it.
type WorktreeManager interface {
	Create(d worker.Descriptor) error
	Setup(d worker.Descriptor) error
	Remove(branch string) error
	DeleteBranch(branch string) error
	Prune()
	ListMatching() []worktree.Info
}

// WindowManager is the multiplexer surface the orchestrator needs.
// *tmux.Client implements it.
type WindowManager interface {
	CurrentSession() (string, bool)
	EnsureWindow(session, windowName, dir string) (tmux.Window, error)
	FindWindow(windowName string) (tmux.Window, bool)
	KillWindow(target string) (bool, error)
	ListSessions() []string
	ListWindows(session string) []tmux.Window
}

// AgentStarter starts the agent CLI in a window. *agent.Runner implements it.
type AgentStarter interface {
	Start(target, promptFile string) (*agent.StartResult, error)
}

// PersonaSource provides bundled persona content for the integration-tester
// substitution. *scaffold.Scaffolder implements it.
type PersonaSource interface {
	Persona(name string) ([]byte, error)
}

// Confirmer asks the user a yes/no question. Reset uses it before touching
// every discovered resource.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Orchestrator owns one invocation's worth of launch/cleanup/reset flow.
// It never terminates the process; fatal conditions are returned to the CLI
// entry point, which decides the exit code.
type Orchestrator struct {
	cfg      config.Config
	log      *log.Logger
	trees    WorktreeManager
	windows  WindowManager
	agent    AgentStarter
	personas PersonaSource
	confirm  Confirmer

	agentBin string
	lookPath func(string) (string, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAgentBin sets the agent binary checked for during prerequisites.
func WithAgentBin(bin string) Option {
	return func(o *Orchestrator) {
		o.agentBin = bin
	}
}

// WithLookPath overrides binary resolution for tests.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(o *Orchestrator) {
		o.lookPath = lookPath
	}
}

// New creates an Orchestrator from its collaborators.
func New(cfg config.Config, logger *log.Logger, trees WorktreeManager, windows WindowManager, agentStarter AgentStarter, personas PersonaSource, confirm Confirmer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		log:      logger,
		trees:    trees,
		windows:  windows,
		agent:    agentStarter,
		personas: personas,
		confirm:  confirm,
		agentBin: "claude",
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// session picks the tmux session for new windows: the one the caller is
// attached to when inside tmux, the configured session name otherwise.
func (o *Orchestrator) session() string {
	if current, ok := o.windows.CurrentSession(); ok {
		return current
	}
	return o.cfg.SessionName
}
