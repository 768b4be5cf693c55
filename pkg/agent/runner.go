// Package agent provides utilities for starting the coding-agent CLI inside
// a terminal-multiplexer window.
//
// The agent CLI presents an interactive trust/confirmation prompt on first
// run in a new directory, and exposes no programmatic way to dismiss it. The
// only available mechanism is typing into its terminal: wait, confirm, wait,
// confirm, then toggle auto-accept mode. That fixed sleep-then-keystroke
// handshake is fragile by nature, so it lives entirely in this package with
// injectable delays and an injectable sleep function — tests substitute
// near-zero delays and a fake terminal, and orchestration code never touches
// the timing.
package agent

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Terminal abstracts the multiplexer input channel for driving the agent.
// The tmux.Client implements this interface.
type Terminal interface {
	// SendText types literal text into the target window without submitting.
	SendText(target, text string) error

	// SendKey sends a named key (e.g. "Enter", "BTab") to the target window.
	SendKey(target, key string) error
}

// Default handshake timing. The trust prompt takes about two seconds to
// appear after launch; subsequent prompts follow within a second.
const (
	DefaultTrustDelay   = 2 * time.Second
	DefaultConfirmDelay = 1 * time.Second
)

// autoAcceptKey is the keystroke that toggles the agent's auto-accept
// editing mode (Shift-Tab, which tmux names BTab).
const autoAcceptKey = "BTab"

// Runner starts agent CLI instances inside multiplexer windows.
type Runner struct {
	// Bin is the agent binary. Defaults to "claude" (relies on PATH).
	Bin string

	// Wrapper optionally names a wrapper binary the agent command is routed
	// through (e.g. "humanlayer").
	Wrapper string

	// Terminal is the input channel for the window running the agent.
	Terminal Terminal

	// TrustDelay is how long to wait after launching before the first
	// confirmation keystroke.
	TrustDelay time.Duration

	// ConfirmDelay is how long to wait between subsequent handshake
	// keystrokes.
	ConfirmDelay time.Duration

	// Sleep is the wait function used between handshake steps.
	// Defaults to time.Sleep; tests substitute a no-op.
	Sleep func(time.Duration)
}

// Option is a functional option for configuring a Runner.
type Option func(*Runner)

// WithBin sets a custom agent binary.
func WithBin(bin string) Option {
	return func(r *Runner) {
		r.Bin = bin
	}
}

// WithWrapper routes the agent command through a wrapper binary.
func WithWrapper(wrapper string) Option {
	return func(r *Runner) {
		r.Wrapper = wrapper
	}
}

// WithTerminal sets the terminal the runner types into.
func WithTerminal(t Terminal) Option {
	return func(r *Runner) {
		r.Terminal = t
	}
}

// WithDelays overrides the handshake timing.
func WithDelays(trust, confirm time.Duration) Option {
	return func(r *Runner) {
		r.TrustDelay = trust
		r.ConfirmDelay = confirm
	}
}

// WithSleep overrides the wait function used between handshake steps.
func WithSleep(sleep func(time.Duration)) Option {
	return func(r *Runner) {
		r.Sleep = sleep
	}
}

// NewRunner creates a new agent runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Bin:          "claude",
		TrustDelay:   DefaultTrustDelay,
		ConfirmDelay: DefaultConfirmDelay,
		Sleep:        time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveBin attempts to find the agent binary in PATH.
// Returns the full path if found, otherwise the bare name.
func ResolveBin(bin string) string {
	if path, err := exec.LookPath(bin); err == nil {
		return path
	}
	return bin
}

// StartResult describes a started agent instance.
type StartResult struct {
	// SessionID is the agent session identifier generated for this start.
	SessionID string

	// Command is the full command line typed into the window.
	Command string
}

// Start launches the agent in the target window with the staged prompt file
// as its initial instruction, then drives the scripted trust handshake.
// The window's working directory must already be the worktree; the prompt
// path is resolved relative to it.
func (r *Runner) Start(target, promptFile string) (*StartResult, error) {
	if r.Terminal == nil {
		return nil, fmt.Errorf("terminal not configured")
	}

	sessionID := uuid.NewString()
	cmd := r.buildCommand(sessionID, promptFile)

	if err := r.Terminal.SendText(target, cmd); err != nil {
		return nil, fmt.Errorf("failed to type agent command: %w", err)
	}
	if err := r.Terminal.SendKey(target, "Enter"); err != nil {
		return nil, fmt.Errorf("failed to submit agent command: %w", err)
	}

	// Trust prompt, then a second confirmation, then auto-accept mode.
	// There is no acknowledgment channel; fixed delays are the contract.
	r.Sleep(r.TrustDelay)
	if err := r.Terminal.SendKey(target, "Enter"); err != nil {
		return nil, fmt.Errorf("failed to confirm trust prompt: %w", err)
	}
	r.Sleep(r.ConfirmDelay)
	if err := r.Terminal.SendKey(target, "Enter"); err != nil {
		return nil, fmt.Errorf("failed to confirm second prompt: %w", err)
	}
	r.Sleep(r.ConfirmDelay)
	if err := r.Terminal.SendKey(target, autoAcceptKey); err != nil {
		return nil, fmt.Errorf("failed to enable auto-accept mode: %w", err)
	}

	return &StartResult{
		SessionID: sessionID,
		Command:   cmd,
	}, nil
}

// buildCommand constructs the shell command line that starts the agent with
// the prompt file's contents as its argument.
func (r *Runner) buildCommand(sessionID, promptFile string) string {
	parts := []string{}
	if r.Wrapper != "" {
		parts = append(parts, r.Wrapper)
	}
	parts = append(parts,
		r.Bin,
		fmt.Sprintf(`"$(cat %s)"`, shellQuote(promptFile)),
		"--session-id", sessionID,
	)
	return strings.Join(parts, " ")
}

// shellQuote single-quotes a path for safe interpolation into the typed
// command line.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
