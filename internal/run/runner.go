// Package run provides a stub-friendly wrapper for executing external commands.
package run

import (
	"bytes"
	"os"
	"os/exec"
)

// Result holds the outcome of one external command execution.
// Callers inspect ExitCode; a non-zero exit is data, not an error.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Failed reports whether the command exited non-zero (or never started).
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Opts holds optional parameters for command execution.
type Opts struct {
	Dir string // working directory (optional)
}

// Runner is the interface every component uses to invoke external tools.
// Implementations must be safe for stubbing in tests.
type Runner interface {
	Run(name string, args []string, opts Opts) Result
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command, inheriting stdin and capturing stdout/stderr.
// A process that runs and exits non-zero is reported through ExitCode.
// A process that cannot be started at all (binary missing, bad directory)
// is reported as ExitCode 127 with a synthesized Stderr, so callers never
// need a separate error path to learn that a command failed.
func (r *ExecRunner) Run(name string, args []string, opts Opts) Result {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	err := cmd.Run()

	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result
		}
		// The process never ran: synthesize a shell-style exit code so the
		// failure is visible through the same channel as any other.
		result.ExitCode = 127
		if result.Stderr == "" {
			result.Stderr = err.Error()
		}
		return result
	}

	return result
}
