// Package errors provides enhanced error handling utilities for better CLI UX.
package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error for consistent formatting
type Category int

const (
	// CategoryUsage indicates incorrect command usage
	CategoryUsage Category = iota
	// CategoryConfig indicates configuration or setup issues
	CategoryConfig
	// CategoryPrereq indicates a missing external tool or input file
	CategoryPrereq
	// CategoryRuntime indicates operational failures
	CategoryRuntime
	// CategoryNotFound indicates a resource was not found
	CategoryNotFound
)

// CLIError represents an error with additional context for CLI display
type CLIError struct {
	Category   Category
	Message    string
	Suggestion string // Optional hint for how to fix the error
	Cause      error  // Wrapped error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError
func New(category Category, message string) *CLIError {
	return &CLIError{
		Category: category,
		Message:  message,
	}
}

// Wrap wraps an existing error with CLI context
func Wrap(category Category, message string, cause error) *CLIError {
	return &CLIError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// Format returns a user-friendly formatted error message
func Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	if cliErr, ok := err.(*CLIError); ok {
		sb.WriteString(categoryPrefix(cliErr.Category))
		sb.WriteString(cliErr.Message)

		if cliErr.Cause != nil {
			sb.WriteString(": ")
			sb.WriteString(cliErr.Cause.Error())
		}

		if cliErr.Suggestion != "" {
			sb.WriteString("\n\nTry: ")
			sb.WriteString(cliErr.Suggestion)
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(err.Error())
	}

	return sb.String()
}

// categoryPrefix returns the prefix for each error category
func categoryPrefix(cat Category) string {
	switch cat {
	case CategoryUsage:
		return "Usage error: "
	case CategoryConfig:
		return "Configuration error: "
	case CategoryPrereq:
		return "Missing prerequisite: "
	case CategoryNotFound:
		return "Not found: "
	default:
		return "Error: "
	}
}

// Common error constructors for frequently used patterns

// ToolNotFound creates an error for a required external tool missing from PATH
func ToolNotFound(tool string) *CLIError {
	return &CLIError{
		Category:   CategoryPrereq,
		Message:    fmt.Sprintf("required tool '%s' not found in PATH", tool),
		Suggestion: installHint(tool),
	}
}

// installHint suggests how to obtain a missing tool
func installHint(tool string) string {
	switch tool {
	case "tmux":
		return "install tmux with your package manager (e.g. brew install tmux)"
	case "claude":
		return "install Claude Code CLI: https://docs.anthropic.com/claude-code"
	case "git":
		return "install git with your package manager"
	default:
		return ""
	}
}

// PlanFileNotFound creates an error for a missing plan file
func PlanFileNotFound(path string) *CLIError {
	return &CLIError{
		Category:   CategoryPrereq,
		Message:    fmt.Sprintf("plan file '%s' does not exist", path),
		Suggestion: "run 'agentmux init' to scaffold plan templates",
	}
}

// WorktreeCreateFailed creates an error for worktree creation failures
func WorktreeCreateFailed(branch string, cause error) *CLIError {
	return &CLIError{
		Category:   CategoryRuntime,
		Message:    fmt.Sprintf("failed to create worktree for branch '%s'", branch),
		Cause:      cause,
		Suggestion: worktreeSuggestionForError(branch, cause),
	}
}

// worktreeSuggestionForError provides specific suggestions based on the git error
func worktreeSuggestionForError(branch string, cause error) string {
	if cause == nil {
		return "check disk space and git repository state"
	}

	errMsg := cause.Error()

	if strings.Contains(errMsg, "already checked out") {
		return fmt.Sprintf("this branch is already checked out in another worktree\n\nTry: agentmux cleanup %s", branch)
	}
	if strings.Contains(errMsg, "not a valid reference") || strings.Contains(errMsg, "invalid reference") {
		return "the configured default branch does not exist\n\nCheck available branches: git branch -a"
	}
	if strings.Contains(errMsg, "already exists") {
		return fmt.Sprintf("branch '%s' already exists from a previous run\n\n"+
			"To fix this:\n"+
			"  1. Run: agentmux cleanup %s\n"+
			"  2. Or manually delete the stale branch:\n"+
			"     git branch -D %s", branch, branch, branch)
	}

	return "check disk space and git repository state"
}

// SetupFailed creates an error for a failing project setup hook
func SetupFailed(branch string, cause error) *CLIError {
	return &CLIError{
		Category:   CategoryRuntime,
		Message:    fmt.Sprintf("setup hook failed for branch '%s'; worktree and branch were rolled back", branch),
		Cause:      cause,
		Suggestion: "run 'make setup' in the main checkout to reproduce the failure",
	}
}

// TmuxOperationFailed creates an error for tmux operation failures
func TmuxOperationFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Category:   CategoryRuntime,
		Message:    fmt.Sprintf("tmux %s failed", operation),
		Cause:      cause,
		Suggestion: tmuxSuggestionForError(cause),
	}
}

// tmuxSuggestionForError provides specific suggestions based on the tmux error
func tmuxSuggestionForError(cause error) string {
	if cause == nil {
		return ""
	}
	errMsg := cause.Error()

	if strings.Contains(errMsg, "executable file not found") || strings.Contains(errMsg, "not found in") {
		return "could not find 'tmux' binary in PATH"
	}
	if strings.Contains(errMsg, "duplicate session") || strings.Contains(errMsg, "already exists") {
		return "a tmux session with this name already exists; kill it with: tmux kill-session -t <session-name>"
	}

	return ""
}

// InvalidUsage creates an error for invalid command usage
func InvalidUsage(usage string) *CLIError {
	return &CLIError{
		Category: CategoryUsage,
		Message:  usage,
	}
}
