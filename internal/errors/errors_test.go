package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestCLIError_Error(t *testing.T) {
	err := New(CategoryRuntime, "test error")
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got '%s'", err.Error())
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(CategoryRuntime, "wrapper", cause)

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestFormat_CLIError(t *testing.T) {
	tests := []struct {
		name     string
		err      *CLIError
		contains []string
	}{
		{
			name:     "basic error",
			err:      New(CategoryRuntime, "something failed"),
			contains: []string{"Error:", "something failed"},
		},
		{
			name:     "usage error",
			err:      New(CategoryUsage, "invalid argument"),
			contains: []string{"Usage error:", "invalid argument"},
		},
		{
			name:     "config error",
			err:      New(CategoryConfig, "missing config"),
			contains: []string{"Configuration error:", "missing config"},
		},
		{
			name:     "prereq error",
			err:      New(CategoryPrereq, "tmux missing"),
			contains: []string{"Missing prerequisite:", "tmux missing"},
		},
		{
			name:     "not found error",
			err:      New(CategoryNotFound, "worker missing"),
			contains: []string{"Not found:", "worker missing"},
		},
		{
			name:     "error with cause",
			err:      Wrap(CategoryRuntime, "operation failed", errors.New("permission denied")),
			contains: []string{"operation failed", "permission denied"},
		},
		{
			name:     "error with suggestion",
			err:      New(CategoryPrereq, "claude not installed").WithSuggestion("brew install claude"),
			contains: []string{"claude not installed", "Try:", "brew install claude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted := Format(tt.err)
			for _, want := range tt.contains {
				if !strings.Contains(formatted, want) {
					t.Errorf("Format() = %q, missing %q", formatted, want)
				}
			}
		})
	}
}

func TestFormat_PlainError(t *testing.T) {
	formatted := Format(errors.New("plain"))
	if formatted != "Error: plain" {
		t.Errorf("Format() = %q", formatted)
	}
}

func TestFormat_Nil(t *testing.T) {
	if Format(nil) != "" {
		t.Error("Format(nil) should return empty string")
	}
}

func TestToolNotFound(t *testing.T) {
	err := ToolNotFound("tmux")
	formatted := Format(err)

	if !strings.Contains(formatted, "tmux") {
		t.Errorf("message should name the missing tool: %q", formatted)
	}
	if !strings.Contains(formatted, "Try:") {
		t.Errorf("known tools should carry an install hint: %q", formatted)
	}
}

func TestWorktreeCreateFailed_Suggestions(t *testing.T) {
	tests := []struct {
		name    string
		cause   error
		wantHas string
	}{
		{
			name:    "branch already exists",
			cause:   errors.New("fatal: a branch named 'fix-auth' already exists"),
			wantHas: "agentmux cleanup fix-auth",
		},
		{
			name:    "branch checked out elsewhere",
			cause:   errors.New("fatal: 'fix-auth' is already checked out at '/tmp/wt'"),
			wantHas: "another worktree",
		},
		{
			name:    "bad base branch",
			cause:   errors.New("fatal: invalid reference: main"),
			wantHas: "git branch -a",
		},
		{
			name:    "generic failure",
			cause:   errors.New("disk full"),
			wantHas: "disk space",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WorktreeCreateFailed("fix-auth", tt.cause)
			if !strings.Contains(err.Suggestion, tt.wantHas) {
				t.Errorf("suggestion %q missing %q", err.Suggestion, tt.wantHas)
			}
		})
	}
}

func TestErrorsIs(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(CategoryRuntime, "outer", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}
