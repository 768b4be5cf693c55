package tmux

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mkrall/agentmux/internal/run"
)

// Client wraps tmux operations for programmatic control of tmux sessions
// and windows.
type Client struct {
	// tmuxPath allows overriding the default "tmux" binary path.
	// If empty, "tmux" is used (relies on PATH).
	tmuxPath string

	runner run.Runner
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithTmuxPath sets a custom path to the tmux binary.
func WithTmuxPath(path string) ClientOption {
	return func(c *Client) {
		c.tmuxPath = path
	}
}

// NewClient creates a new tmux client backed by the given command runner.
func NewClient(runner run.Runner, opts ...ClientOption) *Client {
	c := &Client{
		tmuxPath: "tmux",
		runner:   runner,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run invokes tmux with the given arguments.
func (c *Client) run(args ...string) run.Result {
	return c.runner.Run(c.tmuxPath, args, run.Opts{})
}

// cmdError turns a failed tmux invocation into an error carrying its stderr.
func cmdError(op string, res run.Result) error {
	stderr := strings.TrimSpace(res.Stderr)
	if stderr == "" {
		stderr = fmt.Sprintf("exit code %d", res.ExitCode)
	}
	return fmt.Errorf("tmux %s: %s", op, stderr)
}

// absent reports whether a failed result means "nothing there" rather than a
// real failure: exit code 1, a missing server, or a missing target.
func absent(res run.Result) bool {
	if res.ExitCode == 1 {
		return true
	}
	stderr := res.Stderr
	return strings.Contains(stderr, "no server running") ||
		strings.Contains(stderr, "error connecting to") ||
		strings.Contains(stderr, "can't find")
}

// Window identifies one window inside a session.
type Window struct {
	Session string
	Index   int
	Name    string
}

// Target returns the tmux addressing token for the window, by name.
func (w Window) Target() string {
	return w.Session + ":" + w.Name
}

// Available checks if tmux is installed and runnable.
func (c *Client) Available() bool {
	return !c.run("-V").Failed()
}

// CurrentSession returns the session the calling process is attached to.
// Returns false when not running inside tmux or when tmux is unavailable.
func (c *Client) CurrentSession() (string, bool) {
	if os.Getenv("TMUX") == "" {
		return "", false
	}
	res := c.run("display-message", "-p", "#{session_name}")
	if res.Failed() {
		return "", false
	}
	name := strings.TrimSpace(res.Stdout)
	return name, name != ""
}

// HasSession checks if a tmux session with the given name exists.
func (c *Client) HasSession(name string) bool {
	return !c.run("has-session", "-t", name).Failed()
}

// ListSessions returns the names of all live tmux sessions.
// An absent server yields an empty list, not an error.
func (c *Client) ListSessions() []string {
	res := c.run("list-sessions", "-F", "#{session_name}")
	if res.Failed() {
		return nil
	}
	return splitLines(res.Stdout)
}

// ListWindows returns all windows in the given session, with their indexes.
// An absent session yields an empty list.
func (c *Client) ListWindows(session string) []Window {
	res := c.run("list-windows", "-t", session, "-F", "#{window_index}\t#{window_name}")
	if res.Failed() {
		return nil
	}

	var windows []Window
	for _, line := range splitLines(res.Stdout) {
		idxStr, name, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			continue
		}
		windows = append(windows, Window{Session: session, Index: idx, Name: name})
	}
	return windows
}

// NextWindowIndex computes the index for a new window in the session:
// one past the highest existing index, or 1 when the session has no windows.
// Indexes are 1-based to match the original tmux convention agentmux uses.
func (c *Client) NextWindowIndex(session string) int {
	max := 0
	for _, w := range c.ListWindows(session) {
		if w.Index > max {
			max = w.Index
		}
	}
	return max + 1
}

// EnsureWindow makes sure a window named windowName exists in the session,
// rooted at dir. If the session does not exist it is created detached with
// this window as its first window. Concurrent invocations racing on session
// creation are tolerated: a "duplicate session" failure is treated as
// success and the window is created in the session the winner made.
func (c *Client) EnsureWindow(session, windowName, dir string) (Window, error) {
	if !c.HasSession(session) {
		res := c.run("new-session", "-d", "-s", session, "-n", windowName, "-c", dir)
		if !res.Failed() {
			return Window{Session: session, Index: 1, Name: windowName}, nil
		}
		if !strings.Contains(res.Stderr, "duplicate session") {
			return Window{}, cmdError("new-session", res)
		}
		// Lost the race; fall through and add a window to the existing session.
	}

	index := c.NextWindowIndex(session)
	res := c.run("new-window", "-t", fmt.Sprintf("%s:%d", session, index), "-n", windowName, "-c", dir)
	if !res.Failed() {
		return Window{Session: session, Index: index, Name: windowName}, nil
	}

	// Another invocation may have claimed the index between the listing and
	// the creation call. Let tmux pick the index instead.
	res = c.run("new-window", "-t", session+":", "-n", windowName, "-c", dir)
	if res.Failed() {
		return Window{}, cmdError("new-window", res)
	}
	return c.findInSession(session, windowName), nil
}

// findInSession locates a window by name in one session, returning a
// best-effort Window even if the listing fails.
func (c *Client) findInSession(session, windowName string) Window {
	for _, w := range c.ListWindows(session) {
		if w.Name == windowName {
			return w
		}
	}
	return Window{Session: session, Name: windowName}
}

// FindWindow searches every live session for a window with the given name.
// The owning session of a window is not recorded anywhere, so discovery
// walks the live window lists. Returns false when no session has it.
func (c *Client) FindWindow(windowName string) (Window, bool) {
	for _, session := range c.ListSessions() {
		for _, w := range c.ListWindows(session) {
			if w.Name == windowName {
				return w, true
			}
		}
	}
	return Window{}, false
}

// KillWindow kills the window addressed by target ("session:window").
// A target that does not exist is a successful no-op; the bool reports
// whether a window was actually killed.
func (c *Client) KillWindow(target string) (bool, error) {
	res := c.run("kill-window", "-t", target)
	if !res.Failed() {
		return true, nil
	}
	if absent(res) {
		return false, nil
	}
	return false, cmdError("kill-window", res)
}

// SendText types literal text into the target window's active pane.
// No Enter is sent; pair with SendKey(target, "Enter") to submit.
func (c *Client) SendText(target, text string) error {
	res := c.run("send-keys", "-t", target, "-l", "--", text)
	if res.Failed() {
		return cmdError("send-keys", res)
	}
	return nil
}

// SendKey sends a named tmux key (for example "Enter" or "BTab") to the
// target window's active pane.
func (c *Client) SendKey(target, key string) error {
	res := c.run("send-keys", "-t", target, key)
	if res.Failed() {
		return cmdError("send-keys", res)
	}
	return nil
}

// splitLines splits trimmed command output into non-empty lines.
func splitLines(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
