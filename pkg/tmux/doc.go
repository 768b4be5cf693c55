// Package tmux provides a Go client for programmatic interaction with tmux.
//
// This package focuses on the features agentmux needs to drive interactive
// CLI applications inside a multiplexer:
//
//   - Window creation at an explicit 1-based index (see [Client.EnsureWindow])
//   - Window discovery across all live sessions (see [Client.FindWindow])
//   - Literal text and named-key input (see [Client.SendText], [Client.SendKey])
//
// All tmux invocations go through an injected [run.Runner], so every method
// is testable against a fake without a live tmux server.
//
// # Requirements
//
// This package requires tmux to be installed and available in PATH.
// Use [Client.Available] to check availability at runtime.
//
// # Example Usage
//
//	client := tmux.NewClient(run.NewExecRunner())
//
//	if !client.Available() {
//	    log.Fatal("tmux is not installed")
//	}
//
//	// Create (or reuse) a session and open a window rooted at a directory
//	w, err := client.EnsureWindow("hive", "fix-auth", "/work/trees/repo_fix-auth")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Type a command into the window and submit it
//	client.SendText(w.Target(), "make test")
//	client.SendKey(w.Target(), "Enter")
//
// # Absence Is Not an Error
//
// tmux reports "nothing there" conditions (no server, no session, no window)
// through exit code 1 and stderr text. This client maps those conditions to
// empty lists and false booleans rather than errors, because callers in the
// cleanup path treat absence as the desired end state.
package tmux
