package agent

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// event records one terminal interaction or sleep, in order.
type event struct {
	kind  string // "text", "key", "sleep"
	value string
}

// fakeTerminal records every keystroke so tests can assert the exact
// handshake sequence without a live window.
type fakeTerminal struct {
	events  []event
	failKey string // if set, SendKey with this value fails
}

func (f *fakeTerminal) SendText(target, text string) error {
	f.events = append(f.events, event{"text", text})
	return nil
}

func (f *fakeTerminal) SendKey(target, key string) error {
	if f.failKey != "" && key == f.failKey {
		return errors.New("send failed")
	}
	f.events = append(f.events, event{"key", key})
	return nil
}

func newTestRunner(term *fakeTerminal, sleeps *[]time.Duration) *Runner {
	return NewRunner(
		WithTerminal(term),
		WithDelays(time.Millisecond, time.Millisecond),
		WithSleep(func(d time.Duration) {
			if sleeps != nil {
				*sleeps = append(*sleeps, d)
			}
		}),
	)
}

func TestStartHandshakeSequence(t *testing.T) {
	term := &fakeTerminal{}
	var sleeps []time.Duration
	r := newTestRunner(term, &sleeps)

	result, err := r.Start("hive:fix-auth", "fix-auth_plan.md")
	if err != nil {
		t.Fatal(err)
	}

	want := []event{
		{"text", result.Command},
		{"key", "Enter"}, // submit command
		{"key", "Enter"}, // trust prompt
		{"key", "Enter"}, // second confirmation
		{"key", "BTab"},  // auto-accept mode
	}
	if len(term.events) != len(want) {
		t.Fatalf("got %d events, want %d: %v", len(term.events), len(want), term.events)
	}
	for i, w := range want {
		if term.events[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, term.events[i], w)
		}
	}

	// One sleep before each of the three handshake keystrokes.
	if len(sleeps) != 3 {
		t.Errorf("got %d sleeps, want 3", len(sleeps))
	}
}

func TestStartCommandShape(t *testing.T) {
	term := &fakeTerminal{}
	r := newTestRunner(term, nil)

	result, err := r.Start("hive:fix-auth", "fix-auth_plan.md")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(result.Command, `claude "$(cat 'fix-auth_plan.md')"`) {
		t.Errorf("command = %q", result.Command)
	}
	if !strings.Contains(result.Command, "--session-id "+result.SessionID) {
		t.Errorf("command missing session id: %q", result.Command)
	}
	if result.SessionID == "" {
		t.Error("expected generated session id")
	}
}

func TestStartWithWrapper(t *testing.T) {
	term := &fakeTerminal{}
	r := NewRunner(
		WithTerminal(term),
		WithWrapper("humanlayer"),
		WithSleep(func(time.Duration) {}),
	)

	result, err := r.Start("hive:fix-auth", "plan.md")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(result.Command, "humanlayer claude ") {
		t.Errorf("command = %q", result.Command)
	}
}

func TestStartUniqueSessionIDs(t *testing.T) {
	term := &fakeTerminal{}
	r := newTestRunner(term, nil)

	a, err := r.Start("hive:a", "plan.md")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Start("hive:b", "plan.md")
	if err != nil {
		t.Fatal(err)
	}
	if a.SessionID == b.SessionID {
		t.Error("session ids must be unique per start")
	}
}

func TestStartNoTerminal(t *testing.T) {
	r := NewRunner()
	if _, err := r.Start("hive:x", "plan.md"); err == nil {
		t.Error("expected error with no terminal configured")
	}
}

func TestStartPropagatesSendFailure(t *testing.T) {
	term := &fakeTerminal{failKey: "BTab"}
	r := newTestRunner(term, nil)

	if _, err := r.Start("hive:x", "plan.md"); err == nil {
		t.Error("expected error when a handshake keystroke fails")
	}
}

func TestShellQuoteEscapesSingleQuotes(t *testing.T) {
	quoted := shellQuote("it's a plan.md")
	if quoted != `'it'\''s a plan.md'` {
		t.Errorf("shellQuote = %q", quoted)
	}
}

func TestDefaultDelays(t *testing.T) {
	r := NewRunner()
	if r.TrustDelay != DefaultTrustDelay || r.ConfirmDelay != DefaultConfirmDelay {
		t.Errorf("unexpected defaults: %v, %v", r.TrustDelay, r.ConfirmDelay)
	}
}
