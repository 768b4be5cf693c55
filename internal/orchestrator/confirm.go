package orchestrator

import (
	"github.com/manifoldco/promptui"
)

// PromptConfirmer asks yes/no questions on the terminal.
type PromptConfirmer struct{}

// Confirm presents an interactive [y/N] prompt. Anything but an explicit
// yes — including EOF or an interrupt — declines.
func (PromptConfirmer) Confirm(prompt string) bool {
	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	// promptui reports decline, ^C, ^D, and closed stdin all as errors;
	// every one of them reads as "no".
	_, err := p.Run()
	return err == nil
}

// AutoConfirmer answers yes to everything; used by the --yes flag for
// non-interactive reset.
type AutoConfirmer struct{}

// Confirm always returns true.
func (AutoConfirmer) Confirm(string) bool {
	return true
}
