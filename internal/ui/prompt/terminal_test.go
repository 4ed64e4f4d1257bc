package prompt

import (
	"context"
	"errors"
	"testing"
)

// Not parallel: swaps the package-level terminal check.
func withoutTerminal(t *testing.T) {
	t.Helper()
	prev := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = prev })
}

func TestSelector_NoTerminal(t *testing.T) {
	withoutTerminal(t)

	idx, cancelled, err := Selector{}.Select(context.Background(), "Project", []string{"api"})
	if !errors.Is(err, ErrNotInteractive) {
		t.Fatalf("Select() error = %v, want ErrNotInteractive", err)
	}
	if idx != -1 || cancelled {
		t.Errorf("Select() = (%d, %v), want (-1, false)", idx, cancelled)
	}
}

func TestConfirmer_NoTerminalDeclines(t *testing.T) {
	withoutTerminal(t)

	ok, err := Confirmer{}.Confirm(context.Background(), "Remove worktree wip anyway?")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if ok {
		t.Error("Confirm() without a terminal should decline")
	}
}
