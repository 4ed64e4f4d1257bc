package prompt

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/wtree/internal/log"
)

// ErrNotInteractive is returned when a selection needs a terminal but
// stdin or stderr is redirected.
var ErrNotInteractive = errors.New("interactive selection requires a terminal")

// interactive reports whether prompts can be shown. Replaced in tests.
var interactive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// Selector adapts [FuzzySelect] to the navigator.
type Selector struct{}

func (Selector) Select(_ context.Context, prompt string, labels []string) (int, bool, error) {
	if !interactive() {
		return -1, false, ErrNotInteractive
	}
	return FuzzySelect(prompt, labels)
}

// Confirmer adapts [Confirm] to worktree removal. Without a terminal every
// question is answered with no.
type Confirmer struct{}

func (Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !interactive() {
		log.FromContext(ctx).Debug("no terminal, declining", "prompt", prompt)
		return false, nil
	}
	res, err := Confirm(prompt)
	if err != nil {
		return false, err
	}
	return res.Confirmed && !res.Cancelled, nil
}
