package progress

import (
	"bytes"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestSpinner_DisabledIsSilent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := newSpinner(&buf, false, "Fetching PR status")
	s.Start()
	s.UpdateMessage("still fetching")
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("disabled spinner wrote %q", buf.String())
	}
	if s.lastMsg != "still fetching" {
		t.Errorf("lastMsg = %q", s.lastMsg)
	}
}

func TestSpinnerModel_MessageUpdate(t *testing.T) {
	t.Parallel()

	m := spinnerModel{message: "one", msgChan: make(chan string)}
	updated, cmd := m.Update(messageUpdate("two"))
	if got := updated.(spinnerModel).message; got != "two" {
		t.Errorf("message = %q, want two", got)
	}
	if cmd == nil {
		t.Error("expected a command waiting for the next message")
	}
}

func TestSpinnerModel_IgnoresKeys(t *testing.T) {
	t.Parallel()

	m := spinnerModel{message: "working"}
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd != nil {
		t.Error("key press should not produce a command")
	}
}

func TestSpinnerModel_EmptyView(t *testing.T) {
	t.Parallel()
	if v := (spinnerModel{}).View(); v.Content != "" {
		t.Errorf("View() = %q, want empty", v.Content)
	}
}

func TestRun_CallsFn(t *testing.T) {
	t.Parallel()
	called := false
	Run("working", func() { called = true })
	if !called {
		t.Error("Run did not call fn")
	}
}
