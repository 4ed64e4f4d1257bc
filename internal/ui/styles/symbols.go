package styles

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/wtree/internal/forge"
	"github.com/raphi011/wtree/internal/prstatus"
)

// PR state symbols
const (
	PRMergedSymbol = "●"
	PROpenSymbol   = "○"
	PRClosedSymbol = "✕"
)

// Build status symbols
const (
	BuildPassingSymbol = "✓"
	BuildFailingSymbol = "✗"
	BuildPendingSymbol = "◐"
	BuildUnknownSymbol = "?"
)

// FormatPRState returns a symbol and word for state, or "" for an unknown state.
func FormatPRState(state string) string {
	switch state {
	case forge.PRStateMerged:
		return PRMergedSymbol + " Merged"
	case forge.PRStateOpen:
		return PROpenSymbol + " Open"
	case forge.PRStateClosed:
		return PRClosedSymbol + " Closed"
	default:
		return ""
	}
}

// prStyle picks the color for a PR state.
func prStyle(state string) lipgloss.Style {
	switch state {
	case forge.PRStateOpen:
		return SuccessStyle
	case forge.PRStateMerged:
		return MergedStyle
	case forge.PRStateClosed:
		return ErrorStyle
	default:
		return NormalStyle
	}
}

// FormatPRRef returns a colored #<number> string with an OSC 8 hyperlink.
// Returns empty string if number == 0.
func FormatPRRef(number int, state, url string) string {
	if number == 0 {
		return ""
	}

	style := prStyle(state)
	text := fmt.Sprintf("#%d", number)

	if url != "" {
		styled := style.Underline(true).Render(text)
		return ansi.SetHyperlink(url) + styled + ansi.ResetHyperlink()
	}
	return style.Render(text)
}

// BuildSymbol returns the plain symbol for a build status; "" for none.
func BuildSymbol(s prstatus.BuildStatus) string {
	switch s {
	case prstatus.BuildPassing:
		return BuildPassingSymbol
	case prstatus.BuildFailing:
		return BuildFailingSymbol
	case prstatus.BuildPending:
		return BuildPendingSymbol
	case prstatus.BuildUnknown:
		return BuildUnknownSymbol
	default:
		return ""
	}
}

// FormatBuild returns a colored symbol and label for a build status.
func FormatBuild(s prstatus.BuildStatus) string {
	sym := BuildSymbol(s)
	if sym == "" {
		return ""
	}
	text := sym + " " + string(s)
	switch s {
	case prstatus.BuildPassing:
		return SuccessStyle.Render(text)
	case prstatus.BuildFailing:
		return ErrorStyle.Render(text)
	case prstatus.BuildPending:
		return WarningStyle.Render(text)
	default:
		return MutedStyle.Render(text)
	}
}
