// Package static provides non-interactive terminal output components.
//
// This package contains components for rendering formatted output
// that does not require user interaction, such as tables.
package static

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/wtree/internal/format"
	"github.com/raphi011/wtree/internal/prstatus"
	"github.com/raphi011/wtree/internal/ui/styles"
	"github.com/raphi011/wtree/internal/worktree"
)

// WorktreeHeaders are the columns produced by WorktreeTableRow.
var WorktreeHeaders = []string{"BRANCH", "AGE", "PR", "BUILD", "PATH"}

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// WorktreeTableRow renders one worktree with its pull request lookup.
// PR shows "-" when there is none and "?" when the lookup failed.
func WorktreeTableRow(wt worktree.Worktree, pr prstatus.Result, now time.Time) []string {
	prCell, buildCell := "", ""
	switch pr.Kind {
	case prstatus.Found:
		prCell = styles.FormatPRRef(pr.Status.Number, pr.Status.State, pr.Status.URL) + " " + styles.FormatPRState(pr.Status.State)
		buildCell = styles.FormatBuild(pr.Status.BuildStatus())
		if buildCell == "" {
			buildCell = styles.MutedStyle.Render("-")
		}
	case prstatus.NoPR:
		prCell = styles.MutedStyle.Render("-")
	case prstatus.Failed:
		prCell = styles.MutedStyle.Render("?")
	}

	return []string{
		wt.Branch,
		format.Age(wt.CreatedAt, now),
		prCell,
		buildCell,
		wt.Path,
	}
}
