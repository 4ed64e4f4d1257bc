package prompt

import (
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/wtree/internal/ui/styles"
)

const maxVisible = 10

type labelSource []string

func (s labelSource) String(i int) string { return s[i] }
func (s labelSource) Len() int            { return len(s) }

// fuzzyModel filters labels as the user types. Matches are ranked by
// sahilm/fuzzy, which accepts any in-order subsequence, so "ftx" finds
// "feature-x".
type fuzzyModel struct {
	prompt    string
	labels    []string
	filter    string
	filtered  []fuzzy.Match
	cursor    int
	selected  int // index into labels; -1 means no selection
	done      bool
	cancelled bool
}

func newFuzzyModel(prompt string, labels []string) *fuzzyModel {
	m := &fuzzyModel{prompt: prompt, labels: labels, selected: -1}
	m.applyFilter()
	return m
}

func (m *fuzzyModel) Init() tea.Cmd {
	return nil
}

// Update handles key presses; other messages are ignored.
func (m *fuzzyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "enter":
		if len(m.filtered) == 0 {
			return m, nil
		}
		m.selected = m.filtered[m.cursor].Index
		m.done = true
		return m, tea.Quit
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "home", "pgup":
		m.cursor = 0
	case "end", "pgdown":
		m.cursor = max(0, len(m.filtered)-1)
	case "backspace":
		if m.filter != "" {
			r := []rune(m.filter)
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}
	default:
		if keyMsg.Text != "" && keyMsg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
			m.filter += keyMsg.Text
			m.applyFilter()
		}
	}
	return m, nil
}

func (m *fuzzyModel) applyFilter() {
	if m.filter == "" {
		// No filter - show all labels in original order
		m.filtered = make([]fuzzy.Match, len(m.labels))
		for i, l := range m.labels {
			m.filtered[i] = fuzzy.Match{Str: l, Index: i}
		}
	} else {
		// Results are sorted by score (best first)
		m.filtered = fuzzy.FindFrom(m.filter, labelSource(m.labels))
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m *fuzzyModel) View() tea.View {
	if m.done || m.cancelled {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString(styles.PrimaryStyle.Bold(true).Render(m.prompt) + "\n")
	b.WriteString(styles.MutedStyle.Render("Filter: ") + styles.AccentStyle.Render(m.filter) + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.filtered))

	if start > 0 {
		b.WriteString(styles.NormalStyle.Render("  ↑ more above") + "\n")
	}
	for i := start; i < end; i++ {
		match := m.filtered[i]
		selected := i == m.cursor
		cursor := "  "
		if selected {
			cursor = "> "
		}
		b.WriteString(cursor + highlightMatches(match.Str, match.MatchedIndexes, selected) + "\n")
	}
	if end < len(m.filtered) {
		b.WriteString(styles.NormalStyle.Render("  ↓ more below") + "\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(styles.NormalStyle.Render("  No matching items") + "\n")
	}

	b.WriteString("\n" + styles.MutedStyle.Render("↑/↓ move • enter select • esc back") + "\n")
	return tea.NewView(b.String())
}

func highlightMatches(label string, matchedIndexes []int, isSelected bool) string {
	base := styles.NormalStyle
	if isSelected {
		base = styles.AccentStyle
	}
	if len(matchedIndexes) == 0 {
		return base.Render(label)
	}

	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	// MatchedIndexes are byte offsets into label.
	var result strings.Builder
	for i, r := range label {
		if matchSet[i] {
			result.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			result.WriteString(base.Render(string(r)))
		}
	}
	return result.String()
}

// FuzzySelect shows labels in a filterable list and returns the chosen
// index. cancelled is true when the user pressed esc or ctrl+c.
func FuzzySelect(prompt string, labels []string) (index int, cancelled bool, err error) {
	if len(labels) == 0 {
		return -1, true, nil
	}

	p := tea.NewProgram(newFuzzyModel(prompt, labels),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	finalModel, err := p.Run()
	if err != nil {
		return -1, false, err
	}

	m := finalModel.(*fuzzyModel)
	if m.cancelled || !m.done || m.selected < 0 {
		return -1, true, nil
	}
	return m.selected, false, nil
}
