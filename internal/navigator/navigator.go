// Package navigator drives the interactive project -> worktree drill-down.
//
// The navigator is a two-level state machine:
//
//	ProjectList --select--> WorktreeList(p) --select--> Done(path)
//	     ^                        |
//	     +-------cancel-----------+
//	ProjectList --cancel--> Exit
//
// It starts in WorktreeList when the caller is already inside a project.
// Rendering and input are left to a [Selector]; the navigator only builds
// ordered labels and interprets the chosen index.
package navigator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raphi011/wtree/internal/format"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/prstatus"
	"github.com/raphi011/wtree/internal/registry"
	"github.com/raphi011/wtree/internal/worktree"
)

// ErrNoProjects is returned when there is nothing to navigate.
var ErrNoProjects = errors.New("no projects registered; run `wtree add` inside a repository")

// MainEntryLabel marks the synthetic entry for a project's main checkout.
const MainEntryLabel = "(main repository)"

// State is a navigator state.
type State int

const (
	ProjectList State = iota
	WorktreeList
	Done
	Exit
)

func (s State) String() string {
	switch s {
	case ProjectList:
		return "project-list"
	case WorktreeList:
		return "worktree-list"
	case Done:
		return "done"
	default:
		return "exit"
	}
}

// Choice is one row offered to the selector.
type Choice struct {
	ID      string // project name, or path for worktree rows
	Label   string
	AgeRank int // 0 for the main entry, then 1.. oldest first
}

// Selector picks one of labels. cancelled reports an ESC-style back out.
type Selector interface {
	Select(ctx context.Context, prompt string, labels []string) (index int, cancelled bool, err error)
}

// Lister lists a project's worktrees, oldest first.
type Lister interface {
	List(project registry.Project) ([]worktree.Worktree, error)
}

// StatusLookup resolves pull request status for many branches at once.
type StatusLookup interface {
	LookupAll(ctx context.Context, items []prstatus.Item) []prstatus.Result
}

// Navigator holds the collaborators for one interactive session.
type Navigator struct {
	Projects  []registry.Project
	Worktrees Lister
	Status    StatusLookup // nil skips PR enrichment
	Selector  Selector

	// Wait wraps the PR lookups, e.g. to show a spinner. Optional.
	Wait func(message string, fn func())
	Now  func() time.Time
}

// Run drives the state machine and returns the chosen path, or "" when the
// user backed out of the project list.
func (n *Navigator) Run(ctx context.Context, start *registry.Project) (string, error) {
	if len(n.Projects) == 0 {
		return "", ErrNoProjects
	}

	l := log.FromContext(ctx)
	state := ProjectList
	var current registry.Project
	if start != nil {
		state = WorktreeList
		current = *start
	}

	for {
		l.Debug("navigator", "state", state, "project", current.Name)

		switch state {
		case ProjectList:
			choices := n.ProjectChoices()
			idx, cancelled, err := n.Selector.Select(ctx, "Project", labels(choices))
			if err != nil {
				return "", err
			}
			if cancelled {
				return "", nil
			}
			current = n.Projects[idx]
			state = WorktreeList

		case WorktreeList:
			choices, err := n.WorktreeChoices(ctx, current)
			if err != nil {
				return "", err
			}
			idx, cancelled, err := n.Selector.Select(ctx, current.Name, labels(choices))
			if err != nil {
				return "", err
			}
			if cancelled {
				state = ProjectList
				continue
			}
			l.Debug("navigator", "state", Done, "path", choices[idx].ID)
			return choices[idx].ID, nil
		}
	}
}

// ProjectChoices lists projects in registry order.
func (n *Navigator) ProjectChoices() []Choice {
	choices := make([]Choice, len(n.Projects))
	for i, p := range n.Projects {
		choices[i] = Choice{ID: p.Name, Label: p.Name, AgeRank: i}
	}
	return choices
}

// WorktreeChoices lists the main checkout first, then worktrees oldest
// first. Labels carry PR state when a StatusLookup is configured; all
// lookups finish before this returns.
func (n *Navigator) WorktreeChoices(ctx context.Context, p registry.Project) ([]Choice, error) {
	worktrees, err := n.Worktrees.List(p)
	if err != nil {
		return nil, fmt.Errorf("list worktrees of %s: %w", p.Name, err)
	}

	results := make([]prstatus.Result, len(worktrees))
	if n.Status != nil && len(worktrees) > 0 {
		items := make([]prstatus.Item, len(worktrees))
		for i, wt := range worktrees {
			items[i] = prstatus.Item{Branch: wt.Branch, RepoPath: p.Path}
		}
		lookup := func() { results = n.Status.LookupAll(ctx, items) }
		if n.Wait != nil {
			n.Wait("Fetching PR status", lookup)
		} else {
			lookup()
		}
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	width := len(MainEntryLabel)
	for _, wt := range worktrees {
		width = max(width, len(wt.Branch))
	}

	choices := make([]Choice, 0, len(worktrees)+1)
	choices = append(choices, Choice{
		ID:    p.Path,
		Label: MainEntryLabel,
	})
	for i, wt := range worktrees {
		label := pad(wt.Branch, width) + "  " + fmt.Sprintf("%4s", format.Age(wt.CreatedAt, now))
		if s := format.PRSummary(results[i]); s != "" {
			label += "  " + s
		}
		choices = append(choices, Choice{ID: wt.Path, Label: label, AgeRank: i + 1})
	}
	return choices, nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func labels(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Label
	}
	return out
}
