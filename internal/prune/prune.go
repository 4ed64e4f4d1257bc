// Package prune removes worktrees whose branch is gone from the remote,
// across all registered projects.
//
// Prune never prompts. A worktree is only removed after the remote has
// confirmed its branch is absent and the worktree holds no local work;
// everything else is left alone.
package prune

import (
	"context"
	"os"

	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/registry"
	"github.com/raphi011/wtree/internal/worktree"
)

// ReasonLocalChanges is reported for worktrees kept because of unsaved work.
const ReasonLocalChanges = "has local changes"

// Worktrees is the part of the worktree lifecycle prune needs.
type Worktrees interface {
	ProjectRoot(project registry.Project) string
	List(project registry.Project) ([]worktree.Worktree, error)
	RemoveUnconfirmed(ctx context.Context, project registry.Project, wt worktree.Worktree) (*worktree.RemoveResult, error)
}

// Engine prunes worktrees.
type Engine struct {
	Worktrees Worktrees
	Probe     worktree.RemoteProbe
	Remote    string
}

// Skip is a worktree that was kept on purpose.
type Skip struct {
	Branch string
	Reason string
}

// Failure is a worktree whose removal errored.
type Failure struct {
	Branch string
	Err    error
}

// ProjectResult holds the outcome for one project.
type ProjectResult struct {
	Project string
	Pruned  []string
	Skipped []Skip
	Failed  []Failure
}

// Summary aggregates a prune run. Worktrees whose branch still exists on the
// remote are neither pruned nor counted as skipped.
type Summary struct {
	Pruned         int
	Skipped        int
	Failed         int
	PrunedProjects []string // projects with at least one removal
	Projects       []ProjectResult
}

// PruneAll visits every project that has a worktree root. A failure in one
// project or worktree never stops the others.
func (e *Engine) PruneAll(ctx context.Context, projects []registry.Project) Summary {
	var s Summary
	for _, p := range projects {
		if ctx.Err() != nil {
			break
		}
		res, ok := e.pruneProject(ctx, p)
		if !ok {
			continue
		}
		s.Pruned += len(res.Pruned)
		s.Skipped += len(res.Skipped)
		s.Failed += len(res.Failed)
		if len(res.Pruned) > 0 {
			s.PrunedProjects = append(s.PrunedProjects, p.Name)
		}
		s.Projects = append(s.Projects, res)
	}
	return s
}

func (e *Engine) pruneProject(ctx context.Context, p registry.Project) (ProjectResult, bool) {
	l := log.FromContext(ctx)
	res := ProjectResult{Project: p.Name}

	if _, err := os.Stat(e.Worktrees.ProjectRoot(p)); err != nil {
		return res, false
	}
	worktrees, err := e.Worktrees.List(p)
	if err != nil {
		l.Printf("Warning: %s: %v\n", p.Name, err)
		return res, false
	}

	if err := git.FetchPrune(ctx, p.Path, e.Remote); err != nil {
		l.Debug("fetch --prune failed", "project", p.Name, "error", err)
	}

	for _, wt := range worktrees {
		if ctx.Err() != nil {
			break
		}
		if e.Probe.BranchExistsOnRemote(ctx, wt.Branch, p.Path) {
			l.Debug("keeping worktree", "project", p.Name, "branch", wt.Branch, "reason", "branch on remote")
			continue
		}
		if e.Probe.HasLocalChanges(ctx, wt.Path) {
			l.Printf("Skipped %s/%s: %s\n", p.Name, wt.Branch, ReasonLocalChanges)
			res.Skipped = append(res.Skipped, Skip{Branch: wt.Branch, Reason: ReasonLocalChanges})
			continue
		}
		if _, err := e.Worktrees.RemoveUnconfirmed(ctx, p, wt); err != nil {
			l.Printf("Failed to remove %s/%s: %v\n", p.Name, wt.Branch, err)
			res.Failed = append(res.Failed, Failure{Branch: wt.Branch, Err: err})
			continue
		}
		l.Printf("Pruned %s/%s\n", p.Name, wt.Branch)
		res.Pruned = append(res.Pruned, wt.Branch)
	}
	return res, true
}
