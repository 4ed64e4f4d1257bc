// Package probe answers the two safety questions asked before a worktree is
// deleted: does its branch still exist on the remote, and does it hold work
// that exists nowhere else.
//
// Both answers err on the side of keeping the worktree. A remote that cannot
// be reached reports the branch as absent, which on its own never causes a
// deletion because local changes are checked separately and any query error
// there counts as a change.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/log"
)

// ErrRemoteQueryFailed marks a remote lookup that errored or timed out.
// It is logged, never returned to the caller.
var ErrRemoteQueryFailed = errors.New("remote query failed")

// Probe checks remote and local branch state.
type Probe struct {
	Remote  string
	Timeout time.Duration
}

// New returns a Probe configured from cfg.
func New(cfg *config.Config) *Probe {
	return &Probe{Remote: cfg.Remote, Timeout: cfg.Timeouts.Remote}
}

func (p *Probe) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

// BranchExistsOnRemote reports whether branch is a head on the remote of
// repoPath. Errors and timeouts yield false.
func (p *Probe) BranchExistsOnRemote(ctx context.Context, branch, repoPath string) bool {
	qctx, cancel := p.withTimeout(ctx)
	defer cancel()

	exists, err := git.RemoteBranchExists(qctx, repoPath, p.Remote, branch)
	if err != nil {
		err = fmt.Errorf("%w: %s/%s: %w", ErrRemoteQueryFailed, p.Remote, branch, err)
		log.FromContext(ctx).Debug("treating remote branch as absent", "repo", repoPath, "error", err)
		return false
	}
	return exists
}

// HasLocalChanges reports whether the worktree at path has uncommitted
// changes, no upstream, or commits its upstream lacks. An upstream deleted on
// the remote is replaced by the remote's default branch. Errors yield true.
func (p *Probe) HasLocalChanges(ctx context.Context, path string) bool {
	l := log.FromContext(ctx)
	qctx, cancel := p.withTimeout(ctx)
	defer cancel()

	status, err := git.StatusPorcelain(qctx, path)
	if err != nil {
		l.Debug("status failed, assuming local changes", "path", path, "error", err)
		return true
	}
	if status != "" {
		return true
	}

	if _, err := git.GetUpstreamRef(qctx, path); err != nil {
		if gone, _ := git.UpstreamGone(qctx, path); gone {
			return p.aheadOfDefault(qctx, path)
		}
		l.Debug("no upstream, assuming unpushed work", "path", path, "error", err)
		return true
	}

	ahead, err := git.CountUnpushed(qctx, path)
	if err != nil {
		l.Debug("rev-list failed, assuming local changes", "path", path, "error", err)
		return true
	}
	return ahead > 0
}

// aheadOfDefault reports whether HEAD has commits the remote default branch
// lacks. Used once the tracked branch is gone from the remote.
func (p *Probe) aheadOfDefault(ctx context.Context, path string) bool {
	base := p.Remote + "/" + git.GetDefaultBranch(ctx, path, p.Remote)
	ahead, err := git.CountAhead(ctx, path, base)
	if err != nil {
		log.FromContext(ctx).Debug("rev-list failed, assuming local changes", "path", path, "base", base, "error", err)
		return true
	}
	return ahead > 0
}
