package git

import (
	"context"
	"fmt"

	"github.com/raphi011/wtree/internal/cmd"
)

// AddWorktree registers a worktree at path without checking out files.
// With base empty, branch must already exist locally. Otherwise branch is
// created from base.
func AddWorktree(ctx context.Context, repoPath, path, branch, base string) error {
	args := []string{"worktree", "add", "--no-checkout"}
	if base == "" {
		args = append(args, path, branch)
	} else {
		args = append(args, "-b", branch, path, base)
	}
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("git worktree add: %w", err)
	}
	return nil
}

// CheckoutWorktree populates a --no-checkout worktree's files.
func CheckoutWorktree(ctx context.Context, path string) error {
	if err := runGit(ctx, path, "reset", "--hard", "--quiet"); err != nil {
		return fmt.Errorf("checkout files: %w", err)
	}
	return nil
}

// CheckoutWorktreeDetached starts the checkout in a background git process and
// returns immediately. The worktree may be incomplete for a while afterwards.
func CheckoutWorktreeDetached(ctx context.Context, path string) error {
	return cmd.StartDetached(ctx, path, "git", "reset", "--hard", "--quiet")
}

// RemoveWorktree force-removes the worktree at path.
func RemoveWorktree(ctx context.Context, repoPath, path string) error {
	if err := runGit(ctx, repoPath, "worktree", "remove", "--force", path); err != nil {
		return fmt.Errorf("git worktree remove: %w", err)
	}
	return nil
}

// PruneWorktrees drops administrative entries for worktrees whose directory is gone.
func PruneWorktrees(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("git worktree prune: %w", err)
	}
	return nil
}
