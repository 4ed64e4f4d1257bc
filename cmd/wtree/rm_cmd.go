package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtree/internal/log"
)

var errNoWorktree = errors.New("not inside a worktree; name the branch to remove")

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "rm [branch]",
		Short:             "Remove a worktree and its local branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: a.completeWorktrees,
		Long: `Remove a worktree of the current project and delete its local branch.

Without an argument the worktree you are in is removed, and your shell is
moved to the project's main checkout first. If the branch still exists on
the remote you are asked to confirm.`,
		Example: `  wtree rm              # Remove the current worktree
  wtree rm feature-x    # Remove feature-x`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			mgr := a.manager()
			loc, err := a.requireProject(mgr)
			if err != nil {
				return err
			}

			name := loc.WorktreeDir
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				return errNoWorktree
			}

			res, err := mgr.Remove(ctx, loc.Project, name)
			if err != nil {
				return err
			}
			if res.Cancelled {
				l.Println("Cancelled")
				return nil
			}
			l.Printf("Removed worktree %s\n", res.Worktree.Branch)
			if !res.BranchDeleted {
				l.Debug("local branch kept", "branch", res.Worktree.Branch)
			}
			return nil
		},
	}
}
