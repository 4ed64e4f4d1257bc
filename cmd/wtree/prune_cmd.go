package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/probe"
	"github.com/raphi011/wtree/internal/prune"
)

func newPruneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove merged worktrees of all projects",
		Args:  cobra.NoArgs,
		Long: `Remove every worktree whose branch is gone from the remote.

Each project is fetched with --prune first. Worktrees with uncommitted or
unpushed changes are kept and reported. prune never asks for confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			projects, err := a.projects()
			if err != nil {
				return err
			}

			engine := &prune.Engine{
				Worktrees: a.manager(),
				Probe:     probe.New(a.cfg),
				Remote:    a.cfg.Remote,
			}
			summary := engine.PruneAll(ctx, projects)

			l.Printf("Pruned %d worktree(s) in %d project(s), skipped %d\n",
				summary.Pruned, len(summary.PrunedProjects), summary.Skipped)
			if summary.Failed > 0 {
				return fmt.Errorf("%d worktree(s) could not be removed", summary.Failed)
			}
			return nil
		},
	}
}
