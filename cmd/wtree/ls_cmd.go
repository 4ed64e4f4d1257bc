package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/output"
	"github.com/raphi011/wtree/internal/prstatus"
	"github.com/raphi011/wtree/internal/ui/static"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List worktrees of the current project",
		Args:  cobra.NoArgs,
		Long: `List the worktrees of the current project, oldest first, with the
state of each branch's most recent pull request and its checks.

PR lookups run in parallel; a failed lookup shows "?" for that row only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			mgr := a.manager()
			loc, err := a.requireProject(mgr)
			if err != nil {
				return err
			}

			worktrees, err := mgr.List(loc.Project)
			if err != nil {
				return err
			}
			if len(worktrees) == 0 {
				l.Printf("No worktrees for %s\n", loc.Project.Name)
				return nil
			}

			items := make([]prstatus.Item, len(worktrees))
			for i, wt := range worktrees {
				items[i] = prstatus.Item{Branch: wt.Branch, RepoPath: loc.Project.Path}
			}
			results := a.lookupAll(ctx, items)

			now := time.Now()
			rows := make([][]string, len(worktrees))
			for i, wt := range worktrees {
				rows[i] = static.WorktreeTableRow(wt, results[i], now)
			}
			out.Print(static.RenderTable(static.WorktreeHeaders, rows))
			return nil
		},
	}
}
