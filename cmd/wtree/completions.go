package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// completeWorktrees completes branch names of the current project's
// worktrees.
func (a *app) completeWorktrees(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	mgr := a.manager()
	_, loc, _, err := a.locate(mgr)
	if err != nil || loc == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	worktrees, err := mgr.List(loc.Project)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, wt := range worktrees {
		if strings.HasPrefix(wt.Branch, toComplete) {
			matches = append(matches, wt.Branch)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
