package main

import (
	"context"

	"github.com/raphi011/wtree/internal/navigator"
	"github.com/raphi011/wtree/internal/registry"
)

// runNavigate opens the project/worktree navigator, starting inside the
// current project when there is one.
func runNavigate(ctx context.Context, a *app) error {
	mgr := a.manager()
	_, loc, projects, err := a.locate(mgr)
	if err != nil {
		return err
	}

	var start *registry.Project
	if loc != nil {
		start = &loc.Project
	}

	nav := &navigator.Navigator{
		Projects:  projects,
		Worktrees: mgr,
		Status:    a.prStatus(),
		Selector:  a.selector,
		Wait:      a.wait,
	}
	path, err := nav.Run(ctx, start)
	if err != nil || path == "" {
		return err
	}
	return a.relocator.Relocate(path)
}
