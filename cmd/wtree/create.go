package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/registry"
)

// runCreate creates or reuses the worktree for branch in the current
// project and moves into it. An unregistered repository is registered first.
func runCreate(ctx context.Context, a *app, branch string) error {
	l := log.FromContext(ctx)
	mgr := a.manager()

	cwd, loc, _, err := a.locate(mgr)
	if err != nil {
		return err
	}

	var project registry.Project
	if loc != nil {
		project = loc.Project
	} else {
		err := registry.Update(ctx, a.cfg.RegistryPath, func(r *registry.Registry) error {
			p, err := r.Add(ctx, cwd)
			if err != nil {
				return err
			}
			project = p
			return nil
		})
		if err != nil {
			if errors.Is(err, registry.ErrNotAGitRepository) {
				return fmt.Errorf("%s is not inside a registered project or git repository", cwd)
			}
			return err
		}
		l.Printf("Registered project %s\n", project.Name)
	}

	res, err := mgr.Create(ctx, project, branch)
	if err != nil {
		return err
	}
	if res.AlreadyExisted {
		l.Printf("Worktree %s already exists\n", res.Worktree.Branch)
	}
	l.Debug("entering worktree", "path", res.Worktree.Path)
	return a.relocator.Relocate(res.Worktree.Path)
}
