package main

import (
	"context"
	"fmt"
	"io"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/forge"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/navigator"
	"github.com/raphi011/wtree/internal/probe"
	"github.com/raphi011/wtree/internal/prstatus"
	"github.com/raphi011/wtree/internal/registry"
	"github.com/raphi011/wtree/internal/shell"
	"github.com/raphi011/wtree/internal/state"
	"github.com/raphi011/wtree/internal/worktree"
)

// app carries what a single invocation shares between commands.
type app struct {
	cfg       *config.Config
	stdout    io.Writer
	stderr    io.Writer
	relocator *shell.Relocator
	selector  navigator.Selector
	confirm   worktree.Confirmer
	forge     forge.Forge          // nil detects the forge per repository
	wait      func(string, func()) // wraps PR fan-out, e.g. with a spinner

	// flags
	verbose    bool
	quiet      bool
	copyTarget bool
	initShell  string
	completion string

	logger *log.Logger
}

func (a *app) manager() *worktree.Manager {
	return worktree.NewManager(a.cfg, probe.New(a.cfg), a.confirm, a.relocator)
}

func (a *app) prStatus() *prstatus.Service {
	s := prstatus.New(a.cfg)
	if a.forge != nil {
		s = s.WithForge(a.forge)
	}
	return s
}

func (a *app) projects() ([]registry.Project, error) {
	reg, err := registry.Load(a.cfg.RegistryPath)
	if err != nil {
		return nil, err
	}
	return reg.Projects, nil
}

// lookupAll wraps the fan-out in a.wait when set.
func (a *app) lookupAll(ctx context.Context, items []prstatus.Item) []prstatus.Result {
	var results []prstatus.Result
	lookup := func() { results = a.prStatus().LookupAll(ctx, items) }
	if a.wait != nil {
		a.wait("Fetching PR status", lookup)
	} else {
		lookup()
	}
	return results
}

// locate detects the project for the working directory. loc is nil when
// the directory belongs to no registered project.
func (a *app) locate(mgr *worktree.Manager) (cwd string, loc *state.Location, projects []registry.Project, err error) {
	projects, err = a.projects()
	if err != nil {
		return "", nil, nil, err
	}
	cwd, err = a.relocator.Getwd()
	if err != nil {
		return "", nil, nil, fmt.Errorf("get working directory: %w", err)
	}
	return cwd, state.CurrentProject(cwd, mgr.Root, projects), projects, nil
}

// requireProject is locate for commands that need a current project.
func (a *app) requireProject(mgr *worktree.Manager) (*state.Location, error) {
	cwd, _, projects, err := a.locate(mgr)
	if err != nil {
		return nil, err
	}
	return state.RequireProject(cwd, mgr.Root, projects)
}
