// Package state works out which project, and which of its worktrees, a
// directory belongs to.
package state

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/raphi011/wtree/internal/registry"
)

// ErrNotRegisteredProject is returned when a command needs a current
// project and none matches the working directory.
var ErrNotRegisteredProject = errors.New("not inside a registered project")

// Location is the result of resolving a directory.
type Location struct {
	Project registry.Project

	// WorktreeDir is the directory name under <root>/<project> when the
	// directory lies inside a worktree, empty otherwise.
	WorktreeDir string
}

// InWorktree reports whether the location is inside a worktree rather than
// the main checkout.
func (l *Location) InWorktree() bool {
	return l.WorktreeDir != ""
}

// CurrentProject resolves cwd against the worktrees root and the registered
// projects. First match wins:
//
//  1. cwd under root whose first segment is a registered project name
//  2. first project in registry order whose path contains cwd
//
// Returns nil when nothing matches.
func CurrentProject(cwd, root string, projects []registry.Project) *Location {
	cwd = filepath.Clean(cwd)

	if rel, ok := within(root, cwd); ok && rel != "." {
		segs := strings.Split(rel, string(filepath.Separator))
		for _, p := range projects {
			if p.Name != segs[0] {
				continue
			}
			loc := &Location{Project: p}
			if len(segs) > 1 {
				loc.WorktreeDir = segs[1]
			}
			return loc
		}
	}

	for _, p := range projects {
		if _, ok := within(p.Path, cwd); ok {
			return &Location{Project: p}
		}
	}
	return nil
}

// RequireProject is CurrentProject for commands that cannot run without one.
func RequireProject(cwd, root string, projects []registry.Project) (*Location, error) {
	loc := CurrentProject(cwd, root, projects)
	if loc == nil {
		return nil, ErrNotRegisteredProject
	}
	return loc, nil
}

// within reports whether path equals base or lies below it, matching whole
// path segments only: /a/b contains /a/b/c but not /a/bc.
func within(base, path string) (string, bool) {
	if base == "" {
		return "", false
	}
	rel, err := filepath.Rel(filepath.Clean(base), path)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
