package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/raphi011/wtree/internal/git/gittest"
	"github.com/raphi011/wtree/internal/registry"
)

func TestCurrentProject(t *testing.T) {
	t.Parallel()

	root := "/home/dev/worktrees"
	projects := []registry.Project{
		{Name: "api", Path: "/home/dev/src/api"},
		{Name: "web", Path: "/home/dev/src/web"},
		{Name: "nested", Path: "/home/dev/worktrees/api"},
		{Name: "mono", Path: "/home/dev/src"},
	}

	tests := []struct {
		name        string
		cwd         string
		wantProject string
		wantDir     string
	}{
		{"main checkout", "/home/dev/src/api", "api", ""},
		{"inside main checkout", "/home/dev/src/web/cmd/server", "web", ""},
		{"worktree root of project", "/home/dev/worktrees/api", "api", ""},
		{"inside worktree", "/home/dev/worktrees/api/feature-x/internal", "api", "feature-x"},
		{"root name wins over registered path", "/home/dev/worktrees/api/wip", "api", "wip"},
		{"unknown name under root falls through", "/home/dev/worktrees/other/x", "", ""},
		{"registry order for path matches", "/home/dev/src/lib", "mono", ""},
		{"segment boundary", "/home/dev/src/apiary", "mono", ""},
		{"trailing slash", "/home/dev/src/api/", "api", ""},
		{"outside everything", "/tmp", "", ""},
		{"worktrees root itself", "/home/dev/worktrees", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loc := CurrentProject(tt.cwd, root, projects)
			if tt.wantProject == "" {
				if loc != nil {
					t.Fatalf("CurrentProject(%q) = %+v, want nil", tt.cwd, loc)
				}
				return
			}
			if loc == nil {
				t.Fatalf("CurrentProject(%q) = nil, want %s", tt.cwd, tt.wantProject)
			}
			if loc.Project.Name != tt.wantProject || loc.WorktreeDir != tt.wantDir {
				t.Errorf("CurrentProject(%q) = {%s %q}, want {%s %q}", tt.cwd, loc.Project.Name, loc.WorktreeDir, tt.wantProject, tt.wantDir)
			}
			if loc.InWorktree() != (tt.wantDir != "") {
				t.Errorf("InWorktree() = %v", loc.InWorktree())
			}
		})
	}
}

func TestCurrentProject_NestedUnderRootPrefersName(t *testing.T) {
	t.Parallel()
	// "nested" is registered at a path under the root, but the first
	// segment after the root names "api".
	projects := []registry.Project{
		{Name: "nested", Path: "/w/api"},
		{Name: "api", Path: "/src/api"},
	}
	loc := CurrentProject("/w/api/feature", "/w", projects)
	if loc == nil || loc.Project.Name != "api" {
		t.Fatalf("CurrentProject() = %+v, want api", loc)
	}
}

func TestRequireProject(t *testing.T) {
	t.Parallel()
	_, err := RequireProject("/nowhere", "/w", nil)
	if !errors.Is(err, ErrNotRegisteredProject) {
		t.Errorf("RequireProject() error = %v, want ErrNotRegisteredProject", err)
	}
}

func TestAddThenDetect(t *testing.T) {
	t.Parallel()

	repo := gittest.NewRepo(t, gittest.TempDir(t), "service")
	reg := &registry.Registry{}
	p, err := reg.Add(context.Background(), repo)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	loc := CurrentProject(filepath.Join(repo, "sub", "dir"), "/unrelated/root", reg.Projects)
	if loc == nil || loc.Project != p {
		t.Errorf("CurrentProject() = %+v, want %+v", loc, p)
	}
}
