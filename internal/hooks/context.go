package hooks

import "path/filepath"

// TriggerCreate marks hooks run after a worktree was created.
const TriggerCreate = "create"

// Context holds the values for placeholder substitution.
type Context struct {
	Path     string // absolute worktree path
	Branch   string
	Project  string
	MainRepo string
	Trigger  string
}

// NewContext builds a Context for a worktree created from mainRepo.
func NewContext(path, branch, mainRepo, trigger string) Context {
	return Context{
		Path:     path,
		Branch:   branch,
		Project:  filepath.Base(mainRepo),
		MainRepo: mainRepo,
		Trigger:  trigger,
	}
}
