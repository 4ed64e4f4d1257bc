// Package registry stores the set of registered projects.
//
// The registry is a JSON file (default ~/.wtree/projects.json). Entries are
// only ever appended: there is no removal operation.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/storage"
)

var (
	// ErrNotAGitRepository is returned by Add for paths outside a git work tree.
	ErrNotAGitRepository = errors.New("not a git repository")
	// ErrAlreadyRegistered is returned by Add when the name or path is taken.
	ErrAlreadyRegistered = errors.New("project already registered")
)

// Project is a registered repository.
type Project struct {
	Name string `json:"name"` // final path segment of Path
	Path string `json:"path"` // absolute repository root
}

// Registry holds all registered projects in registration order.
type Registry struct {
	Projects []Project `json:"projects"`
}

// Load reads the registry at path. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	var reg Registry
	if err := storage.LoadJSON(path, &reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{Projects: []Project{}}, nil
		}
		return nil, fmt.Errorf("load registry %s: %w", path, err)
	}
	if reg.Projects == nil {
		reg.Projects = []Project{}
	}
	return &reg, nil
}

// Save overwrites the registry at path atomically.
func (r *Registry) Save(path string) error {
	if err := storage.SaveJSON(path, r); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// Add registers the repository containing path. The repository root is
// resolved first, so any directory inside the repo may be passed.
// The registry is unchanged when an error is returned.
func (r *Registry) Add(ctx context.Context, path string) (Project, error) {
	root, err := git.RepoRoot(path)
	if err != nil {
		if errors.Is(err, git.ErrNotRepository) {
			return Project{}, fmt.Errorf("%s: %w", path, ErrNotAGitRepository)
		}
		return Project{}, fmt.Errorf("resolve repository root: %w", err)
	}

	p := Project{Name: filepath.Base(root), Path: root}
	if existing := r.FindByPath(p.Path); existing != nil {
		return Project{}, fmt.Errorf("%s is registered as %q: %w", p.Path, existing.Name, ErrAlreadyRegistered)
	}
	if existing := r.FindByName(p.Name); existing != nil {
		return Project{}, fmt.Errorf("name %q is already used by %s: %w", p.Name, existing.Path, ErrAlreadyRegistered)
	}

	r.Projects = append(r.Projects, p)
	log.FromContext(ctx).Debug("registered project", "name", p.Name, "path", p.Path)
	return p, nil
}

// FindByName returns the project called name, or nil.
func (r *Registry) FindByName(name string) *Project {
	for i := range r.Projects {
		if r.Projects[i].Name == name {
			return &r.Projects[i]
		}
	}
	return nil
}

// FindByPath returns the project rooted at path, or nil.
func (r *Registry) FindByPath(path string) *Project {
	clean := filepath.Clean(path)
	for i := range r.Projects {
		if r.Projects[i].Path == clean {
			return &r.Projects[i]
		}
	}
	return nil
}

// Names returns project names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.Projects))
	for i, p := range r.Projects {
		names[i] = p.Name
	}
	return names
}

// Update loads the registry at path, applies fn and saves the result while
// holding an exclusive lock on path+".lock". Nothing is written if fn fails.
func Update(ctx context.Context, path string, fn func(*Registry) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock registry: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.FromContext(ctx).Debug("unlock registry failed", "error", err)
		}
	}()

	reg, err := Load(path)
	if err != nil {
		return err
	}
	if err := fn(reg); err != nil {
		return err
	}
	return reg.Save(path)
}
