package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/hooks"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/registry"
	"github.com/raphi011/wtree/internal/storage"
)

// MarkerFile is written into every created worktree.
const MarkerFile = ".wtree.yaml"

var (
	// ErrWorktreeNotFound is returned when no worktree matches a branch.
	ErrWorktreeNotFound = errors.New("worktree not found")
	// ErrFetchFailed is returned when the default branch cannot be fetched.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInvalidBranch is returned for names that cannot map to a worktree directory.
	ErrInvalidBranch = errors.New("invalid branch name")
)

// Worktree is a directory under a project's worktree root.
type Worktree struct {
	Project   string
	Branch    string // from the marker, else Dir
	Dir       string
	Path      string
	CreatedAt time.Time // directory mtime
}

// Marker is the content of MarkerFile.
type Marker struct {
	Name string `yaml:"name"`
}

// RemoteProbe answers the safety questions asked before removal.
type RemoteProbe interface {
	BranchExistsOnRemote(ctx context.Context, branch, repoPath string) bool
	HasLocalChanges(ctx context.Context, path string) bool
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Relocator owns the process's working directory.
type Relocator interface {
	Getwd() (string, error)
	Relocate(path string) error
}

// Manager runs worktree operations below Root.
type Manager struct {
	Root          string
	Remote        string
	AsyncCheckout bool
	PostCreate    []config.Hook

	Probe     RemoteProbe
	Confirm   Confirmer // nil declines every prompt
	Relocator Relocator
}

// NewManager returns a Manager configured from cfg. The root is resolved
// through symlinks so it compares equal to resolved working directories.
func NewManager(cfg *config.Config, probe RemoteProbe, confirm Confirmer, relocator Relocator) *Manager {
	root := cfg.WorktreesRoot
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &Manager{
		Root:          root,
		Remote:        cfg.Remote,
		AsyncCheckout: cfg.AsyncCheckout,
		PostCreate:    cfg.PostCreate,
		Probe:         probe,
		Confirm:       confirm,
		Relocator:     relocator,
	}
}

// ProjectRoot returns the directory holding project's worktrees.
func (m *Manager) ProjectRoot(project registry.Project) string {
	return filepath.Join(m.Root, project.Name)
}

// List returns project's worktrees, oldest first. A missing project root
// yields an empty list.
func (m *Manager) List(project registry.Project) ([]Worktree, error) {
	dir := m.ProjectRoot(project)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Worktree{}, nil
		}
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	worktrees := make([]Worktree, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		wt, err := load(project.Name, filepath.Join(dir, e.Name()))
		if err != nil {
			continue // removed while scanning
		}
		worktrees = append(worktrees, wt)
	}

	sort.SliceStable(worktrees, func(i, j int) bool {
		if worktrees[i].CreatedAt.Equal(worktrees[j].CreatedAt) {
			return worktrees[i].Dir < worktrees[j].Dir
		}
		return worktrees[i].CreatedAt.Before(worktrees[j].CreatedAt)
	})
	return worktrees, nil
}

func load(project, path string) (Worktree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Worktree{}, err
	}
	if !info.IsDir() {
		return Worktree{}, fmt.Errorf("%s: not a directory", path)
	}
	wt := Worktree{
		Project:   project,
		Branch:    info.Name(),
		Dir:       info.Name(),
		Path:      path,
		CreatedAt: info.ModTime(),
	}
	var marker Marker
	if err := storage.LoadYAML(filepath.Join(path, MarkerFile), &marker); err == nil && marker.Name != "" {
		wt.Branch = marker.Name
	}
	return wt, nil
}

// Find returns the worktree whose branch or directory name equals name.
func (m *Manager) Find(project registry.Project, name string) (*Worktree, error) {
	if err := ValidateBranch(name); err != nil {
		return nil, err
	}
	if wt, err := load(project.Name, ResolvePath(m.Root, project.Name, name)); err == nil {
		if wt.Branch == name || wt.Dir == name {
			return &wt, nil
		}
	}

	// A dashed directory may hold a different branch than name suggests.
	all, err := m.List(project)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Branch == name || all[i].Dir == name {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("%s/%s: %w", project.Name, name, ErrWorktreeNotFound)
}

// CreateResult describes a Create call.
type CreateResult struct {
	Worktree       Worktree
	AlreadyExisted bool
	NewBranch      bool // branch was created from the remote default branch
}

// Create makes a worktree for branch in project. An existing directory is
// returned as is without any git calls.
func (m *Manager) Create(ctx context.Context, project registry.Project, branch string) (*CreateResult, error) {
	if err := ValidateBranch(branch); err != nil {
		return nil, err
	}
	l := log.FromContext(ctx)
	path := ResolvePath(m.Root, project.Name, branch)

	if wt, err := load(project.Name, path); err == nil {
		l.Debug("worktree exists", "path", path)
		return &CreateResult{Worktree: wt, AlreadyExisted: true}, nil
	}

	defaultBranch := git.GetDefaultBranch(ctx, project.Path, m.Remote)
	l.Printf("Fetching %s/%s...\n", m.Remote, defaultBranch)
	if err := git.FetchBranch(ctx, project.Path, m.Remote, defaultBranch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	exists, err := git.LocalBranchExists(project.Path, branch)
	if err != nil {
		return nil, err
	}
	base := ""
	if exists {
		l.Printf("Creating worktree %s from existing branch\n", branch)
	} else {
		base = m.Remote + "/" + defaultBranch
		l.Printf("Creating worktree %s from %s\n", branch, base)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}
	if err := git.AddWorktree(ctx, project.Path, path, branch, base); err != nil {
		m.discard(ctx, project, path, "")
		return nil, err
	}

	if m.AsyncCheckout {
		err = git.CheckoutWorktreeDetached(ctx, path)
	} else {
		err = git.CheckoutWorktree(ctx, path)
	}
	if err != nil {
		created := ""
		if !exists {
			created = branch
		}
		m.discard(ctx, project, path, created)
		return nil, err
	}

	m.writeMarker(ctx, project, path, branch)

	if len(m.PostCreate) > 0 {
		hooks.RunAll(ctx, m.PostCreate, hooks.NewContext(path, branch, project.Path, hooks.TriggerCreate))
	}

	wt, err := load(project.Name, path)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Worktree: wt, NewBranch: !exists}, nil
}

// discard removes what a failed Create left behind. branch is deleted when
// non-empty.
func (m *Manager) discard(ctx context.Context, project registry.Project, path, branch string) {
	l := log.FromContext(ctx)
	if err := os.RemoveAll(path); err != nil {
		l.Debug("cleanup failed", "path", path, "error", err)
	}
	if err := git.PruneWorktrees(ctx, project.Path); err != nil {
		l.Debug("cleanup failed", "path", path, "error", err)
	}
	if branch != "" {
		if err := git.DeleteLocalBranch(ctx, project.Path, branch); err != nil {
			l.Debug("cleanup failed", "branch", branch, "error", err)
		}
	}
}

// writeMarker records branch in the worktree and keeps the marker out of
// git status. Failures are reported but leave the worktree in place.
func (m *Manager) writeMarker(ctx context.Context, project registry.Project, path, branch string) {
	l := log.FromContext(ctx)
	if err := excludeMarker(ctx, project.Path); err != nil {
		l.Debug("exclude marker failed", "error", err)
	}
	if err := storage.SaveYAML(filepath.Join(path, MarkerFile), Marker{Name: branch}); err != nil {
		l.Printf("Warning: write %s: %v\n", MarkerFile, err)
	}
}

// excludeMarker adds MarkerFile to the shared info/exclude of repoPath.
func excludeMarker(ctx context.Context, repoPath string) error {
	commonDir, err := git.GetCommonDir(ctx, repoPath)
	if err != nil {
		return err
	}
	excludePath := filepath.Join(commonDir, "info", "exclude")
	pattern := "/" + MarkerFile

	data, err := os.ReadFile(excludePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == pattern {
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(excludePath), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(excludePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + pattern + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RemoveResult describes a Remove call.
type RemoveResult struct {
	Worktree      Worktree
	Cancelled     bool
	Relocated     bool
	BranchDeleted bool
}

// Remove deletes the worktree for name. If the branch still exists on the
// remote the user must confirm first.
func (m *Manager) Remove(ctx context.Context, project registry.Project, name string) (*RemoveResult, error) {
	wt, err := m.Find(project, name)
	if err != nil {
		return nil, err
	}

	if m.Probe.BranchExistsOnRemote(ctx, wt.Branch, project.Path) {
		log.FromContext(ctx).Printf("Warning: branch %s still exists on %s\n", wt.Branch, m.Remote)
		ok := false
		if m.Confirm != nil {
			ok, err = m.Confirm.Confirm(ctx, fmt.Sprintf("Remove worktree %s anyway?", wt.Branch))
			if err != nil {
				return nil, err
			}
		}
		if !ok {
			return &RemoveResult{Worktree: *wt, Cancelled: true}, nil
		}
	}

	return m.RemoveUnconfirmed(ctx, project, *wt)
}

// RemoveUnconfirmed runs the removal sequence without any prompt:
// relocate out of the worktree if needed, drop the worktree, delete the
// local branch. Branch deletion is best-effort.
func (m *Manager) RemoveUnconfirmed(ctx context.Context, project registry.Project, wt Worktree) (*RemoveResult, error) {
	l := log.FromContext(ctx)
	res := &RemoveResult{Worktree: wt}

	if m.Relocator != nil {
		if cwd, err := m.Relocator.Getwd(); err == nil && contains(wt.Path, cwd) {
			if err := m.Relocator.Relocate(project.Path); err != nil {
				return nil, fmt.Errorf("leave worktree before removal: %w", err)
			}
			res.Relocated = true
		}
	}

	if err := git.RemoveWorktree(ctx, project.Path, wt.Path); err != nil {
		l.Debug("worktree remove failed, deleting directory", "path", wt.Path, "error", err)
		if err := os.RemoveAll(wt.Path); err != nil {
			return nil, fmt.Errorf("remove %s: %w", wt.Path, err)
		}
		if err := git.PruneWorktrees(ctx, project.Path); err != nil {
			l.Debug("worktree prune failed", "error", err)
		}
	}

	if err := git.DeleteLocalBranch(ctx, project.Path, wt.Branch); err != nil {
		l.Debug("branch delete failed", "branch", wt.Branch, "error", err)
	} else {
		res.BranchDeleted = true
	}
	return res, nil
}
