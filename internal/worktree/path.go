package worktree

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/raphi011/wtree/internal/format"
)

// DirName returns the directory name used for branch under a project's
// worktree root. Slashes become dashes so nested branch names stay one
// directory level deep: feature/login -> feature-login.
func DirName(branch string) string {
	return format.SanitizeForPath(branch)
}

// ValidateBranch rejects names that cannot become a worktree directory of
// their own: empty names, option-like names, and names whose directory would
// be hidden or resolve to the project root or above it.
func ValidateBranch(branch string) error {
	dir := DirName(branch)
	switch {
	case strings.TrimSpace(branch) == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBranch)
	case strings.HasPrefix(branch, "-"):
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidBranch, branch)
	case strings.HasPrefix(dir, "."):
		return fmt.Errorf("%w: %q starts with '.'", ErrInvalidBranch, branch)
	}
	return nil
}

// ResolvePath returns <root>/<project>/<DirName(branch)>.
func ResolvePath(root, project, branch string) string {
	return filepath.Join(root, project, DirName(branch))
}

// contains reports whether path equals dir or lies below it, matching
// whole path segments.
func contains(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
