package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GetDefaultBranch returns the default branch of remote (e.g. "main").
// Falls back to main/master probing, then "main".
func GetDefaultBranch(ctx context.Context, repoPath, remote string) string {
	output, err := outputGit(ctx, repoPath, "symbolic-ref", "refs/remotes/"+remote+"/HEAD")
	if err == nil {
		ref := strings.TrimSpace(string(output))
		if branch := strings.TrimPrefix(ref, "refs/remotes/"+remote+"/"); branch != ref && branch != "" {
			return branch
		}
	}

	for _, candidate := range []string{"main", "master"} {
		if runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", remote+"/"+candidate) == nil {
			return candidate
		}
	}
	return "main"
}

// FetchBranch fetches a single branch from remote.
func FetchBranch(ctx context.Context, repoPath, remote, branch string) error {
	if err := runGit(ctx, repoPath, "fetch", remote, branch, "--quiet"); err != nil {
		return fmt.Errorf("fetch %s/%s: %w", remote, branch, err)
	}
	return nil
}

// FetchPrune fetches remote and drops remote-tracking refs that no longer exist.
func FetchPrune(ctx context.Context, repoPath, remote string) error {
	if err := runGit(ctx, repoPath, "fetch", "--prune", "--quiet", remote); err != nil {
		return fmt.Errorf("fetch --prune %s: %w", remote, err)
	}
	return nil
}

// RemoteBranchExists asks remote whether refs/heads/<branch> exists.
func RemoteBranchExists(ctx context.Context, repoPath, remote, branch string) (bool, error) {
	output, err := outputGit(ctx, repoPath, "ls-remote", "--heads", remote, "refs/heads/"+branch)
	if err != nil {
		return false, fmt.Errorf("ls-remote %s: %w", remote, err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// GetOriginURL returns the fetch URL of remote.
func GetOriginURL(ctx context.Context, repoPath, remote string) (string, error) {
	output, err := outputGit(ctx, repoPath, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("get %s URL: %w", remote, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetCommonDir returns the absolute git directory shared by all worktrees.
func GetCommonDir(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return "", fmt.Errorf("resolve git common dir: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// StatusPorcelain returns `git status --porcelain` output for path.
func StatusPorcelain(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// GetUpstreamRef returns the upstream of the checked out branch, e.g. "origin/feature".
// Errors when HEAD has no upstream or is detached.
func GetUpstreamRef(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// UpstreamGone reports whether HEAD tracks an upstream branch whose
// remote-tracking ref no longer exists, as after a merge that deleted the
// branch followed by fetch --prune.
func UpstreamGone(ctx context.Context, path string) (bool, error) {
	head, err := outputGit(ctx, path, "symbolic-ref", "-q", "HEAD")
	if err != nil {
		return false, err
	}
	output, err := outputGit(ctx, path, "for-each-ref", "--format=%(upstream:track)", strings.TrimSpace(string(head)))
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(output)) == "[gone]", nil
}

// CountUnpushed returns the number of commits on HEAD not on its upstream.
func CountUnpushed(ctx context.Context, path string) (int, error) {
	return CountAhead(ctx, path, "@{upstream}")
}

// CountAhead returns the number of commits on HEAD not reachable from base.
func CountAhead(ctx context.Context, path, base string) (int, error) {
	output, err := outputGit(ctx, path, "rev-list", "--count", base+"..HEAD")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0, fmt.Errorf("parse rev-list count: %w", err)
	}
	return n, nil
}

// DeleteLocalBranch force-deletes a local branch.
func DeleteLocalBranch(ctx context.Context, repoPath, branch string) error {
	if err := runGit(ctx, repoPath, "branch", "-D", branch); err != nil {
		return fmt.Errorf("delete branch %s: %w", branch, err)
	}
	return nil
}
