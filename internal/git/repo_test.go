package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/wtree/internal/git/gittest"
)

func TestRepoRoot(t *testing.T) {
	t.Parallel()
	tmp := gittest.TempDir(t)
	repo := gittest.NewRepo(t, tmp, "api")

	nested := filepath.Join(repo, "pkg", "server")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"root", repo},
		{"nested", nested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RepoRoot(tt.path)
			if err != nil {
				t.Fatalf("RepoRoot() error = %v", err)
			}
			if got != repo {
				t.Errorf("RepoRoot() = %q, want %q", got, repo)
			}
		})
	}
}

func TestRepoRoot_NotRepository(t *testing.T) {
	t.Parallel()
	_, err := RepoRoot(gittest.TempDir(t))
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("RepoRoot() error = %v, want ErrNotRepository", err)
	}
}

func TestLocalBranchExists(t *testing.T) {
	t.Parallel()
	repo := gittest.NewRepo(t, gittest.TempDir(t), "api")
	gittest.Run(t, repo, "branch", "feature/login")

	tests := []struct {
		branch string
		want   bool
	}{
		{"main", true},
		{"feature/login", true},
		{"missing", false},
	}
	for _, tt := range tests {
		got, err := LocalBranchExists(repo, tt.branch)
		if err != nil {
			t.Fatalf("LocalBranchExists(%q) error = %v", tt.branch, err)
		}
		if got != tt.want {
			t.Errorf("LocalBranchExists(%q) = %v, want %v", tt.branch, got, tt.want)
		}
	}
}

func TestGetDefaultBranch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	if got := GetDefaultBranch(ctx, repo, "origin"); got != "main" {
		t.Errorf("GetDefaultBranch() = %q, want main", got)
	}

	gittest.PushBranch(t, repo, "release/v1")
	gittest.Run(t, repo, "fetch", "-q", "origin")
	gittest.Run(t, repo, "symbolic-ref", "refs/remotes/origin/HEAD", "refs/remotes/origin/release/v1")
	if got := GetDefaultBranch(ctx, repo, "origin"); got != "release/v1" {
		t.Errorf("GetDefaultBranch() with remote HEAD = %q, want release/v1", got)
	}
}

func TestRemoteBranchExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")
	gittest.PushBranch(t, repo, "pushed")

	tests := []struct {
		branch string
		want   bool
	}{
		{"main", true},
		{"pushed", true},
		{"local-only", false},
	}
	for _, tt := range tests {
		got, err := RemoteBranchExists(ctx, repo, "origin", tt.branch)
		if err != nil {
			t.Fatalf("RemoteBranchExists(%q) error = %v", tt.branch, err)
		}
		if got != tt.want {
			t.Errorf("RemoteBranchExists(%q) = %v, want %v", tt.branch, got, tt.want)
		}
	}

	if _, err := RemoteBranchExists(ctx, repo, "nowhere", "main"); err == nil {
		t.Error("RemoteBranchExists() with unknown remote should fail")
	}
}

func TestUpstreamAndUnpushed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	ref, err := GetUpstreamRef(ctx, repo)
	if err != nil || ref != "origin/main" {
		t.Fatalf("GetUpstreamRef() = %q, %v", ref, err)
	}
	if n, err := CountUnpushed(ctx, repo); err != nil || n != 0 {
		t.Errorf("CountUnpushed() = %d, %v, want 0", n, err)
	}

	gittest.Commit(t, repo, "a.txt", "a")
	gittest.Commit(t, repo, "b.txt", "b")
	if n, err := CountUnpushed(ctx, repo); err != nil || n != 2 {
		t.Errorf("CountUnpushed() = %d, %v, want 2", n, err)
	}

	gittest.Run(t, repo, "checkout", "-q", "-b", "no-upstream")
	if _, err := GetUpstreamRef(ctx, repo); err == nil {
		t.Error("GetUpstreamRef() on branch without upstream should fail")
	}
}

// TestUpstreamGone tests detection of a tracked branch deleted on the remote.
//
// Scenario:
//  1. Push feature-x with -u so it tracks origin/feature-x
//  2. Delete the branch on origin and fetch --prune
//
// Expected:
//   - Before deletion the upstream is present and not gone
//   - After deletion UpstreamGone reports true and CountAhead against origin/main is 0
func TestUpstreamGone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	gittest.Run(t, repo, "checkout", "-q", "-b", "feature-x")
	gittest.Run(t, repo, "push", "-q", "-u", "origin", "feature-x")
	if gone, err := UpstreamGone(ctx, repo); err != nil || gone {
		t.Fatalf("UpstreamGone() before delete = %v, %v, want false", gone, err)
	}

	gittest.Run(t, repo, "push", "-q", "origin", "--delete", "feature-x")
	gittest.Run(t, repo, "fetch", "-q", "--prune", "origin")
	if gone, err := UpstreamGone(ctx, repo); err != nil || !gone {
		t.Fatalf("UpstreamGone() after delete = %v, %v, want true", gone, err)
	}
	if n, err := CountAhead(ctx, repo, "origin/main"); err != nil || n != 0 {
		t.Errorf("CountAhead(origin/main) = %d, %v, want 0", n, err)
	}

	gittest.Run(t, repo, "checkout", "-q", "-b", "never-tracked")
	if gone, err := UpstreamGone(ctx, repo); err != nil || gone {
		t.Errorf("UpstreamGone() without upstream = %v, %v, want false", gone, err)
	}
}

func TestStatusPorcelain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := gittest.NewRepo(t, gittest.TempDir(t), "api")

	if out, err := StatusPorcelain(ctx, repo); err != nil || out != "" {
		t.Fatalf("StatusPorcelain() clean = %q, %v", out, err)
	}
	if err := os.WriteFile(filepath.Join(repo, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if out, err := StatusPorcelain(ctx, repo); err != nil || out == "" {
		t.Errorf("StatusPorcelain() dirty = %q, %v", out, err)
	}
}

func TestGetOriginURLAndCommonDir(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, origin := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	url, err := GetOriginURL(ctx, repo, "origin")
	if err != nil || url != origin {
		t.Errorf("GetOriginURL() = %q, %v, want %q", url, err, origin)
	}

	dir, err := GetCommonDir(ctx, repo)
	if err != nil || dir != filepath.Join(repo, ".git") {
		t.Errorf("GetCommonDir() = %q, %v", dir, err)
	}
}
