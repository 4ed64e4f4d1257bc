// Package gittest builds throwaway git repositories for tests.
package gittest

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TempDir returns a t.TempDir with symlinks resolved (macOS /var -> /private/var).
func TempDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

// Run executes git in dir and returns trimmed stdout. Fails the test on error.
func Run(t testing.TB, dir string, args ...string) string {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	c.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := c.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s in %s: %v\n%s", strings.Join(args, " "), dir, err, out)
	}
	return strings.TrimSpace(string(out))
}

func configure(t testing.TB, repoPath string) {
	t.Helper()
	Run(t, repoPath, "config", "user.email", "test@test.com")
	Run(t, repoPath, "config", "user.name", "Test User")
	Run(t, repoPath, "config", "commit.gpgsign", "false")
}

// Commit writes content to name inside dir and commits it.
func Commit(t testing.TB, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	Run(t, dir, "add", name)
	Run(t, dir, "commit", "-q", "-m", "update "+name)
}

// NewRepo creates a repository named name under parent with one commit on main.
func NewRepo(t testing.TB, parent, name string) string {
	t.Helper()
	if err := os.MkdirAll(parent, 0o755); err != nil {
		t.Fatal(err)
	}
	repoPath := filepath.Join(parent, name)
	Run(t, parent, "init", "-q", "-b", "main", repoPath)
	configure(t, repoPath)
	Commit(t, repoPath, "README.md", "# "+name+"\n")
	return repoPath
}

// NewRepoWithOrigin creates a bare origin and a clone named name under parent,
// with main pushed and tracking origin/main. Returns (repoPath, originPath).
func NewRepoWithOrigin(t testing.TB, parent, name string) (string, string) {
	t.Helper()
	if err := os.MkdirAll(parent, 0o755); err != nil {
		t.Fatal(err)
	}
	originPath := filepath.Join(parent, name+"-origin.git")
	repoPath := filepath.Join(parent, name)

	Run(t, parent, "init", "-q", "--bare", "-b", "main", originPath)
	Run(t, parent, "clone", "-q", originPath, repoPath)
	// Older git names the unborn branch after init.defaultBranch.
	Run(t, repoPath, "symbolic-ref", "HEAD", "refs/heads/main")
	configure(t, repoPath)
	Commit(t, repoPath, "README.md", "# "+name+"\n")
	Run(t, repoPath, "push", "-q", "-u", "origin", "HEAD")
	return repoPath, originPath
}

// PushBranch creates branch from HEAD in repoPath and pushes it to origin.
func PushBranch(t testing.TB, repoPath, branch string) {
	t.Helper()
	Run(t, repoPath, "push", "-q", "origin", "HEAD:refs/heads/"+branch)
}
