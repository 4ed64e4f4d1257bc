package probe

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/wtree/internal/git/gittest"
	"github.com/raphi011/wtree/internal/log"
)

func newProbe() *Probe {
	return &Probe{Remote: "origin", Timeout: 10 * time.Second}
}

func TestBranchExistsOnRemote(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")
	gittest.PushBranch(t, repo, "feature-x")

	p := newProbe()
	if !p.BranchExistsOnRemote(ctx, "feature-x", repo) {
		t.Error("pushed branch should exist on remote")
	}
	if p.BranchExistsOnRemote(ctx, "never-pushed", repo) {
		t.Error("unpushed branch should not exist on remote")
	}
}

func TestBranchExistsOnRemote_FailureIsFalse(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	repo, origin := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	if err := os.RemoveAll(origin); err != nil {
		t.Fatal(err)
	}
	if newProbe().BranchExistsOnRemote(ctx, "main", repo) {
		t.Error("unreachable remote should report false")
	}
	if !strings.Contains(buf.String(), "remote query failed") {
		t.Errorf("debug log = %q, want remote query failure", buf.String())
	}
}

func TestBranchExistsOnRemote_Timeout(t *testing.T) {
	t.Parallel()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")
	p := &Probe{Remote: "origin", Timeout: time.Nanosecond}
	if p.BranchExistsOnRemote(context.Background(), "main", repo) {
		t.Error("timed out query should report false")
	}
}

func TestHasLocalChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(t *testing.T, repo string)
		want  bool
	}{
		{
			name:  "clean and pushed",
			setup: func(*testing.T, string) {},
			want:  false,
		},
		{
			name: "untracked file",
			setup: func(t *testing.T, repo string) {
				if err := os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			want: true,
		},
		{
			name: "unpushed commit",
			setup: func(t *testing.T, repo string) {
				gittest.Commit(t, repo, "work.txt", "work")
			},
			want: true,
		},
		{
			name: "no upstream",
			setup: func(t *testing.T, repo string) {
				gittest.Run(t, repo, "checkout", "-q", "-b", "local-only")
			},
			want: true,
		},
		{
			name: "upstream deleted after merge",
			setup: func(t *testing.T, repo string) {
				gittest.Run(t, repo, "checkout", "-q", "-b", "feature-x")
				gittest.Run(t, repo, "push", "-q", "-u", "origin", "feature-x")
				gittest.Run(t, repo, "push", "-q", "origin", "--delete", "feature-x")
				gittest.Run(t, repo, "fetch", "-q", "--prune", "origin")
			},
			want: false,
		},
		{
			name: "upstream deleted with unmerged commit",
			setup: func(t *testing.T, repo string) {
				gittest.Run(t, repo, "checkout", "-q", "-b", "feature-x")
				gittest.Commit(t, repo, "work.txt", "work")
				gittest.Run(t, repo, "push", "-q", "-u", "origin", "feature-x")
				gittest.Run(t, repo, "push", "-q", "origin", "--delete", "feature-x")
				gittest.Run(t, repo, "fetch", "-q", "--prune", "origin")
			},
			want: true,
		},
		{
			name: "not a repository",
			setup: func(t *testing.T, repo string) {
				if err := os.RemoveAll(filepath.Join(repo, ".git")); err != nil {
					t.Fatal(err)
				}
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")
			tt.setup(t, repo)
			if got := newProbe().HasLocalChanges(ctx, repo); got != tt.want {
				t.Errorf("HasLocalChanges() = %v, want %v", got, tt.want)
			}
		})
	}
}
