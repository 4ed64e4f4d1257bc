package prstatus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/wtree/internal/forge"
	"github.com/raphi011/wtree/internal/git/gittest"
)

func TestDeriveBuildStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                           string
		total, passed, failed, pending int
		want                           BuildStatus
	}{
		{"no checks", 0, 0, 0, 0, BuildNone},
		{"failure wins over pending", 3, 1, 1, 1, BuildFailing},
		{"pending", 2, 1, 0, 1, BuildPending},
		{"all passed", 2, 2, 0, 0, BuildPassing},
		{"skipped only", 2, 0, 0, 0, BuildUnknown},
		{"partially skipped", 3, 2, 0, 0, BuildUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveBuildStatus(tt.total, tt.passed, tt.failed, tt.pending); got != tt.want {
				t.Errorf("DeriveBuildStatus(%d,%d,%d,%d) = %s, want %s", tt.total, tt.passed, tt.failed, tt.pending, got, tt.want)
			}
		})
	}
}

func TestDeriveBuildStatus_Total(t *testing.T) {
	t.Parallel()
	valid := map[BuildStatus]bool{BuildNone: true, BuildFailing: true, BuildPending: true, BuildPassing: true, BuildUnknown: true}
	for total := 0; total <= 4; total++ {
		for passed := 0; passed <= total; passed++ {
			for failed := 0; passed+failed <= total; failed++ {
				for pending := 0; passed+failed+pending <= total; pending++ {
					if got := DeriveBuildStatus(total, passed, failed, pending); !valid[got] {
						t.Fatalf("DeriveBuildStatus(%d,%d,%d,%d) = %q", total, passed, failed, pending, got)
					}
				}
			}
		}
	}
}

type fakeForge struct {
	mu       sync.Mutex
	prs      map[string]*forge.PullRequest
	fail     map[string]bool
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeForge) Name() string { return "fake" }

func (f *fakeForge) PullRequestForBranch(ctx context.Context, _, branch string) (*forge.PullRequest, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[branch] {
		return nil, errors.New("HTTP 502")
	}
	return f.prs[branch], nil
}

func newService(f forge.Forge) *Service {
	return (&Service{Remote: "origin", Timeout: 5 * time.Second, Parallel: 2}).WithForge(f)
}

func TestQuery(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")

	f := &fakeForge{
		prs: map[string]*forge.PullRequest{
			"feature": {Number: 12, State: forge.PRStateOpen, Checks: []forge.CheckState{
				forge.CheckSuccess, forge.CheckError, forge.CheckPending, forge.CheckOther,
			}},
		},
		fail: map[string]bool{"broken": true},
	}
	svc := newService(f)

	r := svc.Query(ctx, "feature", repo)
	if r.Kind != Found {
		t.Fatalf("Query(feature).Kind = %s", r.Kind)
	}
	s := r.Status
	if s.ChecksTotal != 4 || s.ChecksPassed != 1 || s.ChecksFailed != 1 || s.ChecksPending != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.BuildStatus() != BuildFailing {
		t.Errorf("BuildStatus() = %s", s.BuildStatus())
	}

	if r := svc.Query(ctx, "no-pr", repo); r.Kind != NoPR || r.Status != nil {
		t.Errorf("Query(no-pr) = %+v", r)
	}

	r = svc.Query(ctx, "broken", repo)
	if r.Kind != Failed || !errors.Is(r.Err, ErrLookupFailed) {
		t.Errorf("Query(broken) = %+v", r)
	}
	if svc.Lookup(ctx, "broken", repo) != nil {
		t.Error("Lookup() on failure should be nil")
	}
}

func TestQuery_NoRemote(t *testing.T) {
	t.Parallel()
	repo := gittest.NewRepo(t, gittest.TempDir(t), "local")
	r := newService(&fakeForge{}).Query(context.Background(), "main", repo)
	if r.Kind != Failed {
		t.Errorf("Query() without remote = %s, want failed", r.Kind)
	}
}

func TestQuery_Timeout(t *testing.T) {
	t.Parallel()
	repo, _ := gittest.NewRepoWithOrigin(t, gittest.TempDir(t), "api")
	svc := newService(&fakeForge{delay: time.Minute})
	svc.Timeout = 20 * time.Millisecond

	start := time.Now()
	r := svc.Query(context.Background(), "slow", repo)
	if r.Kind != Failed || !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Errorf("Query() = %+v, want deadline failure", r)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("timeout not enforced")
	}
}

func TestLookupAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tmp := gittest.TempDir(t)
	api, _ := gittest.NewRepoWithOrigin(t, tmp, "api")
	local := gittest.NewRepo(t, tmp, "local")

	f := &fakeForge{
		prs: map[string]*forge.PullRequest{
			"a": {Number: 1, State: forge.PRStateOpen},
			"c": {Number: 3, State: forge.PRStateMerged, Checks: []forge.CheckState{forge.CheckSuccess}},
		},
		fail:  map[string]bool{"b": true},
		delay: 10 * time.Millisecond,
	}
	svc := newService(f)

	items := []Item{
		{Branch: "a", RepoPath: api},
		{Branch: "b", RepoPath: api},
		{Branch: "c", RepoPath: api},
		{Branch: "d", RepoPath: api},
		{Branch: "e", RepoPath: local},
	}
	results := svc.LookupAll(ctx, items)

	wantKinds := []Kind{Found, Failed, Found, NoPR, Failed}
	for i, want := range wantKinds {
		if results[i].Kind != want {
			t.Errorf("results[%d] (%s) = %s, want %s", i, items[i].Branch, results[i].Kind, want)
		}
	}
	if results[0].Status.Number != 1 || results[2].Status.Number != 3 {
		t.Errorf("results out of order: %+v %+v", results[0].Status, results[2].Status)
	}
	if results[2].Status.BuildStatus() != BuildPassing {
		t.Errorf("results[2] build = %s", results[2].Status.BuildStatus())
	}
	if peak := f.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestLookupAll_Empty(t *testing.T) {
	t.Parallel()
	if got := newService(&fakeForge{}).LookupAll(context.Background(), nil); len(got) != 0 {
		t.Errorf("LookupAll(nil) = %v", got)
	}
}
