// Package prstatus looks up pull request and CI state for worktree branches.
//
// Results are fetched fresh on every call. A failed or slow lookup never
// surfaces as an error: it is recorded as [Failed] and otherwise treated
// like a branch without a pull request.
package prstatus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/forge"
	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/log"
)

// ErrLookupFailed marks a pull request query that errored or timed out.
var ErrLookupFailed = errors.New("pull request lookup failed")

// BuildStatus classifies a pull request's checks.
type BuildStatus string

const (
	BuildNone    BuildStatus = "none"
	BuildFailing BuildStatus = "failing"
	BuildPending BuildStatus = "pending"
	BuildPassing BuildStatus = "passing"
	BuildUnknown BuildStatus = "unknown"
)

// DeriveBuildStatus applies, in order: no checks, any failure, any pending,
// all passed. Anything left over (e.g. only skipped checks) is unknown.
func DeriveBuildStatus(total, passed, failed, pending int) BuildStatus {
	switch {
	case total == 0:
		return BuildNone
	case failed > 0:
		return BuildFailing
	case pending > 0:
		return BuildPending
	case passed == total:
		return BuildPassing
	default:
		return BuildUnknown
	}
}

// PRStatus is the pull request for a branch with aggregated check counts.
type PRStatus struct {
	Number        int
	URL           string
	State         string
	ChecksTotal   int
	ChecksPassed  int
	ChecksFailed  int
	ChecksPending int
}

// BuildStatus derives the build classification from the check counts.
func (s *PRStatus) BuildStatus() BuildStatus {
	return DeriveBuildStatus(s.ChecksTotal, s.ChecksPassed, s.ChecksFailed, s.ChecksPending)
}

func fromPullRequest(pr *forge.PullRequest) *PRStatus {
	s := &PRStatus{
		Number:      pr.Number,
		URL:         pr.URL,
		State:       pr.State,
		ChecksTotal: len(pr.Checks),
	}
	for _, c := range pr.Checks {
		switch c {
		case forge.CheckSuccess:
			s.ChecksPassed++
		case forge.CheckFailure, forge.CheckError:
			s.ChecksFailed++
		case forge.CheckPending:
			s.ChecksPending++
		}
	}
	return s
}

// Kind says what a lookup produced.
type Kind int

const (
	NotQueried Kind = iota
	NoPR
	Found
	Failed
)

func (k Kind) String() string {
	switch k {
	case NoPR:
		return "no-pr"
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "not-queried"
	}
}

// Result is the outcome of a single lookup.
type Result struct {
	Kind   Kind
	Status *PRStatus // set when Kind == Found
	Err    error     // set when Kind == Failed
}

// Item identifies one branch to look up.
type Item struct {
	Branch   string
	RepoPath string
}

// Service resolves pull request status through the forge matching each
// repository's remote.
type Service struct {
	Remote   string
	Hosts    map[string]string
	Timeout  time.Duration
	Parallel int

	// forgeFor overrides forge detection; used by tests.
	forgeFor func(remoteURL string) forge.Forge
}

// New returns a Service configured from cfg.
func New(cfg *config.Config) *Service {
	return &Service{
		Remote:   cfg.Remote,
		Hosts:    cfg.Hosts,
		Timeout:  cfg.Timeouts.Forge,
		Parallel: cfg.MaxPRLookups,
	}
}

// WithForge returns a copy of s that uses f for every repository.
func (s *Service) WithForge(f forge.Forge) *Service {
	c := *s
	c.forgeFor = func(string) forge.Forge { return f }
	return &c
}

func (s *Service) detect(remoteURL string) forge.Forge {
	if s.forgeFor != nil {
		return s.forgeFor(remoteURL)
	}
	return forge.Detect(remoteURL, s.Hosts)
}

// Lookup returns the pull request status for branch, or nil when there is
// none or the query failed.
func (s *Service) Lookup(ctx context.Context, branch, repoPath string) *PRStatus {
	return s.Query(ctx, branch, repoPath).Status
}

// Query performs a single lookup and keeps the outcome kind.
func (s *Service) Query(ctx context.Context, branch, repoPath string) Result {
	url, err := git.GetOriginURL(ctx, repoPath, s.Remote)
	if err != nil {
		return s.failed(ctx, branch, err)
	}
	return s.queryURL(ctx, branch, url)
}

func (s *Service) queryURL(ctx context.Context, branch, remoteURL string) Result {
	qctx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	pr, err := s.detect(remoteURL).PullRequestForBranch(qctx, remoteURL, branch)
	if err != nil {
		return s.failed(ctx, branch, err)
	}
	if pr == nil {
		return Result{Kind: NoPR}
	}
	return Result{Kind: Found, Status: fromPullRequest(pr)}
}

func (s *Service) failed(ctx context.Context, branch string, err error) Result {
	err = fmt.Errorf("%w: %s: %w", ErrLookupFailed, branch, err)
	log.FromContext(ctx).Debug("pr lookup failed", "branch", branch, "error", err)
	return Result{Kind: Failed, Err: err}
}

// LookupAll queries every item concurrently, at most Parallel at a time, and
// returns once all have finished. results[i] belongs to items[i].
func (s *Service) LookupAll(ctx context.Context, items []Item) []Result {
	results := make([]Result, len(items))
	if len(items) == 0 {
		return results
	}

	// One remote URL lookup per repository rather than per branch.
	urls := make(map[string]string)
	urlErrs := make(map[string]error)
	for _, it := range items {
		if _, seen := urls[it.RepoPath]; seen {
			continue
		}
		if _, seen := urlErrs[it.RepoPath]; seen {
			continue
		}
		u, err := git.GetOriginURL(ctx, it.RepoPath, s.Remote)
		if err != nil {
			urlErrs[it.RepoPath] = err
			continue
		}
		urls[it.RepoPath] = u
	}

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Parallel
	if limit <= 0 {
		limit = config.DefaultMaxPRLookups
	}
	g.SetLimit(limit)

	for i, it := range items {
		if err, ok := urlErrs[it.RepoPath]; ok {
			results[i] = s.failed(ctx, it.Branch, err)
			continue
		}
		remoteURL := urls[it.RepoPath]
		g.Go(func() error {
			results[i] = s.queryURL(gctx, it.Branch, remoteURL)
			return nil
		})
	}

	_ = g.Wait() // lookups record failures in their slot
	return results
}
