package forge

import (
	"context"
	"strings"
)

// PR states shared by all forges.
const (
	PRStateOpen   = "OPEN"
	PRStateMerged = "MERGED"
	PRStateClosed = "CLOSED"
)

// CheckState is a normalized CI result.
type CheckState string

const (
	CheckSuccess CheckState = "SUCCESS"
	CheckFailure CheckState = "FAILURE"
	CheckError   CheckState = "ERROR"
	CheckPending CheckState = "PENDING"
	CheckOther   CheckState = "OTHER" // skipped, neutral, manual, ...
)

// PullRequest is the most recent pull/merge request for a branch.
type PullRequest struct {
	Number int
	URL    string
	State  string // PRStateOpen, PRStateMerged or PRStateClosed
	Checks []CheckState
}

// Forge represents a git hosting service.
type Forge interface {
	// Name returns the forge name ("github" or "gitlab").
	Name() string

	// PullRequestForBranch returns the most recent PR in any state whose head
	// is branch, or nil if there is none.
	PullRequestForBranch(ctx context.Context, repoURL, branch string) (*PullRequest, error)
}

func normalizeState(state string) string {
	switch strings.ToLower(state) {
	case "open", "opened":
		return PRStateOpen
	case "merged":
		return PRStateMerged
	case "closed", "locked":
		return PRStateClosed
	default:
		return strings.ToUpper(state)
	}
}
