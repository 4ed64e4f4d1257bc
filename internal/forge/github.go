package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raphi011/wtree/internal/cmd"
)

// GitHub implements Forge using the gh CLI.
type GitHub struct{}

func (g *GitHub) Name() string { return "github" }

// PullRequestForBranch runs `gh pr list --head <branch> --state all`.
func (g *GitHub) PullRequestForBranch(ctx context.Context, repoURL, branch string) (*PullRequest, error) {
	output, err := cmd.OutputContext(ctx, "", "gh", "pr", "list",
		"-R", repoURL,
		"--head", branch,
		"--state", "all",
		"--json", "number,url,state,statusCheckRollup",
		"--limit", "1")
	if err != nil {
		return nil, fmt.Errorf("gh pr list: %w", err)
	}
	return parseGitHubPRs(output)
}

// ghCheck is one statusCheckRollup entry: either a CheckRun (status +
// conclusion) or a legacy StatusContext (state).
type ghCheck struct {
	Status     string `json:"status"`
	Conclusion string `json:"conclusion"`
	State      string `json:"state"`
}

type ghPR struct {
	Number            int       `json:"number"`
	URL               string    `json:"url"`
	State             string    `json:"state"`
	StatusCheckRollup []ghCheck `json:"statusCheckRollup"`
}

func parseGitHubPRs(data []byte) (*PullRequest, error) {
	var prs []ghPR
	if err := json.Unmarshal(data, &prs); err != nil {
		return nil, fmt.Errorf("parse gh output: %w", err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	checks := make([]CheckState, 0, len(pr.StatusCheckRollup))
	for _, c := range pr.StatusCheckRollup {
		checks = append(checks, normalizeGitHubCheck(c))
	}
	return &PullRequest{
		Number: pr.Number,
		URL:    pr.URL,
		State:  normalizeState(pr.State),
		Checks: checks,
	}, nil
}

func normalizeGitHubCheck(c ghCheck) CheckState {
	if c.State != "" {
		switch strings.ToUpper(c.State) {
		case "SUCCESS":
			return CheckSuccess
		case "FAILURE":
			return CheckFailure
		case "ERROR":
			return CheckError
		case "PENDING", "EXPECTED":
			return CheckPending
		default:
			return CheckOther
		}
	}

	if status := strings.ToUpper(c.Status); status != "" && status != "COMPLETED" {
		return CheckPending
	}
	switch strings.ToUpper(c.Conclusion) {
	case "SUCCESS":
		return CheckSuccess
	case "FAILURE", "CANCELLED", "ACTION_REQUIRED":
		return CheckFailure
	case "TIMED_OUT", "STARTUP_FAILURE":
		return CheckError
	case "":
		return CheckPending
	default:
		return CheckOther
	}
}
