package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/raphi011/wtree/internal/cmd"
)

// GitLab implements Forge using the glab CLI.
type GitLab struct{}

func (g *GitLab) Name() string { return "gitlab" }

// PullRequestForBranch finds the latest MR for branch, then reads its head
// pipeline with `glab mr view`.
func (g *GitLab) PullRequestForBranch(ctx context.Context, repoURL, branch string) (*PullRequest, error) {
	project := extractGitLabProject(repoURL)

	output, err := cmd.OutputContext(ctx, "", "glab", "mr", "list",
		"-R", project,
		"--source-branch", branch,
		"--all",
		"-F", "json",
		"-P", "1")
	if err != nil {
		return nil, fmt.Errorf("glab mr list: %w", err)
	}
	pr, err := parseGitLabMRs(output)
	if err != nil || pr == nil {
		return pr, err
	}

	view, err := cmd.OutputContext(ctx, "", "glab", "mr", "view",
		strconv.Itoa(pr.Number),
		"-R", project,
		"-F", "json")
	if err != nil {
		return nil, fmt.Errorf("glab mr view: %w", err)
	}
	checks, err := parseGitLabPipeline(view)
	if err != nil {
		return nil, err
	}
	pr.Checks = checks
	return pr, nil
}

type glabMR struct {
	IID    int    `json:"iid"`
	State  string `json:"state"` // opened, merged, closed, locked
	WebURL string `json:"web_url"`
}

func parseGitLabMRs(data []byte) (*PullRequest, error) {
	var mrs []glabMR
	if err := json.Unmarshal(data, &mrs); err != nil {
		return nil, fmt.Errorf("parse glab output: %w", err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}
	return &PullRequest{
		Number: mrs[0].IID,
		URL:    mrs[0].WebURL,
		State:  normalizeState(mrs[0].State),
	}, nil
}

func parseGitLabPipeline(data []byte) ([]CheckState, error) {
	var mr struct {
		HeadPipeline *struct {
			Status string `json:"status"`
		} `json:"head_pipeline"`
	}
	if err := json.Unmarshal(data, &mr); err != nil {
		return nil, fmt.Errorf("parse glab output: %w", err)
	}
	if mr.HeadPipeline == nil || mr.HeadPipeline.Status == "" {
		return nil, nil
	}
	return []CheckState{normalizePipelineStatus(mr.HeadPipeline.Status)}, nil
}

func normalizePipelineStatus(status string) CheckState {
	switch strings.ToLower(status) {
	case "success":
		return CheckSuccess
	case "failed":
		return CheckFailure
	case "canceled", "canceling":
		return CheckError
	case "created", "waiting_for_resource", "preparing", "pending", "running", "scheduled", "waiting_for_callback":
		return CheckPending
	default:
		return CheckOther
	}
}

// extractGitLabProject extracts the project path from a GitLab URL.
//
//	git@gitlab.com:group/project.git            -> group/project
//	https://gitlab.com/group/sub/project.git    -> group/sub/project
func extractGitLabProject(remoteURL string) string {
	u := strings.TrimSuffix(remoteURL, ".git")

	if rest, ok := strings.CutPrefix(u, "git@"); ok {
		if _, path, found := strings.Cut(rest, ":"); found {
			return path
		}
	}
	if _, rest, found := strings.Cut(u, "://"); found {
		if _, path, found := strings.Cut(rest, "/"); found {
			return path
		}
	}
	return u
}
