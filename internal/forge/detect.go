package forge

import (
	"net/url"
	"strings"
)

// Detect returns the Forge for remoteURL.
// Exact host matches in hostMap win, then URL patterns, then GitHub.
func Detect(remoteURL string, hostMap map[string]string) Forge {
	if len(hostMap) > 0 {
		if forgeType, ok := hostMap[extractHost(remoteURL)]; ok {
			return ByName(forgeType)
		}
	}
	if isGitLab(remoteURL) {
		return &GitLab{}
	}
	return &GitHub{}
}

// ByName returns a Forge by name. Unknown names yield GitHub.
func ByName(name string) Forge {
	if strings.EqualFold(name, "gitlab") {
		return &GitLab{}
	}
	return &GitHub{}
}

// extractHost parses the hostname from a git remote URL.
// Handles scp-like SSH (git@host:path) and URL forms (https, http, ssh).
func extractHost(remoteURL string) string {
	if rest, ok := strings.CutPrefix(remoteURL, "git@"); ok {
		if idx := strings.Index(rest, ":"); idx > 0 {
			return rest[:idx]
		}
	}
	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		if strings.HasPrefix(remoteURL, scheme) {
			if parsed, err := url.Parse(remoteURL); err == nil {
				return parsed.Hostname()
			}
		}
	}
	return ""
}

func isGitLab(remoteURL string) bool {
	u := strings.ToLower(remoteURL)
	return strings.Contains(u, "gitlab.com") ||
		strings.Contains(u, "gitlab.") ||
		strings.Contains(u, "/gitlab/")
}
