// Package forge queries git hosting services for pull request state.
//
// GitHub is reached through the gh CLI and GitLab through glab, so whatever
// authentication the user configured for those tools applies.
//
// # Platform Detection
//
// Use [Detect] to pick the forge for a repository's remote URL:
//
//  1. Custom host mappings from config (self-hosted instances)
//  2. URL patterns (gitlab.com, gitlab.* domains, /gitlab/ paths)
//  3. Falls back to GitHub
//
// # Checks
//
// Both platforms report CI results differently. Each result is normalized
// to a [CheckState] so callers can count passes, failures and pending runs
// without caring where they came from. On GitLab the merge request's head
// pipeline is reported as a single check.
package forge
