// Package config loads wtree's settings.
//
// Configuration is read from ~/.config/wtree/config.toml. A missing file is
// not an error: every key has a default.
//
// # Sources (highest priority first)
//
//   - WTREE_ROOT env var: worktrees root
//   - WTREE_REGISTRY env var: project registry file
//   - Config file settings
//   - Default values
//
// WTREE_CONFIG points at an alternative config file.
//
// # Example
//
//	worktrees_root = "~/worktrees"
//	registry_path  = "~/.wtree/projects.json"
//	log_file       = "~/.wtree/wtree.log"
//	remote         = "origin"
//	async_checkout = false
//	max_pr_lookups = 8
//
//	[timeouts]
//	remote = "10s"
//	forge  = "15s"
//
//	[post_create.deps]
//	command     = "npm install"
//	description = "Install dependencies"
//
//	[hosts]
//	"github.mycompany.com" = "github"
//	"gitlab.internal.corp" = "gitlab"
//
// Path settings must be absolute or start with ~.
package config
