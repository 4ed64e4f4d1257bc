// Package git wraps the git operations wtree needs.
//
// Mutations and anything that talks to a remote shell out to the git CLI so
// that user configuration (SSH keys, credential helpers, hooks) applies.
// Local read-only queries that are hot on the navigation path, such as
// locating the repository root and checking for a local branch, go through
// go-git and avoid a process spawn.
//
// # Worktree operations
//
//   - [AddWorktree]: register a worktree without checking files out
//   - [CheckoutWorktree], [CheckoutWorktreeDetached]: materialize files
//   - [RemoveWorktree], [PruneWorktrees]: tear down
//
// # Queries
//
//   - [RepoRoot], [LocalBranchExists]: go-git backed
//   - [RemoteBranchExists], [GetDefaultBranch], [GetOriginURL]
//   - [StatusPorcelain], [GetUpstreamRef], [CountUnpushed]
package git
