// Package worktree creates, lists and removes the worktrees of a project.
//
// Worktrees live at <root>/<project>/<dir>. The directory is the only
// record of a worktree: listing scans the filesystem on every call and
// nothing is cached. Each created worktree carries a small marker file
// (.wtree.yaml) holding the branch name, since the directory name cannot
// represent slashes.
//
// Creation is idempotent. When the directory already exists, Create
// returns it without touching git.
//
// Removal never deletes the process's working directory out from under it.
// If the working directory is inside the worktree, the process is first
// relocated to the project's main checkout.
package worktree
