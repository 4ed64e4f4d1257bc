// Package hooks runs the post_create commands from the config inside a
// freshly created worktree.
//
// Example config:
//
//	[post_create.deps]
//	command = "npm install"
//	description = "Install dependencies"
//
//	[post_create.editor]
//	command = "code {path}"
//
// # Placeholder Substitution
//
//   - {path}: Absolute worktree path
//   - {branch}: Branch name
//   - {project}: Registered project name
//   - {main-repo}: Main repo path
//   - {trigger}: Command that triggered the hook
//
// Values are shell-quoted before substitution.
//
// Hooks run through sh -c with the worktree as working directory. Their
// output goes to the diagnostic stream so stdout stays free for the
// relocation target. A failing hook is reported as a warning and never
// undoes the worktree.
package hooks
