// Package format turns worktree data into plain text: directory names
// for branches, relative ages, and one-line pull request summaries.
//
// # Path Sanitization
//
// Branch names are sanitized to create valid filesystem paths.
// Characters replaced with "-": / \ : * ? " < > |
//
// This ensures branches like "feature/my-branch" become "feature-my-branch"
// in the folder name.
//
// Output from this package carries no ANSI styling, so it can be fed to the
// fuzzy matcher as is.
package format
