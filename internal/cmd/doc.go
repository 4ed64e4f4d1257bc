// Package cmd runs external programs for wtree.
//
// Every invocation is traced through the context logger. When a command fails,
// its trimmed stderr becomes the error message so git, gh and glab failures
// reach the user unchanged.
//
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "rev-parse", "HEAD")
//	if err != nil {
//	    return fmt.Errorf("resolve HEAD: %w", err)
//	}
//
// Cancelling the context kills the child and returns the context error.
package cmd
