package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// genCompletion writes root's completion script for shell to w.
func genCompletion(root *cobra.Command, w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	}
	return fmt.Errorf("unsupported shell %q (want bash, zsh or fish)", shell)
}
