package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/registry"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [path]",
		Short: "Register a repository",
		Args:  cobra.MaximumNArgs(1),
		Long: `Register the git repository containing path (default: the current
directory). The project is named after the repository's directory.`,
		Example: `  wtree add                # Register the current repository
  wtree add ~/src/api      # Register another repository`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			if path == "." {
				wd, err := a.relocator.Getwd()
				if err != nil {
					return err
				}
				path = wd
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", path, err)
			}

			var p registry.Project
			err = registry.Update(ctx, a.cfg.RegistryPath, func(r *registry.Registry) error {
				added, addErr := r.Add(ctx, absPath)
				p = added
				return addErr
			})
			if err != nil {
				return err
			}

			l.Printf("Registered project %s (%s)\n", p.Name, p.Path)
			return nil
		},
	}
}
