package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/git"
	"github.com/raphi011/wtree/internal/log"
	"github.com/raphi011/wtree/internal/output"
	"github.com/raphi011/wtree/internal/shell"
	"github.com/raphi011/wtree/internal/ui/progress"
	"github.com/raphi011/wtree/internal/ui/prompt"
	"github.com/raphi011/wtree/internal/ui/styles"
)

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wtree [branch]",
		Short: "Git worktree manager for many repositories",
		Long: `wtree keeps the worktrees of all registered projects under one root
(~/worktrees/<project>/<branch> by default) and moves your shell between them.

Without arguments it opens a fuzzy navigator: pick a project, then one of its
worktrees. Any argument that is not a subcommand is a branch name: wtree
creates (or reuses) its worktree and changes into it, registering the
current repository first if needed.

Changing the shell's directory needs the wrapper from 'wtree --init <shell>'.`,
		Example: `  wtree                  # Navigate projects and worktrees
  wtree feature-x        # Create worktree for feature-x and cd into it
  wtree ls               # List worktrees of the current project
  wtree rm               # Remove the current worktree
  wtree prune            # Remove merged worktrees of all projects
  eval "$(wtree --init zsh)"
  wtree --completion fish > ~/.config/fish/completions/wtree.fish`,
		Args:                       cobra.MaximumNArgs(1),
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = log.New(a.stderr, a.verbose, a.quiet)
			if err := a.logger.AttachFile(a.cfg.LogFile); err != nil {
				a.logger.Printf("Warning: %v\n", err)
			}

			ctx := log.WithLogger(cmd.Context(), a.logger)
			ctx = output.WithPrinter(ctx, a.stdout)
			ctx = config.WithConfig(ctx, a.cfg)
			cmd.SetContext(ctx)

			// Skip git check for completion and shell setup
			if cmd.Name() == "__complete" || a.initShell != "" || a.completion != "" {
				return nil
			}
			return git.CheckGit()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.initShell != "" {
				script, err := shell.Script(a.initShell)
				if err != nil {
					return err
				}
				fmt.Fprint(a.stdout, script)
				return nil
			}
			if a.completion != "" {
				return genCompletion(cmd.Root(), a.stdout, a.completion)
			}
			if len(args) == 0 {
				return runNavigate(cmd.Context(), a)
			}
			return runCreate(cmd.Context(), a, args[0])
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show external commands being executed")
	cmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	cmd.PersistentFlags().BoolVar(&a.copyTarget, "copy", false, "Copy the target directory to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.Flags().StringVar(&a.initShell, "init", "", "Print the shell wrapper for `shell` (bash, zsh, fish)")
	_ = cmd.RegisterFlagCompletionFunc("init", cobra.FixedCompletions(shell.Shells, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().StringVar(&a.completion, "completion", "", "Print the completion script for `shell` (bash, zsh, fish)")
	_ = cmd.RegisterFlagCompletionFunc("completion", cobra.FixedCompletions(shell.Shells, cobra.ShellCompDirectiveNoFileComp))
	cmd.MarkFlagsMutuallyExclusive("init", "completion")

	// Every word other than the four subcommands is a branch name, so
	// cobra's help and completion commands stay out of the way.
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newRmCmd(a))
	cmd.AddCommand(newPruneCmd(a))
	cmd.AddCommand(newAddCmd(a))

	return cmd
}

// Execute runs wtree with the process arguments and exits on failure.
func Execute() {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := &app{
		cfg:       &loadedCfg,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		relocator: shell.NewRelocator(os.Stdout),
		selector:  prompt.Selector{},
		confirm:   prompt.Confirmer{},
		wait:      progress.Run,
	}

	err = execute(ctx, a, os.Args[1:])
	if a.logger != nil {
		_ = a.logger.Close()
	}
	if err != nil {
		printError(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// execute runs one invocation and hands any relocation target to the shell,
// even when the command failed after moving.
func execute(ctx context.Context, a *app, args []string) error {
	if args == nil {
		args = []string{}
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	runErr := root.ExecuteContext(ctx)

	if err := a.relocator.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("report target directory: %w", err)
	}
	if target := a.relocator.Target(); a.copyTarget && target != "" {
		if err := clipboard.WriteAll(target); err != nil {
			fmt.Fprintf(a.stderr, "Warning: copy to clipboard: %v\n", err)
		}
	}
	return runErr
}

// printError writes err as a single line, red on a terminal.
func printError(w io.Writer, err error) {
	msg := "wtree: " + strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", " ")
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		msg = styles.ErrorStyle.Render(msg)
	}
	fmt.Fprintln(w, msg)
}
