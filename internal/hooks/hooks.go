package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/wtree/internal/config"
	"github.com/raphi011/wtree/internal/log"
)

// shellQuote escapes a string for safe use in shell commands.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values from hc.
// Unknown placeholders are left untouched.
func SubstitutePlaceholders(command string, hc Context) string {
	r := strings.NewReplacer(
		"{path}", shellQuote(hc.Path),
		"{branch}", shellQuote(hc.Branch),
		"{project}", shellQuote(hc.Project),
		"{main-repo}", shellQuote(hc.MainRepo),
		"{trigger}", shellQuote(hc.Trigger),
	)
	return r.Replace(command)
}

// RunAll runs every hook in order inside hc.Path. Failures are logged as
// warnings and the remaining hooks still run. Returns the number of hooks
// that failed.
func RunAll(ctx context.Context, hooks []config.Hook, hc Context) int {
	l := log.FromContext(ctx)
	failed := 0
	for _, h := range hooks {
		if err := runHook(ctx, h, hc); err != nil {
			l.Printf("Warning: hook %q failed for %s: %v\n", h.Name, hc.Branch, err)
			failed++
		}
	}
	return failed
}

// runHook executes a single hook with placeholder substitution.
func runHook(ctx context.Context, h config.Hook, hc Context) error {
	l := log.FromContext(ctx)
	line := SubstitutePlaceholders(h.Command, hc)

	l.Printf("Running hook '%s'...\n", h.Name)
	l.Debug("hook", "name", h.Name, "command", line, "dir", hc.Path)

	c := exec.CommandContext(ctx, "sh", "-c", line)
	c.Dir = hc.Path
	c.Stdout = l.Writer()
	c.Stderr = l.Writer()
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", h.Command, err)
	}

	if h.Description != "" {
		l.Printf("  ✓ %s\n", h.Description)
	}
	return nil
}
