package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/raphi011/wtree/internal/prstatus"
)

// SanitizeForPath replaces characters that are problematic in file paths
// Replaces: / \ : * ? " < > | with -
func SanitizeForPath(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
	)
	return replacer.Replace(name)
}

// Age renders the time since t compactly: "now", "12m", "5h", "3d", "6w".
func Age(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d < 14*24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	default:
		return fmt.Sprintf("%dw", int(d/(7*24*time.Hour)))
	}
}

// PRSummary renders a lookup result as plain text, e.g.
// "#12 OPEN passing". Returns "" when there is nothing to say.
func PRSummary(r prstatus.Result) string {
	switch r.Kind {
	case prstatus.Found:
		s := fmt.Sprintf("#%d %s", r.Status.Number, r.Status.State)
		if b := r.Status.BuildStatus(); b != prstatus.BuildNone {
			s += " " + string(b)
		}
		return s
	case prstatus.Failed:
		return "PR ?"
	default:
		return ""
	}
}
