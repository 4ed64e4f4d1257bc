package format

import (
	"errors"
	"testing"
	"time"

	"github.com/raphi011/wtree/internal/prstatus"
)

func TestSanitizeForPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"feature-x", "feature-x"},
		{"feature/my-branch", "feature-my-branch"},
		{"user/jdoe/fix", "user-jdoe-fix"},
		{`a\b:c*d?e"f<g>h|i`, "a-b-c-d-e-f-g-h-i"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeForPath(tt.input); got != tt.expected {
				t.Errorf("SanitizeForPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago      time.Duration
		expected string
	}{
		{10 * time.Second, "now"},
		{12 * time.Minute, "12m"},
		{5*time.Hour + 30*time.Minute, "5h"},
		{3 * 24 * time.Hour, "3d"},
		{13 * 24 * time.Hour, "13d"},
		{6 * 7 * 24 * time.Hour, "6w"},
	}
	for _, tt := range tests {
		if got := Age(now.Add(-tt.ago), now); got != tt.expected {
			t.Errorf("Age(-%s) = %q, want %q", tt.ago, got, tt.expected)
		}
	}
}

func TestPRSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   prstatus.Result
		expected string
	}{
		{"not queried", prstatus.Result{}, ""},
		{"no pr", prstatus.Result{Kind: prstatus.NoPR}, ""},
		{"failed", prstatus.Result{Kind: prstatus.Failed, Err: errors.New("timeout")}, "PR ?"},
		{
			"found without checks",
			prstatus.Result{Kind: prstatus.Found, Status: &prstatus.PRStatus{Number: 3, State: "MERGED"}},
			"#3 MERGED",
		},
		{
			"found with checks",
			prstatus.Result{Kind: prstatus.Found, Status: &prstatus.PRStatus{
				Number: 12, State: "OPEN", ChecksTotal: 2, ChecksPassed: 1, ChecksPending: 1,
			}},
			"#12 OPEN pending",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PRSummary(tt.result); got != tt.expected {
				t.Errorf("PRSummary() = %q, want %q", got, tt.expected)
			}
		})
	}
}
