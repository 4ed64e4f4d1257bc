package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/wtree/internal/log"
)

func logCtx() context.Context {
	return log.WithLogger(context.Background(), log.New(&bytes.Buffer{}, false, false))
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "success", args: []string{"-c", "exit 0"}},
		{name: "exit code without stderr", args: []string{"-c", "exit 3"}, wantErr: "exit status 3"},
		{name: "stderr becomes message", args: []string{"-c", "echo 'fatal: not a git repository' >&2; exit 128"}, wantErr: "fatal: not a git repository"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RunContext(logCtx(), "", "sh", tt.args...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("RunContext() error = %v, want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("RunContext() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunContext_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	if err := RunContext(ctx, "", "sleep", "10"); !errors.Is(err, context.Canceled) {
		t.Errorf("RunContext() error = %v, want context.Canceled", err)
	}
}

func TestOutputContext_Timeout(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(logCtx(), 50*time.Millisecond)
	defer cancel()
	_, err := OutputContext(ctx, "", "sleep", "10")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("OutputContext() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestOutputContext_Dir(t *testing.T) {
	t.Parallel()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	out, err := OutputContext(logCtx(), dir, "pwd")
	if err != nil {
		t.Fatalf("OutputContext(pwd) error = %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestOutputContext_TracesVerbose(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&buf, true, false))
	out, err := OutputContext(ctx, "", "echo", "hello")
	if err != nil {
		t.Fatalf("OutputContext() error = %v", err)
	}
	if string(out) != "hello\n" {
		t.Errorf("output = %q, want %q", out, "hello\n")
	}
	if !strings.Contains(buf.String(), "$ echo hello") {
		t.Errorf("trace = %q, want command line", buf.String())
	}
}

func TestStartDetached(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := StartDetached(logCtx(), dir, "sh", "-c", "touch done"); err != nil {
		t.Fatalf("StartDetached() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(filepath.Join(dir, "done")); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("detached command did not run")
}
