// Package log provides context-aware logging for wtree.
//
// Human-facing diagnostics go to the configured writer (stderr). Debug
// records go through zap: a console core on that writer in verbose mode, and
// a JSON core on an optional rotating log file.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger provides diagnostic output, verbose command tracing and debug records.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
	console zapcore.Core
	debug   *zap.SugaredLogger // console and file
	file    *zap.SugaredLogger // file only
	sink    *lumberjack.Logger
}

// New creates a new logger. quiet suppresses everything, including verbose output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	l := &Logger{out: out, verbose: verbose, quiet: quiet, console: zapcore.NewNopCore()}
	if l.IsVerbose() {
		encCfg := zapcore.EncoderConfig{
			MessageKey:       "msg",
			LineEnding:       zapcore.DefaultLineEnding,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		}
		l.console = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), zapcore.DebugLevel)
	}
	l.debug = zap.New(l.console).Sugar()
	l.file = zap.NewNop().Sugar()
	return l
}

// AttachFile adds a rotating JSON debug log at path.
// Debug records are written there regardless of the verbose flag.
func (l *Logger) AttachFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	l.sink = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 3,
		MaxAge:     14,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(l.sink), zapcore.DebugLevel).
		With([]zapcore.Field{zap.Int("pid", os.Getpid())})
	l.file = zap.New(fileCore).Sugar()
	l.debug = zap.New(zapcore.NewTee(l.console, fileCore)).Sugar()
	return nil
}

// Close flushes and closes the debug log file, if any.
func (l *Logger) Close() error {
	_ = l.debug.Sync()
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a logger writing to io.Discard if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New(io.Discard, false, false)
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Command logs an external command execution and returns a callback that
// reports its duration. Only prints in verbose mode.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	l.file.Debugw("exec", "dir", dir, "cmd", line)

	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	prefix := "$ "
	if dir != "" {
		prefix = "[" + dir + "] $ "
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s%s (%s)\n", prefix, line, d.Round(time.Millisecond))
	}
}

// Debug writes a message with key-value pairs to the console in verbose mode
// and to the log file. Incomplete trailing pairs are dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.debug.Debugw(msg, keyvals[:len(keyvals)-len(keyvals)%2]...)
}

// IsVerbose returns true if verbose output is enabled and not silenced.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
