package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultWorktreesRoot = "~/worktrees"
	DefaultRegistryPath  = "~/.wtree/projects.json"
	DefaultRemote        = "origin"
	DefaultMaxPRLookups  = 8
	DefaultRemoteTimeout = 10 * time.Second
	DefaultForgeTimeout  = 15 * time.Second
)

// Hook is a command run inside a freshly created worktree.
type Hook struct {
	Name        string `toml:"-"`
	Command     string `toml:"command"`
	Description string `toml:"description"`
}

// Timeouts bound calls that leave the machine.
type Timeouts struct {
	Remote time.Duration // git ls-remote and friends
	Forge  time.Duration // gh / glab
}

// Config holds the wtree configuration.
type Config struct {
	WorktreesRoot string
	RegistryPath  string
	LogFile       string
	Remote        string
	AsyncCheckout bool
	MaxPRLookups  int
	PostCreate    []Hook // sorted by name
	Timeouts      Timeouts
	Hosts         map[string]string // domain -> "github" | "gitlab"
}

type rawTimeouts struct {
	Remote string `toml:"remote"`
	Forge  string `toml:"forge"`
}

type rawConfig struct {
	WorktreesRoot string            `toml:"worktrees_root"`
	RegistryPath  string            `toml:"registry_path"`
	LogFile       string            `toml:"log_file"`
	Remote        string            `toml:"remote"`
	AsyncCheckout bool              `toml:"async_checkout"`
	MaxPRLookups  int               `toml:"max_pr_lookups"`
	PostCreate    map[string]Hook   `toml:"post_create"`
	Timeouts      rawTimeouts       `toml:"timeouts"`
	Hosts         map[string]string `toml:"hosts"`
}

// Default returns the configuration used when no file exists.
// Paths are returned with ~ expanded when the home directory is known.
func Default() Config {
	return Config{
		WorktreesRoot: mustExpand(DefaultWorktreesRoot),
		RegistryPath:  mustExpand(DefaultRegistryPath),
		Remote:        DefaultRemote,
		MaxPRLookups:  DefaultMaxPRLookups,
		Timeouts: Timeouts{
			Remote: DefaultRemoteTimeout,
			Forge:  DefaultForgeTimeout,
		},
	}
}

// Path returns the config file location, honoring WTREE_CONFIG.
func Path() (string, error) {
	if p := os.Getenv("WTREE_CONFIG"); p != "" {
		return expandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "wtree", "config.toml"), nil
}

// Load reads the config file at Path and applies env overrides.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}
	return LoadFile(path)
}

// LoadFile reads the config at path and applies env overrides.
// Returns Default() with overrides if the file doesn't exist.
// Returns an error only if the file exists but is invalid.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return applyEnv(cfg)
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Default()

	paths := []struct {
		value string
		field string
		dst   *string
	}{
		{raw.WorktreesRoot, "worktrees_root", &cfg.WorktreesRoot},
		{raw.RegistryPath, "registry_path", &cfg.RegistryPath},
		{raw.LogFile, "log_file", &cfg.LogFile},
	}
	for _, p := range paths {
		if p.value == "" {
			continue
		}
		if err := ValidatePath(p.value, p.field); err != nil {
			return cfg, err
		}
		expanded, err := expandPath(p.value)
		if err != nil {
			return cfg, fmt.Errorf("expand %s: %w", p.field, err)
		}
		*p.dst = expanded
	}

	if raw.Remote != "" {
		cfg.Remote = raw.Remote
	}
	cfg.AsyncCheckout = raw.AsyncCheckout

	switch {
	case raw.MaxPRLookups < 0:
		return cfg, fmt.Errorf("max_pr_lookups must be positive, got %d", raw.MaxPRLookups)
	case raw.MaxPRLookups > 0:
		cfg.MaxPRLookups = raw.MaxPRLookups
	}

	var err error
	if cfg.Timeouts.Remote, err = parseTimeout(raw.Timeouts.Remote, "timeouts.remote", DefaultRemoteTimeout); err != nil {
		return cfg, err
	}
	if cfg.Timeouts.Forge, err = parseTimeout(raw.Timeouts.Forge, "timeouts.forge", DefaultForgeTimeout); err != nil {
		return cfg, err
	}

	for host, forgeType := range raw.Hosts {
		if forgeType != "github" && forgeType != "gitlab" {
			return cfg, fmt.Errorf("invalid forge type %q for host %q: must be \"github\" or \"gitlab\"", forgeType, host)
		}
	}
	cfg.Hosts = raw.Hosts

	names := make([]string, 0, len(raw.PostCreate))
	for name := range raw.PostCreate {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		hook := raw.PostCreate[name]
		if hook.Command == "" {
			return cfg, fmt.Errorf("post_create.%s: command is required", name)
		}
		hook.Name = name
		cfg.PostCreate = append(cfg.PostCreate, hook)
	}

	return cfg, nil
}

func applyEnv(cfg Config) (Config, error) {
	overrides := []struct {
		env string
		dst *string
	}{
		{"WTREE_ROOT", &cfg.WorktreesRoot},
		{"WTREE_REGISTRY", &cfg.RegistryPath},
	}
	for _, o := range overrides {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		if err := ValidatePath(v, o.env); err != nil {
			return cfg, err
		}
		expanded, err := expandPath(v)
		if err != nil {
			return cfg, fmt.Errorf("expand %s: %w", o.env, err)
		}
		*o.dst = expanded
	}
	return cfg, nil
}

func parseTimeout(value, field string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return d, nil
}

// ValidatePath checks that the path is absolute or starts with ~.
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

func expandPath(path string) (string, error) {
	switch {
	case path == "~":
		return os.UserHomeDir()
	case len(path) >= 2 && path[:2] == "~/":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

type ctxKey struct{}

// WithConfig attaches cfg to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the attached config, or Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}
