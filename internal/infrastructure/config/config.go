// Package config provides configuration loading for the gitver application.
// Settings come from environment variables with defaults, optionally layered
// over a YAML settings file pointed to by GITVER_CONFIG.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Environment variable names.
const (
	// EnvConfigFile is the path to an optional YAML settings file.
	EnvConfigFile = "GITVER_CONFIG"

	// EnvRepoRoot overrides the repository root directory.
	EnvRepoRoot = "GITVER_REPO_ROOT"

	// EnvBranchVars is a comma-separated, ordered list of environment
	// variable names consulted for a branch override.
	EnvBranchVars = "GITVER_BRANCH_VARS"

	// EnvIgnorePrefix is the unstaged-path prefix excluded from the
	// dirty check.
	EnvIgnorePrefix = "GITVER_IGNORE_PREFIX"

	// EnvLogLevel is the log level (debug, info, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"
)

// Default values.
const (
	DefaultIgnorePrefix = "sandbox/"
	DefaultLogLevel     = "info"
	DefaultLogAppName   = "gitver"
)

// DefaultBranchVars is the default ordered list of branch-override
// environment variable names, covering the common CI systems.
var DefaultBranchVars = []string{"BRANCH_NAME", "CI_COMMIT_REF_NAME", "GITHUB_REF_NAME"}

// Configuration errors.
var (
	// ErrConfigFileNotFound indicates GITVER_CONFIG points at a missing file.
	ErrConfigFileNotFound = errors.New("settings file not found")

	// ErrConfigFileInvalid indicates the settings file is not valid YAML.
	ErrConfigFileInvalid = errors.New("settings file is not valid YAML")
)

// fileSettings is the YAML shape of the optional settings file.
type fileSettings struct {
	RepositoryRoot string   `yaml:"repositoryRoot"`
	BranchVars     []string `yaml:"branchVars"`
	IgnorePrefix   string   `yaml:"ignorePrefix"`
}

// Config holds all application configuration.
type Config struct {
	// RepositoryRoot is the explicit repository root override, empty when
	// the working directory should be probed instead.
	RepositoryRoot string

	// BranchVars is the ordered list of environment variable names
	// consulted for a branch override.
	BranchVars []string

	// IgnorePrefix excludes unstaged paths beneath it from the dirty check.
	IgnorePrefix string

	// LogLevel is the logging level (debug, info, error).
	LogLevel string

	// LogAppName is the application name for log context.
	LogAppName string
}

// Load loads the application configuration. Defaults are applied first,
// then the optional YAML settings file, then environment variables, so
// the environment always wins.
func Load() (*Config, error) {
	cfg := &Config{
		BranchVars:   append([]string(nil), DefaultBranchVars...),
		IgnorePrefix: DefaultIgnorePrefix,
		LogLevel:     DefaultLogLevel,
		LogAppName:   DefaultLogAppName,
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if root := os.Getenv(EnvRepoRoot); root != "" {
		cfg.RepositoryRoot = root
	}
	if vars := os.Getenv(EnvBranchVars); vars != "" {
		cfg.BranchVars = splitList(vars)
	}
	if prefix, ok := os.LookupEnv(EnvIgnorePrefix); ok {
		cfg.IgnorePrefix = prefix
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if name := os.Getenv(EnvLogAppName); name != "" {
		cfg.LogAppName = name
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings fileSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFileInvalid, err)
	}

	if settings.RepositoryRoot != "" {
		cfg.RepositoryRoot = settings.RepositoryRoot
	}
	if len(settings.BranchVars) > 0 {
		cfg.BranchVars = settings.BranchVars
	}
	if settings.IgnorePrefix != "" {
		cfg.IgnorePrefix = settings.IgnorePrefix
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
