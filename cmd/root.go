// Package cmd provides the CLI commands for gitver.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/buildstamp/gitver/internal/domain"
)

// Logger defines the logging interface used by the commands.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the commands.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*AppConfig, error)

	// Prober reports whether any candidate directory carries a
	// repository marker.
	Prober func(candidateDirs ...string) bool

	// GatewayFactory opens a RepositoryGateway at the given path.
	GatewayFactory func(path string, log Logger) (domain.RepositoryGateway, error)

	// QueryFactory creates a VersionQuery with the given probe and opener.
	QueryFactory func(
		probe func() bool,
		open func(ctx context.Context) (domain.RepositoryGateway, error),
		log Logger,
	) domain.VersionQuery

	// OutputWriterFactory creates an OutputWriter for the named format
	// writing to out.
	OutputWriterFactory func(format string, out io.Writer) (domain.OutputWriter, error)

	// Environment returns the process environment snapshot consulted for
	// branch overrides.
	Environment func() map[string]string

	// Stdout is the writer for the derived record and tag lists.
	Stdout io.Writer

	// Stderr is the writer for warnings and errors.
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// RepositoryRoot is the explicit repository root override.
	RepositoryRoot string

	// BranchVars is the ordered list of branch-override env var names.
	BranchVars []string

	// IgnorePrefix excludes unstaged paths beneath it from the dirty check.
	IgnorePrefix string

	// LogLevel is the log level setting.
	LogLevel string

	// LogAppName is the application name for logging.
	LogAppName string
}

// Command-line flags.
var (
	formatName   string
	branchVars   []string
	ignorePrefix string
	verbose      bool
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for gitver.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitver [path]",
		Short: "Derive a version descriptor from local Git repository state",
		Long: `gitver derives a structured version descriptor from the state of a local
Git repository: branch, commit, tag on HEAD, dirty flag, shallow flag, and a
computed version name and integer version code suitable for stamping build
artifacts.

The branch may be overridden through environment variables such as
BRANCH_NAME, consulted in a configurable order. The dirty flag filters out
environment-local noise paths so CI builds outside a normal working copy do
not report false positives. When no repository is present an empty record
is emitted and the exit code stays zero.

Examples:
  # Derive the version record for the current directory
  gitver

  # Derive from a specific path, as properties for a build manifest
  gitver /path/to/repo --format properties

  # Consult a custom branch override variable first
  gitver --branch-var RELEASE_BRANCH --branch-var BRANCH_NAME`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, args, deps)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose/debug logging")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "json",
		"Output format: json, plain, or properties")
	rootCmd.Flags().StringArrayVar(&branchVars, "branch-var", nil,
		"Branch override environment variable, in priority order (repeatable)")
	rootCmd.Flags().StringVar(&ignorePrefix, "ignore-prefix", "",
		"Unstaged path prefix excluded from the dirty check")

	rootCmd.AddCommand(newTagsCmd(deps))
	rootCmd.AddCommand(newLatestCmd(deps))

	return rootCmd
}

// commandContext assembles the shared per-invocation state for a command.
type commandContext struct {
	ctx   context.Context
	log   Logger
	cfg   *AppConfig
	query domain.VersionQuery
}

// setupCommand loads configuration, builds the probe over the candidate
// directories, and creates the version query. The explicit path argument
// takes precedence over the configured repository root; the working
// directory and its parent (the enclosing project root, in a multi-project
// checkout) are probed as fallbacks.
func setupCommand(cmd *cobra.Command, args []string, deps *Dependencies) (*commandContext, error) {
	if deps == nil {
		return nil, errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	if verbose {
		if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
			writeWarningf(stderr, "warning: could not set log level: %v\n", err)
		}
	}

	log := deps.LoggerFactory()

	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	explicitRoot := cfg.RepositoryRoot
	if len(args) > 0 {
		explicitRoot = args[0]
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	candidates := []string{explicitRoot, workDir, filepath.Dir(workDir)}
	probe := func() bool {
		return deps.Prober(candidates...)
	}

	openPath := explicitRoot
	if openPath == "" {
		openPath = workDir
	}
	open := func(ctx context.Context) (domain.RepositoryGateway, error) {
		gateway, err := deps.GatewayFactory(openPath, log)
		if err != nil {
			log.Error(ctx, "failed to open git repository", err, map[string]interface{}{
				"path": openPath,
			})
			return nil, err
		}
		return gateway, nil
	}

	return &commandContext{
		ctx:   ctx,
		log:   log,
		cfg:   cfg,
		query: deps.QueryFactory(probe, open, log),
	}, nil
}

// runVersion derives one version record and writes it to stdout.
func runVersion(cmd *cobra.Command, args []string, deps *Dependencies) error {
	cc, err := setupCommand(cmd, args, deps)
	if err != nil {
		return err
	}

	vars := cc.cfg.BranchVars
	if len(branchVars) > 0 {
		vars = branchVars
	}
	prefix := cc.cfg.IgnorePrefix
	if cmd.Flags().Changed("ignore-prefix") {
		prefix = ignorePrefix
	}

	record, err := cc.query.GetInfo(cc.ctx, domain.DeriveInput{
		BranchEnvVars: vars,
		IgnorePrefix:  prefix,
		Environment:   deps.Environment(),
	})
	if err != nil {
		cc.log.Error(cc.ctx, "failed to derive version record", err, nil)
		return mapDomainError(err)
	}

	writer, err := newWriter(deps, formatName)
	if err != nil {
		return err
	}
	if err := writer.WriteRecord(record); err != nil {
		cc.log.Error(cc.ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}

	cc.log.Info(cc.ctx, "version derivation complete", map[string]interface{}{
		"branch":       record.Branch,
		"version_name": record.VersionName,
		"version_code": record.VersionCode,
		"dirty":        record.Dirty,
	})
	return nil
}

func newWriter(deps *Dependencies, format string) (domain.OutputWriter, error) {
	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	return deps.OutputWriterFactory(format, stdout)
}

// mapDomainError translates domain sentinels into operator-facing messages.
func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoCommits):
		return fmt.Errorf("repository has no commits; cannot compute a version")
	case errors.Is(err, domain.ErrDescribeParse):
		return fmt.Errorf("unsupported repository state: %w", err)
	case errors.Is(err, domain.ErrRepositoryUnavailable):
		return fmt.Errorf("repository metadata could not be opened")
	default:
		return err
	}
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored.
func writeWarningf(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	_, _ = io.WriteString(w, msg)
}
