// Package main is the entry point for the gitver CLI application.
// gitver derives a structured version descriptor from local Git repository
// state for consumption by build pipelines that stamp artifacts.
package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/MyCarrier-DevOps/goLibMyCarrier/logger"

	"github.com/buildstamp/gitver/cmd"
	"github.com/buildstamp/gitver/internal/adapters/git"
	logadapter "github.com/buildstamp/gitver/internal/adapters/logger"
	"github.com/buildstamp/gitver/internal/adapters/output"
	"github.com/buildstamp/gitver/internal/domain"
	"github.com/buildstamp/gitver/internal/infrastructure/config"
	"github.com/buildstamp/gitver/internal/usecases"
)

func main() {
	// Create a single shared logger instance for the application
	zapLog := logger.NewZapLoggerFromConfig()
	adapter := logadapter.NewZapAdapter(zapLog)

	// Wire up production dependencies
	deps := &cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			return adapter
		},

		ConfigLoader: func() (*cmd.AppConfig, error) {
			cfg, err := config.Load()
			if err != nil {
				return nil, err
			}
			return &cmd.AppConfig{
				RepositoryRoot: cfg.RepositoryRoot,
				BranchVars:     cfg.BranchVars,
				IgnorePrefix:   cfg.IgnorePrefix,
				LogLevel:       cfg.LogLevel,
				LogAppName:     cfg.LogAppName,
			}, nil
		},

		Prober: git.Exists,

		GatewayFactory: func(path string, _ cmd.Logger) (domain.RepositoryGateway, error) {
			return git.Open(path, adapter)
		},

		QueryFactory: func(
			probe func() bool,
			open func(ctx context.Context) (domain.RepositoryGateway, error),
			_ cmd.Logger,
		) domain.VersionQuery {
			return usecases.NewVersionResolver(probe, open, adapter)
		},

		OutputWriterFactory: func(format string, out io.Writer) (domain.OutputWriter, error) {
			parsed, err := output.ParseFormat(format)
			if err != nil {
				return nil, err
			}
			return output.NewWriterWithOutput(out, parsed), nil
		},

		Environment: processEnvironment,

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	cmd.SetDefaultDependencies(deps)
	cmd.Execute()
}

// processEnvironment snapshots the process environment into a map, so
// branch override resolution stays a pure function of its inputs.
func processEnvironment() map[string]string {
	environ := os.Environ()
	env := make(map[string]string, len(environ))
	for _, entry := range environ {
		if key, value, ok := strings.Cut(entry, "="); ok {
			env[key] = value
		}
	}
	return env
}
