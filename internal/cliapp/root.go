// Package cliapp wires PowerSQL's cobra command tree to internal/config,
// internal/engine, internal/depgraph and the backend packages, the way the
// teacher's internal/cli wires its commands to internal/engine.
package cliapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/PowerSQL/PowerSQL/internal/backend/bigquery"
	"github.com/PowerSQL/PowerSQL/internal/backend/postgres"
	"github.com/PowerSQL/PowerSQL/internal/config"
	"github.com/PowerSQL/PowerSQL/internal/engine"
)

// Version is set at build time (teacher's cmd/leapsql version-variable idiom).
var Version = "0.1.0"

var (
	cfgFile     string
	verbose     bool
	outputMode  string
	backendName string
)

// NewRootCmd builds the root command and its subcommand tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "powersql",
		Short:   "PowerSQL - a build tool for SQL data pipelines",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./powersql.toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	root.PersistentFlags().StringVarP(&outputMode, "output", "o", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&backendName, "backend", "postgres", "execution backend (postgres|bigquery)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newTestCmd())

	return root
}

// Execute runs the root command, printing any error to stderr.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger builds the shared slog logger, text or JSON handler depending on
// --output, level controlled by --verbose (spec's ambient logging section).
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if outputMode == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig loads powersql.toml layered with env vars and the command's
// changed flags (internal/config.Load).
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(cfgFile, cmd.Flags())
}

// loadProject discovers model files from cfg.Project.Models and builds the
// dependency graph (internal/engine.Load, internal/config.DiscoverSQLFiles).
func loadProject(cfg *config.Config) (*engine.Project, error) {
	paths, err := config.DiscoverSQLFiles(cfg.Project.Models)
	if err != nil {
		return nil, fmt.Errorf("discovering models: %w", err)
	}
	return engine.Load(paths)
}

// newBackend opens the backend selected by --backend (spec §4.6: backend
// selection is a startup-time decision external to the core).
func newBackend(ctx context.Context, logger *slog.Logger) (engine.Executor, error) {
	switch backendName {
	case "postgres":
		return postgres.New(ctx, logger)
	case "bigquery":
		return bigquery.New(ctx, logger)
	default:
		return nil, fmt.Errorf("unknown backend %q (want postgres or bigquery)", backendName)
	}
}
