package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PowerSQL/PowerSQL/internal/config"
	"github.com/PowerSQL/PowerSQL/internal/depgraph"
	"github.com/PowerSQL/PowerSQL/internal/engine"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Type-check every model and test without materializing anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			project, err := loadProject(cfg)
			if err != nil {
				return err
			}

			env, err := engine.Check(project)
			if err != nil {
				return err
			}

			testPaths, err := config.DiscoverSQLFiles(cfg.Project.Tests)
			if err != nil {
				return fmt.Errorf("discovering tests: %w", err)
			}
			asserts, err := depgraph.LoadAsserts(testPaths)
			if err != nil {
				return err
			}
			if err := engine.CheckTests(env, asserts); err != nil {
				return err
			}

			logger.Info("check passed", "models", len(project.Models), "tests", len(asserts))
			fmt.Fprintf(cmd.OutOrStdout(), "%d models OK, %d tests OK\n", len(project.Models), len(asserts))
			return nil
		},
	}
}
