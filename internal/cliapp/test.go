package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PowerSQL/PowerSQL/internal/config"
	"github.com/PowerSQL/PowerSQL/internal/depgraph"
	"github.com/PowerSQL/PowerSQL/internal/engine"
)

func newTestCmd() *cobra.Command {
	var failFast bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run ASSERT test queries against a materialized project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			cfg, err := loadConfig(cmd)
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

			exec, err := newBackend(ctx, logger)
			if err != nil {
				return err
			}
			defer func() { _ = exec.Close(ctx) }()

			results, err := engine.RunTests(ctx, exec, asserts, failFast)
			if err != nil {
				return err
			}

			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}

			if engine.AnyFailed(results) {
				return fmt.Errorf("%d assertion(s) failed", countFailed(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first failing assertion")
	return cmd
}

func countFailed(results []engine.AssertResult) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
