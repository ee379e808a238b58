package cliapp

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PowerSQL/PowerSQL/internal/engine"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Type-check then materialize every model in dependency order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := newLogger()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			project, err := loadProject(cfg)
			if err != nil {
				return err
			}

			if _, err := engine.Check(project); err != nil {
				return fmt.Errorf("type check failed: %w", err)
			}

			exec, err := newBackend(ctx, logger)
			if err != nil {
				return err
			}
			defer func() { _ = exec.Close(ctx) }()

			if err := engine.Run(ctx, project, exec, logger); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "materialized %d models\n", len(project.Models))
			return nil
		},
	}
}
