package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PowerSQL/PowerSQL/internal/depgraph"
)

// Run materializes every model in the project via exec, in topological
// order. Any backend failure aborts the remaining work (spec §4.5's
// fail-fast driver). Each model's materialization is timed and logged, the
// way the original Rust driver reports per-model elapsed time as it walks
// the worklist.
func Run(ctx context.Context, p *Project, exec Executor, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return depgraph.Run(p.Graph, func(name string) error {
		stmt := p.Models[name]
		start := time.Now()
		if err := exec.Execute(ctx, name, stmt); err != nil {
			return fmt.Errorf("model %s: %w", name, err)
		}
		logger.Info("materialized", slog.String("model", name), slog.Duration("elapsed", time.Since(start)))
		return nil
	})
}
