package engine

import (
	"fmt"

	"github.com/PowerSQL/PowerSQL/internal/depgraph"
	"github.com/PowerSQL/PowerSQL/internal/refextract"
	"github.com/PowerSQL/PowerSQL/internal/typeinfer"
)

// Check runs the type-check pass over the project in topological order:
// for each model, infer its row type and extend the shared environment
// under that model's name; any typing failure aborts the whole run
// (spec §4.5).
func Check(p *Project) (typeinfer.Env, error) {
	env := typeinfer.NewEnv()

	err := depgraph.Run(p.Graph, func(name string) error {
		stmt := p.Models[name]
		query := refextract.StatementQuery(stmt)

		ty, err := typeinfer.Infer(query, env)
		if err != nil {
			return fmt.Errorf("model %s: %w", name, err)
		}
		env = env.Extend(name, ty)
		return nil
	})
	if err != nil {
		return typeinfer.Env{}, err
	}
	return env, nil
}
