package engine

import (
	"fmt"

	"github.com/PowerSQL/PowerSQL/internal/depgraph"
)

// Project is a fully loaded, resolved, and acyclic set of models, ready for
// the check or run pass.
type Project struct {
	Models depgraph.ModelSet
	Deps   depgraph.DependencyMap
	Graph  depgraph.Graph
}

// Load reads every model file, resolves its dependencies against the rest
// of the set, and verifies the result is acyclic (spec §4.2-§4.4). This is
// the shared first step of both the check and run CLI commands.
func Load(modelPaths []string) (*Project, error) {
	models, err := depgraph.Load(modelPaths)
	if err != nil {
		return nil, fmt.Errorf("loading models: %w", err)
	}

	deps := depgraph.Resolve(models)

	if err := depgraph.DetectCycle(deps); err != nil {
		return nil, err
	}

	graph := depgraph.Build(deps)

	return &Project{Models: models, Deps: deps, Graph: graph}, nil
}
