// Package engine drives the three top-level passes over a loaded project:
// check (type inference in topological order), run (materialization via a
// backend executor), and test (flat ASSERT evaluation).
package engine

import (
	"context"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// Executor is the backend abstraction models materialize through (spec
// §4.6). A concrete Executor owns a single connection/session for its
// lifetime.
type Executor interface {
	// Execute idempotently (re)materializes the named model: inside a
	// transaction (where the backend supports one), drop any existing view
	// or table under name, then run stmt's statement text.
	Execute(ctx context.Context, name string, stmt sqlast.Statement) error

	// QueryBool runs a single-column, single-row boolean query and returns
	// its value, used to evaluate ASSERT conditions.
	QueryBool(ctx context.Context, sql string) (bool, error)

	// Close releases the executor's connection/session.
	Close(ctx context.Context) error
}
