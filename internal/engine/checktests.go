package engine

import (
	"fmt"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
	"github.com/PowerSQL/PowerSQL/internal/typeinfer"
)

// CheckTests type-checks every ASSERT condition against env, the model type
// environment produced by Check (spec §6: "check ... also type-check
// tests"). A bare column reference, or an unknown column inside an EXISTS
// subquery over known models, fails here; a table that is not a model widens
// its columns to Any, and IN or scalar subqueries are not inspected (see
// typeinfer.InferExpr).
func CheckTests(env typeinfer.Env, asserts []*sqlast.AssertStmt) error {
	for _, a := range asserts {
		if _, err := typeinfer.InferExpr(a.Condition, env); err != nil {
			return fmt.Errorf("test %q: %w", a.Message, err)
		}
	}
	return nil
}
