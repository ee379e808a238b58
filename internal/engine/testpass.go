package engine

import (
	"context"
	"fmt"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// AssertResult is the outcome of evaluating one ASSERT statement.
type AssertResult struct {
	Message string
	Passed  bool
	Err     error // non-nil if the backend query itself failed
}

// String renders a result the way the CLI prints it: "<message>...OK" or
// "<message>...ERROR" (spec §6).
func (r AssertResult) String() string {
	if r.Passed {
		return fmt.Sprintf("%s...OK", r.Message)
	}
	return fmt.Sprintf("%s...ERROR", r.Message)
}

// RunTests evaluates every assertion in order via exec, stopping at the
// first failure when failFast is set. It operates on a flat list, not the
// DAG (spec §4.5's Test pass note).
func RunTests(ctx context.Context, exec Executor, asserts []*sqlast.AssertStmt, failFast bool) ([]AssertResult, error) {
	results := make([]AssertResult, 0, len(asserts))
	for _, a := range asserts {
		sql := "SELECT (" + sqlast.RenderExpr(a.Condition) + ") AS condition"
		ok, err := exec.QueryBool(ctx, sql)
		if err != nil {
			results = append(results, AssertResult{Message: a.Message, Passed: false, Err: err})
			if failFast {
				return results, err
			}
			continue
		}
		results = append(results, AssertResult{Message: a.Message, Passed: ok})
		if !ok && failFast {
			return results, nil
		}
	}
	return results, nil
}

// AnyFailed reports whether results contains a failed or errored assertion,
// which maps to CLI exit code 1 (spec §6).
func AnyFailed(results []AssertResult) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
