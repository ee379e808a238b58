package engine

import (
	"context"
	"testing"

	"github.com/PowerSQL/PowerSQL/internal/depgraph"
	"github.com/PowerSQL/PowerSQL/internal/sqlast"
	"github.com/PowerSQL/PowerSQL/internal/sqlparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	executed []string
	boolFn   func(sql string) (bool, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, stmt sqlast.Statement) error {
	f.executed = append(f.executed, name)
	return nil
}

func (f *fakeExecutor) QueryBool(ctx context.Context, sql string) (bool, error) {
	if f.boolFn != nil {
		return f.boolFn(sql)
	}
	return true, nil
}

func (f *fakeExecutor) Close(ctx context.Context) error { return nil }

func mustParseView(t *testing.T, sql string) sqlast.Statement {
	t.Helper()
	stmt, err := sqlparse.ParseStatement(sql)
	require.NoError(t, err)
	return stmt
}

func TestCheck_TopologicalAndSuccessful(t *testing.T) {
	p := &Project{
		Models: map[string]sqlast.Statement{
			"t":     mustParseView(t, "CREATE VIEW t AS SELECT a FROM raw;"),
			"t_agg": mustParseView(t, "CREATE VIEW t_agg AS SELECT a FROM t;"),
		},
	}
	p.Deps = depgraph.DependencyMap{"t": nil, "t_agg": {"t"}}
	p.Graph = depgraph.Build(p.Deps)

	env, err := Check(p)
	require.NoError(t, err)

	ty, ok := env.Get("t_agg")
	require.True(t, ok)
	assert.Contains(t, ty.Columns, "a")
}

func TestRun_ExecutesEveryModel(t *testing.T) {
	p := &Project{
		Models: map[string]sqlast.Statement{
			"t":     mustParseView(t, "CREATE VIEW t AS SELECT a FROM raw;"),
			"t_agg": mustParseView(t, "CREATE VIEW t_agg AS SELECT a FROM t;"),
		},
	}
	p.Deps = depgraph.DependencyMap{"t": nil, "t_agg": {"t"}}
	p.Graph = depgraph.Build(p.Deps)

	exec := &fakeExecutor{}
	err := Run(context.Background(), p, exec, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t", "t_agg"}, exec.executed)
}

func TestRunTests_FailFastStopsEarly(t *testing.T) {
	calls := 0
	exec := &fakeExecutor{boolFn: func(sql string) (bool, error) {
		calls++
		return calls != 1, nil // first assertion fails
	}}

	asserts := []*sqlast.AssertStmt{
		{Condition: &sqlast.Value{Kind: sqlast.ValueBoolean, Raw: "false"}, Message: "first"},
		{Condition: &sqlast.Value{Kind: sqlast.ValueBoolean, Raw: "true"}, Message: "second"},
	}

	results, err := RunTests(context.Background(), exec, asserts, true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Passed)
	assert.True(t, AnyFailed(results))
}

func TestRunTests_WithoutFailFastRunsAll(t *testing.T) {
	exec := &fakeExecutor{boolFn: func(sql string) (bool, error) { return false, nil }}

	asserts := []*sqlast.AssertStmt{
		{Condition: &sqlast.Value{Kind: sqlast.ValueBoolean, Raw: "false"}, Message: "first"},
		{Condition: &sqlast.Value{Kind: sqlast.ValueBoolean, Raw: "false"}, Message: "second"},
	}

	results, err := RunTests(context.Background(), exec, asserts, false)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, AnyFailed(results))
}
