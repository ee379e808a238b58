package typeinfer

import (
	"testing"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
	"github.com/PowerSQL/PowerSQL/internal/sqlparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseView(t *testing.T, sql string) *sqlast.Query {
	t.Helper()
	stmt, err := sqlparse.ParseStatement(sql)
	require.NoError(t, err)
	view, ok := stmt.(*sqlast.CreateViewStmt)
	require.True(t, ok, "expected CreateViewStmt, got %T", stmt)
	return view.Query
}

func TestInfer_UnknownSourceWidensToAny(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT a FROM t;")
	ty, err := Infer(query, NewEnv())
	require.NoError(t, err)
	assert.False(t, ty.Open)
	assert.Equal(t, Any, ty.Columns["a"])
}

func TestInfer_KnownSourcePropagatesColumnType(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT a FROM t;")

	env := NewEnv().Extend("t", Closed(map[string]BaseType{"a": Number}))
	ty, err := Infer(query, env)
	require.NoError(t, err)
	assert.Equal(t, Number, ty.Columns["a"])
}

func TestInfer_WildcardOpensRowType(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT * FROM t;")

	ty, err := Infer(query, NewEnv())
	require.NoError(t, err)
	assert.True(t, ty.Open)
}

func TestInfer_DerivedTableWithoutAliasFails(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT a FROM (SELECT a FROM t);")

	_, err := Infer(query, NewEnv())
	require.Error(t, err)
	_, ok := err.(*TypeError)
	assert.True(t, ok)
}

func TestInfer_IdentifierNotFoundWhenSourceKnown(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT missing FROM t;")

	env := NewEnv().Extend("t", Closed(map[string]BaseType{"a": Number}))
	_, err := Infer(query, env)
	require.Error(t, err)
}

func TestInfer_CastMapsDataType(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT CAST(a AS VARCHAR) AS a FROM t;")

	env := NewEnv().Extend("t", Closed(map[string]BaseType{"a": Number}))
	ty, err := Infer(query, env)
	require.NoError(t, err)
	assert.Equal(t, String, ty.Columns["a"])
}

func TestInfer_UnaryNotOnBoolean(t *testing.T) {
	query := parseView(t, "CREATE VIEW v AS SELECT NOT flag AS f FROM t;")

	env := NewEnv().Extend("t", Closed(map[string]BaseType{"flag": Boolean}))
	ty, err := Infer(query, env)
	require.NoError(t, err)
	assert.Equal(t, Boolean, ty.Columns["f"])
}
