package refextract

import (
	"testing"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
	"github.com/PowerSQL/PowerSQL/internal/sqlparse"
)

func parseQuery(t *testing.T, sql string) *sqlast.Query {
	t.Helper()
	stmt, err := sqlparse.ParseStatement(sql)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	q := StatementQuery(stmt)
	if q == nil {
		t.Fatalf("statement %T has no query body", stmt)
	}
	return q
}

func TestExtract_SimpleFrom(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS SELECT a FROM t;")
	refs := Extract(q)
	assertRefs(t, refs, "t")
}

func TestExtract_Join(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS SELECT a FROM t1 JOIN t2 ON t1.id = t2.id;")
	refs := Extract(q)
	assertRefs(t, refs, "t1", "t2")
}

func TestExtract_CTEBodyAndAliasBothEmitted(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS WITH c AS (SELECT a FROM base) SELECT a FROM c;")
	refs := Extract(q)
	assertRefs(t, refs, "base", "c")
}

func TestExtract_SubqueryInWhere(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS SELECT a FROM t WHERE EXISTS (SELECT 1 FROM u);")
	refs := Extract(q)
	assertRefs(t, refs, "t", "u")
}

func TestExtract_DerivedTable(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS SELECT a FROM (SELECT a FROM inner_t) d;")
	refs := Extract(q)
	assertRefs(t, refs, "inner_t")
}

func TestExtract_UnionBothSides(t *testing.T) {
	q := parseQuery(t, "CREATE VIEW v AS SELECT a FROM t1 UNION SELECT a FROM t2;")
	refs := Extract(q)
	assertRefs(t, refs, "t1", "t2")
}

func assertRefs(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected refs %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected refs %v, got %v", want, got)
		}
	}
}
