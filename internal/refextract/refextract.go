// Package refextract walks a parsed query and collects the qualified names it
// references, in the document-order recursion spec §4.1 prescribes: CTEs
// first (in binding order), then the query body. A CTE's own name is never
// masked out of the result here — per spec §4.1's semantic choice, that
// filtering happens downstream in the dependency resolver (§4.2), so a CTE
// alias that collides with a real model name still produces a reference.
package refextract

import "github.com/PowerSQL/PowerSQL/internal/sqlast"

// Extract returns every table name referenced transitively by q, including
// names that happen to be bound by q's own CTEs (the resolver, not the
// extractor, is what filters those out). Order follows the AST's natural
// left-to-right, outer-to-inner traversal; duplicates are preserved, one
// entry per textual occurrence (internal/depgraph keeps them as well).
func Extract(q *sqlast.Query) []string {
	e := &extractor{}
	e.walkQuery(q)
	return e.refs
}

type extractor struct {
	refs []string
}

func (e *extractor) walkQuery(q *sqlast.Query) {
	if q == nil {
		return
	}
	for _, cte := range q.CTEs {
		e.walkQuery(cte.Body)
	}
	e.walkSetExpr(q.Body)
}

func (e *extractor) walkSetExpr(s sqlast.SetExpr) {
	switch n := s.(type) {
	case *sqlast.SetExprQuery:
		e.walkQuery(n.Query)
	case *sqlast.SetOperation:
		e.walkSetExpr(n.Left)
		e.walkSetExpr(n.Right)
	case *sqlast.Select:
		e.walkSelect(n)
	}
}

func (e *extractor) walkSelect(sel *sqlast.Select) {
	for _, item := range sel.Projection {
		e.walkSelectItem(item)
	}
	for _, tf := range sel.From {
		e.walkTableFactor(tf)
	}
	e.walkExpr(sel.Where)
	for _, g := range sel.GroupBy {
		e.walkExpr(g)
	}
	e.walkExpr(sel.Having)
}

func (e *extractor) walkSelectItem(item sqlast.SelectItem) {
	switch n := item.(type) {
	case *sqlast.UnnamedExpr:
		e.walkExpr(n.Expr)
	case *sqlast.ExprWithAlias:
		e.walkExpr(n.Expr)
	case *sqlast.Wildcard, *sqlast.QualifiedWildcard:
		// no subexpressions to recurse into
	}
}

func (e *extractor) walkTableFactor(tf sqlast.TableFactor) {
	switch n := tf.(type) {
	case *sqlast.Table:
		e.refs = append(e.refs, n.Name)
	case *sqlast.NestedJoin:
		e.walkTableFactor(n.Relation)
		for _, j := range n.Joins {
			e.walkTableFactor(j.Relation)
			e.walkExpr(j.Condition)
		}
	case *sqlast.Derived:
		e.walkQuery(n.Subquery)
	}
}

func (e *extractor) walkExpr(expr sqlast.Expr) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *sqlast.Value, *sqlast.Identifier:
		// leaves
	case *sqlast.BinaryOp:
		e.walkExpr(n.Left)
		e.walkExpr(n.Right)
	case *sqlast.UnaryOp:
		e.walkExpr(n.Expr)
	case *sqlast.Between:
		e.walkExpr(n.Expr)
		e.walkExpr(n.Low)
		e.walkExpr(n.High)
	case *sqlast.Cast:
		e.walkExpr(n.Expr)
	case *sqlast.Collate:
		e.walkExpr(n.Expr)
	case *sqlast.Exists:
		e.walkQuery(n.Subquery)
	case *sqlast.Extract:
		e.walkExpr(n.Expr)
	case *sqlast.Function:
		for _, a := range n.Args {
			e.walkExpr(a)
		}
	case *sqlast.InSubquery:
		e.walkExpr(n.Expr)
		e.walkQuery(n.Subquery)
	case *sqlast.InList:
		e.walkExpr(n.Expr)
		for _, v := range n.List {
			e.walkExpr(v)
		}
	case *sqlast.IsNull:
		e.walkExpr(n.Expr)
	case *sqlast.ListAgg:
		e.walkExpr(n.Expr)
		e.walkExpr(n.Sep)
	case *sqlast.Nested:
		e.walkExpr(n.Expr)
	case *sqlast.Subquery:
		e.walkQuery(n.Query)
	}
	// Like and Case contribute nothing to reference extraction (sqlast.go's
	// own doc comments on those types, and spec §4.1's enumerated variant
	// list, both agree they fall to the no-op default).
}

// StatementQuery returns the Query embedded in a model statement, since
// Extract operates uniformly over CreateView/CreateTable bodies.
func StatementQuery(stmt sqlast.Statement) *sqlast.Query {
	switch s := stmt.(type) {
	case *sqlast.CreateViewStmt:
		return s.Query
	case *sqlast.CreateTableStmt:
		return s.Query
	default:
		return nil
	}
}
