package sqlast

import "strings"

// RenderExpr renders expr back to SQL text, used by the test pass to embed
// an ASSERT condition in a `SELECT (<condition>) AS condition` query sent to
// the backend, and more generally wherever an AST node must cross back into
// textual SQL. The output need not match the original source token-for-
// token, only be semantically equivalent SQL.
func RenderExpr(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// RenderQuery renders a full Query (WITH clause plus body) back to SQL text.
func RenderQuery(q *Query) string {
	var b strings.Builder
	writeQuery(&b, q)
	return b.String()
}

func writeQuery(b *strings.Builder, q *Query) {
	if q == nil {
		return
	}
	if len(q.CTEs) > 0 {
		b.WriteString("WITH ")
		for i, cte := range q.CTEs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(cte.Name)
			b.WriteString(" AS (")
			writeQuery(b, cte.Body)
			b.WriteByte(')')
		}
		b.WriteByte(' ')
	}
	writeSetExpr(b, q.Body)
}

func writeSetExpr(b *strings.Builder, s SetExpr) {
	switch n := s.(type) {
	case *SetExprQuery:
		b.WriteByte('(')
		writeQuery(b, n.Query)
		b.WriteByte(')')
	case *SetOperation:
		writeSetExpr(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(string(n.Op))
		if n.All {
			b.WriteString(" ALL")
		}
		b.WriteByte(' ')
		writeSetExpr(b, n.Right)
	case *Select:
		writeSelect(b, n)
	}
}

func writeSelect(b *strings.Builder, sel *Select) {
	b.WriteString("SELECT ")
	for i, item := range sel.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		writeSelectItem(b, item)
	}
	if len(sel.From) > 0 {
		b.WriteString(" FROM ")
		for i, tf := range sel.From {
			if i > 0 {
				b.WriteString(", ")
			}
			writeTableFactor(b, tf)
		}
	}
	if sel.Where != nil {
		b.WriteString(" WHERE ")
		writeExpr(b, sel.Where)
	}
	if len(sel.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range sel.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, g)
		}
	}
	if sel.Having != nil {
		b.WriteString(" HAVING ")
		writeExpr(b, sel.Having)
	}
}

func writeSelectItem(b *strings.Builder, item SelectItem) {
	switch it := item.(type) {
	case *UnnamedExpr:
		writeExpr(b, it.Expr)
	case *ExprWithAlias:
		writeExpr(b, it.Expr)
		b.WriteString(" AS ")
		b.WriteString(it.Alias)
	case *Wildcard:
		b.WriteByte('*')
	case *QualifiedWildcard:
		b.WriteString(it.Table)
		b.WriteString(".*")
	}
}

func writeTableFactor(b *strings.Builder, tf TableFactor) {
	switch n := tf.(type) {
	case *Table:
		b.WriteString(n.Name)
		if n.Alias != "" {
			b.WriteByte(' ')
			b.WriteString(n.Alias)
		}
	case *NestedJoin:
		writeTableFactor(b, n.Relation)
		for _, j := range n.Joins {
			b.WriteByte(' ')
			b.WriteString(string(j.Type))
			b.WriteString(" JOIN ")
			writeTableFactor(b, j.Relation)
			if j.Condition != nil {
				b.WriteString(" ON ")
				writeExpr(b, j.Condition)
			}
		}
	case *Derived:
		b.WriteByte('(')
		writeQuery(b, n.Subquery)
		b.WriteByte(')')
		if n.Alias != "" {
			b.WriteByte(' ')
			b.WriteString(n.Alias)
		}
	}
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Value:
		switch e.Kind {
		case ValueString:
			b.WriteByte('\'')
			b.WriteString(strings.ReplaceAll(e.Raw, "'", "''"))
			b.WriteByte('\'')
		case ValueNull:
			b.WriteString("NULL")
		default:
			b.WriteString(e.Raw)
		}
	case *Identifier:
		if e.Table != "" {
			b.WriteString(e.Table)
			b.WriteByte('.')
		}
		b.WriteString(e.Name)
	case *BinaryOp:
		writeExpr(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		writeExpr(b, e.Right)
	case *UnaryOp:
		b.WriteString(e.Op)
		b.WriteByte(' ')
		writeExpr(b, e.Expr)
	case *Between:
		writeExpr(b, e.Expr)
		if e.Negated {
			b.WriteString(" NOT BETWEEN ")
		} else {
			b.WriteString(" BETWEEN ")
		}
		writeExpr(b, e.Low)
		b.WriteString(" AND ")
		writeExpr(b, e.High)
	case *Cast:
		b.WriteString("CAST(")
		writeExpr(b, e.Expr)
		b.WriteString(" AS ")
		b.WriteString(e.DataType)
		b.WriteByte(')')
	case *Collate:
		writeExpr(b, e.Expr)
		b.WriteString(" COLLATE ")
		b.WriteString(e.Collation)
	case *Exists:
		if e.Negated {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS (")
		writeQuery(b, e.Subquery)
		b.WriteByte(')')
	case *Extract:
		b.WriteString("EXTRACT(")
		b.WriteString(e.Field)
		b.WriteString(" FROM ")
		writeExpr(b, e.Expr)
		b.WriteByte(')')
	case *Function:
		b.WriteString(e.Name)
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	case *InSubquery:
		writeExpr(b, e.Expr)
		if e.Negated {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		writeQuery(b, e.Subquery)
		b.WriteByte(')')
	case *InList:
		writeExpr(b, e.Expr)
		if e.Negated {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		for i, v := range e.List {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, v)
		}
		b.WriteByte(')')
	case *IsNull:
		writeExpr(b, e.Expr)
		if e.Negated {
			b.WriteString(" IS NOT NULL")
		} else {
			b.WriteString(" IS NULL")
		}
	case *ListAgg:
		b.WriteString("LISTAGG(")
		writeExpr(b, e.Expr)
		if e.Sep != nil {
			b.WriteString(", ")
			writeExpr(b, e.Sep)
		}
		b.WriteByte(')')
	case *Nested:
		b.WriteByte('(')
		writeExpr(b, e.Expr)
		b.WriteByte(')')
	case *Subquery:
		b.WriteByte('(')
		writeQuery(b, e.Query)
		b.WriteByte(')')
	case *Like:
		writeExpr(b, e.Expr)
		if e.Negated {
			b.WriteString(" NOT LIKE ")
		} else {
			b.WriteString(" LIKE ")
		}
		writeExpr(b, e.Pattern)
	case *Case:
		b.WriteString("CASE")
		if e.Operand != nil {
			b.WriteByte(' ')
			writeExpr(b, e.Operand)
		}
		for _, w := range e.Whens {
			b.WriteString(" WHEN ")
			writeExpr(b, w.Condition)
			b.WriteString(" THEN ")
			writeExpr(b, w.Result)
		}
		if e.Else != nil {
			b.WriteString(" ELSE ")
			writeExpr(b, e.Else)
		}
		b.WriteString(" END")
	}
}
