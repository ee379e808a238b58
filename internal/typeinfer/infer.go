package typeinfer

import "github.com/PowerSQL/PowerSQL/internal/sqlast"

// Infer computes the row type of query against env, implementing spec
// §4.7's algorithm: CTE extension, set-expression dispatch, local column
// environment build, then projection inference.
func Infer(query *sqlast.Query, env Env) (RowType, error) {
	for _, cte := range query.CTEs {
		ty, err := Infer(cte.Body, env)
		if err != nil {
			return RowType{}, err
		}
		env = env.Extend(cte.Name, ty)
	}
	return inferSetExpr(query.Body, env)
}

func inferSetExpr(body sqlast.SetExpr, env Env) (RowType, error) {
	switch n := body.(type) {
	case *sqlast.SetExprQuery:
		return Infer(n.Query, env)
	case *sqlast.Select:
		return inferSelect(n, env)
	default:
		return RowType{}, errf("set expression not supported")
	}
}

// inferSelect implements steps 3-5: build the local column environment from
// FROM relations, then infer the projection against it.
func inferSelect(sel *sqlast.Select, env Env) (RowType, error) {
	localEnv := map[string]BaseType{}
	unknownSources := false

	for _, tf := range sel.From {
		var err error
		env, err = buildLocal(env, localEnv, &unknownSources, tf)
		if err != nil {
			return RowType{}, err
		}
	}

	isOpen := false
	columns := map[string]BaseType{}

	for _, item := range sel.Projection {
		switch it := item.(type) {
		case *sqlast.ExprWithAlias:
			ty, err := inferExpr(it.Expr, localEnv, env, unknownSources)
			if err != nil {
				return RowType{}, err
			}
			columns[it.Alias] = ty
		case *sqlast.UnnamedExpr:
			id, ok := it.Expr.(*sqlast.Identifier)
			if !ok {
				return RowType{}, errf("unnamed non-identifier projections not supported")
			}
			ty, err := inferExpr(id, localEnv, env, unknownSources)
			if err != nil {
				return RowType{}, err
			}
			columns[id.Name] = ty
		case *sqlast.Wildcard, *sqlast.QualifiedWildcard:
			isOpen = true
		}
	}

	if isOpen {
		return OpenRow(columns), nil
	}
	return Closed(columns), nil
}

// buildLocal folds one FROM relation's columns into localEnv, per §4.7 step
// 3. It returns a possibly-extended env, since a Derived table with an
// alias must be visible to sibling relations the way a Table binding is.
func buildLocal(env Env, localEnv map[string]BaseType, unknownSources *bool, tf sqlast.TableFactor) (Env, error) {
	switch n := tf.(type) {
	case *sqlast.Table:
		ty, ok := env.Get(n.Name)
		if !ok {
			*unknownSources = true
			return env, nil
		}
		for col, ct := range ty.Columns {
			localEnv[col] = ct
		}
		return env, nil

	case *sqlast.NestedJoin:
		var err error
		env, err = buildLocal(env, localEnv, unknownSources, n.Relation)
		if err != nil {
			return env, err
		}
		for _, j := range n.Joins {
			env, err = buildLocal(env, localEnv, unknownSources, j.Relation)
			if err != nil {
				return env, err
			}
		}
		return env, nil

	case *sqlast.Derived:
		if n.Alias == "" {
			return env, errf("derived table must have an alias")
		}
		ty, err := Infer(n.Subquery, env)
		if err != nil {
			return env, err
		}
		env = env.Extend(n.Alias, ty)
		for col, ct := range ty.Columns {
			localEnv[col] = ct
		}
		return env, nil

	default:
		return env, errf("unsupported FROM relation")
	}
}

// inferExpr implements §4.7's expression-inference table.
func inferExpr(expr sqlast.Expr, localEnv map[string]BaseType, env Env, unknownSources bool) (BaseType, error) {
	switch e := expr.(type) {
	case *sqlast.Value:
		switch e.Kind {
		case sqlast.ValueBoolean:
			return Boolean, nil
		case sqlast.ValueString:
			return String, nil
		case sqlast.ValueNumber:
			return Number, nil
		default:
			return Any, nil
		}

	case *sqlast.Identifier:
		if ty, ok := localEnv[e.Name]; ok {
			return ty, nil
		}
		if unknownSources {
			return Any, nil
		}
		return Any, errf("identifier %s not found", e.Name)

	case *sqlast.Cast:
		if _, err := inferExpr(e.Expr, localEnv, env, unknownSources); err != nil {
			return Any, err
		}
		return mapDataType(e.DataType), nil

	case *sqlast.Exists:
		if _, err := Infer(e.Subquery, env); err != nil {
			return Any, err
		}
		return Boolean, nil

	case *sqlast.UnaryOp:
		t, err := inferExpr(e.Expr, localEnv, env, unknownSources)
		if err != nil {
			return Any, err
		}
		if t == Any {
			return Any, nil
		}
		switch {
		case (e.Op == "+" || e.Op == "-") && (t == Number || t == Float):
			return t, nil
		case e.Op == "NOT" && t == Boolean:
			return Boolean, nil
		default:
			return Any, errf("incompatible unary operator %q for operand type %s", e.Op, t)
		}

	default:
		return Any, nil
	}
}

// InferExpr type-checks a standalone expression against env with no
// enclosing FROM clause — used to type-check ASSERT condition expressions
// (spec §6: "check ... also type-check tests"). A bare identifier fails
// because there is no FROM to resolve it against; an EXISTS subquery is
// checked via Infer. IN subqueries, scalar subqueries and binary operators
// yield Any without their operands being inspected.
func InferExpr(expr sqlast.Expr, env Env) (BaseType, error) {
	return inferExpr(expr, map[string]BaseType{}, env, false)
}

// mapDataType implements §4.7's map_data_type: Float, Boolean, Varchar, and
// Text map to their matching BaseType; everything else maps to Any.
func mapDataType(name string) BaseType {
	switch name {
	case "FLOAT":
		return Float
	case "BOOLEAN":
		return Boolean
	case "VARCHAR", "TEXT":
		return String
	default:
		return Any
	}
}
