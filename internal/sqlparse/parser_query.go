package sqlparse

import (
	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// Grammar (spec §3, §4.1, §4.7):
//
//	query      → [WITH cte ("," cte)*] set_expr
//	cte        → identifier AS "(" query ")"
//	set_expr   → select_core ((UNION|INTERSECT|EXCEPT) [ALL] select_core)*
//	select_core → SELECT [DISTINCT] select_list
//	              [FROM from_item ("," from_item)* ]
//	              [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	            | "(" query ")"

func (p *Parser) parseQuery() (*sqlast.Query, error) {
	q := &sqlast.Query{}

	if p.check(WITH) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		for {
			name, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(AS); err != nil {
				return nil, err
			}
			if _, err := p.expect(LPAREN); err != nil {
				return nil, err
			}
			body, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			q.CTEs = append(q.CTEs, &sqlast.CTE{Name: name.Literal, Body: body})
			ok, err := p.match(COMMA)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		}
	}

	body, err := p.parseSetExpr()
	if err != nil {
		return nil, err
	}
	q.Body = body
	return q, nil
}

func (p *Parser) parseSetExpr() (sqlast.SetExpr, error) {
	left, err := p.parseSetExprPrimary()
	if err != nil {
		return nil, err
	}
	for p.check(UNION) || p.check(INTERSECT) || p.check(EXCEPT) {
		var op sqlast.SetOp
		switch p.cur.Type {
		case UNION:
			op = sqlast.SetOpUnion
		case INTERSECT:
			op = sqlast.SetOpIntersect
		case EXCEPT:
			op = sqlast.SetOpExcept
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		all, err := p.match(ALL)
		if err != nil {
			return nil, err
		}
		right, err := p.parseSetExprPrimary()
		if err != nil {
			return nil, err
		}
		left = &sqlast.SetOperation{Left: left, Op: op, All: all, Right: right}
	}
	return left, nil
}

func (p *Parser) parseSetExprPrimary() (sqlast.SetExpr, error) {
	if p.check(LPAREN) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &sqlast.SetExprQuery{Query: q}, nil
	}
	return p.parseSelect()
}

func (p *Parser) parseSelect() (*sqlast.Select, error) {
	if _, err := p.expect(SELECT); err != nil {
		return nil, err
	}
	if _, err := p.match(DISTINCT); err != nil {
		return nil, err
	}
	if _, err := p.match(ALL); err != nil {
		return nil, err
	}

	sel := &sqlast.Select{}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	sel.Projection = items

	if p.check(FROM) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		from, err := p.parseFromList()
		if err != nil {
			return nil, err
		}
		sel.From = from
	}

	if p.check(WHERE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Where = expr
	}

	if p.check(GROUP) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(BY); err != nil {
			return nil, err
		}
		exprs, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		sel.GroupBy = exprs
	}

	if p.check(HAVING) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		sel.Having = expr
	}

	return sel, nil
}

func (p *Parser) parseSelectList() ([]sqlast.SelectItem, error) {
	var items []sqlast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		ok, err := p.match(COMMA)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return items, nil
}

func (p *Parser) parseSelectItem() (sqlast.SelectItem, error) {
	if p.check(STAR) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.Wildcard{}, nil
	}
	// t.* lookahead: IDENT DOT STAR, resolved with two-token lookahead so no
	// backtracking is needed (the lexer itself is not rewindable).
	if p.check(IDENT) && p.peek.Type == DOT && p.peek2.Type == STAR {
		name := p.cur.Literal
		if err := p.advance(); err != nil { // consume IDENT
			return nil, err
		}
		if err := p.advance(); err != nil { // consume DOT
			return nil, err
		}
		if err := p.advance(); err != nil { // consume STAR
			return nil, err
		}
		return &sqlast.QualifiedWildcard{Table: name}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.check(AS) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		alias, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		return &sqlast.ExprWithAlias{Expr: expr, Alias: alias.Literal}, nil
	}
	if p.check(IDENT) {
		alias := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.ExprWithAlias{Expr: expr, Alias: alias.Literal}, nil
	}
	return &sqlast.UnnamedExpr{Expr: expr}, nil
}

func (p *Parser) parseExprList() ([]sqlast.Expr, error) {
	var exprs []sqlast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
		ok, err := p.match(COMMA)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}
	return exprs, nil
}
