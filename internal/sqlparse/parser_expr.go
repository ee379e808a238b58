package sqlparse

import "github.com/PowerSQL/PowerSQL/internal/sqlast"

// Operator precedence climbing, lowest to highest:
// OR < AND < comparison/IS/IN/LIKE/BETWEEN < +/- < * / % < unary < primary.
const (
	precLowest = iota
	precOr
	precAnd
	precComparison
	precAdditive
	precMultiplicative
	precUnary
)

func precedenceOf(tt TokenType) int {
	switch tt {
	case OR:
		return precOr
	case AND:
		return precAnd
	case EQ, NE, LT, GT, LE, GE, LIKE, IN, IS, BETWEEN:
		return precComparison
	case PLUS, MINUS, DPIPE:
		return precAdditive
	case STAR, SLASH, MOD:
		return precMultiplicative
	default:
		return precLowest
	}
}

func (p *Parser) parseExpr() (sqlast.Expr, error) {
	return p.parseBinaryExpr(precLowest)
}

func (p *Parser) parseBinaryExpr(minPrec int) (sqlast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}

	for {
		left, err = p.tryParsePostfix(left)
		if err != nil {
			return nil, err
		}

		prec := precedenceOf(p.cur.Type)
		if prec == precLowest || prec < minPrec {
			break
		}

		opTok := p.cur
		if opTok.Type == BETWEEN || opTok.Type == IN || opTok.Type == IS || opTok.Type == LIKE {
			// Not reached in practice: tryParsePostfix above has already
			// consumed these operators; stop rather than treat them as binary.
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBinaryExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &sqlast.BinaryOp{Left: left, Op: opTok.Literal, Right: right}
	}
	return left, nil
}

// tryParsePostfix handles the non-left-recursive comparison-level suffixes:
// BETWEEN, IS [NOT] NULL, [NOT] IN (...), [NOT] LIKE, COLLATE.
func (p *Parser) tryParsePostfix(expr sqlast.Expr) (sqlast.Expr, error) {
	for {
		switch {
		case p.check(NOT) && (p.peek.Type == BETWEEN || p.peek.Type == IN || p.peek.Type == LIKE):
			if err := p.advance(); err != nil {
				return nil, err
			}
			var err error
			expr, err = p.parseNegatablePostfix(expr, true)
			if err != nil {
				return nil, err
			}
		case p.check(BETWEEN) || p.check(IN) || p.check(LIKE):
			var err error
			expr, err = p.parseNegatablePostfix(expr, false)
			if err != nil {
				return nil, err
			}
		case p.check(IS):
			if err := p.advance(); err != nil {
				return nil, err
			}
			negated, err := p.match(NOT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(NULL); err != nil {
				return nil, err
			}
			expr = &sqlast.IsNull{Expr: expr, Negated: negated}
		case p.check(COLLATE):
			if err := p.advance(); err != nil {
				return nil, err
			}
			name, err := p.expect(IDENT)
			if err != nil {
				return nil, err
			}
			expr = &sqlast.Collate{Expr: expr, Collation: name.Literal}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseNegatablePostfix(expr sqlast.Expr, negated bool) (sqlast.Expr, error) {
	switch p.cur.Type {
	case BETWEEN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		low, err := p.parseBinaryExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(AND); err != nil {
			return nil, err
		}
		high, err := p.parseBinaryExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		return &sqlast.Between{Expr: expr, Negated: negated, Low: low, High: high}, nil
	case IN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(LPAREN); err != nil {
			return nil, err
		}
		if p.check(SELECT) || p.check(WITH) {
			q, err := p.parseQuery()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			return &sqlast.InSubquery{Expr: expr, Negated: negated, Subquery: q}, nil
		}
		list, err := p.parseExprList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &sqlast.InList{Expr: expr, Negated: negated, List: list}, nil
	case LIKE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		pattern, err := p.parseBinaryExpr(precAdditive)
		if err != nil {
			return nil, err
		}
		return &sqlast.Like{Expr: expr, Negated: negated, Pattern: pattern}, nil
	}
	return expr, nil
}

func (p *Parser) parseUnaryExpr() (sqlast.Expr, error) {
	switch p.cur.Type {
	case NOT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseBinaryExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &sqlast.UnaryOp{Op: "NOT", Expr: inner}, nil
	case PLUS, MINUS:
		op := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseBinaryExpr(precUnary)
		if err != nil {
			return nil, err
		}
		return &sqlast.UnaryOp{Op: op, Expr: inner}, nil
	}
	return p.parsePrimaryExpr()
}

func (p *Parser) parsePrimaryExpr() (sqlast.Expr, error) {
	switch p.cur.Type {
	case NUMBER:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.Value{Kind: sqlast.ValueNumber, Raw: tok.Literal}, nil
	case STRING:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.Value{Kind: sqlast.ValueString, Raw: tok.Literal}, nil
	case TRUE, FALSE:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.Value{Kind: sqlast.ValueBoolean, Raw: tok.Literal}, nil
	case NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &sqlast.Value{Kind: sqlast.ValueNull}, nil
	case LPAREN:
		return p.parseParenExpr()
	case CAST:
		return p.parseCast()
	case EXTRACT:
		return p.parseExtract()
	case EXISTS:
		return p.parseExists(false)
	case NOT:
		if p.peek.Type == EXISTS {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return p.parseExists(true)
		}
	case CASE:
		return p.parseCase()
	case LISTAGG:
		if p.peek.Type != LPAREN {
			break
		}
		if err := p.advance(); err != nil { // consume LISTAGG
			return nil, err
		}
		return p.parseCallArgs("LISTAGG")
	case IDENT:
		return p.parseIdentOrCall()
	}
	return nil, &ParseError{Pos: p.cur.Pos, Message: "unexpected token " + describeToken(p.cur) + " in expression"}
}

func (p *Parser) parseParenExpr() (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}
	if p.check(SELECT) || p.check(WITH) {
		q, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &sqlast.Subquery{Query: q}, nil
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &sqlast.Nested{Expr: inner}, nil
}

func (p *Parser) parseCast() (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume CAST
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(AS); err != nil {
		return nil, err
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &sqlast.Cast{Expr: inner, DataType: typeName}, nil
}

// parseTypeName accepts a type name possibly followed by a parenthesized
// size/precision, e.g. VARCHAR(255), NUMERIC(10, 2). Only the base name
// matters for §4.7's map_data_type.
func (p *Parser) parseTypeName() (string, error) {
	tok, err := p.expect(IDENT)
	if err != nil {
		return "", err
	}
	name := tok.Literal
	if p.check(LPAREN) {
		depth := 0
		for {
			if p.check(LPAREN) {
				depth++
			} else if p.check(RPAREN) {
				depth--
			}
			if err := p.advance(); err != nil {
				return "", err
			}
			if depth == 0 {
				break
			}
		}
	}
	return name, nil
}

func (p *Parser) parseExtract() (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume EXTRACT
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	field, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(FROM); err != nil {
		return nil, err
	}
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &sqlast.Extract{Field: field.Literal, Expr: inner}, nil
}

func (p *Parser) parseExists(negated bool) (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume EXISTS
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return &sqlast.Exists{Negated: negated, Subquery: q}, nil
}

func (p *Parser) parseCase() (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume CASE
		return nil, err
	}
	c := &sqlast.Case{}
	if !p.check(WHEN) {
		operand, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Operand = operand
	}
	for p.check(WHEN) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(THEN); err != nil {
			return nil, err
		}
		result, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Whens = append(c.Whens, sqlast.WhenClause{Condition: cond, Result: result})
	}
	if p.check(ELSE) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		c.Else = elseExpr
	}
	if _, err := p.expect(END); err != nil {
		return nil, err
	}
	return c, nil
}

func (p *Parser) parseIdentOrCall() (sqlast.Expr, error) {
	first, err := p.expect(IDENT)
	if err != nil {
		return nil, err
	}

	if p.check(DOT) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		second, err := p.expect(IDENT)
		if err != nil {
			return nil, err
		}
		return &sqlast.Identifier{Table: first.Literal, Name: second.Literal}, nil
	}

	if p.check(LPAREN) {
		return p.parseCallArgs(first.Literal)
	}

	return &sqlast.Identifier{Name: first.Literal}, nil
}

func (p *Parser) parseCallArgs(name string) (sqlast.Expr, error) {
	if err := p.advance(); err != nil { // consume (
		return nil, err
	}

	if name == "LISTAGG" {
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		la := &sqlast.ListAgg{Expr: inner}
		if p.check(COMMA) {
			if err := p.advance(); err != nil {
				return nil, err
			}
			sep, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			la.Sep = sep
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return la, nil
	}

	fn := &sqlast.Function{Name: name}
	if p.check(RPAREN) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return fn, nil
	}
	if _, err := p.match(DISTINCT); err != nil {
		return nil, err
	}
	args, err := p.parseExprList()
	if err != nil {
		return nil, err
	}
	fn.Args = args
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return fn, nil
}
