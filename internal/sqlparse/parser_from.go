package sqlparse

import "github.com/PowerSQL/PowerSQL/internal/sqlast"

// Grammar (spec §4.1, §4.7 step 3):
//
//	from_list   → from_item ("," from_item)*
//	from_item   → table_factor (join)*
//	table_factor → qualified_name [[AS] alias] | "(" query ")" [AS] alias
//	join        → [INNER|LEFT [OUTER]|RIGHT [OUTER]|FULL [OUTER]|CROSS|NATURAL] JOIN table_factor [ON expr]

func (p *Parser) parseFromList() ([]sqlast.TableFactor, error) {
	var items []sqlast.TableFactor
	for {
		item, err := p.parseFromItem()
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

// parseFromItem parses one table_factor followed by zero or more joins,
// wrapping them in a NestedJoin when at least one join is present (spec's
// `TableFactor::NestedJoin(j)`).
func (p *Parser) parseFromItem() (sqlast.TableFactor, error) {
	root, err := p.parseTableFactorPrimary()
	if err != nil {
		return nil, err
	}

	var joins []*sqlast.Join
	for {
		join, ok, err := p.tryParseJoin()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		joins = append(joins, join)
	}
	if len(joins) == 0 {
		return root, nil
	}
	return &sqlast.NestedJoin{Relation: root, Joins: joins}, nil
}

func (p *Parser) tryParseJoin() (*sqlast.Join, bool, error) {
	var jt sqlast.JoinType
	var natural bool

	switch {
	case p.check(NATURAL):
		natural = true
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		jt = sqlast.JoinInner
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	case p.check(JOIN):
		jt = sqlast.JoinInner
		if err := p.advance(); err != nil {
			return nil, false, err
		}
	case p.check(INNER):
		jt = sqlast.JoinInner
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	case p.check(LEFT):
		jt = sqlast.JoinLeft
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, err := p.match(OUTER); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	case p.check(RIGHT):
		jt = sqlast.JoinRight
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, err := p.match(OUTER); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	case p.check(FULL):
		jt = sqlast.JoinFull
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, err := p.match(OUTER); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	case p.check(CROSS):
		jt = sqlast.JoinCross
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		if _, err := p.expect(JOIN); err != nil {
			return nil, false, err
		}
	default:
		return nil, false, nil
	}

	relation, err := p.parseTableFactorPrimary()
	if err != nil {
		return nil, false, err
	}

	join := &sqlast.Join{Type: jt, Relation: relation}
	if !natural && p.check(ON) {
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		cond, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		join.Condition = cond
	}
	return join, true, nil
}

func (p *Parser) parseTableFactorPrimary() (sqlast.TableFactor, error) {
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
		alias, err := p.parseOptionalAlias()
		if err != nil {
			return nil, err
		}
		// Derived tables must have an alias (spec §4.7 step 3); the type
		// inferencer enforces this at infer time, where the error message
		// belongs to the TypeError taxonomy (spec §7), not the parser.
		return &sqlast.Derived{Subquery: q, Alias: alias}, nil
	}

	name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	alias, err := p.parseOptionalAlias()
	if err != nil {
		return nil, err
	}
	return &sqlast.Table{Name: name, Alias: alias}, nil
}

func (p *Parser) parseOptionalAlias() (string, error) {
	if p.check(AS) {
		if err := p.advance(); err != nil {
			return "", err
		}
		tok, err := p.expect(IDENT)
		if err != nil {
			return "", err
		}
		return tok.Literal, nil
	}
	if p.check(IDENT) {
		tok := p.cur
		if err := p.advance(); err != nil {
			return "", err
		}
		return tok.Literal, nil
	}
	return "", nil
}
