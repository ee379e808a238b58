package sqlparse

import (
	"fmt"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// Parser builds a sqlast tree from a token stream produced by a Lexer,
// following the teacher's recursive-descent structure (pkg/parser/parser.go):
// one struct holding cur/peek tokens, advance()/expect()/match() helpers, and
// one parseX method per grammar production.
type Parser struct {
	lex *Lexer

	cur   Token
	peek  Token
	peek2 Token
}

// NewParser creates a Parser over the given SQL source text.
func NewParser(input string) (*Parser, error) {
	p := &Parser{lex: NewLexer(input)}
	for i := 0; i < 3; i++ {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.peek
	p.peek = p.peek2
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.peek2 = tok
	return nil
}

func (p *Parser) check(tt TokenType) bool {
	return p.cur.Type == tt
}

func (p *Parser) match(tt TokenType) (bool, error) {
	if p.check(tt) {
		if err := p.advance(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	if !p.check(tt) {
		return Token{}, &ParseError{Pos: p.cur.Pos, Message: fmt.Sprintf("unexpected token %s, expected %s", describeToken(p.cur), tt)}
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func describeToken(t Token) string {
	if t.Type == IDENT || t.Type == STRING || t.Type == NUMBER {
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	}
	return t.Type.String()
}

// ParseStatement parses a single top-level Statement: CREATE VIEW/TABLE AS
// SELECT (model files) or ASSERT (test files). Spec §6: "any other top-level
// statement is a load error."
func ParseStatement(sql string) (sqlast.Statement, error) {
	p, err := NewParser(sql)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseTopLevel()
	if err != nil {
		return nil, err
	}
	if !p.check(EOF) {
		if _, err := p.expect(SEMI); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

// ParseStatements parses a sequence of semicolon-terminated statements, used
// for test files that carry more than one ASSERT (spec §6).
func ParseStatements(sql string) ([]sqlast.Statement, error) {
	p, err := NewParser(sql)
	if err != nil {
		return nil, err
	}
	var stmts []sqlast.Statement
	for !p.check(EOF) {
		stmt, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if !p.check(EOF) {
			if _, err := p.expect(SEMI); err != nil {
				return nil, err
			}
		}
	}
	return stmts, nil
}

func (p *Parser) parseTopLevel() (sqlast.Statement, error) {
	switch {
	case p.check(CREATE):
		return p.parseCreate()
	case p.check(ASSERT):
		return p.parseAssert()
	default:
		return nil, &ParseError{Pos: p.cur.Pos, Message: "only CREATE VIEW, CREATE TABLE AS, and ASSERT statements are supported"}
	}
}

func (p *Parser) parseCreate() (sqlast.Statement, error) {
	if _, err := p.expect(CREATE); err != nil {
		return nil, err
	}

	switch {
	case p.check(MATERIALIZED) || p.check(VIEW):
		materialized, err := p.match(MATERIALIZED)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(VIEW); err != nil {
			return nil, err
		}
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(AS); err != nil {
			return nil, err
		}
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		return &sqlast.CreateViewStmt{Name: name, Materialized: materialized, Query: query}, nil

	case p.check(TABLE):
		if err := mustAdvance(p); err != nil {
			return nil, err
		}
		name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(AS); err != nil {
			return nil, err
		}
		query, err := p.parseQuery()
		if err != nil {
			return nil, err
		}
		return &sqlast.CreateTableStmt{Name: name, Query: query}, nil

	default:
		return nil, &ParseError{Pos: p.cur.Pos, Message: "only materialized views and CREATE TABLE AS are supported"}
	}
}

func mustAdvance(p *Parser) error { return p.advance() }

func (p *Parser) parseAssert() (sqlast.Statement, error) {
	if _, err := p.expect(ASSERT); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(AS); err != nil {
		return nil, err
	}
	msgTok, err := p.expect(STRING)
	if err != nil {
		return nil, err
	}
	return &sqlast.AssertStmt{Condition: cond, Message: msgTok.Literal}, nil
}

// parseQualifiedName parses a dotted identifier sequence (catalog.schema.name).
func (p *Parser) parseQualifiedName() (string, error) {
	tok, err := p.expect(IDENT)
	if err != nil {
		return "", err
	}
	name := tok.Literal
	for p.check(DOT) {
		if err := p.advance(); err != nil {
			return "", err
		}
		part, err := p.expect(IDENT)
		if err != nil {
			return "", err
		}
		name += "." + part.Literal
	}
	return name, nil
}
