package depgraph

import (
	"fmt"
	"os"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
	"github.com/PowerSQL/PowerSQL/internal/sqlparse"
)

// ModelSet is a name to statement mapping produced by Load. Keys are the
// CREATE VIEW/CREATE TABLE target names; duplicate names across files are
// resolved by later-loaded-file-wins, mirroring the observable (not
// guaranteed) behavior of a plain map assignment.
type ModelSet map[string]sqlast.Statement

// Load reads and parses every path, retaining only CreateView and
// CreateTable statements. Any other top-level statement is a load error.
func Load(paths []string) (ModelSet, error) {
	models := ModelSet{}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		stmt, err := sqlparse.ParseStatement(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		switch s := stmt.(type) {
		case *sqlast.CreateViewStmt:
			models[s.Name] = s
		case *sqlast.CreateTableStmt:
			models[s.Name] = s
		default:
			return nil, &UnsupportedStatementError{Path: path}
		}
	}
	return models, nil
}

// LoadAsserts reads and parses every test file path, retaining only the
// ASSERT statements each file contains (§6's test file format: a sequence of
// ASSERT statements). Unlike models, test files may carry several statements
// per file, so each path is parsed statement-by-statement.
func LoadAsserts(paths []string) ([]*sqlast.AssertStmt, error) {
	var asserts []*sqlast.AssertStmt
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		stmts, err := sqlparse.ParseStatements(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		for _, stmt := range stmts {
			a, ok := stmt.(*sqlast.AssertStmt)
			if !ok {
				return nil, fmt.Errorf("%s: only ASSERT statements are supported in test files", path)
			}
			asserts = append(asserts, a)
		}
	}
	return asserts, nil
}
