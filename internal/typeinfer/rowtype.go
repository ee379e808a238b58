// Package typeinfer implements the structural row-type inferencer (spec
// §4.7): a persistent, immutable type environment mapping table name to row
// type, and an infer() pass that walks a parsed query and produces the row
// type it projects.
package typeinfer

// BaseType is the scalar type lattice a column can carry. Any is the top
// type: partial knowledge about a column never cascades into a spurious
// inference failure elsewhere.
type BaseType int

// Recognized BaseType values.
const (
	Any BaseType = iota
	String
	Boolean
	Number
	Float
)

func (b BaseType) String() string {
	switch b {
	case String:
		return "String"
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case Float:
		return "Float"
	default:
		return "Any"
	}
}

// RowType describes the columns a query projects. Closed row types are
// known exactly; Open row types include at least the named columns plus an
// unknown remainder (produced whenever a projection contains a wildcard).
type RowType struct {
	Open    bool
	Columns map[string]BaseType
}

// Closed builds a RowType with exactly the given columns.
func Closed(columns map[string]BaseType) RowType {
	return RowType{Open: false, Columns: columns}
}

// OpenRow builds a RowType whose named columns are known but which also
// admits further, unnamed columns (wildcard projections).
func OpenRow(columns map[string]BaseType) RowType {
	return RowType{Open: true, Columns: columns}
}
