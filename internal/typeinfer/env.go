package typeinfer

import iradix "github.com/hashicorp/go-immutable-radix"

// Env is a persistent, immutable map from table/CTE name to RowType,
// backed by a radix tree so each Extend costs O(len(name)) and shares structure
// with every prior snapshot (spec §4.7, §9's "persistent hash-map" note and
// §5's "older values remain valid for concurrent readers").
type Env struct {
	tree *iradix.Tree
}

// NewEnv returns the empty type environment.
func NewEnv() Env {
	return Env{tree: iradix.New()}
}

// Get looks up name, returning its RowType and whether it was bound.
func (e Env) Get(name string) (RowType, bool) {
	v, ok := e.tree.Get([]byte(name))
	if !ok {
		return RowType{}, false
	}
	return v.(RowType), true
}

// Extend returns a new Env with name bound to ty, leaving e itself (and any
// other holder of it) untouched.
func (e Env) Extend(name string, ty RowType) Env {
	tree, _, _ := e.tree.Insert([]byte(name), ty)
	return Env{tree: tree}
}
