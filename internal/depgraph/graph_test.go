package depgraph

import "testing"

func TestBuild_Invariants(t *testing.T) {
	deps := DependencyMap{
		"stg_orders":    nil,
		"stg_customers": nil,
		"fct_orders":    {"stg_orders", "stg_customers"},
		"rpt_revenue":   {"fct_orders"},
	}

	g := Build(deps)

	if len(g) != len(deps) {
		t.Fatalf("expected %d nodes, got %d", len(deps), len(g))
	}

	edgeCount := 0
	for _, froms := range deps {
		edgeCount += len(froms)
	}
	if g.TotalEdges() != edgeCount {
		t.Errorf("expected total live_parents %d, got %d", edgeCount, g.TotalEdges())
	}

	for name, froms := range deps {
		if len(froms) == 0 && g[name].LiveParents != 0 {
			t.Errorf("model %s has no dependencies but LiveParents=%d", name, g[name].LiveParents)
		}
	}

	if g["fct_orders"].LiveParents != 2 {
		t.Errorf("expected fct_orders.LiveParents=2, got %d", g["fct_orders"].LiveParents)
	}
	if len(g["stg_orders"].Successors) != 1 || g["stg_orders"].Successors[0] != "fct_orders" {
		t.Errorf("expected stg_orders to have successor fct_orders, got %v", g["stg_orders"].Successors)
	}
}

func TestRun_TopologicalOrder(t *testing.T) {
	deps := DependencyMap{
		"a": nil,
		"b": {"a"},
		"c": {"a", "b"},
	}
	g := Build(deps)

	position := map[string]int{}
	i := 0
	err := Run(g, func(name string) error {
		position[name] = i
		i++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if position["a"] >= position["b"] {
		t.Errorf("expected a before b, got positions %v", position)
	}
	if position["b"] >= position["c"] {
		t.Errorf("expected b before c, got positions %v", position)
	}
}

func TestRun_AbortsOnFirstError(t *testing.T) {
	deps := DependencyMap{
		"a": nil,
		"b": {"a"},
		"c": {"b"},
	}
	g := Build(deps)

	visited := 0
	err := Run(g, func(name string) error {
		visited++
		if name == "b" {
			return errBoom
		}
		return nil
	})
	if err != errBoom {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if visited != 2 {
		t.Errorf("expected exactly 2 nodes visited before abort, got %d", visited)
	}
}

var errBoom = &DependencyError{Model: "b", Reference: "boom"}
