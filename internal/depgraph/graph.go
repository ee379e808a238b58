package depgraph

// DAGNode is one model's position in the dependency DAG. LiveParents is set
// by Build and left unchanged by Run, which decrements its own copy of the
// counter (monotonically, never increasing) as it executes.
type DAGNode struct {
	Name        string
	LiveParents int
	Successors  []string
}

// Graph is a model name to DAGNode map.
type Graph map[string]*DAGNode

// Build converts a resolved dependency map into a Graph. Every key gets a
// node with LiveParents=0, Successors=nil; for each (to, from) edge in deps,
// `to` is appended to `from`'s successors and `to`'s LiveParents is
// incremented (§4.4).
func Build(deps DependencyMap) Graph {
	g := make(Graph, len(deps))
	for name := range deps {
		g[name] = &DAGNode{Name: name}
	}
	for to, froms := range deps {
		for _, from := range froms {
			node := g[from]
			node.Successors = append(node.Successors, to)
			g[to].LiveParents++
		}
	}
	return g
}

// TotalEdges sums LiveParents across all nodes, which must equal the total
// edge count in the graph (§4.4 invariant check).
func (g Graph) TotalEdges() int {
	total := 0
	for _, n := range g {
		total += n.LiveParents
	}
	return total
}
