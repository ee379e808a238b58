package depgraph

// Action is the pass-specific work the topological driver performs on one
// model name. Returning an error aborts the entire run (§4.5's fail-fast
// driver); the driver is single-threaded.
type Action func(name string) error

// Run visits every node in g exactly once, in an order consistent with the
// DAG: seed a worklist with every zero-live-parents node, then repeatedly pop
// one, invoke action, and decrement each successor's LiveParents, pushing
// any that reach zero. Worklist order beyond "some topological order" is
// unspecified; this implementation uses a LIFO stack.
//
// Run mutates a copy of each node's LiveParents counter so the caller's
// Graph can be reused across repeated passes (check then run, for example)
// without rebuilding it.
func Run(g Graph, action Action) error {
	remaining := make(map[string]int, len(g))
	var worklist []string
	for name, node := range g {
		remaining[name] = node.LiveParents
		if node.LiveParents == 0 {
			worklist = append(worklist, name)
		}
	}

	visited := make(map[string]bool, len(g))
	for len(worklist) > 0 {
		m := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		if visited[m] {
			continue
		}
		visited[m] = true

		if err := action(m); err != nil {
			return err
		}

		for _, s := range g[m].Successors {
			remaining[s]--
			if remaining[s] == 0 {
				worklist = append(worklist, s)
			}
		}
	}
	return nil
}
