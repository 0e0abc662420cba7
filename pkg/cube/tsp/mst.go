package tsp

import "sort"

// minimumSpanningTree runs Kruskal's algorithm over the complete graph
// described by the distance matrix. Edges are scanned in weight order with
// the (u, v) enumeration order preserved among equal weights, which keeps
// the resulting tree deterministic.
func minimumSpanningTree(matrix Matrix) adjacency {
	n := len(matrix)
	type candidate struct {
		weight int
		u, v   int
	}
	candidates := make([]candidate, 0, n*n)
	for u := 0; u < n; u++ {
		for v := 0; v < n; v++ {
			candidates = append(candidates, candidate{weight: matrix[u][v], u: u, v: v})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight < candidates[j].weight
	})

	tree := make(adjacency, n)
	subtrees := newUnionFind()
	for _, c := range candidates {
		if subtrees.find(c.u) != subtrees.find(c.v) {
			tree[c.u] = append(tree[c.u], weightedEdge{to: c.v, weight: c.weight})
			tree[c.v] = append(tree[c.v], weightedEdge{to: c.u, weight: c.weight})
			subtrees.union(c.u, c.v)
		}
	}
	return tree
}
