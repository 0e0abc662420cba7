package tsp

import "sort"

// findEulerianTour extracts an Euler circuit from the augmented tree by
// iterative DFS with adjacency-list popping. Every vertex must have even
// degree by construction; the tour visits every edge exactly once and has
// length edgeCount + 1. The input adjacency is consumed.
func findEulerianTour(mst adjacency) []int {
	edgeCount := 0
	for _, neighbors := range mst {
		if len(neighbors)%2 != 0 {
			panic("all vertices should have even degree")
		}
		// Sort adjacency lists by descending neighbor id, to keep the tour
		// close to the caller-defined order when popping from the tail.
		sort.SliceStable(neighbors, func(i, j int) bool {
			return neighbors[i].to > neighbors[j].to
		})
		edgeCount += len(neighbors)
	}

	stack := []int{0}
	var tour []int
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for len(mst[current]) > 0 {
			neighbors := mst[current]
			edge := neighbors[len(neighbors)-1]
			mst[current] = neighbors[:len(neighbors)-1]
			// Store the vertex to resume from, then remove the mirror edge
			// from the neighbor's adjacency list.
			stack = append(stack, current)
			removed := false
			adj := mst[edge.to]
			for i, mirror := range adj {
				if mirror.to == current && mirror.weight == edge.weight {
					mst[edge.to] = append(adj[:i], adj[i+1:]...)
					removed = true
					break
				}
			}
			if !removed {
				panic("mirror edge should exist")
			}
			current = edge.to
		}
		// Prepend: finished vertices emit in reverse completion order.
		tour = append([]int{current}, tour...)
	}
	if len(tour) != edgeCount/2+1 {
		panic("tour should use exactly all edges in the tree")
	}
	return tour
}
