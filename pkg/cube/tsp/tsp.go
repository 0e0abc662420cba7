// Package tsp approximates the metric travelling-salesman ordering of filter
// values within one cube dimension. The pipeline is Christofides-shaped:
// Kruskal MST, greedy matching of odd-degree vertices, Eulerian tour, and a
// Hamiltonian shortcut. The matching is greedy rather than optimal; quality
// rests on the triangle inequality, which is spot-checked.
package tsp

import (
	"fmt"
	"math/rand"
	"sort"
)

// Matrix is a symmetric distance matrix over filter values.
type Matrix [][]int

// adjacency maps a vertex to its weighted neighbor list in the working
// multigraph.
type adjacency map[int][]weightedEdge

type weightedEdge struct {
	to     int
	weight int
}

const triangleSamples = 30

// Solve returns an ordering of the matrix's vertices approximating the
// minimal total adjacent distance. Invariant violations panic: they indicate
// a malformed distance matrix, which is fatal for cube construction.
func Solve(matrix Matrix) []int {
	spotCheckTriangleInequality(matrix)
	mst := minimumSpanningTree(matrix)
	odd := findOddVertices(mst)
	if len(odd)%2 != 0 {
		panic("expected an even number of odd-degree vertices")
	}
	greedyPerfectMatching(mst, matrix, odd)
	tour := findEulerianTour(mst)
	circuit := hamiltonianShortcut(tour)
	if len(circuit) != len(matrix) {
		panic("expected all vertices to appear in the hamiltonian circuit")
	}
	return circuit
}

// spotCheckTriangleInequality samples up to triangleSamples vertices and
// asserts the metric property on their triples.
func spotCheckTriangleInequality(matrix Matrix) {
	n := len(matrix)
	sampled := rand.Perm(n)
	if len(sampled) > triangleSamples {
		sampled = sampled[:triangleSamples]
	}
	sort.Ints(sampled)
	for i := 0; i < len(sampled); i++ {
		for j := i + 1; j < len(sampled); j++ {
			for k := j + 1; k < len(sampled); k++ {
				u, v, w := sampled[i], sampled[j], sampled[k]
				if matrix[u][v]+matrix[v][w] < matrix[w][u] {
					panic(fmt.Sprintf("triangle inequality not satisfied for (%d, %d, %d)", u, v, w))
				}
			}
		}
	}
}

func findOddVertices(mst adjacency) []int {
	var odd []int
	for v, neighbors := range mst {
		if len(neighbors)%2 == 1 {
			odd = append(odd, v)
		}
	}
	// Map iteration order is not stable; keep the matching deterministic.
	sort.Ints(odd)
	return odd
}

// greedyPerfectMatching pairs each odd vertex with its closest unmatched odd
// vertex, adding the pairing edges to the tree in place. Not a true
// minimum-weight matching; bounded only via the (spot-checked) triangle
// inequality.
func greedyPerfectMatching(mst adjacency, matrix Matrix, odd []int) {
	for len(odd) > 0 {
		v := odd[len(odd)-1]
		odd = odd[:len(odd)-1]
		closest := 0
		length := int(^uint(0) >> 1)
		for _, u := range odd {
			if u != v && matrix[u][v] < length {
				length = matrix[u][v]
				closest = u
			}
		}
		mst[v] = append(mst[v], weightedEdge{to: closest, weight: length})
		mst[closest] = append(mst[closest], weightedEdge{to: v, weight: length})
		remaining := odd[:0]
		for _, u := range odd {
			if u != closest {
				remaining = append(remaining, u)
			}
		}
		odd = remaining
	}
}

// hamiltonianShortcut walks the Euler tour emitting each vertex on first
// visit.
func hamiltonianShortcut(tour []int) []int {
	visited := make(map[int]bool, len(tour))
	var circuit []int
	for _, v := range tour {
		if !visited[v] {
			visited[v] = true
			circuit = append(circuit, v)
		}
	}
	return circuit
}
