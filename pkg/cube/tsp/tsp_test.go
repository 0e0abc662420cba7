package tsp

import (
	"sort"
	"testing"
)

const unreachable = int(^uint(0) >> 1)

func matrixFromEdges(edges [][3]int, size int) Matrix {
	matrix := make(Matrix, size)
	for i := range matrix {
		matrix[i] = make([]int, size)
		for j := range matrix[i] {
			matrix[i][j] = unreachable
		}
	}
	for _, e := range edges {
		matrix[e[0]][e[1]] = e[2]
		matrix[e[1]][e[0]] = e[2]
	}
	return matrix
}

type edgeSet map[[3]int]int

func treeEdges(tree adjacency) edgeSet {
	set := make(edgeSet)
	for u, neighbors := range tree {
		for _, e := range neighbors {
			if u < e.to {
				set[[3]int{u, e.to, e.weight}]++
			} else {
				set[[3]int{e.to, u, e.weight}]++
			}
		}
	}
	return set
}

func assertTree(t *testing.T, tree adjacency, want [][3]int) {
	t.Helper()
	got := treeEdges(tree)
	expected := make(edgeSet)
	for _, e := range want {
		u, v := e[0], e[1]
		if u > v {
			u, v = v, u
		}
		expected[[3]int{u, v, e[2]}] += 2
	}
	if len(got) != len(expected) {
		t.Fatalf("tree edges = %v, want %v", got, expected)
	}
	for key, count := range expected {
		if got[key] != count {
			t.Errorf("edge %v count = %d, want %d", key, got[key], count)
		}
	}
}

func TestMinimumSpanningTree(t *testing.T) {
	cases := []struct {
		edges [][3]int
		size  int
		want  [][3]int
	}{
		{
			edges: [][3]int{{0, 1, 10}, {0, 2, 6}, {0, 3, 5}, {1, 3, 15}, {2, 3, 4}},
			size:  4,
			want:  [][3]int{{0, 3, 5}, {0, 1, 10}, {2, 3, 4}},
		},
		{
			edges: [][3]int{{0, 1, 2}, {0, 3, 6}, {1, 2, 3}, {1, 3, 8}, {1, 4, 5}, {2, 4, 7}, {3, 4, 9}},
			size:  5,
			want:  [][3]int{{0, 1, 2}, {1, 2, 3}, {0, 3, 6}, {1, 4, 5}},
		},
		{
			edges: [][3]int{
				{0, 1, 7}, {0, 2, 8}, {1, 2, 3}, {1, 3, 6}, {2, 3, 4},
				{2, 4, 3}, {3, 4, 2}, {3, 5, 5}, {4, 5, 2},
			},
			size: 6,
			want: [][3]int{{0, 1, 7}, {2, 4, 3}, {1, 2, 3}, {3, 4, 2}, {4, 5, 2}},
		},
		{
			edges: testMatrixEdges(),
			size:  6,
			want:  [][3]int{{0, 3, 10}, {1, 3, 9}, {2, 3, 6}, {3, 4, 9}, {4, 5, 8}},
		},
	}
	for i, tc := range cases {
		tree := minimumSpanningTree(matrixFromEdges(tc.edges, tc.size))
		assertTree(t, tree, tc.want)
		if t.Failed() {
			t.Fatalf("case %d failed", i)
		}
	}
}

func testMatrixEdges() [][3]int {
	return [][3]int{
		{0, 1, 11}, {1, 2, 10}, {0, 2, 14}, {0, 4, 10}, {0, 3, 10},
		{0, 5, 15}, {1, 3, 9}, {1, 4, 15}, {1, 5, 16}, {3, 4, 9},
		{3, 5, 10}, {2, 5, 11}, {2, 4, 13}, {4, 5, 8}, {2, 3, 6},
	}
}

func adjacencyFromEdges(edges [][2]int) (adjacency, [][2]int) {
	adj := make(adjacency)
	var all [][2]int
	for _, e := range edges {
		adj[e[0]] = append(adj[e[0]], weightedEdge{to: e[1]})
		adj[e[1]] = append(adj[e[1]], weightedEdge{to: e[0]})
		all = append(all, [2]int{e[0], e[1]}, [2]int{e[1], e[0]})
	}
	return adj, all
}

func assertTour(t *testing.T, adj adjacency, edges [][2]int) {
	t.Helper()
	tour := findEulerianTour(adj)
	remaining := append([][2]int{}, edges...)
	remove := func(edge [2]int) bool {
		for i, e := range remaining {
			if e == edge {
				remaining = append(remaining[:i], remaining[i+1:]...)
				return true
			}
		}
		return false
	}
	for i := 0; i+1 < len(tour); i++ {
		s, d := tour[i], tour[i+1]
		if !remove([2]int{s, d}) || !remove([2]int{d, s}) {
			t.Fatalf("tour step (%d, %d) not available in %v", s, d, remaining)
		}
	}
	if len(remaining) != 0 {
		t.Errorf("tour left edges unused: %v", remaining)
	}
}

func TestEulerianTour(t *testing.T) {
	cases := [][][2]int{
		{
			{0, 1}, {1, 5}, {1, 7}, {4, 5}, {4, 8}, {1, 6}, {3, 7},
			{5, 9}, {2, 4}, {0, 4}, {2, 5}, {3, 6}, {8, 9},
		},
		{
			{0, 1}, {1, 3}, {0, 3}, {0, 2}, {1, 2}, {2, 3},
			{1, 4}, {3, 4}, {2, 4}, {0, 5}, {4, 5},
		},
	}
	for _, edges := range cases {
		adj, all := adjacencyFromEdges(edges)
		assertTour(t, adj, all)
	}
}

func TestGreedyMatchingRestoresEvenDegree(t *testing.T) {
	matrix := matrixFromEdges(testMatrixEdges(), 6)
	tree := minimumSpanningTree(matrix)
	odd := findOddVertices(tree)
	if len(odd)%2 != 0 {
		t.Fatalf("odd vertex count %d should be even", len(odd))
	}
	greedyPerfectMatching(tree, matrix, odd)
	for v, neighbors := range tree {
		if len(neighbors)%2 != 0 {
			t.Errorf("vertex %d has odd degree %d after matching", v, len(neighbors))
		}
	}
}

func TestSolveVisitsEveryVertexOnce(t *testing.T) {
	matrix := matrixFromEdges(testMatrixEdges(), 6)
	// Only the diagonal holds unreachable sentinels; give it a finite
	// distance.
	for i := range matrix {
		for j := range matrix[i] {
			if matrix[i][j] == unreachable {
				matrix[i][j] = 50
			}
		}
	}
	order := Solve(matrix)
	sorted := append([]int{}, order...)
	sort.Ints(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("order %v should be a permutation of 0..5", order)
		}
	}
}

func TestUnionFind(t *testing.T) {
	u := newUnionFind()
	if u.find(1) == u.find(2) {
		t.Fatal("fresh singletons should differ")
	}
	u.union(1, 2)
	if u.find(1) != u.find(2) {
		t.Error("1 and 2 should share a root after union")
	}
	u.union(2, 3)
	if u.find(3) != u.find(1) {
		t.Error("3 should join 1's set")
	}
	if u.find(4) == u.find(1) {
		t.Error("4 should still be separate")
	}
}
