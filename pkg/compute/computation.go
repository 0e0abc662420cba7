// Package compute defines the contract a graph algorithm implements to run
// inside the cube engine, plus the built-in algorithms (BFS, SSSP, WCC, SCC,
// SPSP, PageRank). Algorithms receive pre-arranged node and edge views of
// the graph at one cube cell and return a multiset of result records.
package compute

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Record constrains an algorithm's result type: hashable (comparable),
// totally ordered, and printable. Records travel across workers by value.
type Record[R any] interface {
	comparable
	Less(other R) bool
	fmt.Stringer
}

// ResultSet is a multiset of result records; multiplicities are signed so
// sets compose with diff arithmetic.
type ResultSet[R Record[R]] map[R]model.DiffCount

// Add folds a record into the set, dropping it when its multiplicity
// cancels to zero.
func (s ResultSet[R]) Add(record R, diff model.DiffCount) {
	sum := s[record] + diff
	if sum == 0 {
		delete(s, record)
	} else {
		s[record] = sum
	}
}

// Adjacency maps a vertex to its (sorted) neighbor list.
type Adjacency map[model.VertexID][]model.VertexID

// Input is the primary input to a computation: the distinct node set and the
// forward and reverse edge arrangements of one cell's graph, plus the plain
// edge multiset for basic-mode algorithms. The graph is always directed; an
// undirected algorithm concatenates Forward and Reverse.
type Input struct {
	Nodes   []model.VertexID
	Forward Adjacency
	Reverse Adjacency
	Edges   []model.SimpleEdge
}

// Computation is the two-function algorithm contract. Basic receives only
// the plain edge collection; Arranged additionally relies on the arranged
// node and edge views. Either may panic as unimplemented when a planner mode
// does not apply, mirroring the variant that planners actually invoke.
type Computation[R Record[R]] interface {
	Name() string
	Basic(in *Input) ResultSet[R]
	Arranged(in *Input) ResultSet[R]
}

// SortedRecords returns the set's records in total order, for deterministic
// output files and error samples.
func SortedRecords[R Record[R]](s ResultSet[R]) []R {
	records := make([]R, 0, len(s))
	for r := range s {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Less(records[j]) })
	return records
}

// bfsDistances runs a unit-weight breadth-first search from root over the
// given adjacency, returning the distance map of reached vertices. The root
// is seeded separately from the edge set, so it is reached even when no
// edge mentions it.
func bfsDistances(root model.VertexID, forward Adjacency) map[model.VertexID]uint32 {
	distances := make(map[model.VertexID]uint32)
	distances[root] = 0
	frontier := []model.VertexID{root}
	for len(frontier) > 0 {
		var next []model.VertexID
		for _, v := range frontier {
			for _, n := range forward[v] {
				if _, seen := distances[n]; !seen {
					distances[n] = distances[v] + 1
					next = append(next, n)
				}
			}
		}
		frontier = next
	}
	return distances
}
