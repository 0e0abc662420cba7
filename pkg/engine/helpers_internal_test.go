package engine

import (
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// testEntries fabricates a 1-D cell sequence where cell i carries adds[i]
// added edges and no deletions.
func testEntries(adds []int) []cube.CellEntry {
	entries := make([]cube.CellEntry, 0, len(adds))
	for i, count := range adds {
		entries = append(entries, cellWithDiffs(i, count, 0))
	}
	return entries
}

// cellWithDiffs fabricates one cell with the given addition and deletion
// counts; edge endpoints are synthetic.
func cellWithDiffs(index, adds, dels int) cube.CellEntry {
	diffs := make([]cube.EdgeDiff, 0, adds+dels)
	for i := 0; i < adds; i++ {
		diffs = append(diffs, cube.EdgeDiff{
			Edge:   model.SimpleEdge{Src: model.VertexID(i), Dst: model.VertexID(i + 1)},
			Change: 1,
		})
	}
	for i := 0; i < dels; i++ {
		diffs = append(diffs, cube.EdgeDiff{
			Edge:   model.SimpleEdge{Src: model.VertexID(i), Dst: model.VertexID(i + 1)},
			Change: -1,
		})
	}
	return cube.CellEntry{
		Index:     index,
		Timestamp: cube.NewTimestamp(cube.DimensionID(index)),
		DiffEdges: diffs,
		Additions: adds,
		Deletions: dels,
	}
}
