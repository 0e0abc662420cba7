package cube

import (
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// edgeIDDiff is a diff entry still keyed by edge id; ids are resolved to
// endpoint pairs only when cell entries are assembled.
type edgeIDDiff struct {
	ID     model.EdgeID
	Change model.DiffCount
}

// diffProcessingData accumulates one cell's results while streaming edges:
// the cell's canonical index, its neighborhood, the per-dimension filter
// column chosen for this cell by the dimension orders, and the full/diff
// edge lists built so far.
type diffProcessingData struct {
	timestampIndex int
	neighborhood   DiffNeighborhood
	indices        []int
	full           []model.EdgeID
	diff           []edgeIDDiff
}

// newResultsStash lays out one diffProcessingData per cell, walking the
// cartesian product of the dimension orders so that each cell knows which
// filter column to consult per axis.
func newResultsStash(orders [][]DimensionID, lengths []DimensionLength) []diffProcessingData {
	mappings := NewTimestampMappings(lengths)

	// Pair every ordered filter with its position along the axis.
	type positioned struct {
		position DimensionID
		column   int
	}
	axes := make([][]positioned, len(orders))
	for d, order := range orders {
		axis := make([]positioned, len(order))
		for i, column := range order {
			axis[i] = positioned{position: DimensionID(i), column: int(column)}
		}
		axes[d] = axis
	}

	var stash []diffProcessingData
	current := make([]positioned, len(axes))
	var walk func(axis int)
	walk = func(axis int) {
		if axis == len(axes) {
			positions := make([]DimensionID, len(current))
			indices := make([]int, len(current))
			for i, p := range current {
				positions[i] = p.position
				indices[i] = p.column
			}
			timestamp := NewTimestamp(positions...)
			timestampIndex, ok := mappings.Index[timestamp]
			if !ok {
				panic("timestamp should be present in mappings")
			}
			stash = append(stash, diffProcessingData{
				timestampIndex: timestampIndex,
				neighborhood:   mappings.Entries[timestampIndex].Neighborhood,
				indices:        indices,
			})
			return
		}
		for _, p := range axes[axis] {
			current[axis] = p
			walk(axis + 1)
		}
	}
	walk(0)
	return stash
}

// processEdgeDiff classifies one edge into every cell of the stash and
// records its inclusion-exclusion diff contribution. The cache holds the
// edge's cumulative membership per visited cell so predecessor sums are
// plain lookups; stash order guarantees predecessors are visited first.
func processEdgeDiff(edgeID model.EdgeID, matrix filterMatrix, stash []diffProcessingData, storeTotalData bool) {
	cache := make(map[int]model.DiffCount, len(stash))
	for i := range stash {
		cell := &stash[i]
		var currentValue model.DiffCount
		included := true
		for d, columnIndex := range cell.indices {
			if matrix[d][columnIndex] != 1 {
				included = false
				break
			}
		}
		if included {
			if storeTotalData {
				cell.full = append(cell.full, edgeID)
			}
			currentValue = 1
		}

		var positiveSum, negativeSum model.DiffCount
		for _, previous := range cell.neighborhood.Add {
			value, ok := cache[previous]
			if !ok {
				panic("predecessor membership should be cached")
			}
			positiveSum += value
		}
		for _, previous := range cell.neighborhood.Subtract {
			value, ok := cache[previous]
			if !ok {
				panic("predecessor membership should be cached")
			}
			negativeSum += value
		}
		previousValue := positiveSum - negativeSum
		newValue := currentValue - previousValue
		if newValue != 0 {
			cell.diff = append(cell.diff, edgeIDDiff{ID: edgeID, Change: newValue})
		}
		cache[cell.timestampIndex] = newValue + previousValue
	}
}
