package cube

// DiffIterators groups a cube's per-cell diff sets by outer-dimension rows,
// so planners can advance the frontier row by row: an Outer node holds one
// child per value of its axis along with the timestamp that opens the next
// row; an Inner node holds the innermost axis' cells with their current and
// next timestamps.
type DiffIterators struct {
	Outer []OuterEntry
	Inner []InnerEntry
}

// OuterEntry is one value of a non-innermost axis.
type OuterEntry struct {
	Next Timestamp
	Rows *DiffIterators
}

// InnerEntry is one innermost-axis cell.
type InnerEntry struct {
	Current Timestamp
	Next    Timestamp
	Diffs   []EdgeDiff
}

// DifferentialData is the lazily materialized view of a cube consumed by the
// basic planner.
type DifferentialData struct {
	Iterators       *DiffIterators
	DimensionsCount int
}

func newDifferentialData(c *FilteredCube) *DifferentialData {
	diffStore := make(map[Timestamp][]EdgeDiff, len(c.Data.Entries))
	for _, entry := range c.Data.Entries {
		diffStore[entry.Timestamp] = entry.DiffEdges
	}
	iterators := newDiffIterators(0, ZeroTimestamp(), diffStore, c.DimensionLengths)
	return &DifferentialData{Iterators: iterators, DimensionsCount: len(c.DimensionLengths)}
}

func newDiffIterators(
	dimension int,
	timestamp Timestamp,
	diffStore map[Timestamp][]EdgeDiff,
	dimensionLengths []DimensionLength,
) *DiffIterators {
	totalDimensions := len(dimensionLengths)
	length := dimensionLengths[dimension]
	if dimension+1 == totalDimensions {
		inner := make([]InnerEntry, 0, length)
		for value := DimensionID(0); value < length; value++ {
			current := timestamp
			current.SetValueAt(dimension, totalDimensions, value)
			next := timestamp
			next.SetValueAt(dimension, totalDimensions, value+1)
			diffs, ok := diffStore[current]
			if !ok {
				panic("diff store missing cell " + current.String())
			}
			delete(diffStore, current)
			inner = append(inner, InnerEntry{Current: current, Next: next, Diffs: diffs})
		}
		return &DiffIterators{Inner: inner}
	}
	outer := make([]OuterEntry, 0, length)
	for value := DimensionID(0); value < length; value++ {
		timestamp.SetValueAt(dimension, totalDimensions, value)
		rows := newDiffIterators(dimension+1, timestamp, diffStore, dimensionLengths)
		timestamp.SetValueAt(dimension, totalDimensions, value+1)
		outer = append(outer, OuterEntry{Next: timestamp, Rows: rows})
	}
	return &DiffIterators{Outer: outer}
}
