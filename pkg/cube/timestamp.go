// Package cube materializes multidimensional filtered cubes over a base
// graph: cell coordinates and their lattice algebra, per-cell full and diff
// edge sets, dimension orderings, and the stores that hold built cubes.
package cube

import (
	"fmt"
)

// MaxDimensions bounds the number of cube axes a coordinate can carry.
const MaxDimensions = 3

// DimensionID is a position along one cube axis.
type DimensionID uint16

// DimensionLength is the number of cells along one axis.
type DimensionLength = DimensionID

// Timestamp is a cell coordinate in an up-to-MaxDimensions cube. The backing
// array stores the least-significant axis first, so unused slots are zero
// and componentwise comparisons need no dimension count.
type Timestamp struct {
	id [MaxDimensions]DimensionID
}

// NewTimestamp builds a coordinate from axis values given most-significant
// first, the order used everywhere in the public API. Zero or more than
// MaxDimensions axes panic: an illegal dimension count is a programming
// error, not an input error.
func NewTimestamp(values ...DimensionID) Timestamp {
	if len(values) == 0 || len(values) > MaxDimensions {
		panic(fmt.Sprintf("total dimensions should be between 1 and %d, got %d", MaxDimensions, len(values)))
	}
	var ts Timestamp
	for i := range values {
		ts.id[i] = values[len(values)-1-i]
	}
	return ts
}

// ZeroTimestamp is the origin cell of any cube.
func ZeroTimestamp() Timestamp { return Timestamp{} }

func checkAxes(index, length int) {
	if length <= 0 || length > MaxDimensions {
		panic(fmt.Sprintf("total dimensions should be between 1 and %d, got %d", MaxDimensions, length))
	}
	if index >= length {
		panic(fmt.Sprintf("dimension id (%d) should be less than length (%d)", index, length))
	}
}

// ValueAt returns the coordinate's value on axis index of totalAxes.
func (t Timestamp) ValueAt(index, totalAxes int) DimensionID {
	checkAxes(index, totalAxes)
	return t.id[totalAxes-1-index]
}

// SetValueAt sets the coordinate's value on axis index of totalAxes.
func (t *Timestamp) SetValueAt(index, totalAxes int, value DimensionID) {
	checkAxes(index, totalAxes)
	t.id[totalAxes-1-index] = value
}

// Next increments the innermost axis. Planners downgrade the input
// capability to Next() after a cell is fully loaded.
func (t Timestamp) Next() Timestamp { return t.NextBy(1) }

// NextBy increments the innermost axis by count. Overflow is fatal.
func (t Timestamp) NextBy(count DimensionID) Timestamp {
	next := t
	v := next.id[0]
	if v+count < v {
		panic("timestamp increment overflow")
	}
	next.id[0] = v + count
	return next
}

// DiffNeighborhood returns the inclusion-exclusion neighborhood of the cell:
// for every non-empty subset of axes, the coordinate with each subset axis
// decremented, split into positive (odd subset size) and negative (even)
// sets. Predecessors that would need a negative component are dropped. The
// enumeration order (subset size ascending, combinations lexicographic) is
// stable and part of the contract.
func (t Timestamp) DiffNeighborhood() (positive, negative []Timestamp) {
	for level := 1; level <= MaxDimensions; level++ {
	combinations:
		for _, indices := range combinations(MaxDimensions, level) {
			previous := t
			for _, idx := range indices {
				if previous.id[idx] == 0 {
					// Previous timestamp does not exist.
					continue combinations
				}
				previous.id[idx]--
			}
			if level%2 == 1 {
				positive = append(positive, previous)
			} else {
				negative = append(negative, previous)
			}
		}
	}
	return positive, negative
}

// combinations enumerates k-element index subsets of 0..n-1 in lexicographic
// order.
func combinations(n, k int) [][]int {
	var result [][]int
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		row := make([]int, k)
		copy(row, indices)
		result = append(result, row)
		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return result
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// AllTimestamps enumerates every cell of a cube with the given axis lengths
// in canonical order: the cartesian product with the last axis varying
// fastest.
func AllTimestamps(dimensionLengths []DimensionLength) []Timestamp {
	if len(dimensionLengths) == 0 || len(dimensionLengths) > MaxDimensions {
		panic(fmt.Sprintf("total dimensions should be between 1 and %d, got %d", MaxDimensions, len(dimensionLengths)))
	}
	total := 1
	for _, l := range dimensionLengths {
		total *= int(l)
	}
	result := make([]Timestamp, 0, total)
	values := make([]DimensionID, len(dimensionLengths))
	var emit func(axis int)
	emit = func(axis int) {
		if axis == len(dimensionLengths) {
			result = append(result, NewTimestamp(values...))
			return
		}
		for v := DimensionID(0); v < dimensionLengths[axis]; v++ {
			values[axis] = v
			emit(axis + 1)
		}
	}
	emit(0)
	return result
}

// LessEqual is the componentwise partial order.
func (t Timestamp) LessEqual(other Timestamp) bool {
	return t.id[0] <= other.id[0] && t.id[1] <= other.id[1] && t.id[2] <= other.id[2]
}

// LessThan reports t ≤ other and t ≠ other.
func (t Timestamp) LessThan(other Timestamp) bool {
	return t != other && t.LessEqual(other)
}

// Join is the componentwise maximum.
func (t Timestamp) Join(other Timestamp) Timestamp {
	return Timestamp{id: [MaxDimensions]DimensionID{
		max(t.id[0], other.id[0]),
		max(t.id[1], other.id[1]),
		max(t.id[2], other.id[2]),
	}}
}

// Meet is the componentwise minimum.
func (t Timestamp) Meet(other Timestamp) Timestamp {
	return Timestamp{id: [MaxDimensions]DimensionID{
		min(t.id[0], other.id[0]),
		min(t.id[1], other.id[1]),
		min(t.id[2], other.id[2]),
	}}
}

// Key renders the coordinate most-significant first with the given
// separator, as used in result file names.
func (t Timestamp) Key(sep string) string {
	return fmt.Sprintf("%d%s%d%s%d", t.id[2], sep, t.id[1], sep, t.id[0])
}

func (t Timestamp) String() string {
	return "[" + t.Key(",") + "]"
}
