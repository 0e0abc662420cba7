package cube

import (
	"log/slog"

	"github.com/vanderheijden86/graphsurge/pkg/cube/tsp"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
)

// filterMatrix is one edge's membership bits: one row per dimension, one
// column per filter in that dimension prefixed by a constant 0 column for
// "unfiltered".
type filterMatrix [][]byte

func newFilterMatrix(edge graph.Edge, dimensions []Dimension) filterMatrix {
	matrix := make(filterMatrix, len(dimensions))
	for d, dimension := range dimensions {
		row := make([]byte, len(dimension)+1)
		for c, filter := range dimension {
			if filter.Test(edge) {
				row[c+1] = 1
			}
		}
		matrix[d] = row
	}
	return matrix
}

// orderingMatrices accumulates, per dimension, the pairwise filter
// disagreement counts that drive the ordering optimizer.
type orderingMatrices []tsp.Matrix

func newOrderingMatrices(columnCounts []int) orderingMatrices {
	matrices := make(orderingMatrices, len(columnCounts))
	for d, n := range columnCounts {
		matrix := make(tsp.Matrix, n)
		for i := range matrix {
			matrix[i] = make([]int, n)
		}
		matrices[d] = matrix
	}
	return matrices
}

// accumulate folds one edge's filter matrix into the disagreement counts.
// Rows that are all zeros or all ones carry no ordering signal and are
// skipped.
func (m orderingMatrices) accumulate(edge filterMatrix) {
	for d, row := range edge {
		sum := 0
		for _, v := range row {
			sum += int(v)
		}
		if sum == 0 || sum == len(row) {
			continue
		}
		matrix := m[d]
		for i := range matrix {
			left := int(row[i])
			for j := range matrix[i] {
				right := int(row[j])
				matrix[i][j] += left*(1-right) + (1-left)*right
			}
		}
	}
}

// merge adds another worker's partial counts into this one.
func (m orderingMatrices) merge(other orderingMatrices) {
	for d := range m {
		for i := range m[d] {
			for j := range m[d][i] {
				m[d][i][j] += other[d][i][j]
			}
		}
	}
}

// optimalOrders runs the TSP approximation per dimension and drops the
// synthetic unfiltered column (value 0) from each ordering.
func (m orderingMatrices) optimalOrders() [][]DimensionID {
	orders := make([][]DimensionID, len(m))
	for d, matrix := range m {
		circuit := tsp.Solve(matrix)
		order := make([]DimensionID, 0, len(circuit)-1)
		for _, v := range circuit {
			if v != 0 {
				order = append(order, DimensionID(v))
			}
		}
		orders[d] = order
	}
	return orders
}

// identityOrders returns the trivial ordering 1..length per dimension, used
// when the optimizer is bypassed.
func identityOrders(lengths []DimensionLength) [][]DimensionID {
	orders := make([][]DimensionID, len(lengths))
	for d, length := range lengths {
		order := make([]DimensionID, length)
		for i := range order {
			order[i] = DimensionID(i + 1)
		}
		orders[d] = order
	}
	return orders
}

func logOrders(orders [][]DimensionID) {
	for index, order := range orders {
		slog.Info("dimension order", "dimension", index, "order", order)
	}
}
