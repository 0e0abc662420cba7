package cube

import "testing"

// The disagreement matrix over a stream of single-dimension filter rows.
// Rows that are all zeros or all ones carry no signal and must be skipped.
func TestOrderingMatrices(t *testing.T) {
	matrices := newOrderingMatrices([]int{5})
	feed := func(count int, row []byte) {
		for i := 0; i < count; i++ {
			matrices.accumulate(filterMatrix{row})
		}
	}
	feed(10, []byte{0, 1, 0, 0, 0})
	feed(40, []byte{0, 1, 1, 1, 0})
	feed(10, []byte{0, 1, 1, 1, 1})
	feed(140, []byte{0, 0, 1, 0, 1})

	want := [][]int{
		{0, 60, 190, 50, 150},
		{60, 0, 150, 10, 190},
		{190, 150, 0, 140, 40},
		{50, 10, 140, 0, 180},
		{150, 190, 40, 180, 0},
	}
	for i, row := range want {
		for j, cell := range row {
			if matrices[0][i][j] != cell {
				t.Errorf("matrix[%d][%d] = %d, want %d", i, j, matrices[0][i][j], cell)
			}
		}
	}
}

func TestOrderingMatricesMerge(t *testing.T) {
	a := newOrderingMatrices([]int{3})
	b := newOrderingMatrices([]int{3})
	a.accumulate(filterMatrix{{0, 1, 0}})
	b.accumulate(filterMatrix{{0, 1, 0}})
	a.merge(b)
	if a[0][1][2] != 2 || a[0][2][1] != 2 {
		t.Errorf("merged disagreement = %d/%d, want 2/2", a[0][1][2], a[0][2][1])
	}
}

func TestIdentityOrders(t *testing.T) {
	orders := identityOrders([]DimensionLength{3, 2})
	if len(orders) != 2 {
		t.Fatalf("got %d orders", len(orders))
	}
	for i, want := range [][]DimensionID{{1, 2, 3}, {1, 2}} {
		if len(orders[i]) != len(want) {
			t.Fatalf("order %d = %v, want %v", i, orders[i], want)
		}
		for j := range want {
			if orders[i][j] != want[j] {
				t.Errorf("order %d[%d] = %d, want %d", i, j, orders[i][j], want[j])
			}
		}
	}
}
