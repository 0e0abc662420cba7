package compute_test

import (
	"sort"
	"testing"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

func inputFromEdges(pairs [][2]model.VertexID) *compute.Input {
	in := &compute.Input{
		Forward: make(compute.Adjacency),
		Reverse: make(compute.Adjacency),
	}
	seen := make(map[model.VertexID]bool)
	for _, p := range pairs {
		src, dst := p[0], p[1]
		in.Edges = append(in.Edges, model.SimpleEdge{Src: src, Dst: dst})
		in.Forward[src] = append(in.Forward[src], dst)
		in.Reverse[dst] = append(in.Reverse[dst], src)
		seen[src] = true
		seen[dst] = true
	}
	for v := range seen {
		in.Nodes = append(in.Nodes, v)
	}
	sort.Slice(in.Nodes, func(i, j int) bool { return in.Nodes[i] < in.Nodes[j] })
	return in
}

func assertSet[R compute.Record[R]](t *testing.T, got compute.ResultSet[R], want map[R]model.DiffCount) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("result set = %v, want %v", got, want)
	}
	for record, count := range want {
		if got[record] != count {
			t.Errorf("record %v count = %d, want %d", record, got[record], count)
		}
	}
}

func TestBfsDistances(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{
		{6, 4}, {4, 2}, {4, 5}, {2, 3}, {2, 9}, {3, 8},
	})
	bfs := compute.Bfs{Root: 6}
	assertSet(t, bfs.Arranged(in), map[compute.VertexDist]model.DiffCount{
		{V: 6, Dist: 0}: 1,
		{V: 4, Dist: 1}: 1,
		{V: 2, Dist: 2}: 1,
		{V: 5, Dist: 2}: 1,
		{V: 3, Dist: 3}: 1,
		{V: 9, Dist: 3}: 1,
		{V: 8, Dist: 4}: 1,
	})
}

func TestBfsRootOutsideEdgeSet(t *testing.T) {
	// The root arrives through its own input, so it is labeled at distance
	// zero even when no edge mentions it.
	in := inputFromEdges([][2]model.VertexID{{1, 2}})
	bfs := compute.Bfs{Root: 99}
	assertSet(t, bfs.Arranged(in), map[compute.VertexDist]model.DiffCount{
		{V: 99, Dist: 0}: 1,
	})
}

func TestSsspWeightCap(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{{0, 1}, {1, 2}, {2, 3}})
	sssp := compute.Sssp{Root: 0, WeightCap: 2}
	assertSet(t, sssp.Arranged(in), map[compute.VertexDist]model.DiffCount{
		{V: 0, Dist: 0}: 1,
		{V: 1, Dist: 1}: 1,
		{V: 2, Dist: 2}: 1,
	})
}

func TestWccMinLabels(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{
		{4, 2}, {2, 5}, {3, 9}, {9, 8},
	})
	wcc := compute.Wcc{}
	assertSet(t, wcc.Arranged(in), map[compute.VertexPair]model.DiffCount{
		{U: 2, V: 2}: 1,
		{U: 4, V: 2}: 1,
		{U: 5, V: 2}: 1,
		{U: 3, V: 3}: 1,
		{U: 8, V: 3}: 1,
		{U: 9, V: 3}: 1,
	})
}

func TestSccEmitsReversedCycleEdges(t *testing.T) {
	// Two cycles (0,1,2) and (3,4) plus a bridge 2->3.
	in := inputFromEdges([][2]model.VertexID{
		{0, 1}, {1, 2}, {2, 0}, {2, 3}, {3, 4}, {4, 3},
	})
	scc := compute.Scc{}
	assertSet(t, scc.Arranged(in), map[compute.VertexPair]model.DiffCount{
		{U: 1, V: 0}: 1,
		{U: 2, V: 1}: 1,
		{U: 0, V: 2}: 1,
		{U: 4, V: 3}: 1,
		{U: 3, V: 4}: 1,
	})
}

func TestSccAcyclicGraphIsEmpty(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{{0, 1}, {1, 2}})
	if got := (compute.Scc{}).Arranged(in); len(got) != 0 {
		t.Errorf("acyclic graph should have no intra-component edges, got %v", got)
	}
}

func TestSpspGoals(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{{0, 1}, {1, 2}, {2, 3}})
	spsp := compute.Spsp{Goals: []compute.Goal{{Src: 0, Dst: 3}, {Src: 0, Dst: 2}, {Src: 3, Dst: 0}}}
	assertSet(t, spsp.Arranged(in), map[compute.PathLength]model.DiffCount{
		{Src: 0, Dst: 3, Length: 3}: 1,
		{Src: 0, Dst: 2, Length: 2}: 1,
	})
}

func TestPageRankRanksSymmetricVerticesEqually(t *testing.T) {
	in := inputFromEdges([][2]model.VertexID{{0, 1}, {1, 0}})
	pr := compute.PageRank{Iterations: 5}
	got := pr.Arranged(in)
	if len(got) != 2 {
		t.Fatalf("expected both vertices ranked, got %v", got)
	}
	// Symmetric two-cycle: both vertices must carry identical mass.
	if got[compute.RankedVertex{V: 0}] != got[compute.RankedVertex{V: 1}] {
		t.Errorf("symmetric graph should rank vertices equally: %v", got)
	}
}

func TestPropertyValidation(t *testing.T) {
	if _, err := compute.NewBfs(model.Properties{}); err == nil {
		t.Error("BFS without root should fail")
	}
	if _, err := compute.NewBfs(model.Properties{"root": model.StringValue("x")}); err == nil {
		t.Error("BFS with non-integer root should fail")
	}
	if _, err := compute.NewWcc(model.Properties{"extra": model.IntValue(1)}); err == nil {
		t.Error("WCC with extra properties should fail")
	}
	if _, err := compute.NewSssp(model.Properties{"root": model.IntValue(1)}); err == nil {
		t.Error("SSSP without weight_cap should fail")
	}
	if _, err := compute.NewSpsp(model.Properties{"goals": model.IntValue(3)}); err == nil {
		t.Error("SPSP with non-pair goals should fail")
	}
	if _, err := compute.NewPageRank(model.Properties{"iterations": model.IntValue(0)}); err == nil {
		t.Error("PageRank with zero iterations should fail")
	}
	if bfs, err := compute.NewBfs(model.Properties{"root": model.IntValue(6)}); err != nil || bfs.Root != 6 {
		t.Errorf("NewBfs = %+v, %v", bfs, err)
	}
	if spsp, err := compute.NewSpsp(model.Properties{"goals": model.PairListValue([]model.Pair{{First: 1, Second: 2}})}); err != nil || len(spsp.Goals) != 1 {
		t.Errorf("NewSpsp = %+v, %v", spsp, err)
	}
}
