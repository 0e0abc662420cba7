package cube_test

import (
	"reflect"
	"sort"
	"testing"

	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// testGraph builds a small weighted graph; the "w" property drives the cube
// filters.
func testGraph() *graph.Graph {
	g := graph.New()
	edges := []struct {
		src, dst model.VertexID
		w        int64
	}{
		{6, 4, 0}, {4, 2, 0}, {4, 5, 0}, {2, 3, 0}, {2, 9, 1},
		{3, 8, 1}, {9, 5, 2}, {5, 8, 2}, {3, 4, 3}, {8, 9, 3},
	}
	for _, e := range edges {
		g.AddEdge(e.src, e.dst, model.Properties{"w": model.IntValue(e.w)})
	}
	return g
}

// growingDimension builds cells of increasing edge weight bound.
func growingDimension(bounds ...int64) cube.Dimension {
	dim := make(cube.Dimension, len(bounds))
	for i, b := range bounds {
		dim[i] = cube.PropertyAtMost("w", b)
	}
	return dim
}

func buildTestCube(t *testing.T, workers int) *cube.FilteredCube {
	t.Helper()
	c, err := cube.Build(testGraph(), []cube.Dimension{growingDimension(0, 1, 2, 3)}, cube.BuildOptions{
		Workers:        workers,
		ManualOrder:    true,
		StoreTotalData: true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

func sortedEdges(edges []model.SimpleEdge) []model.SimpleEdge {
	out := append([]model.SimpleEdge{}, edges...)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func TestBuildCompleteness(t *testing.T) {
	g := testGraph()
	c := buildTestCube(t, 1)
	if c.CellCount() != 4 {
		t.Fatalf("cell count = %d, want 4", c.CellCount())
	}
	dims := []cube.Dimension{growingDimension(0, 1, 2, 3)}
	for i, entry := range c.Data.Entries {
		var want []model.SimpleEdge
		for _, e := range g.Edges() {
			if dims[0][i].Test(e) {
				want = append(want, e.Simple())
			}
		}
		if !reflect.DeepEqual(sortedEdges(entry.FullEdges), sortedEdges(want)) {
			t.Errorf("cell %d full = %v, want %v", i, sortedEdges(entry.FullEdges), sortedEdges(want))
		}
		if entry.Additions+entry.Deletions != len(entry.DiffEdges) {
			t.Errorf("cell %d adds+dels = %d, want %d", i, entry.Additions+entry.Deletions, len(entry.DiffEdges))
		}
		for _, d := range entry.DiffEdges {
			if d.Change != 1 && d.Change != -1 {
				t.Errorf("cell %d diff change = %d, want ±1", i, d.Change)
			}
		}
	}
}

// full(c) must equal the running sum of diffs up to c, and the total diff
// count telescopes to the top cell's full size.
func TestDiffBalance(t *testing.T) {
	c := buildTestCube(t, 1)
	running := make(map[model.SimpleEdge]model.DiffCount)
	var total model.DiffCount
	for i, entry := range c.Data.Entries {
		for _, d := range entry.DiffEdges {
			running[d.Edge] += d.Change
			total += d.Change
		}
		var got []model.SimpleEdge
		for edge, count := range running {
			switch count {
			case 0:
			case 1:
				got = append(got, edge)
			default:
				t.Fatalf("cell %d: edge %v has multiplicity %d", i, edge, count)
			}
		}
		if !reflect.DeepEqual(sortedEdges(got), sortedEdges(entry.FullEdges)) {
			t.Errorf("cell %d reconstruction mismatch", i)
		}
	}
	top := c.Data.Entries[len(c.Data.Entries)-1]
	if total != model.DiffCount(len(top.FullEdges)) {
		t.Errorf("total diff = %d, want %d", total, len(top.FullEdges))
	}
}

// The same build must come out identical regardless of worker count.
func TestBuildDeterminism(t *testing.T) {
	reference := buildTestCube(t, 1)
	for _, workers := range []int{2, 3, 7} {
		c := buildTestCube(t, workers)
		if !reflect.DeepEqual(reference.Data, c.Data) {
			t.Errorf("cube built with %d workers differs from single-worker build", workers)
		}
	}
}

func TestBuildDeterminismWithOrdering(t *testing.T) {
	dims := []cube.Dimension{growingDimension(0, 1, 2, 3)}
	build := func(workers int) *cube.FilteredCube {
		c, err := cube.Build(testGraph(), dims, cube.BuildOptions{Workers: workers, StoreTotalData: true})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return c
	}
	a, b := build(1), build(4)
	if !reflect.DeepEqual(a.Data, b.Data) {
		t.Error("optimizer-ordered cube should not depend on worker count")
	}
}

func TestBuildTwoDimensions(t *testing.T) {
	g := testGraph()
	dims := []cube.Dimension{
		growingDimension(1, 3),
		{cube.PropertyAtMost("w", 2), cube.PropertyAtMost("w", 3)},
	}
	c, err := cube.Build(g, dims, cube.BuildOptions{Workers: 2, ManualOrder: true, StoreTotalData: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.CellCount() != 4 {
		t.Fatalf("cell count = %d, want 4", c.CellCount())
	}
	for _, entry := range c.Data.Entries {
		i := entry.Timestamp.ValueAt(0, 2)
		j := entry.Timestamp.ValueAt(1, 2)
		var want []model.SimpleEdge
		for _, e := range g.Edges() {
			if dims[0][i].Test(e) && dims[1][j].Test(e) {
				want = append(want, e.Simple())
			}
		}
		if !reflect.DeepEqual(sortedEdges(entry.FullEdges), sortedEdges(want)) {
			t.Errorf("cell %v full mismatch", entry.Timestamp)
		}
	}
}

func TestBuildRejectsBadDimensions(t *testing.T) {
	if _, err := cube.Build(testGraph(), nil, cube.BuildOptions{}); err == nil {
		t.Error("expected error for zero dimensions")
	}
	if _, err := cube.Build(testGraph(), []cube.Dimension{{}}, cube.BuildOptions{}); err == nil {
		t.Error("expected error for an empty dimension")
	}
}
