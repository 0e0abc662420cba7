package graph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

func TestAddEdgeGrowsVertexSpace(t *testing.T) {
	g := graph.New()
	g.AddEdge(3, 9, nil)
	g.AddEdge(1, 2, nil)
	if g.VertexCount() != 10 {
		t.Errorf("vertex count = %d, want 10", g.VertexCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("edge count = %d, want 2", g.EdgeCount())
	}
	if e := g.Edge(0); e.Src != 3 || e.Dst != 9 {
		t.Errorf("edge 0 = %+v", e)
	}
}

func TestLoadEdges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.txt")
	content := "# header\n1,2,5\n2,3,7\n\n3,4,9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	g := graph.New()
	err := g.LoadEdges(path, graph.LoadOptions{CommentChar: "#", PropertyNames: []string{"w"}})
	if err != nil {
		t.Fatalf("LoadEdges: %v", err)
	}
	if g.EdgeCount() != 3 {
		t.Fatalf("edge count = %d, want 3", g.EdgeCount())
	}
	if w := g.Edge(1).Props["w"]; w.Kind != model.KindInt || w.Int != 7 {
		t.Errorf("edge 1 w = %v", w)
	}
}

func TestLoadEdgesParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.txt")
	if err := os.WriteFile(path, []byte("1,notanumber\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := graph.New()
	if err := g.LoadEdges(path, graph.LoadOptions{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestWorkerRange(t *testing.T) {
	cases := []struct {
		total, worker, count, left, right int
	}{
		{10, 0, 3, 0, 3},
		{10, 1, 3, 3, 6},
		{10, 2, 3, 6, 10}, // last worker absorbs the remainder
		{2, 3, 4, 0, 2},   // empty middle shards, remainder to the tail
		{0, 0, 1, 0, 0},
	}
	for _, tc := range cases {
		left, right := graph.WorkerRange(tc.total, tc.worker, tc.count)
		if left != tc.left || right != tc.right {
			t.Errorf("WorkerRange(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tc.total, tc.worker, tc.count, left, right, tc.left, tc.right)
		}
	}
}
