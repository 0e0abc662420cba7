package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/engine"
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
	"github.com/vanderheijden86/graphsurge/pkg/store"
)

func storeWithCube(t *testing.T) *store.GlobalStore {
	t.Helper()
	st := store.New()
	st.Threads = 2
	for _, e := range []struct {
		src, dst model.VertexID
		w        int64
	}{
		{6, 4, 0}, {4, 2, 0}, {4, 5, 0}, {2, 3, 0},
		{2, 9, 1}, {3, 8, 1}, {9, 5, 2}, {5, 8, 3},
	} {
		st.Graph.AddEdge(e.src, e.dst, model.Properties{"w": model.IntValue(e.w)})
	}
	dim := cube.Dimension{
		cube.PropertyAtMost("w", 0),
		cube.PropertyAtMost("w", 1),
		cube.PropertyAtMost("w", 2),
		cube.PropertyAtMost("w", 3),
	}
	if _, err := st.CreateCube("my_cube", []cube.Dimension{dim}, cube.BuildOptions{
		ManualOrder:    true,
		StoreTotalData: true,
	}); err != nil {
		t.Fatalf("CreateCube: %v", err)
	}
	return st
}

func TestCreateCubeRejectsDuplicates(t *testing.T) {
	st := storeWithCube(t)
	_, err := st.CreateCube("my_cube", []cube.Dimension{{cube.PropertyAtMost("w", 0)}}, cube.BuildOptions{})
	if err == nil {
		t.Fatal("expected duplicate-name error")
	}
	if !gserror.IsKind(err, gserror.KindCollection) {
		t.Errorf("error kind = %v, want collection", err)
	}
}

func TestRunComputationUnknownCube(t *testing.T) {
	st := store.New()
	rt := engine.NewRuntimeData(engine.TypeTwoStage)
	if _, err := st.RunComputation("bfs", model.Properties{"root": model.IntValue(6)}, "missing", rt); err == nil {
		t.Fatal("expected missing-collection error")
	}
}

func TestRunComputationUnknownAlgorithm(t *testing.T) {
	st := storeWithCube(t)
	rt := engine.NewRuntimeData(engine.TypeTwoStage)
	if _, err := st.RunComputation("nope", model.Properties{}, "my_cube", rt); err == nil {
		t.Fatal("expected unknown-computation error")
	}
}

func TestRunComputationPropertyErrors(t *testing.T) {
	st := storeWithCube(t)
	rt := engine.NewRuntimeData(engine.TypeTwoStage)
	if _, err := st.RunComputation("bfs", model.Properties{}, "my_cube", rt); err == nil {
		t.Fatal("BFS without root should fail")
	}
	if _, err := st.RunComputation("wcc", model.Properties{"x": model.IntValue(1)}, "my_cube", rt); err == nil {
		t.Fatal("WCC with properties should fail")
	}
}

func TestRunComputationWritesResults(t *testing.T) {
	st := storeWithCube(t)
	dir := t.TempDir()
	rt := engine.NewRuntimeData(engine.TypeTwoStage)
	rt.Materialize = engine.MaterializeFull
	rt.SaveTo = dir
	message, err := st.RunComputation("bfs", model.Properties{"root": model.IntValue(6)}, "my_cube", rt)
	if err != nil {
		t.Fatalf("RunComputation: %v", err)
	}
	if message == "" {
		t.Error("expected a completion message")
	}
	for _, name := range []string{"results-diff-0_0_0.txt", "results-full-0_0_0.txt", "results-diff-0_0_3.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected result file %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "results-diff-0_0_0.txt"))
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	if len(data) == 0 {
		t.Error("cell 0 diff results should not be empty")
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	st := storeWithCube(t)
	dir := t.TempDir()
	if _, err := st.Serialize(dir); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	restored := store.New()
	if _, err := restored.Deserialize(dir, []string{"my_cube"}); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if restored.Graph.EdgeCount() != st.Graph.EdgeCount() {
		t.Errorf("edge count = %d, want %d", restored.Graph.EdgeCount(), st.Graph.EdgeCount())
	}
	if restored.Graph.VertexCount() != st.Graph.VertexCount() {
		t.Errorf("vertex count = %d, want %d", restored.Graph.VertexCount(), st.Graph.VertexCount())
	}
	original, _ := st.Cubes.Get("my_cube")
	loaded, err := restored.Cubes.Get("my_cube")
	if err != nil {
		t.Fatalf("cube missing after deserialize: %v", err)
	}
	if loaded.CellCount() != original.CellCount() {
		t.Errorf("cell count = %d, want %d", loaded.CellCount(), original.CellCount())
	}
	for i := range original.Data.Entries {
		if original.Data.Entries[i].Timestamp != loaded.Data.Entries[i].Timestamp {
			t.Errorf("cell %d enumeration differs", i)
		}
		if len(original.Data.Entries[i].DiffEdges) != len(loaded.Data.Entries[i].DiffEdges) {
			t.Errorf("cell %d diff size differs", i)
		}
	}
}

func TestDeserializeMissingCubeResets(t *testing.T) {
	st := storeWithCube(t)
	dir := t.TempDir()
	if _, err := st.Serialize(dir); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	restored := store.New()
	if _, err := restored.Deserialize(dir, []string{"not_there"}); err == nil {
		t.Fatal("expected failure for unknown cube name")
	}
	if restored.Graph.EdgeCount() != 0 || len(restored.Cubes.Cubes) != 0 {
		t.Error("failed deserialize should leave no partial state")
	}
}

func TestKnownComputations(t *testing.T) {
	names := store.KnownComputations()
	want := map[string]bool{"bfs": true, "sssp": true, "wcc": true, "scc": true, "mpsp": true, "pr": true}
	if len(names) != len(want) {
		t.Fatalf("known computations = %v", names)
	}
	for _, name := range names {
		if !want[name] {
			t.Errorf("unexpected computation %q", name)
		}
	}
}
