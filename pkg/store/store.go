// Package store owns the run-scoped state of a graphsurge session: the base
// graph, the named-cube registry, and the execution defaults. One store
// value is threaded through the executors; there is no process-wide mutable
// state.
package store

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/engine"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

const serdeFileName = "graphsurge.db"

// GlobalStore is the single owned container of session state.
type GlobalStore struct {
	Graph     *graph.Graph
	Cubes     *cube.Store
	Threads   int
	ProcessID int
}

// New creates a store with an empty graph and cube registry.
func New() *GlobalStore {
	return &GlobalStore{
		Graph:   graph.New(),
		Cubes:   cube.NewStore(),
		Threads: runtime.GOMAXPROCS(0),
	}
}

// Reset clears the graph and all registered cubes.
func (s *GlobalStore) Reset() {
	s.Graph.Reset()
	s.Cubes.DeleteAll()
}

// CreateCube builds a filtered cube over the base graph and registers it.
// No partial state is retained when the build fails.
func (s *GlobalStore) CreateCube(name string, dimensions []cube.Dimension, opts cube.BuildOptions) (*cube.FilteredCube, error) {
	if _, exists := s.Cubes.Cubes[name]; exists {
		return nil, gserror.CollectionExists(name)
	}
	if opts.Workers == 0 {
		opts.Workers = s.Threads
	}
	built, err := cube.Build(s.Graph, dimensions, opts)
	if err != nil {
		s.Cubes.Delete(name)
		return nil, err
	}
	if err := s.Cubes.Add(name, built); err != nil {
		return nil, err
	}
	return built, nil
}

// KnownComputations lists the registered algorithm names.
func KnownComputations() []string {
	names := []string{"bfs", "sssp", "wcc", "scc", "mpsp", "pr"}
	sort.Strings(names)
	return names
}

// RunComputation constructs the named algorithm from its property map and
// executes it over the named cube.
func (s *GlobalStore) RunComputation(
	name string,
	properties model.Properties,
	cubeName string,
	rt *engine.RuntimeData,
) (string, error) {
	c, err := s.Cubes.Get(cubeName)
	if err != nil {
		return "", err
	}
	if rt.Threads == 0 {
		rt.Threads = s.Threads
	}
	rt.ProcessID = s.ProcessID
	rt.TotalVertices = s.Graph.VertexCount()

	switch strings.ToLower(name) {
	case "bfs":
		comp, err := compute.NewBfs(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.VertexDist](c, comp, rt)
	case "sssp":
		comp, err := compute.NewSssp(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.VertexDist](c, comp, rt)
	case "wcc":
		comp, err := compute.NewWcc(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.VertexPair](c, comp, rt)
	case "scc":
		comp, err := compute.NewScc(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.VertexPair](c, comp, rt)
	case "mpsp":
		comp, err := compute.NewSpsp(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.PathLength](c, comp, rt)
	case "pr":
		comp, err := compute.NewPageRank(properties)
		if err != nil {
			return "", err
		}
		return runTyped[compute.RankedVertex](c, comp, rt)
	}
	return "", gserror.Computation("unknown computation '%s'", name)
}

func runTyped[R compute.Record[R]](c *cube.FilteredCube, comp compute.Computation[R], rt *engine.RuntimeData) (string, error) {
	if _, err := engine.Run(c, comp, rt); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s done", rt.Type), nil
}

// Serialize writes the graph and all registered cubes into
// <dir>/graphsurge.db.
func (s *GlobalStore) Serialize(dir string) (string, error) {
	db, err := cube.OpenSQLite(filepath.Join(dir, serdeFileName))
	if err != nil {
		return "", err
	}
	defer db.Close()
	if err := db.SaveGraph(s.Graph); err != nil {
		return "", err
	}
	for name, c := range s.Cubes.Cubes {
		if err := db.SaveCube(name, c); err != nil {
			return "", err
		}
	}
	return "Serialization done.", nil
}

// Deserialize replaces the store's state with the contents of
// <dir>/graphsurge.db. The store is reset on failure as well, so no partial
// state survives.
func (s *GlobalStore) Deserialize(dir string, cubeNames []string) (string, error) {
	s.Reset()
	db, err := cube.OpenSQLite(filepath.Join(dir, serdeFileName))
	if err != nil {
		return "", err
	}
	defer db.Close()
	g, err := db.LoadGraph()
	if err != nil {
		s.Reset()
		return "", err
	}
	s.Graph = g
	for _, name := range cubeNames {
		c, err := db.LoadCube(name)
		if err != nil {
			s.Reset()
			return "", err
		}
		if err := s.Cubes.Add(name, c); err != nil {
			s.Reset()
			return "", err
		}
	}
	return "Deserialization done.", nil
}
