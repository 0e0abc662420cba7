// Package graph holds the immutable base property graph that cubes are
// filtered from. The graph owns vertex and edge storage; cubes and planners
// only ever hold read-only views.
package graph

import (
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Edge is a directed edge with optional properties used by cube filter
// predicates.
type Edge struct {
	Src   model.VertexID
	Dst   model.VertexID
	Props model.Properties
}

// Simple strips the edge down to its endpoint pair.
func (e Edge) Simple() model.SimpleEdge {
	return model.SimpleEdge{Src: e.Src, Dst: e.Dst}
}

// Graph is the base directed property graph. It is immutable for the
// duration of any cube build or computation run.
type Graph struct {
	edges       []Edge
	vertexCount int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddEdge appends a directed edge, growing the vertex space to cover both
// endpoints.
func (g *Graph) AddEdge(src, dst model.VertexID, props model.Properties) model.EdgeID {
	id := model.EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{Src: src, Dst: dst, Props: props})
	if int(src)+1 > g.vertexCount {
		g.vertexCount = int(src) + 1
	}
	if int(dst)+1 > g.vertexCount {
		g.vertexCount = int(dst) + 1
	}
	return id
}

// Edges returns the edge slice. Callers must not mutate it.
func (g *Graph) Edges() []Edge { return g.edges }

// Edge returns the edge with the given id.
func (g *Graph) Edge(id model.EdgeID) Edge { return g.edges[id] }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// VertexCount returns one past the highest vertex id seen.
func (g *Graph) VertexCount() int { return g.vertexCount }

// Reset clears all storage, returning the graph to its zero state.
func (g *Graph) Reset() {
	g.edges = nil
	g.vertexCount = 0
}

// WorkerRange computes the half-open index range [left, right) of items that
// worker workerIndex of workerCount owns. The final worker absorbs the
// remainder.
func WorkerRange(totalLen, workerIndex, workerCount int) (int, int) {
	perWorker := totalLen / workerCount
	left := perWorker * workerIndex
	right := perWorker * (workerIndex + 1)
	if workerIndex+1 == workerCount {
		right = totalLen
	}
	return left, right
}
