package compute

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Scc finds strongly connected components and emits every edge whose
// endpoints share a component, reversed, once per occurrence. Singleton
// components contribute nothing, matching the trim semantics of iterated
// forward/backward label pruning.
type Scc struct{}

// NewScc validates the property map: SCC takes no properties.
func NewScc(properties model.Properties) (Scc, error) {
	if len(properties) != 0 {
		return Scc{}, gserror.PropertyCount("SCC", 0, nil, len(properties))
	}
	return Scc{}, nil
}

func (Scc) Name() string { return "scc" }

func (s Scc) Arranged(in *Input) ResultSet[VertexPair] {
	dg := simple.NewDirectedGraph()
	for _, v := range in.Nodes {
		node := simple.Node(int64(v))
		if dg.Node(node.ID()) == nil {
			dg.AddNode(node)
		}
	}
	for src, neighbors := range in.Forward {
		for _, dst := range neighbors {
			if src == dst {
				continue
			}
			dg.SetEdge(simple.Edge{F: simple.Node(int64(src)), T: simple.Node(int64(dst))})
		}
	}

	component := make(map[model.VertexID]int, len(in.Nodes))
	for id, scc := range topo.TarjanSCC(dg) {
		for _, node := range scc {
			component[model.VertexID(node.ID())] = id
		}
	}

	result := make(ResultSet[VertexPair])
	for _, edge := range in.Edges {
		if edge.Src != edge.Dst && component[edge.Src] == component[edge.Dst] {
			result.Add(VertexPair{U: edge.Dst, V: edge.Src}, 1)
		}
	}
	return result
}

func (s Scc) Basic(in *Input) ResultSet[VertexPair] {
	return s.Arranged(in)
}
