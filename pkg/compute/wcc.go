package compute

import (
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Wcc labels every vertex with the smallest vertex id in its weakly
// connected component.
type Wcc struct{}

// NewWcc validates the property map: WCC takes no properties.
func NewWcc(properties model.Properties) (Wcc, error) {
	if len(properties) != 0 {
		return Wcc{}, gserror.PropertyCount("WCC", 0, nil, len(properties))
	}
	return Wcc{}, nil
}

func (Wcc) Name() string { return "wcc" }

func (w Wcc) Arranged(in *Input) ResultSet[VertexPair] {
	// Union by minimum label over the undirected edge set.
	labels := make(map[model.VertexID]model.VertexID, len(in.Nodes))
	for _, v := range in.Nodes {
		labels[v] = v
	}
	var find func(v model.VertexID) model.VertexID
	find = func(v model.VertexID) model.VertexID {
		if labels[v] != v {
			labels[v] = find(labels[v])
		}
		return labels[v]
	}
	union := func(a, b model.VertexID) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			labels[rb] = ra
		} else {
			labels[ra] = rb
		}
	}
	for src, neighbors := range in.Forward {
		for _, dst := range neighbors {
			union(src, dst)
		}
	}

	result := make(ResultSet[VertexPair])
	for _, v := range in.Nodes {
		result.Add(VertexPair{U: v, V: find(v)}, 1)
	}
	return result
}

func (w Wcc) Basic(in *Input) ResultSet[VertexPair] {
	return w.Arranged(in)
}
