package compute

import (
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Bfs labels every vertex reachable from the root with its hop distance.
type Bfs struct {
	Root model.VertexID
}

// NewBfs validates the property map: exactly one integer property "root".
func NewBfs(properties model.Properties) (Bfs, error) {
	const name = "BFS"
	const property = "root"
	if len(properties) != 1 {
		return Bfs{}, gserror.PropertyCount(name, 1, []string{property}, len(properties))
	}
	value, ok := properties[property]
	if !ok {
		return Bfs{}, gserror.PropertyMissing(name, property, properties.Keys())
	}
	if value.Kind != model.KindInt {
		return Bfs{}, gserror.PropertyType(name, property, "Int(vertex id)", value.Kind.String())
	}
	if value.Int < 0 {
		return Bfs{}, gserror.PropertyType(name, property, "non-negative vertex id", value.String())
	}
	return Bfs{Root: model.VertexID(value.Int)}, nil
}

func (Bfs) Name() string { return "bfs" }

func (b Bfs) Arranged(in *Input) ResultSet[VertexDist] {
	result := make(ResultSet[VertexDist])
	for v, dist := range bfsDistances(b.Root, in.Forward) {
		result.Add(VertexDist{V: v, Dist: dist}, 1)
	}
	return result
}

func (b Bfs) Basic(in *Input) ResultSet[VertexDist] {
	return b.Arranged(in)
}
