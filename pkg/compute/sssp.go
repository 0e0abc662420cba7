package compute

import (
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Sssp computes single-source shortest path lengths from the root, dropping
// any vertex whose distance exceeds the weight cap.
type Sssp struct {
	Root      model.VertexID
	WeightCap uint32
}

// NewSssp validates the property map: integer properties "root" and
// "weight_cap".
func NewSssp(properties model.Properties) (Sssp, error) {
	const name = "SSSP"
	required := []string{"root", "weight_cap"}
	if len(properties) != 2 {
		return Sssp{}, gserror.PropertyCount(name, 2, required, len(properties))
	}
	values := make([]int64, 2)
	for i, property := range required {
		value, ok := properties[property]
		if !ok {
			return Sssp{}, gserror.PropertyMissing(name, property, properties.Keys())
		}
		if value.Kind != model.KindInt {
			return Sssp{}, gserror.PropertyType(name, property, "Int", value.Kind.String())
		}
		if value.Int < 0 {
			return Sssp{}, gserror.PropertyType(name, property, "non-negative Int", value.String())
		}
		values[i] = value.Int
	}
	return Sssp{Root: model.VertexID(values[0]), WeightCap: uint32(values[1])}, nil
}

func (Sssp) Name() string { return "sssp" }

func (s Sssp) Arranged(in *Input) ResultSet[VertexDist] {
	result := make(ResultSet[VertexDist])
	for v, dist := range bfsDistances(s.Root, in.Forward) {
		if dist <= s.WeightCap {
			result.Add(VertexDist{V: v, Dist: dist}, 1)
		}
	}
	return result
}

func (s Sssp) Basic(in *Input) ResultSet[VertexDist] {
	panic("sssp has no basic-mode dataflow")
}
