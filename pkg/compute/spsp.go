package compute

import (
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Goal is a source/destination pair queried by SPSP.
type Goal struct {
	Src model.VertexID
	Dst model.VertexID
}

// Spsp answers shortest-path-length queries for a fixed set of goal pairs.
// One forward breadth-first search runs per distinct goal source and serves
// every goal with that source; unreachable goals produce no record.
type Spsp struct {
	Goals []Goal
}

// NewSpsp validates the property map: one "goals" property holding a list of
// integer pairs.
func NewSpsp(properties model.Properties) (Spsp, error) {
	const name = "SPSP"
	const property = "goals"
	if len(properties) != 1 {
		return Spsp{}, gserror.PropertyCount(name, 1, []string{property}, len(properties))
	}
	value, ok := properties[property]
	if !ok {
		return Spsp{}, gserror.PropertyMissing(name, property, properties.Keys())
	}
	if value.Kind != model.KindPairList {
		return Spsp{}, gserror.PropertyType(name, property, "Pairs", value.Kind.String())
	}
	goals := make([]Goal, 0, len(value.Pairs))
	for _, p := range value.Pairs {
		if p.First < 0 || p.Second < 0 {
			return Spsp{}, gserror.PropertyType(name, property, "non-negative vertex pairs", value.String())
		}
		goals = append(goals, Goal{Src: model.VertexID(p.First), Dst: model.VertexID(p.Second)})
	}
	return Spsp{Goals: goals}, nil
}

func (Spsp) Name() string { return "mpsp" }

func (s Spsp) Arranged(in *Input) ResultSet[PathLength] {
	result := make(ResultSet[PathLength])
	// The forward search from a shared source serves every goal with that
	// source, so group goals first.
	bySrc := make(map[model.VertexID][]Goal)
	for _, goal := range s.Goals {
		bySrc[goal.Src] = append(bySrc[goal.Src], goal)
	}
	for src, goals := range bySrc {
		distances := bfsDistances(src, in.Forward)
		for _, goal := range goals {
			if dist, ok := distances[goal.Dst]; ok {
				result.Add(PathLength{Src: goal.Src, Dst: goal.Dst, Length: dist}, 1)
			}
		}
	}
	return result
}

func (s Spsp) Basic(in *Input) ResultSet[PathLength] {
	return s.Arranged(in)
}
