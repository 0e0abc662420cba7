package compute

import (
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// Surfer counts are integral: every node starts with initialSurfers, each
// round pushes 5/6 of a node's surfers split across its out-edges, and
// resetSurfers model the random jump.
const (
	initialSurfers = 6_000_000
	resetSurfers   = 1_000_000
)

// PageRank runs a fixed number of integer surfer-propagation rounds; a
// vertex's final multiplicity is its surfer count.
type PageRank struct {
	Iterations int
}

// NewPageRank validates the property map: one positive integer property
// "iterations".
func NewPageRank(properties model.Properties) (PageRank, error) {
	const name = "PageRank"
	const property = "iterations"
	if len(properties) != 1 {
		return PageRank{}, gserror.PropertyCount(name, 1, []string{property}, len(properties))
	}
	value, ok := properties[property]
	if !ok {
		return PageRank{}, gserror.PropertyMissing(name, property, properties.Keys())
	}
	if value.Kind != model.KindInt {
		return PageRank{}, gserror.PropertyType(name, property, "Int(iterations)", value.Kind.String())
	}
	if value.Int <= 0 {
		return PageRank{}, gserror.PropertyType(name, property, "positive Int(iterations)", value.String())
	}
	return PageRank{Iterations: int(value.Int)}, nil
}

func (PageRank) Name() string { return "pr" }

func (p PageRank) Arranged(in *Input) ResultSet[RankedVertex] {
	degrees := make(map[model.VertexID]int64, len(in.Forward))
	for src, neighbors := range in.Forward {
		degrees[src] = int64(len(neighbors))
	}

	ranks := make(map[model.VertexID]int64, len(in.Nodes))
	for _, v := range in.Nodes {
		ranks[v] = initialSurfers
	}
	for iter := 0; iter < p.Iterations; iter++ {
		next := make(map[model.VertexID]int64, len(ranks))
		for _, v := range in.Nodes {
			next[v] = resetSurfers
		}
		for src, neighbors := range in.Forward {
			degree := degrees[src]
			if degree == 0 {
				continue
			}
			push := (5 * ranks[src]) / (6 * degree)
			for _, dst := range neighbors {
				next[dst] += push
			}
		}
		ranks = next
	}

	result := make(ResultSet[RankedVertex])
	for v, count := range ranks {
		if count != 0 {
			result.Add(RankedVertex{V: v}, model.DiffCount(count))
		}
	}
	return result
}

func (p PageRank) Basic(in *Input) ResultSet[RankedVertex] {
	return p.Arranged(in)
}
