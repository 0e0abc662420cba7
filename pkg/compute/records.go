package compute

import (
	"fmt"

	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// VertexPair is the result record of WCC and SCC: a vertex paired with a
// component label, or an intra-component edge.
type VertexPair struct {
	U model.VertexID
	V model.VertexID
}

func (p VertexPair) Less(other VertexPair) bool {
	if p.U != other.U {
		return p.U < other.U
	}
	return p.V < other.V
}

func (p VertexPair) String() string { return fmt.Sprintf("(%d, %d)", p.U, p.V) }

// VertexDist is the result record of BFS and SSSP: a vertex and its distance
// from the root.
type VertexDist struct {
	V    model.VertexID
	Dist uint32
}

func (d VertexDist) Less(other VertexDist) bool {
	if d.V != other.V {
		return d.V < other.V
	}
	return d.Dist < other.Dist
}

func (d VertexDist) String() string { return fmt.Sprintf("(%d, %d)", d.V, d.Dist) }

// PathLength is the result record of SPSP: a goal pair and the length of its
// shortest path.
type PathLength struct {
	Src    model.VertexID
	Dst    model.VertexID
	Length uint32
}

func (p PathLength) Less(other PathLength) bool {
	if p.Src != other.Src {
		return p.Src < other.Src
	}
	if p.Dst != other.Dst {
		return p.Dst < other.Dst
	}
	return p.Length < other.Length
}

func (p PathLength) String() string {
	return fmt.Sprintf("((%d, %d), %d)", p.Src, p.Dst, p.Length)
}

// RankedVertex is the result record of PageRank; the record's multiplicity
// carries the surfer count.
type RankedVertex struct {
	V model.VertexID
}

func (r RankedVertex) Less(other RankedVertex) bool { return r.V < other.V }

func (r RankedVertex) String() string { return fmt.Sprintf("%d", r.V) }
