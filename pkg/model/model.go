// Package model holds the small set of types shared by every layer of
// graphsurge: vertex and edge handles, signed multiplicities, and the tagged
// property values attached to edges and passed to computations.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// VertexID is a dense 32-bit vertex handle assigned at load time.
type VertexID uint32

// EdgeID indexes into the base graph's edge slice.
type EdgeID uint32

// DiffCount is a signed multiplicity. Summing the diffs of all timestamps at
// or below a cell reconstructs that cell's full membership.
type DiffCount int64

// SimpleEdge is a directed (src, dst) pair without properties.
type SimpleEdge struct {
	Src VertexID
	Dst VertexID
}

func (e SimpleEdge) String() string {
	return fmt.Sprintf("(%d, %d)", e.Src, e.Dst)
}

// Less orders edges by source, then destination.
func (e SimpleEdge) Less(other SimpleEdge) bool {
	if e.Src != other.Src {
		return e.Src < other.Src
	}
	return e.Dst < other.Dst
}

// PropertyKind discriminates the variants of PropertyValue.
type PropertyKind int

const (
	KindInt PropertyKind = iota
	KindPair
	KindString
	KindBool
	KindStringList
	KindPairList
)

func (k PropertyKind) String() string {
	switch k {
	case KindInt:
		return "Int"
	case KindPair:
		return "Pair"
	case KindString:
		return "String"
	case KindBool:
		return "Bool"
	case KindStringList:
		return "StringList"
	case KindPairList:
		return "PairList"
	}
	return fmt.Sprintf("PropertyKind(%d)", int(k))
}

// Pair is an ordered pair of integers, used for SPSP goals.
type Pair struct {
	First  int64
	Second int64
}

// PropertyValue is a tagged union over the value kinds a computation property
// or an edge property may carry. Exactly the fields implied by Kind are
// meaningful.
type PropertyValue struct {
	Kind    PropertyKind
	Int     int64
	Pair    Pair
	Str     string
	Bool    bool
	Strings []string
	Pairs   []Pair
}

func IntValue(v int64) PropertyValue     { return PropertyValue{Kind: KindInt, Int: v} }
func PairValue(a, b int64) PropertyValue { return PropertyValue{Kind: KindPair, Pair: Pair{a, b}} }
func StringValue(s string) PropertyValue { return PropertyValue{Kind: KindString, Str: s} }
func BoolValue(b bool) PropertyValue     { return PropertyValue{Kind: KindBool, Bool: b} }
func StringListValue(s []string) PropertyValue {
	return PropertyValue{Kind: KindStringList, Strings: s}
}
func PairListValue(ps []Pair) PropertyValue { return PropertyValue{Kind: KindPairList, Pairs: ps} }

func (v PropertyValue) String() string {
	switch v.Kind {
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindPair:
		return fmt.Sprintf("(%d, %d)", v.Pair.First, v.Pair.Second)
	case KindString:
		return v.Str
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindStringList:
		return "[" + strings.Join(v.Strings, ",") + "]"
	case KindPairList:
		parts := make([]string, len(v.Pairs))
		for i, p := range v.Pairs {
			parts[i] = fmt.Sprintf("(%d, %d)", p.First, p.Second)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return "<invalid>"
}

// Properties is a named property map, as attached to edges or passed to a
// computation builder.
type Properties map[string]PropertyValue

// Keys returns the property names in sorted order, for deterministic error
// messages.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
