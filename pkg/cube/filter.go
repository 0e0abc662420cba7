package cube

import (
	"strings"

	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// FilterPredicate is a pure edge predicate with a printable form. It must be
// referentially transparent with respect to the graph for the lifetime of a
// cube build.
type FilterPredicate struct {
	Name string
	Test func(edge graph.Edge) bool
}

// Dimension is the ordered list of filter-conjunctions along one cube axis;
// a filter's position in the list is its dimension index before reordering.
type Dimension []FilterPredicate

func (d Dimension) String() string {
	names := make([]string, len(d))
	for i, f := range d {
		names[i] = f.Name
	}
	return strings.Join(names, "; ")
}

// PropertyAtMost builds a predicate testing an integer edge property against
// an inclusive upper bound. Edges without the property fail.
func PropertyAtMost(name string, bound int64) FilterPredicate {
	return FilterPredicate{
		Name: name + " <= " + model.IntValue(bound).String(),
		Test: func(e graph.Edge) bool {
			v, ok := e.Props[name]
			return ok && v.Kind == model.KindInt && v.Int <= bound
		},
	}
}

// PropertyEquals builds a predicate testing an integer edge property for
// equality.
func PropertyEquals(name string, value int64) FilterPredicate {
	return FilterPredicate{
		Name: name + " = " + model.IntValue(value).String(),
		Test: func(e graph.Edge) bool {
			v, ok := e.Props[name]
			return ok && v.Kind == model.KindInt && v.Int == value
		},
	}
}
