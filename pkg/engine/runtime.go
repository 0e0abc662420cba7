// Package engine executes computations over a filtered cube. Five planner
// modes feed the cube's cells into a shared incremental dataflow (or into
// fresh per-cell dataflows), and the adaptive scheduler chooses between them
// per cell with an online cost model.
package engine

import (
	"runtime"
	"time"

	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// ComputationType selects a planner mode.
type ComputationType int

const (
	// TypeBasic feeds diffs cell by cell through the high-level operators.
	TypeBasic ComputationType = iota
	// TypeOneStage arranges edges inside the same dataflow as the
	// computation, advancing the frontier cell by cell.
	TypeOneStage
	// TypeTwoStage loads every cell into the arrangement first, then runs
	// the computation once over all cells.
	TypeTwoStage
	// TypeIndividual runs every cell from scratch in a fresh arranged
	// dataflow.
	TypeIndividual
	// TypeIndividualBasic runs every cell from scratch through the basic
	// operators.
	TypeIndividualBasic
	// TypeAdaptive lets the scheduler pick per cell between incremental and
	// individual execution.
	TypeAdaptive
	// TypeCompare runs both the incremental and individual paths and
	// verifies their results match.
	TypeCompare
)

func (t ComputationType) String() string {
	switch t {
	case TypeBasic:
		return "basic differential"
	case TypeOneStage:
		return "1-stage differential"
	case TypeTwoStage:
		return "2-stage differential"
	case TypeIndividual:
		return "individual arranged"
	case TypeIndividualBasic:
		return "individual basic"
	case TypeAdaptive:
		return "adaptive differential"
	case TypeCompare:
		return "compare differential"
	}
	return "unknown"
}

// MaterializeMode controls which result sets a run retains.
type MaterializeMode int

const (
	// MaterializeNone discards results (timing-only runs).
	MaterializeNone MaterializeMode = iota
	// MaterializeDiff keeps per-cell result diffs.
	MaterializeDiff
	// MaterializeFull additionally reconstructs every cell's full results.
	MaterializeFull
)

// Adaptive scheduler defaults.
const (
	DefaultBatchSize  = 10
	DefaultMultiplier = 1.3
)

// RuntimeData carries the knobs of one execution.
type RuntimeData struct {
	Type        ComputationType
	Threads     int
	Hosts       []string
	ProcessID   int
	Materialize MaterializeMode
	// SaveTo, when set, is the directory result files are written into.
	SaveTo string

	// Adaptive scheduler knobs.
	BatchSize      int     // lookahead window; 0 means DefaultBatchSize
	CompMultiplier float64 // individual-time safety margin; 0 means default
	DiffMultiplier float64 // cumulative-size safety margin; 0 means default
	Limit          int     // trailing observations used per fit; 0 means all
	UseLR          bool    // false forces the average-rate prediction
	// Splits pre-specifies the cells to run individually; nil lets the cost
	// model decide.
	Splits map[int]bool

	TotalVertices int
}

// NewRuntimeData returns runtime data with the defaults of an incremental
// run on all available cores.
func NewRuntimeData(t ComputationType) *RuntimeData {
	return &RuntimeData{
		Type:        t,
		Threads:     runtime.GOMAXPROCS(0),
		Materialize: MaterializeDiff,
		UseLR:       true,
	}
}

func (rt *RuntimeData) threads() int {
	if rt.Threads <= 0 {
		return 1
	}
	return rt.Threads
}

func (rt *RuntimeData) batchSize() int {
	if rt.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return rt.BatchSize
}

func (rt *RuntimeData) compMultiplier() float64 {
	if rt.CompMultiplier <= 0 {
		return DefaultMultiplier
	}
	return rt.CompMultiplier
}

func (rt *RuntimeData) diffMultiplier() float64 {
	if rt.DiffMultiplier <= 0 {
		return DefaultMultiplier
	}
	return rt.DiffMultiplier
}

func (rt *RuntimeData) shouldMaterialize() bool {
	return rt.Materialize != MaterializeNone
}

// ResultDiff pairs a result record with its signed multiplicity change.
type ResultDiff[R any] struct {
	Record R
	Diff   model.DiffCount
}

// CellTimes records the load and settle durations of one cell.
type CellTimes struct {
	Loaded time.Duration
	Stable time.Duration
	Total  time.Duration
}

// TimedCell attaches cell times to a coordinate.
type TimedCell struct {
	Timestamp cube.Timestamp
	Times     CellTimes
}
