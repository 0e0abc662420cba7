package engine

import (
	"sort"
	"sync"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// edgeUpdate is one (edge, time, diff) triple in the shared arrangement.
type edgeUpdate struct {
	Edge model.SimpleEdge
	Time cube.Timestamp
	Diff model.DiffCount
}

// Dataflow is one incremental computation instance: a time-versioned edge
// arrangement shared by all workers, the capability bounding which times may
// still receive input, and the result trace of every settled cell. Workers
// load diff shards concurrently; settling (the probe side) is driven by the
// pool leader between barriers.
type Dataflow[R compute.Record[R]] struct {
	comp     compute.Computation[R]
	arranged bool

	mu      sync.Mutex
	updates []edgeUpdate
	pending map[cube.Timestamp]bool

	capability cube.Timestamp
	evaluated  map[cube.Timestamp]compute.ResultSet[R]
	output     map[cube.Timestamp][]ResultDiff[R]
}

// NewDataflow opens a fresh dataflow for the computation. arranged selects
// the Arranged entry point; otherwise the Basic one is invoked.
func NewDataflow[R compute.Record[R]](comp compute.Computation[R], arranged bool) *Dataflow[R] {
	return &Dataflow[R]{
		comp:      comp,
		arranged:  arranged,
		pending:   make(map[cube.Timestamp]bool),
		evaluated: make(map[cube.Timestamp]compute.ResultSet[R]),
		output:    make(map[cube.Timestamp][]ResultDiff[R]),
	}
}

// LoadShard feeds this worker's share of a cell's diffs into the
// arrangement at the given time and returns how many updates it loaded.
// Safe for concurrent use by all workers of the pool.
func (d *Dataflow[R]) LoadShard(workerIndex, workerCount int, diffs []cube.EdgeDiff, at cube.Timestamp) int {
	left, right := graph.WorkerRange(len(diffs), workerIndex, workerCount)
	if left == right {
		d.markPending(at)
		return 0
	}
	batch := make([]edgeUpdate, 0, right-left)
	for _, diff := range diffs[left:right] {
		batch = append(batch, edgeUpdate{Edge: diff.Edge, Time: at, Diff: diff.Change})
	}
	d.mu.Lock()
	d.updates = append(d.updates, batch...)
	d.pending[at] = true
	d.mu.Unlock()
	return right - left
}

func (d *Dataflow[R]) markPending(at cube.Timestamp) {
	d.mu.Lock()
	d.pending[at] = true
	d.mu.Unlock()
}

// Downgrade lowers the input capability to t: no further updates will be
// loaded at times not greater or equal to t.
func (d *Dataflow[R]) Downgrade(t cube.Timestamp) {
	d.capability = t
}

// Capability returns the current input capability.
func (d *Dataflow[R]) Capability() cube.Timestamp { return d.capability }

// Step settles every pending cell in canonical order: it snapshots the
// arrangement at the cell's time, runs the computation, and records the
// cell's output delta against the inclusion-exclusion sum of its already
// settled neighbors. Must be called by a single goroutine with all loads
// for the pending cells completed (the pool leader, after a barrier).
func (d *Dataflow[R]) Step() {
	d.mu.Lock()
	times := make([]cube.Timestamp, 0, len(d.pending))
	for ts := range d.pending {
		times = append(times, ts)
	}
	d.pending = make(map[cube.Timestamp]bool)
	d.mu.Unlock()

	sort.Slice(times, func(i, j int) bool { return canonicalLess(times[i], times[j]) })
	for _, ts := range times {
		d.settle(ts)
	}
}

// canonicalLess orders coordinates most-significant axis first, matching the
// cube's canonical cell enumeration.
func canonicalLess(a, b cube.Timestamp) bool {
	for i := 0; i < cube.MaxDimensions; i++ {
		av := a.ValueAt(i, cube.MaxDimensions)
		bv := b.ValueAt(i, cube.MaxDimensions)
		if av != bv {
			return av < bv
		}
	}
	return false
}

func (d *Dataflow[R]) settle(ts cube.Timestamp) {
	input := d.snapshotAt(ts)
	var full compute.ResultSet[R]
	if d.arranged {
		full = d.comp.Arranged(input)
	} else {
		full = d.comp.Basic(input)
	}
	d.evaluated[ts] = full

	// Output delta: the full result minus the inclusion-exclusion sum over
	// the neighborhood. Neighbors never settled in this dataflow contribute
	// nothing.
	delta := make(compute.ResultSet[R], len(full))
	for record, diff := range full {
		delta.Add(record, diff)
	}
	positive, negative := ts.DiffNeighborhood()
	for _, p := range positive {
		if previous, ok := d.evaluated[p]; ok {
			for record, diff := range previous {
				delta.Add(record, -diff)
			}
		}
	}
	for _, n := range negative {
		if previous, ok := d.evaluated[n]; ok {
			for record, diff := range previous {
				delta.Add(record, diff)
			}
		}
	}

	diffs := make([]ResultDiff[R], 0, len(delta))
	for _, record := range compute.SortedRecords(delta) {
		diffs = append(diffs, ResultDiff[R]{Record: record, Diff: delta[record]})
	}
	d.output[ts] = diffs
}

// snapshotAt builds the computation input from all updates at times at or
// below ts.
func (d *Dataflow[R]) snapshotAt(ts cube.Timestamp) *compute.Input {
	d.mu.Lock()
	updates := d.updates
	d.mu.Unlock()

	multiplicity := make(map[model.SimpleEdge]model.DiffCount)
	for _, u := range updates {
		if u.Time.LessEqual(ts) {
			multiplicity[u.Edge] += u.Diff
		}
	}

	edges := make([]model.SimpleEdge, 0, len(multiplicity))
	for edge, count := range multiplicity {
		for i := model.DiffCount(0); i < count; i++ {
			edges = append(edges, edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Less(edges[j]) })

	forward := make(compute.Adjacency)
	reverse := make(compute.Adjacency)
	nodeSet := make(map[model.VertexID]bool)
	for _, edge := range edges {
		forward[edge.Src] = append(forward[edge.Src], edge.Dst)
		reverse[edge.Dst] = append(reverse[edge.Dst], edge.Src)
		nodeSet[edge.Src] = true
		nodeSet[edge.Dst] = true
	}
	nodes := make([]model.VertexID, 0, len(nodeSet))
	for v := range nodeSet {
		nodes = append(nodes, v)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	return &compute.Input{Nodes: nodes, Forward: forward, Reverse: reverse, Edges: edges}
}

// DrainOutput moves the settled output deltas out of the dataflow.
func (d *Dataflow[R]) DrainOutput() map[cube.Timestamp][]ResultDiff[R] {
	out := d.output
	d.output = make(map[cube.Timestamp][]ResultDiff[R])
	return out
}
