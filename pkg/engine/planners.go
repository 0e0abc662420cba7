package engine

import (
	"log/slog"
	"time"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
)

// WorkerOutput is one worker's view of a run: its captured result deltas,
// per-cell times, total runtime, the cells it saw split, and (adaptive only)
// the decision vectors it acted on.
type WorkerOutput[R compute.Record[R]] struct {
	Results    map[cube.Timestamp][]ResultDiff[R]
	Times      []TimedCell
	WorkerTime time.Duration
	Splits     map[int]bool
	Decisions  [][]bool
}

// RunOutput collects every worker's output, index-aligned with the pool.
type RunOutput[R compute.Record[R]] []WorkerOutput[R]

func newRunOutput[R compute.Record[R]](workers int) RunOutput[R] {
	out := make(RunOutput[R], workers)
	for i := range out {
		out[i] = WorkerOutput[R]{
			Results: make(map[cube.Timestamp][]ResultDiff[R]),
			Splits:  make(map[int]bool),
		}
	}
	return out
}

// settleCell advances the shared dataflow past one loaded cell: the leader
// downgrades the capability, settles, records timing, and captures the
// drained output. Callers sit between two barriers.
func settleCell[R compute.Record[R]](
	df *Dataflow[R],
	out *WorkerOutput[R],
	recordAt cube.Timestamp,
	next cube.Timestamp,
	loaded time.Duration,
	materialize bool,
) {
	stableStart := time.Now()
	df.Downgrade(next)
	df.Step()
	stable := time.Since(stableStart)
	out.Times = append(out.Times, TimedCell{
		Timestamp: recordAt,
		Times:     CellTimes{Loaded: loaded, Stable: stable, Total: loaded + stable},
	})
	if materialize {
		for ts, diffs := range df.DrainOutput() {
			out.Results[ts] = append(out.Results[ts], diffs...)
		}
	} else {
		df.DrainOutput()
	}
}

// RunBasic walks the cube's nested diff iterators through a single dataflow
// built on the computation's basic operators, advancing the frontier cell by
// cell.
func RunBasic[R compute.Record[R]](
	iterators *cube.DiffIterators,
	startTimestamp cube.Timestamp,
	comp compute.Computation[R],
	rt *RuntimeData,
) (RunOutput[R], error) {
	threads := rt.threads()
	df := NewDataflow[R](comp, false)
	df.Downgrade(startTimestamp)
	out := newRunOutput[R](threads)
	gate := newBarrier(threads)
	materialize := rt.shouldMaterialize()

	err := runWorkers(threads, func(worker int) error {
		workerStart := time.Now()
		walkDiffIterators(iterators, func(inner cube.InnerEntry) {
			loadStart := time.Now()
			count := df.LoadShard(worker, threads, inner.Diffs, inner.Current)
			loaded := time.Since(loadStart)
			slog.Info("loaded diffs", "worker", worker, "count", count, "timestamp", inner.Current.String())
			gate.wait()
			if worker == 0 {
				settleCell(df, &out[0], inner.Current, inner.Next, loaded, materialize)
			}
			gate.wait()
		})
		out[worker].WorkerTime = time.Since(workerStart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walkDiffIterators visits every innermost cell in frontier order.
func walkDiffIterators(iterators *cube.DiffIterators, visit func(cube.InnerEntry)) {
	if iterators == nil {
		return
	}
	if iterators.Inner != nil {
		for _, inner := range iterators.Inner {
			visit(inner)
		}
		return
	}
	for _, outer := range iterators.Outer {
		walkDiffIterators(outer.Rows, visit)
	}
}

// RunOneStage feeds each cell's diffs into an arranged dataflow in canonical
// order, settling after every cell.
func RunOneStage[R compute.Record[R]](
	data *cube.Data,
	comp compute.Computation[R],
	rt *RuntimeData,
) (RunOutput[R], error) {
	threads := rt.threads()
	df := NewDataflow[R](comp, true)
	out := newRunOutput[R](threads)
	gate := newBarrier(threads)
	materialize := rt.shouldMaterialize()

	err := runWorkers(threads, func(worker int) error {
		workerStart := time.Now()
		for _, entry := range data.Entries {
			loadStart := time.Now()
			count := df.LoadShard(worker, threads, entry.DiffEdges, entry.Timestamp)
			loaded := time.Since(loadStart)
			if worker == 0 {
				slog.Info("loaded diffs", "worker", worker, "count", count, "timestamp", entry.Timestamp.String())
			}
			gate.wait()
			if worker == 0 {
				settleCell(df, &out[0], entry.Timestamp, entry.Timestamp.Next(), loaded, materialize)
			}
			gate.wait()
		}
		out[worker].WorkerTime = time.Since(workerStart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RunTwoStage loads every cell into the arrangement first, then runs the
// computation once with all cells visible as times.
func RunTwoStage[R compute.Record[R]](
	data *cube.Data,
	comp compute.Computation[R],
	startTimestamp cube.Timestamp,
	rt *RuntimeData,
) (RunOutput[R], error) {
	threads := rt.threads()
	df := NewDataflow[R](comp, true)
	out := newRunOutput[R](threads)
	gate := newBarrier(threads)
	materialize := rt.shouldMaterialize()

	err := runWorkers(threads, func(worker int) error {
		workerStart := time.Now()
		loadStart := time.Now()
		for _, entry := range data.Entries {
			count := df.LoadShard(worker, threads, entry.DiffEdges, entry.Timestamp)
			if worker == 0 {
				slog.Info("loaded diffs", "worker", worker, "count", count, "timestamp", entry.Timestamp.String())
			}
		}
		loaded := time.Since(loadStart)
		gate.wait()
		if worker == 0 {
			computeStart := time.Now()
			df.Step()
			stable := time.Since(computeStart)
			out[0].Times = append(out[0].Times, TimedCell{
				Timestamp: startTimestamp,
				Times:     CellTimes{Loaded: loaded, Stable: stable, Total: loaded + stable},
			})
			slog.Info("computation finished", "loaded", loaded, "computed", stable)
			if materialize {
				for ts, diffs := range df.DrainOutput() {
					out[0].Results[ts] = append(out[0].Results[ts], diffs...)
				}
			}
		}
		gate.wait()
		out[worker].WorkerTime = time.Since(workerStart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
