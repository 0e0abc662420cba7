package engine

import (
	"log/slog"
	"time"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
)

// adaptiveShared is the state the pool leader publishes to peers at
// barriers.
type adaptiveShared[R compute.Record[R]] struct {
	df *Dataflow[R]
}

// RunAdaptive executes the cube under the adaptive scheduler: cell 0 runs
// individually and cell 1 incrementally to seed the two cost models, then
// the scheduler walks a lookahead window, predicts per cell whether an
// individual or incremental run will finish faster, broadcasts the decision
// vector from worker 0 to all peers, executes the longest no-split prefix as
// one incremental batch, and restarts with a fresh dataflow at the first
// split.
func RunAdaptive[R compute.Record[R]](
	data *cube.Data,
	comp compute.Computation[R],
	rt *RuntimeData,
) (RunOutput[R], error) {
	threads := rt.threads()
	entries := data.Entries
	if len(entries) == 0 {
		return newRunOutput[R](threads), nil
	}
	out := newRunOutput[R](threads)
	gate := newBarrier(threads)
	materialize := rt.shouldMaterialize()

	// Worker 0 sends each decision vector to every peer over its own
	// bounded one-shot channel.
	channels := make([]chan []bool, threads-1)
	for i := range channels {
		channels[i] = make(chan []bool, 1)
	}

	// The observation streams are owned by worker 0; peers never hold a
	// replica.
	indvModel := &costModel{}
	diffModel := &costModel{}
	shared := &adaptiveShared[R]{}

	err := runWorkers(threads, func(worker int) error {
		workerStart := time.Now()

		loopIndv := 0
		haveIndv := true
		diffStart, diffEnd := 1, min(2, len(entries))
		haveDiffs := diffEnd > diffStart
		indexConsider := min(2, len(entries))

	outer:
		for {
			if worker == 0 {
				shared.df = NewDataflow[R](comp, true)
			}
			gate.wait()
			df := shared.df

			if haveIndv {
				entry := entries[loopIndv]
				ts := entry.Timestamp
				if worker == 0 {
					slog.Info("running individually", "timestamp", ts.String())
				}
				loadStart := time.Now()
				count := 0
				loadedDiffs := 0
				for _, e := range entries[:loopIndv+1] {
					count += e.Additions - e.Deletions
					loadedDiffs += df.LoadShard(worker, threads, e.DiffEdges, ts)
				}
				loaded := time.Since(loadStart)
				if worker == 0 {
					slog.Info("individual loaded diffs", "worker", worker, "count", loadedDiffs, "timestamp", ts.String())
				}
				gate.wait()
				if worker == 0 {
					settleCell(df, &out[0], ts, ts.Next(), loaded, materialize)
					total := out[0].Times[len(out[0].Times)-1].Times.Total
					if count > 0 {
						indvModel.observe(float64(count), total.Seconds())
					}
					slog.Info("ml observation", "kind", "individual", "index", loopIndv,
						"count", count, "runtime", total.Seconds())
				}
				gate.wait()
			}

			if haveDiffs {
				startTs := entries[diffStart].Timestamp
				endTs := entries[diffEnd-1].Timestamp
				loadStart := time.Now()
				count := 0
				for _, e := range entries[diffStart:diffEnd] {
					if worker == 0 {
						slog.Info("running incrementally", "timestamp", e.Timestamp.String(), "as", startTs.String())
					}
					count += e.Additions + e.Deletions
					df.LoadShard(worker, threads, e.DiffEdges, e.Timestamp)
				}
				loaded := time.Since(loadStart)
				gate.wait()
				if worker == 0 {
					settleCell(df, &out[0], startTs, endTs.Next(), loaded, materialize)
					total := out[0].Times[len(out[0].Times)-1].Times.Total
					if count > 0 {
						diffModel.observe(float64(count), total.Seconds())
					}
					slog.Info("ml observation", "kind", "diffs", "start", diffStart, "end", diffEnd,
						"count", count, "runtime", total.Seconds())
				}
				gate.wait()
				haveDiffs = false
			}

			for {
				start := indexConsider
				end := min(start+rt.batchSize(), len(entries))

				var decisions []bool
				if worker == 0 {
					decisions = decideWindow(entries, start, end, indvModel, diffModel, rt)
					for index, decision := range decisions {
						if decision {
							out[0].Splits[start+index] = true
						}
					}
					for _, ch := range channels {
						vector := make([]bool, len(decisions))
						copy(vector, decisions)
						ch <- vector
					}
				} else {
					received, ok := <-channels[worker-1]
					if !ok {
						return gserror.Execution("decision channel closed before run completed")
					}
					decisions = received
				}
				out[worker].Decisions = append(out[worker].Decisions, decisions)

				prefix := 0
				for prefix < len(decisions) && !decisions[prefix] {
					prefix++
				}

				if prefix > 0 {
					batchStart := indexConsider
					batchEnd := indexConsider + prefix
					startTs := entries[batchStart].Timestamp
					endTs := entries[batchEnd-1].Timestamp
					loadStart := time.Now()
					count := 0
					for _, e := range entries[batchStart:batchEnd] {
						if worker == 0 {
							slog.Info("running incrementally", "timestamp", e.Timestamp.String(), "as", startTs.String())
						}
						count += e.Additions + e.Deletions
						df.LoadShard(worker, threads, e.DiffEdges, e.Timestamp)
					}
					loaded := time.Since(loadStart)
					gate.wait()
					if worker == 0 {
						settleCell(df, &out[0], startTs, endTs.Next(), loaded, materialize)
						total := out[0].Times[len(out[0].Times)-1].Times.Total
						// Zero-cost batches would pollute the regression
						// with free data points; skip them.
						if count > 0 {
							diffModel.observe(float64(count), total.Seconds())
						}
						slog.Info("ml observation", "kind", "diffs", "start", batchStart, "end", batchEnd,
							"count", count, "runtime", total.Seconds())
					}
					gate.wait()
				}

				indexConsider += prefix
				if indexConsider >= len(entries) {
					break outer
				}
				if prefix < len(decisions) {
					loopIndv = indexConsider
					haveIndv = true
					indexConsider++
					continue outer
				}
			}
		}

		out[worker].WorkerTime = time.Since(workerStart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decideWindow predicts, for every cell of the lookahead window, whether an
// individual run beats folding the cell into the current incremental batch.
// Only worker 0 calls this.
func decideWindow(
	entries []cube.CellEntry,
	start, end int,
	indvModel, diffModel *costModel,
	rt *RuntimeData,
) []bool {
	indvcTotal := 0
	for _, e := range entries[:start] {
		indvcTotal += e.Additions - e.Deletions
	}

	decisions := make([]bool, 0, end-start)
	for index := start; index < end; index++ {
		entry := entries[index]
		diffcTotal := entry.Additions + entry.Deletions
		indvcTotal += entry.Additions - entry.Deletions

		var decision bool
		if rt.Splits != nil {
			decision = rt.Splits[index]
			slog.Info("ml decision", "index", index, "diffc", diffcTotal, "indvc", indvcTotal,
				"pre_decided_split", decision)
		} else {
			diffPrediction := diffModel.predict(float64(diffcTotal), rt.Limit, rt.UseLR)
			indvPrediction := indvModel.predict(float64(indvcTotal), rt.Limit, rt.UseLR)
			indvTimeScaled := indvPrediction.value * rt.compMultiplier()
			scaledIndvcTotal := float64(indvcTotal) * rt.diffMultiplier()

			var rule string
			if float64(diffcTotal) > scaledIndvcTotal {
				// The diff is larger than redoing from scratch; no point
				// running differentially.
				decision = true
				rule = "diffs"
			} else {
				decision = indvTimeScaled < diffPrediction.value
				rule = "time"
			}
			slog.Info("ml decision", "index", index,
				"diffc", diffcTotal, "diff_predict", diffPrediction.value,
				"diff_lr", diffPrediction.lr, "diff_avg", diffPrediction.average,
				"indvc", indvcTotal, "indvc_scaled", scaledIndvcTotal,
				"indv_predict", indvPrediction.value, "indv_scaled", indvTimeScaled,
				"indv_lr", indvPrediction.lr, "indv_avg", indvPrediction.average,
				"rule", rule, "split", decision)
		}
		decisions = append(decisions, decision)
	}
	return decisions
}
