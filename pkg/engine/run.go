package engine

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/graphsurge/pkg/compute"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
)

// FullCell is one cell's reconstructed full result set.
type FullCell[R compute.Record[R]] struct {
	Index     int
	Timestamp cube.Timestamp
	Results   compute.ResultSet[R]
}

// RunResult is the outcome of one execution over a cube.
type RunResult[R compute.Record[R]] struct {
	// Diff holds the merged per-cell result deltas, sorted by record.
	Diff map[cube.Timestamp][]ResultDiff[R]
	// Full holds the reconstructed full results in canonical cell order.
	// The incremental planners fill it only when full materialization was
	// requested; the individual planners always fill it.
	Full []FullCell[R]
	// Splits are the cells the adaptive scheduler ran individually.
	Splits map[int]bool
	// Outputs preserves the raw per-worker view, including the decision
	// vectors each worker acted on.
	Outputs RunOutput[R]
}

// Run executes the computation over the cube with the requested planner.
func Run[R compute.Record[R]](c *cube.FilteredCube, comp compute.Computation[R], rt *RuntimeData) (*RunResult[R], error) {
	switch rt.Type {
	case TypeBasic, TypeAdaptive, TypeCompare:
		c.PrepareDifferentialData()
	}

	slog.Info("running computation", "computation", comp.Name(), "mode", rt.Type.String(), "threads", rt.threads())
	start := time.Now()
	defer func() {
		slog.Info("run finished", "mode", rt.Type.String(), "elapsed", time.Since(start))
	}()

	switch rt.Type {
	case TypeBasic, TypeOneStage, TypeTwoStage, TypeAdaptive:
		return diffExecute(c, comp, rt)
	case TypeIndividual, TypeIndividualBasic:
		return individualExecute(c, comp, rt)
	case TypeCompare:
		return compareExecute(c, comp, rt)
	}
	return nil, gserror.Computation("unknown computation type '%s'", rt.Type)
}

func diffExecute[R compute.Record[R]](c *cube.FilteredCube, comp compute.Computation[R], rt *RuntimeData) (*RunResult[R], error) {
	var outputs RunOutput[R]
	var err error
	switch rt.Type {
	case TypeBasic:
		outputs, err = RunBasic(c.PrepareDifferentialData().Iterators, cube.ZeroTimestamp(), comp, rt)
	case TypeOneStage:
		outputs, err = RunOneStage(&c.Data, comp, rt)
	case TypeTwoStage:
		outputs, err = RunTwoStage(&c.Data, comp, cube.ZeroTimestamp(), rt)
	case TypeAdaptive:
		outputs, err = RunAdaptive(&c.Data, comp, rt)
	default:
		return nil, gserror.Computation("planner '%s' is not an incremental mode", rt.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &RunResult[R]{
		Diff:    mergeWorkerResults(outputs),
		Splits:  mergeSplits(outputs),
		Outputs: outputs,
	}
	if rt.shouldMaterialize() {
		for _, mapping := range c.Mappings.Entries {
			slog.Info("cell results", "timestamp", mapping.Timestamp.String(), "count", len(result.Diff[mapping.Timestamp]))
		}
	}
	if rt.SaveTo != "" {
		if err := writeDiffResults(rt.SaveTo, c, result.Diff); err != nil {
			return nil, err
		}
	}
	if rt.Materialize == MaterializeFull {
		result.Full = reconstructFull(c, result.Diff, result.Splits)
		if rt.SaveTo != "" {
			if err := writeFullResults(rt.SaveTo, result.Full); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// individualExecute runs every cell from scratch: each cell's full edge set
// becomes a one-cell cube at the zeroth timestamp in a fresh dataflow.
func individualExecute[R compute.Record[R]](c *cube.FilteredCube, comp compute.Computation[R], rt *RuntimeData) (*RunResult[R], error) {
	result := &RunResult[R]{
		Diff:   make(map[cube.Timestamp][]ResultDiff[R]),
		Splits: make(map[int]bool),
	}
	fixed := cube.ZeroTimestamp()
	for _, entry := range c.Data.Entries {
		slog.Info("starting individual computation", "timestamp", entry.Timestamp.String())
		diffs := make([]cube.EdgeDiff, len(entry.FullEdges))
		for i, edge := range entry.FullEdges {
			diffs[i] = cube.EdgeDiff{Edge: edge, Change: 1}
		}
		cellData := cube.Data{Entries: []cube.CellEntry{{
			Index:     0,
			Timestamp: fixed,
			DiffEdges: diffs,
			Additions: len(diffs),
		}}}

		var outputs RunOutput[R]
		var err error
		if rt.Type == TypeIndividualBasic {
			iterators := &cube.DiffIterators{Inner: []cube.InnerEntry{{
				Current: fixed,
				Next:    fixed.Next(),
				Diffs:   diffs,
			}}}
			outputs, err = RunBasic(iterators, fixed, comp, rt)
		} else {
			outputs, err = RunTwoStage(&cellData, comp, fixed, rt)
		}
		if err != nil {
			return nil, err
		}
		merged := mergeWorkerResults(outputs)
		cellDiffs := merged[fixed]
		result.Diff[entry.Timestamp] = cellDiffs
		set := make(compute.ResultSet[R], len(cellDiffs))
		for _, d := range cellDiffs {
			set.Add(d.Record, d.Diff)
		}
		result.Full = append(result.Full, FullCell[R]{
			Index:     entry.Index,
			Timestamp: entry.Timestamp,
			Results:   set,
		})
	}
	if rt.SaveTo != "" {
		if err := writeFullResults(rt.SaveTo, result.Full); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// compareExecute runs the incremental and individual paths and verifies the
// full results match cell by cell.
func compareExecute[R compute.Record[R]](c *cube.FilteredCube, comp compute.Computation[R], rt *RuntimeData) (*RunResult[R], error) {
	incremental := *rt
	incremental.Type = TypeTwoStage
	incremental.Materialize = MaterializeFull
	incremental.SaveTo = ""
	left, err := diffExecute(c, comp, &incremental)
	if err != nil {
		return nil, err
	}
	individual := *rt
	individual.Type = TypeIndividual
	individual.Materialize = MaterializeFull
	individual.SaveTo = ""
	right, err := individualExecute(c, comp, &individual)
	if err != nil {
		return nil, err
	}
	if err := compareFullResults(left.Full, right.Full); err != nil {
		return nil, err
	}
	slog.Info("results match")
	return left, nil
}

const mismatchSamples = 3

func compareFullResults[R compute.Record[R]](left, right []FullCell[R]) error {
	var problems []string
	for i := range left {
		if i >= len(right) {
			problems = append(problems, fmt.Sprintf("key %s missing in right results", left[i].Timestamp))
			continue
		}
		missingRight := diffSample(left[i].Results, right[i].Results)
		missingLeft := diffSample(right[i].Results, left[i].Results)
		if len(missingRight) > 0 {
			problems = append(problems, fmt.Sprintf("%s: values %v not present in right results",
				left[i].Timestamp, missingRight))
		}
		if len(missingLeft) > 0 {
			problems = append(problems, fmt.Sprintf("%s: values %v not present in left results",
				left[i].Timestamp, missingLeft))
		}
	}
	if len(problems) > 0 {
		return gserror.ResultsMismatch(strings.Join(problems, "; "))
	}
	return nil
}

// diffSample returns up to mismatchSamples records of a that are absent (or
// differently counted) in b.
func diffSample[R compute.Record[R]](a, b compute.ResultSet[R]) []string {
	var missing []string
	for _, record := range compute.SortedRecords(a) {
		if b[record] != a[record] {
			missing = append(missing, fmt.Sprintf("(%s, %d)", record, a[record]))
			if len(missing) == mismatchSamples {
				break
			}
		}
	}
	return missing
}

// mergeWorkerResults unions the per-worker diff streams, group-sums per
// record, filters zero totals, and sorts.
func mergeWorkerResults[R compute.Record[R]](outputs RunOutput[R]) map[cube.Timestamp][]ResultDiff[R] {
	grouped := make(map[cube.Timestamp]compute.ResultSet[R])
	for _, worker := range outputs {
		for ts, diffs := range worker.Results {
			set, ok := grouped[ts]
			if !ok {
				set = make(compute.ResultSet[R])
				grouped[ts] = set
			}
			for _, d := range diffs {
				set.Add(d.Record, d.Diff)
			}
		}
	}
	merged := make(map[cube.Timestamp][]ResultDiff[R], len(grouped))
	for ts, set := range grouped {
		diffs := make([]ResultDiff[R], 0, len(set))
		for _, record := range compute.SortedRecords(set) {
			diffs = append(diffs, ResultDiff[R]{Record: record, Diff: set[record]})
		}
		merged[ts] = diffs
	}
	return merged
}

func mergeSplits[R compute.Record[R]](outputs RunOutput[R]) map[int]bool {
	splits := make(map[int]bool)
	for _, worker := range outputs {
		for index := range worker.Splits {
			splits[index] = true
		}
	}
	return splits
}

// reconstructFull rebuilds each cell's full result set in canonical order:
// the cell's diff plus the inclusion-exclusion sum over its neighbors'
// already reconstructed full results, with zero totals dropped. Cells the
// scheduler split carry their diff as the full result directly.
func reconstructFull[R compute.Record[R]](
	c *cube.FilteredCube,
	diff map[cube.Timestamp][]ResultDiff[R],
	splits map[int]bool,
) []FullCell[R] {
	slog.Info("materializing full results")
	start := time.Now()
	fulls := make([]FullCell[R], 0, c.Mappings.Len())
	for index, mapping := range c.Mappings.Entries {
		diffData := diff[mapping.Timestamp]
		set := make(compute.ResultSet[R], len(diffData))
		for _, d := range diffData {
			set.Add(d.Record, d.Diff)
		}
		if !splits[index] {
			for _, p := range mapping.Neighborhood.Add {
				for record, count := range fulls[p].Results {
					set.Add(record, count)
				}
			}
			for _, n := range mapping.Neighborhood.Subtract {
				for record, count := range fulls[n].Results {
					set.Add(record, -count)
				}
			}
		}
		fulls = append(fulls, FullCell[R]{Index: index, Timestamp: mapping.Timestamp, Results: set})
	}
	slog.Info("results materialized", "elapsed", time.Since(start))
	return fulls
}

func writeDiffResults[R compute.Record[R]](dir string, c *cube.FilteredCube, diff map[cube.Timestamp][]ResultDiff[R]) error {
	slog.Info("writing diff results", "dir", dir)
	for _, mapping := range c.Mappings.Entries {
		ts := mapping.Timestamp
		path := fmt.Sprintf("%s/results-diff-%s.txt", dir, ts.Key("_"))
		var b strings.Builder
		for _, d := range diff[ts] {
			fmt.Fprintf(&b, "%s, %+d\n", d.Record, d.Diff)
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return gserror.IOFailure(err, "write to", path)
		}
	}
	return nil
}

func writeFullResults[R compute.Record[R]](dir string, fulls []FullCell[R]) error {
	slog.Info("writing full results", "dir", dir)
	for _, cell := range fulls {
		path := fmt.Sprintf("%s/results-full-%s.txt", dir, cell.Timestamp.Key("_"))
		var b strings.Builder
		for _, record := range compute.SortedRecords(cell.Results) {
			fmt.Fprintf(&b, "%s, %+d\n", record, cell.Results[record])
		}
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return gserror.IOFailure(err, "write to", path)
		}
	}
	return nil
}
