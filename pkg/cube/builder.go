package cube

import (
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// BuildOptions tunes a cube build.
type BuildOptions struct {
	// Workers is the number of parallel edge-processing workers; 0 means
	// GOMAXPROCS.
	Workers int
	// ManualOrder bypasses the ordering optimizer and keeps each dimension's
	// declared filter order.
	ManualOrder bool
	// StoreTotalData records each cell's full edge set alongside its diffs.
	StoreTotalData bool
}

// Build materializes a filtered cube from the base graph and the dimension
// filter lists. Edges are sharded across workers; partial ordering matrices
// are reduced to a single set of dimension orders, broadcast back, and every
// worker then classifies its shard into per-cell full and diff sets.
func Build(g *graph.Graph, dimensions []Dimension, opts BuildOptions) (*FilteredCube, error) {
	if len(dimensions) == 0 || len(dimensions) > MaxDimensions {
		return nil, gserror.Input("cube needs between 1 and %d dimensions, got %d", MaxDimensions, len(dimensions))
	}
	lengths := make([]DimensionLength, len(dimensions))
	for d, dimension := range dimensions {
		if len(dimension) == 0 {
			return nil, gserror.Input("dimension %d has no filters", d)
		}
		lengths[d] = DimensionLength(len(dimension))
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	slog.Info("starting execution for new filtered cube", "dimensions", len(dimensions), "workers", workers)

	edges := g.Edges()
	matrices := make([]filterMatrix, len(edges))
	partials := make([]orderingMatrices, workers)
	needOrdering := !opts.ManualOrder
	if needOrdering {
		// All lengths below 3 means any ordering is equivalent.
		short := true
		for _, l := range lengths {
			if l >= 3 {
				short = false
				break
			}
		}
		needOrdering = !short
	}

	columnCounts := make([]int, len(lengths))
	for d, l := range lengths {
		// One extra column for the unfiltered prefix.
		columnCounts[d] = int(l) + 1
	}

	var group errgroup.Group
	for w := 0; w < workers; w++ {
		worker := w
		group.Go(func() error {
			left, right := graph.WorkerRange(len(edges), worker, workers)
			var partial orderingMatrices
			if needOrdering {
				partial = newOrderingMatrices(columnCounts)
			}
			for id := left; id < right; id++ {
				matrix := newFilterMatrix(edges[id], dimensions)
				matrices[id] = matrix
				if needOrdering {
					partial.accumulate(matrix)
				}
			}
			partials[worker] = partial
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	slog.Info("filter matrices built", "edges", len(edges), "elapsed", time.Since(start))

	var orders [][]DimensionID
	if needOrdering {
		// Funnel partial matrices to a single reduction, then solve.
		reduced := partials[0]
		for _, partial := range partials[1:] {
			reduced.merge(partial)
		}
		orders = reduced.optimalOrders()
	} else {
		orders = identityOrders(lengths)
	}
	logOrders(orders)

	// Second pass: every worker revisits its shard and classifies each edge
	// into cells under the broadcast orders.
	stashes := make([][]diffProcessingData, workers)
	var diffGroup errgroup.Group
	for w := 0; w < workers; w++ {
		worker := w
		diffGroup.Go(func() error {
			left, right := graph.WorkerRange(len(edges), worker, workers)
			stash := newResultsStash(orders, lengths)
			for id := left; id < right; id++ {
				processEdgeDiff(model.EdgeID(id), matrices[id], stash, opts.StoreTotalData)
			}
			stashes[worker] = stash
			return nil
		})
	}
	if err := diffGroup.Wait(); err != nil {
		return nil, err
	}
	slog.Info("processed diffs", "elapsed", time.Since(start))

	mappings := NewTimestampMappings(lengths)
	cube, err := assembleCells(g, mappings, lengths, stashes, workers)
	if err != nil {
		return nil, err
	}
	slog.Info("filtered cube built", "cells", cube.CellCount(), "elapsed", time.Since(start))
	return cube, nil
}

// assembleCells merges the per-worker stashes and converts edge ids to
// endpoint pairs, one cell per canonical timestamp, in parallel.
func assembleCells(
	g *graph.Graph,
	mappings TimestampMappings,
	lengths []DimensionLength,
	stashes [][]diffProcessingData,
	workers int,
) (*FilteredCube, error) {
	cellCount := mappings.Len()

	// Group worker results by cell index; worker order keeps the merge
	// deterministic.
	fulls := make([][]model.EdgeID, cellCount)
	diffs := make([][]edgeIDDiff, cellCount)
	for _, stash := range stashes {
		for _, cell := range stash {
			fulls[cell.timestampIndex] = append(fulls[cell.timestampIndex], cell.full...)
			diffs[cell.timestampIndex] = append(diffs[cell.timestampIndex], cell.diff...)
		}
	}

	entries := make([]CellEntry, cellCount)
	var group errgroup.Group
	group.SetLimit(workers)
	for i := 0; i < cellCount; i++ {
		index := i
		group.Go(func() error {
			full := make([]model.SimpleEdge, len(fulls[index]))
			for j, id := range fulls[index] {
				full[j] = g.Edge(id).Simple()
			}
			additions, deletions := 0, 0
			diff := make([]EdgeDiff, len(diffs[index]))
			for j, d := range diffs[index] {
				if d.Change > 0 {
					additions++
				} else {
					deletions++
				}
				diff[j] = EdgeDiff{Edge: g.Edge(d.ID).Simple(), Change: d.Change}
			}
			entries[index] = CellEntry{
				Index:     index,
				Timestamp: mappings.Entries[index].Timestamp,
				FullEdges: full,
				DiffEdges: diff,
				Additions: additions,
				Deletions: deletions,
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return NewFilteredCube(mappings, lengths, Data{Entries: entries}), nil
}
