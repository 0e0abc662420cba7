package cube

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// EdgeDiff is a signed edge multiplicity change within one cell.
type EdgeDiff struct {
	Edge   model.SimpleEdge
	Change model.DiffCount
}

// CellEntry is one cube cell: its canonical index and coordinate, the full
// edge set, the diff set against its inclusion-exclusion neighborhood, and
// the addition/deletion counts of the diff set.
type CellEntry struct {
	Index     int
	Timestamp Timestamp
	FullEdges []model.SimpleEdge
	DiffEdges []EdgeDiff
	Additions int
	Deletions int
}

// Data is the ordered list of cube cells.
type Data struct {
	Entries []CellEntry
}

// FilteredCube is a materialized cube: the canonical cell enumeration, the
// axis lengths, the per-cell data, and lazily prepared differential
// iterators.
type FilteredCube struct {
	Mappings         TimestampMappings
	DimensionLengths []DimensionLength
	Data             Data

	differential *DifferentialData
}

// NewFilteredCube assembles a cube from already-built cell data.
func NewFilteredCube(mappings TimestampMappings, lengths []DimensionLength, data Data) *FilteredCube {
	return &FilteredCube{Mappings: mappings, DimensionLengths: lengths, Data: data}
}

// PrepareDifferentialData materializes the nested diff iterators on first
// use and caches them for later runs.
func (c *FilteredCube) PrepareDifferentialData() *DifferentialData {
	if c.differential == nil {
		slog.Info("materializing differential data", "cells", len(c.Data.Entries))
		c.differential = newDifferentialData(c)
	}
	return c.differential
}

// Differential returns the cached differential data, or nil if it has not
// been prepared.
func (c *FilteredCube) Differential() *DifferentialData { return c.differential }

// CellCount returns the number of cells.
func (c *FilteredCube) CellCount() int { return len(c.Data.Entries) }

// Summary renders per-cell totals with a small sample of full edges.
func (c *FilteredCube) Summary() string {
	var b strings.Builder
	for _, entry := range c.Data.Entries {
		sample := entry.FullEdges
		if len(sample) > 5 {
			sample = sample[:5]
		}
		parts := make([]string, len(sample))
		for i, e := range sample {
			parts[i] = e.String()
		}
		fmt.Fprintf(&b, "%s:\n\ttotal: %d, sample: %s\n",
			entry.Timestamp, len(entry.FullEdges), strings.Join(parts, ","))
	}
	return b.String()
}

// Store is a named-cube registry.
type Store struct {
	Cubes map[string]*FilteredCube
}

// NewStore creates an empty cube store.
func NewStore() *Store {
	return &Store{Cubes: make(map[string]*FilteredCube)}
}

// Add registers a cube, rejecting duplicate names.
func (s *Store) Add(name string, cube *FilteredCube) error {
	if _, exists := s.Cubes[name]; exists {
		return gserror.CollectionExists(name)
	}
	s.Cubes[name] = cube
	return nil
}

// Get looks up a cube by name.
func (s *Store) Get(name string) (*FilteredCube, error) {
	cube, ok := s.Cubes[name]
	if !ok {
		return nil, gserror.CollectionMissing(name)
	}
	return cube, nil
}

// Delete removes a single cube by name.
func (s *Store) Delete(name string) {
	delete(s.Cubes, name)
}

// DeleteAll clears the registry.
func (s *Store) DeleteAll() {
	s.Cubes = make(map[string]*FilteredCube)
}

// List renders the registered cube names, one per line, in sorted order.
func (s *Store) List() string {
	if len(s.Cubes) == 0 {
		return "No cubes registered"
	}
	names := make([]string, 0, len(s.Cubes))
	for name := range s.Cubes {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("(%d) cube %s", i+1, name)
	}
	return strings.Join(lines, "\n")
}
