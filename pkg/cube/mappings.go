package cube

// DiffNeighborhood is a cell's inclusion-exclusion neighborhood resolved to
// cell indices: Add holds the indices whose full sets are added when
// reconstructing, Subtract those subtracted.
type DiffNeighborhood struct {
	Add      []int
	Subtract []int
}

// MappingEntry pairs a cell's neighborhood with its coordinate.
type MappingEntry struct {
	Neighborhood DiffNeighborhood
	Timestamp    Timestamp
}

// TimestampMappings is the canonical cell enumeration of a cube: the ordered
// entry list plus the bijective reverse map from coordinate to index.
type TimestampMappings struct {
	Entries []MappingEntry
	Index   map[Timestamp]int
}

// NewTimestampMappings enumerates all cells of a cube in canonical order and
// resolves each cell's diff neighborhood to indices. Every neighbor precedes
// its successors in canonical order, so lookups never miss.
func NewTimestampMappings(dimensionLengths []DimensionLength) TimestampMappings {
	mappings := TimestampMappings{Index: make(map[Timestamp]int)}
	for _, ts := range AllTimestamps(dimensionLengths) {
		index := len(mappings.Entries)
		mappings.Index[ts] = index
		positive, negative := ts.DiffNeighborhood()
		neighborhood := DiffNeighborhood{
			Add:      mappings.resolve(positive),
			Subtract: mappings.resolve(negative),
		}
		mappings.Entries = append(mappings.Entries, MappingEntry{Neighborhood: neighborhood, Timestamp: ts})
	}
	return mappings
}

func (m *TimestampMappings) resolve(timestamps []Timestamp) []int {
	if len(timestamps) == 0 {
		return nil
	}
	indices := make([]int, len(timestamps))
	for i, ts := range timestamps {
		index, ok := m.Index[ts]
		if !ok {
			panic("timestamp index map should contain every predecessor")
		}
		indices[i] = index
	}
	return indices
}

// Len returns the number of cells.
func (m *TimestampMappings) Len() int { return len(m.Entries) }
