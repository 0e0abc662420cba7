package cube

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// LoadCubeOptions describes an on-disk cube laid out as one diff file per
// cell: <dir>/<prefix><i>_<j>.txt with "src,dst,diff" lines.
type LoadCubeOptions struct {
	Dir         string
	Prefix      string
	Separator   string // defaults to ","
	CommentChar string // lines starting with this are skipped; empty disables
	// WithFull reconstructs each cell's full edge set from the diffs of all
	// preceding cells.
	WithFull bool
}

// LoadFromDir reads a 2-axis cube of m×n cells from per-cell diff files.
func LoadFromDir(m, n int, opts LoadCubeOptions) (*FilteredCube, error) {
	slog.Info("loading cube data", "dir", opts.Dir, "m", m, "n", n)
	sep := opts.Separator
	if sep == "" {
		sep = ","
	}
	lengths := []DimensionLength{DimensionLength(m), DimensionLength(n)}
	mappings := NewTimestampMappings(lengths)

	entries := make([]CellEntry, 0, mappings.Len())
	for index, mapping := range mappings.Entries {
		ts := mapping.Timestamp
		i := ts.ValueAt(0, 2)
		j := ts.ValueAt(1, 2)
		path := fmt.Sprintf("%s/%s%d_%d.txt", opts.Dir, opts.Prefix, i, j)
		diffs, additions, deletions, err := readDiffFile(path, sep, opts.CommentChar)
		if err != nil {
			return nil, err
		}
		slog.Info("loaded cell updates", "timestamp", ts.String(), "updates", len(diffs))

		var full []model.SimpleEdge
		if opts.WithFull {
			full, err = sumPrecedingDiffs(entries, diffs, ts)
			if err != nil {
				return nil, err
			}
		}
		entries = append(entries, CellEntry{
			Index:     index,
			Timestamp: ts,
			FullEdges: full,
			DiffEdges: diffs,
			Additions: additions,
			Deletions: deletions,
		})
	}
	return NewFilteredCube(mappings, lengths, Data{Entries: entries}), nil
}

func readDiffFile(path, sep, comment string) ([]EdgeDiff, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, gserror.IOFailure(err, "open file for reading", path)
	}
	defer f.Close()

	var diffs []EdgeDiff
	additions, deletions := 0, 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if comment != "" && strings.HasPrefix(line, comment) {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			return nil, 0, 0, gserror.New(gserror.KindParsing, "diff line '%s' in '%s' needs src, dst and diff", line, path)
		}
		src, err := strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 32)
		if err != nil {
			return nil, 0, 0, gserror.Wrap(gserror.KindParsing, err, "could not parse src in '%s'", path)
		}
		dst, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
		if err != nil {
			return nil, 0, 0, gserror.Wrap(gserror.KindParsing, err, "could not parse dst in '%s'", path)
		}
		change, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return nil, 0, 0, gserror.Wrap(gserror.KindParsing, err, "could not parse diff in '%s'", path)
		}
		if change == 0 {
			continue
		}
		if change > 0 {
			additions++
		} else {
			deletions++
		}
		diffs = append(diffs, EdgeDiff{
			Edge:   model.SimpleEdge{Src: model.VertexID(src), Dst: model.VertexID(dst)},
			Change: model.DiffCount(change),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, 0, gserror.IOFailure(err, "read", path)
	}
	return diffs, additions, deletions, nil
}

// sumPrecedingDiffs reconstructs a cell's full edge set by summing its diff
// with the diffs of every strictly preceding cell. Any total outside {0, 1}
// means the diff files are inconsistent.
func sumPrecedingDiffs(entries []CellEntry, diffs []EdgeDiff, ts Timestamp) ([]model.SimpleEdge, error) {
	totals := make(map[model.SimpleEdge]model.DiffCount)
	for _, entry := range entries {
		if entry.Timestamp.LessThan(ts) {
			for _, d := range entry.DiffEdges {
				totals[d.Edge] += d.Change
			}
		}
	}
	for _, d := range diffs {
		totals[d.Edge] += d.Change
	}
	full := make([]model.SimpleEdge, 0, len(totals))
	for edge, sum := range totals {
		switch sum {
		case 0:
		case 1:
			full = append(full, edge)
		default:
			return nil, gserror.Serde("edge %s sums to multiplicity %d at %s", edge, sum, ts)
		}
	}
	return full, nil
}
