package graph

import (
	"bufio"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/model"
)

// LoadOptions controls edge-list parsing.
type LoadOptions struct {
	Separator   string // defaults to ","
	CommentChar string // lines starting with this are skipped; empty disables
	// PropertyNames names the columns after src and dst; each extra column
	// is parsed as an integer property of that name.
	PropertyNames []string
}

// LoadEdges reads a delimited edge list into the graph. Each line is
// "src<sep>dst[<sep>prop...]"; vertex ids must fit in 32 bits.
func (g *Graph) LoadEdges(path string, opts LoadOptions) error {
	sep := opts.Separator
	if sep == "" {
		sep = ","
	}

	f, err := os.Open(path)
	if err != nil {
		return gserror.IOFailure(err, "open file for reading", path)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if opts.CommentChar != "" && strings.HasPrefix(line, opts.CommentChar) {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 2 {
			return gserror.New(gserror.KindParsing, "edge line '%s' in '%s' needs at least src and dst", line, path)
		}
		src, err := parseVertex(fields[0])
		if err != nil {
			return gserror.Wrap(gserror.KindParsing, err, "could not parse src in '%s' of '%s'", line, path)
		}
		dst, err := parseVertex(fields[1])
		if err != nil {
			return gserror.Wrap(gserror.KindParsing, err, "could not parse dst in '%s' of '%s'", line, path)
		}
		var props model.Properties
		if len(opts.PropertyNames) > 0 {
			props = make(model.Properties, len(opts.PropertyNames))
			for i, name := range opts.PropertyNames {
				if 2+i >= len(fields) {
					break
				}
				v, err := strconv.ParseInt(strings.TrimSpace(fields[2+i]), 10, 64)
				if err != nil {
					return gserror.Wrap(gserror.KindParsing, err,
						"could not parse property '%s' for edge '%s' in '%s'", name, line, path)
				}
				props[name] = model.IntValue(v)
			}
		}
		g.AddEdge(src, dst, props)
		count++
	}
	if err := scanner.Err(); err != nil {
		return gserror.IOFailure(err, "read", path)
	}
	slog.Info("loaded graph edges", "path", path, "edges", count, "vertices", g.VertexCount())
	return nil
}

func parseVertex(s string) (model.VertexID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return model.VertexID(v), nil
}
