// Command graphsurge is a batch runner: it loads a base graph and any
// on-disk cubes named in its config file, executes the configured
// computations, and writes result files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/graphsurge/pkg/config"
	"github.com/vanderheijden86/graphsurge/pkg/cube"
	"github.com/vanderheijden86/graphsurge/pkg/engine"
	"github.com/vanderheijden86/graphsurge/pkg/graph"
	"github.com/vanderheijden86/graphsurge/pkg/gserror"
	"github.com/vanderheijden86/graphsurge/pkg/logger"
	"github.com/vanderheijden86/graphsurge/pkg/model"
	"github.com/vanderheijden86/graphsurge/pkg/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func main() {
	configPath := flag.String("config", "graphsurge.yaml", "path to the run configuration")
	showCubes := flag.Bool("show-cubes", false, "list loaded cubes and exit")
	threads := flag.Int("threads", 0, "override the configured worker count")
	flag.Parse()

	if err := run(*configPath, *showCubes, *threads); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, showCubes bool, threads int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)

	st := store.New()
	if threads > 0 {
		st.Threads = threads
	} else if cfg.Threads > 0 {
		st.Threads = cfg.Threads
	}

	if cfg.Graph != nil {
		err := st.Graph.LoadEdges(cfg.Graph.Path, graph.LoadOptions{
			Separator:     cfg.Graph.Separator,
			CommentChar:   cfg.Graph.CommentChar,
			PropertyNames: cfg.Graph.PropertyNames,
		})
		if err != nil {
			return err
		}
	}

	for _, cc := range cfg.Cubes {
		loaded, err := cube.LoadFromDir(cc.M, cc.N, cube.LoadCubeOptions{
			Dir:         cc.Dir,
			Prefix:      cc.Prefix,
			Separator:   cc.Separator,
			CommentChar: cc.CommentChar,
			WithFull:    cc.WithFull,
		})
		if err != nil {
			return err
		}
		if err := st.Cubes.Add(cc.Name, loaded); err != nil {
			return err
		}
	}

	if showCubes {
		fmt.Println(headerStyle.Render("Cubes"))
		fmt.Println(st.Cubes.List())
		return nil
	}

	for _, rc := range cfg.Runs {
		rt, err := runtimeData(rc)
		if err != nil {
			return err
		}
		properties, err := parseProperties(rc.Properties)
		if err != nil {
			return err
		}
		message, err := st.RunComputation(rc.Computation, properties, rc.Cube, rt)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render(message))
	}
	return nil
}

func runtimeData(rc config.RunConfig) (*engine.RuntimeData, error) {
	var mode engine.ComputationType
	switch strings.ToLower(rc.Mode) {
	case "", "adaptive":
		mode = engine.TypeAdaptive
	case "basic":
		mode = engine.TypeBasic
	case "one-stage", "differential":
		mode = engine.TypeOneStage
	case "two-stage":
		mode = engine.TypeTwoStage
	case "individual":
		mode = engine.TypeIndividual
	case "individual-basic":
		mode = engine.TypeIndividualBasic
	case "compare":
		mode = engine.TypeCompare
	default:
		return nil, gserror.Input("unknown run mode '%s'", rc.Mode)
	}

	rt := engine.NewRuntimeData(mode)
	switch strings.ToLower(rc.Materialize) {
	case "none":
		rt.Materialize = engine.MaterializeNone
	case "", "diff":
		rt.Materialize = engine.MaterializeDiff
	case "full":
		rt.Materialize = engine.MaterializeFull
	default:
		return nil, gserror.Input("unknown materialize mode '%s'", rc.Materialize)
	}
	rt.SaveTo = rc.SaveTo
	rt.BatchSize = rc.BatchSize
	rt.CompMultiplier = rc.CompMultiplier
	rt.DiffMultiplier = rc.DiffMultiplier
	rt.Limit = rc.Limit
	rt.UseLR = rc.UseLR == nil || *rc.UseLR
	if rc.Splits != nil {
		rt.Splits = make(map[int]bool, len(rc.Splits))
		for _, index := range rc.Splits {
			rt.Splits[index] = true
		}
	}
	return rt, nil
}

// parseProperties converts the yaml property map into typed computation
// properties: integers, and lists of two-element integer lists as pairs.
func parseProperties(raw map[string]any) (model.Properties, error) {
	properties := make(model.Properties, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case int:
			properties[name] = model.IntValue(int64(v))
		case bool:
			properties[name] = model.BoolValue(v)
		case string:
			properties[name] = model.StringValue(v)
		case []any:
			pairs := make([]model.Pair, 0, len(v))
			for _, item := range v {
				pair, ok := item.([]any)
				if !ok || len(pair) != 2 {
					return nil, gserror.Input("property '%s' should be a list of [src, dst] pairs", name)
				}
				first, ok1 := pair[0].(int)
				second, ok2 := pair[1].(int)
				if !ok1 || !ok2 {
					return nil, gserror.Input("property '%s' should hold integer pairs", name)
				}
				pairs = append(pairs, model.Pair{First: int64(first), Second: int64(second)})
			}
			properties[name] = model.PairListValue(pairs)
		default:
			return nil, gserror.Input("property '%s' has unsupported type %T", name, value)
		}
	}
	slog.Debug("parsed computation properties", "count", len(properties))
	return properties, nil
}
