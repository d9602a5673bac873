package anyangle

import (
	"fmt"
	"os"

	"github.com/pdrpinto/anyangle/internal/anya"
	"github.com/pdrpinto/anyangle/internal/search"
)

// Algorithm names a search strategy.
type Algorithm string

const (
	AStar                    Algorithm = "astar"
	Dijkstra                 Algorithm = "dijkstra"
	AStarOctile              Algorithm = "astar-octile"
	AStarPostSmooth          Algorithm = "astar-postsmooth"
	AStarRepeatedPostSmooth  Algorithm = "astar-repeated-postsmooth"
	BFS                      Algorithm = "bfs"
	AcceleratedAStar         Algorithm = "accelerated-astar"
	JPS                      Algorithm = "jps"
	ThetaStar                Algorithm = "theta"
	LazyThetaStar            Algorithm = "lazy-theta"
	RecursiveThetaStar       Algorithm = "recursive-theta"
	AdjustmentThetaStar      Algorithm = "adjustment-theta"
	StrictThetaStar          Algorithm = "strict-theta"
	RecursiveStrictThetaStar Algorithm = "recursive-strict-theta"
	VisibilityGraph          Algorithm = "visibility-graph"
	VisibilityGraphReuse     Algorithm = "visibility-graph-reuse"
	VisibilityGraphSlow      Algorithm = "visibility-graph-slow"
	VisibilityGraphDijkstra  Algorithm = "visibility-graph-noheuristic"
	BFSVisibilityGraph       Algorithm = "bfs-visibility-graph"
	Anya                     Algorithm = "anya"
)

// EnvAlgorithm overrides the default algorithm when set.
const EnvAlgorithm = "ANYANGLE_ALGORITHM"

type constructor func(p search.Problem, cfg search.Config, o Options) search.Algorithm

var constructors = map[Algorithm]constructor{
	AStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAStar(p, cfg)
	},
	Dijkstra: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewDijkstra(p, cfg)
	},
	AStarOctile: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAStarOctile(p, cfg)
	},
	AStarPostSmooth: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAStar(p, cfg).WithPostSmoothing(false)
	},
	AStarRepeatedPostSmooth: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAStar(p, cfg).WithPostSmoothing(true)
	},
	BFS: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewBFS(p, cfg)
	},
	AcceleratedAStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAcceleratedAStar(p, cfg)
	},
	JPS: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewJPS(p, cfg)
	},
	ThetaStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewBasicThetaStar(p, cfg)
	},
	LazyThetaStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewLazyThetaStar(p, cfg)
	},
	RecursiveThetaStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewRecursiveThetaStar(p, cfg)
	},
	AdjustmentThetaStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewAdjustmentThetaStar(p, cfg)
	},
	StrictThetaStar: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewStrictThetaStar(p, cfg)
	},
	RecursiveStrictThetaStar: func(p search.Problem, cfg search.Config, o Options) search.Algorithm {
		return search.NewRecursiveStrictThetaStar(p, cfg, o.DepthLimit)
	},
	VisibilityGraph: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewVisibilityGraphSearch(p, cfg)
	},
	VisibilityGraphReuse: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewVisibilityGraphSearch(p, cfg).WithGraphReuse(cfg.Context)
	},
	VisibilityGraphSlow: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewVisibilityGraphSearch(p, cfg).WithSlowDijkstra()
	},
	VisibilityGraphDijkstra: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewVisibilityGraphSearch(p, cfg).WithoutHeuristic()
	},
	BFSVisibilityGraph: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return search.NewBFSVisibilityGraph(p, cfg)
	},
	Anya: func(p search.Problem, cfg search.Config, _ Options) search.Algorithm {
		return anya.New(p, cfg)
	},
}

// Algorithms lists every supported algorithm in a stable order.
func Algorithms() []Algorithm {
	return []Algorithm{
		AStar, Dijkstra, AStarOctile, AStarPostSmooth, AStarRepeatedPostSmooth,
		BFS, AcceleratedAStar, JPS,
		ThetaStar, LazyThetaStar, RecursiveThetaStar, AdjustmentThetaStar,
		StrictThetaStar, RecursiveStrictThetaStar,
		VisibilityGraph, VisibilityGraphReuse, VisibilityGraphSlow, VisibilityGraphDijkstra,
		BFSVisibilityGraph, Anya,
	}
}

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	_, ok := constructors[a]
	return ok
}

// ParseAlgorithm checks name against the supported algorithms.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(name)
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return a, nil
}

// DefaultAlgorithm is Anya unless EnvAlgorithm names another valid
// algorithm.
func DefaultAlgorithm() Algorithm {
	if a := Algorithm(os.Getenv(EnvAlgorithm)); a.Valid() {
		return a
	}
	return Anya
}

func newAlgorithm(a Algorithm, p search.Problem, cfg search.Config, o Options) (search.Algorithm, error) {
	build, ok := constructors[a]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	return build(p, cfg, o), nil
}
