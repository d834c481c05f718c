// Package oracle defines the layered-layout oracle contract: the typed
// options bag, the Oracle interface itself, and DefaultOracle, an
// in-process implementation of a Sugiyama-style layered algorithm
// (longest-path layering, barycenter crossing minimization, simple linear
// placement) that stands in for whatever external layered-layout service a
// real deployment would call. The oracle is swappable by contract, so any
// implementation of Run(graph, opts) is a legal substitute.
//
// Options are built with functional WithX constructors applied by Resolve
// over DefaultOptions. WithCrossingMinimization panics on a negative
// thoroughness (programmer error); WithSpacing ignores non-positive values.
package oracle

// Direction is the overall flow direction the layered algorithm lays nodes
// out along.
type Direction string

const (
	DirectionRight Direction = "RIGHT"
	DirectionDown  Direction = "DOWN"
	DirectionLeft  Direction = "LEFT"
	DirectionUp    Direction = "UP"
)

// EdgeRouting selects how the oracle itself routes edges between the node
// positions it computes.
type EdgeRouting string

const (
	EdgeRoutingOrthogonal EdgeRouting = "ORTHOGONAL"
	EdgeRoutingSplines    EdgeRouting = "SPLINES"
	EdgeRoutingPolyline   EdgeRouting = "POLYLINE"
)

// NodePlacementStrategy selects the within-layer node placement heuristic.
type NodePlacementStrategy string

const (
	PlacementNetworkSimplex NodePlacementStrategy = "NETWORK_SIMPLEX"
	PlacementBrandesKoepf   NodePlacementStrategy = "BRANDES_KOEPF"
	PlacementLinearSegments NodePlacementStrategy = "LINEAR_SEGMENTS"
	PlacementSimple         NodePlacementStrategy = "SIMPLE"
)

// CrossingMinimizationStrategy selects the crossing-reduction heuristic.
type CrossingMinimizationStrategy string

const (
	CrossingLayerSweep  CrossingMinimizationStrategy = "LAYER_SWEEP"
	CrossingInteractive CrossingMinimizationStrategy = "INTERACTIVE"
	CrossingNone        CrossingMinimizationStrategy = "NONE"
)

// CycleBreakingStrategy selects how back edges are chosen before layering.
type CycleBreakingStrategy string

const (
	CycleBreakDepthFirst  CycleBreakingStrategy = "DEPTH_FIRST"
	CycleBreakGreedy      CycleBreakingStrategy = "GREEDY"
	CycleBreakInteractive CycleBreakingStrategy = "INTERACTIVE"
	CycleBreakModelOrder  CycleBreakingStrategy = "MODEL_ORDER"
)

// LayeringStrategy selects how nodes are assigned to layers.
type LayeringStrategy string

const (
	LayeringLongestPath LayeringStrategy = "LONGEST_PATH"
	LayeringInteractive LayeringStrategy = "INTERACTIVE"
)

// DefaultRandomSeed is fixed so layered-layout runs are reproducible.
const DefaultRandomSeed int64 = 1

// Option mutates an Options value before a Run call.
type Option func(*Options)

// Options is the resolved, typed parameter bag a Run call consumes.
type Options struct {
	Algorithm   string
	Direction   Direction
	EdgeRouting EdgeRouting

	NodeNodeSpacing              float64
	EdgeNodeSpacing              float64
	NodeNodeSpacingBetweenLayers float64
	EdgeEdgeSpacing              float64

	PlacementStrategy NodePlacementStrategy

	CrossingStrategy    CrossingMinimizationStrategy
	Thoroughness        int
	ForceNodeModelOrder bool
	SemiInteractive     bool

	CycleBreaking CycleBreakingStrategy

	ConsiderModelOrder bool
	RandomSeed         int64
	FavorStraightEdges bool
	LayeringStrategy   LayeringStrategy
}

// DefaultOptions returns the baseline options a "spacious" compactness
// preset would use; config.ToOracleOptions narrows the spacings for
// COMPACT.
func DefaultOptions() Options {
	return Options{
		Algorithm:                    "layered",
		Direction:                    DirectionRight,
		EdgeRouting:                  EdgeRoutingOrthogonal,
		NodeNodeSpacing:              50,
		EdgeNodeSpacing:              30,
		NodeNodeSpacingBetweenLayers: 100,
		EdgeEdgeSpacing:              20,
		PlacementStrategy:            PlacementBrandesKoepf,
		CrossingStrategy:             CrossingLayerSweep,
		Thoroughness:                 7,
		CycleBreaking:                CycleBreakDepthFirst,
		RandomSeed:                   DefaultRandomSeed,
		FavorStraightEdges:           true,
		LayeringStrategy:             LayeringLongestPath,
	}
}

// Resolve applies opts over DefaultOptions() in order.
func Resolve(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithDirection sets the overall flow direction.
func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

// WithSpacing overrides the four spacing parameters at once; pass <= 0 for
// a parameter to leave it unchanged.
func WithSpacing(nodeNode, edgeNode, nodeNodeBetweenLayers, edgeEdge float64) Option {
	return func(o *Options) {
		if nodeNode > 0 {
			o.NodeNodeSpacing = nodeNode
		}
		if edgeNode > 0 {
			o.EdgeNodeSpacing = edgeNode
		}
		if nodeNodeBetweenLayers > 0 {
			o.NodeNodeSpacingBetweenLayers = nodeNodeBetweenLayers
		}
		if edgeEdge > 0 {
			o.EdgeEdgeSpacing = edgeEdge
		}
	}
}

// WithPlacementStrategy sets the node-placement heuristic.
func WithPlacementStrategy(s NodePlacementStrategy) Option {
	return func(o *Options) { o.PlacementStrategy = s }
}

// WithCrossingMinimization sets the crossing-reduction strategy and its
// thoroughness (number of sweeps).
func WithCrossingMinimization(s CrossingMinimizationStrategy, thoroughness int) Option {
	if thoroughness < 0 {
		panic("oracle: WithCrossingMinimization: thoroughness must be >= 0")
	}
	return func(o *Options) {
		o.CrossingStrategy = s
		o.Thoroughness = thoroughness
	}
}

// WithCycleBreaking sets the cycle-breaking strategy.
func WithCycleBreaking(s CycleBreakingStrategy) Option {
	return func(o *Options) { o.CycleBreaking = s }
}

// WithLayeringStrategy sets the layering strategy; scoped re-layout uses
// LayeringInteractive to keep unrelated nodes pinned.
func WithLayeringStrategy(s LayeringStrategy) Option {
	return func(o *Options) { o.LayeringStrategy = s }
}

// WithFavorStraightEdges toggles the straight-edge preference.
func WithFavorStraightEdges(favor bool) Option {
	return func(o *Options) { o.FavorStraightEdges = favor }
}

// WithRandomSeed overrides the deterministic seed (tests only; production
// code should rely on DefaultRandomSeed for reproducibility).
func WithRandomSeed(seed int64) Option {
	return func(o *Options) { o.RandomSeed = seed }
}
