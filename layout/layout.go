// Package layout is the top-level layout driver: it threads the full pass
// sequence through the pipeline runner, wiring together every other
// package in this module.
package layout

import (
	"context"
	"errors"
	"fmt"

	"github.com/bpmnlayout/engine/artifacts"
	"github.com/bpmnlayout/engine/boundary"
	"github.com/bpmnlayout/engine/config"
	"github.com/bpmnlayout/engine/graphbuild"
	"github.com/bpmnlayout/engine/gridsnap"
	"github.com/bpmnlayout/engine/lanes"
	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/oracle"
	"github.com/bpmnlayout/engine/pipeline"
	"github.com/bpmnlayout/engine/routing"
)

// ErrLayoutFailed wraps any oracle failure the driver surfaces; the
// registry is left exactly as it was before the oracle call.
var ErrLayoutFailed = errors.New("layout: computation failed")

// Run executes the full 14-step pipeline against registry using modeller
// for every write, rooted at opts.ScopeElementID (empty string lays out the
// whole canvas). It returns the runner's step records for diagnostics.
func Run(ctx context.Context, registry *model.Registry, modeller model.Modeller, ora oracle.Oracle, opts config.Options) ([]pipeline.Record, error) {
	runner, err := pipeline.NewRunner()
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	lctx := &pipeline.LayoutContext{
		Registry: registry,
		Modeller: modeller,
		Options:  opts.ToOracleOptions(),
	}

	steps := buildSteps(ctx, ora, opts)
	if err := runner.Run(lctx, steps); err != nil {
		runner.Finish()
		return runner.Records(), fmt.Errorf("%w: %v", ErrLayoutFailed, err)
	}
	runner.Finish()
	return runner.Records(), nil
}

// simplify resolves the simplify_routes option, which defaults to on.
func simplify(opts config.Options) bool {
	return opts.SimplifyRoutes == nil || *opts.SimplifyRoutes
}

func buildSteps(ctx context.Context, ora oracle.Oracle, opts config.Options) []pipeline.Step {
	return []pipeline.Step{
		{Name: "save-boundary-snapshots", Run: func(c *pipeline.LayoutContext) error {
			c.BoundarySnapshots = boundary.CaptureSnapshots(c.Registry)
			return nil
		}},
		{Name: "save-lane-snapshots", Run: func(c *pipeline.LayoutContext) error {
			c.LaneSnapshots = lanes.CaptureSnapshots(c.Registry)
			return nil
		}},
		{Name: "build-graph", Run: func(c *pipeline.LayoutContext) error {
			graph, err := graphbuild.Build(c.Registry, opts.ScopeElementID)
			if err != nil {
				return err
			}
			c.Graph = graph
			c.HappyPath = ComputeHappyPath(c.Registry)
			return nil
		}},
		{Name: "run-oracle", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			result, err := ora.Run(ctx, c.Graph, c.Options)
			if err != nil {
				return err
			}
			c.Result = result
			c.Offsets = oracle.ApplyPositions(result, c.Registry, c.Modeller)
			return nil
		}},
		{Name: "lane-band-assignment", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			lanes.ApplyBands(c.Registry, c.Modeller, c.LaneSnapshots, opts.LaneStrategy == config.LaneStrategyOptimize)
			return nil
		}},
		{Name: "artifact-repositioning", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			artifacts.Reposition(c.Registry, c.Modeller)
			return nil
		}},
		{Name: "restore-reposition-boundary-events", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			// invalid hosts are skipped inside Restore; non-fatal
			_ = boundary.Restore(c.Registry, c.BoundarySnapshots)
			boundary.Reposition(c.Registry, c.Modeller, true)
			return nil
		}},
		{Name: "apply-routes-and-passes-and-avoidance", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			routing.ApplyRoutes(c.Registry, c.Modeller, c.Result.Edges)
			routing.RunPasses(c.Registry, simplify(opts))
			routing.ApplyAvoidance(c.Registry, c.Modeller)
			return nil
		}},
		{Name: "grid-snap-and-happy-path", TrackDelta: true, Skip: func(c *pipeline.LayoutContext) bool {
			return !opts.GridSnap.Enabled
		}, Run: func(c *pipeline.LayoutContext) error {
			layers := gridsnap.DetectLayers(c.Registry)
			gridsnap.GridSnap(c.Modeller, layers, c.Options.NodeNodeSpacingBetweenLayers)
			if opts.PreserveHappyPath {
				gridsnap.PinHappyPath(c.Registry, c.Modeller, c.HappyPath)
			}
			return nil
		}},
		{Name: "re-repair-routes-after-grid-snap", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			routing.RunPasses(c.Registry, simplify(opts)) // idempotent re-run covers disconnect/snap/off-row repair
			return nil
		}},
		{Name: "cross-lane-staircase-and-clamp", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			lanes.RouteCrossLaneStaircases(c.Registry, c.Modeller)
			lanes.ClampIntraLane(c.Registry, c.Modeller)
			return nil
		}},
		{Name: "loopback-and-overlap-separation", TrackDelta: true, Run: func(c *pipeline.LayoutContext) error {
			routing.RunPasses(c.Registry, simplify(opts))
			return nil
		}},
		{Name: "final-collinear-cleanup", Run: func(c *pipeline.LayoutContext) error {
			routing.RunPasses(c.Registry, simplify(opts))
			return nil
		}},
		{Name: "final-pixel-quantisation", Skip: func(c *pipeline.LayoutContext) bool {
			return !opts.GridSnap.Enabled
		}, Run: func(c *pipeline.LayoutContext) error {
			gridsnap.Quantize(c.Registry, c.Modeller, opts.GridSnap.Quantum)
			return nil
		}},
	}
}
