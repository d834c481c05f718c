// Package pipeline provides the ordered-step runner and its LayoutContext,
// the shared state every layout step reads and mutates.
package pipeline

import (
	"math"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bpmnlayout/engine/boundary"
	"github.com/bpmnlayout/engine/graphbuild"
	"github.com/bpmnlayout/engine/lanes"
	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/oracle"
)

// DebugEnvVar gates stderr emission of step records; when unset or empty,
// records are still collected in-memory (so tests can assert on them) but
// nothing is printed.
const DebugEnvVar = "BPMNLAYOUT_DEBUG"

// LayoutContext is the state every pipeline step reads from and writes to,
// threaded through the whole driver run.
type LayoutContext struct {
	Registry  *model.Registry
	Modeller  model.Modeller
	Options   oracle.Options
	Graph     *graphbuild.Node
	Result    *oracle.Result
	Offsets   oracle.Offsets
	HappyPath []string

	LaneSnapshots     []lanes.Snapshot
	BoundarySnapshots []boundary.Snapshot
}

// Record is the runner's log of one executed (or skipped) step.
type Record struct {
	Name       string
	Skipped    bool
	Duration   time.Duration
	MovedCount int // only meaningful when the step tracked delta
}

// Step is one named unit of pipeline work.
type Step struct {
	Name       string
	Run        func(ctx *LayoutContext) error
	Skip       func(ctx *LayoutContext) bool
	TrackDelta bool
}

// Runner executes an ordered list of Steps against a LayoutContext, logging
// via zap and recording a Record per step.
type Runner struct {
	logger  *zap.Logger
	records []Record
}

// NewRunner builds a Runner with a zap logger; debug-level output is
// enabled when DebugEnvVar is set to a non-empty value.
func NewRunner() (*Runner, error) {
	config := zap.NewProductionConfig()
	if os.Getenv(DebugEnvVar) != "" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		// above any level this package logs at: stderr emission is gated on
		// the debug env var, but Runner.records is populated independently
		// of the logger so tests can still assert on step execution.
		config.Level = zap.NewAtomicLevelAt(zapcore.Level(zapcore.FatalLevel + 1))
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Runner{logger: logger}, nil
}

// Run executes steps in order against ctx, stopping at the first error a
// step returns.
func (r *Runner) Run(ctx *LayoutContext, steps []Step) error {
	for _, step := range steps {
		if step.Skip != nil && step.Skip(ctx) {
			r.records = append(r.records, Record{Name: step.Name, Skipped: true})
			r.logger.Debug("step skipped", zap.String("step", step.Name))
			continue
		}

		var before map[string]model.Element
		if step.TrackDelta {
			before = snapshotPositions(ctx.Registry)
		}

		start := time.Now()
		err := step.Run(ctx)
		duration := time.Since(start)

		rec := Record{Name: step.Name, Duration: duration}
		if step.TrackDelta {
			rec.MovedCount = countMoved(before, ctx.Registry)
		}
		r.records = append(r.records, rec)
		r.logger.Debug("step executed",
			zap.String("step", step.Name),
			zap.Duration("duration", duration),
			zap.Int("moved", rec.MovedCount))

		if err != nil {
			return err
		}
	}
	return nil
}

// Records returns every Record accumulated so far, in execution order.
func (r *Runner) Records() []Record { return r.records }

// Finish flushes the underlying logger.
func (r *Runner) Finish() {
	_ = r.logger.Sync()
}

func snapshotPositions(registry *model.Registry) map[string]model.Element {
	all := registry.GetAll()
	out := make(map[string]model.Element, len(all))
	for _, e := range all {
		out[e.ID] = model.Element{X: e.X, Y: e.Y}
	}
	return out
}

func countMoved(before map[string]model.Element, registry *model.Registry) int {
	moved := 0
	for _, e := range registry.GetAll() {
		prior, ok := before[e.ID]
		if !ok {
			continue
		}
		if math.Abs(e.X-prior.X) > 1 || math.Abs(e.Y-prior.Y) > 1 {
			moved++
		}
	}
	return moved
}
