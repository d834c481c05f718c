package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/oracle"
	"github.com/bpmnlayout/engine/pipeline"
)

func TestRunner_SkipsAndTracksDelta(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "a", Type: model.TypeTask, X: 0, Y: 0, Width: 100, Height: 80}))

	ctx := &pipeline.LayoutContext{
		Registry: r,
		Modeller: model.NewDefaultModeller(),
		Options:  oracle.DefaultOptions(),
	}

	runner, err := pipeline.NewRunner()
	require.NoError(t, err)

	steps := []pipeline.Step{
		{
			Name: "move",
			Run: func(c *pipeline.LayoutContext) error {
				e, _ := c.Registry.Get("a")
				e.X += 50
				return nil
			},
			TrackDelta: true,
		},
		{
			Name: "skipped",
			Skip: func(c *pipeline.LayoutContext) bool { return true },
			Run:  func(c *pipeline.LayoutContext) error { return nil },
		},
	}

	require.NoError(t, runner.Run(ctx, steps))
	runner.Finish()

	records := runner.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "move", records[0].Name)
	assert.Equal(t, 1, records[0].MovedCount)
	assert.True(t, records[1].Skipped)
}
