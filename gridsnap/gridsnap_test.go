package gridsnap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/gridsnap"
	"github.com/bpmnlayout/engine/model"
)

func TestDetectLayers_ClustersByXCenter(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "a", Type: model.TypeTask, X: 0, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "b", Type: model.TypeTask, X: 10, Y: 200, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "c", Type: model.TypeTask, X: 400, Y: 0, Width: 100, Height: 80}))

	layers := gridsnap.DetectLayers(r)
	require.Len(t, layers, 2)
	assert.Len(t, layers[0].Shapes, 2)
	assert.Len(t, layers[1].Shapes, 1)
}

func TestQuantize_RoundsShapePositions(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "a", Type: model.TypeTask, X: 13, Y: 27, Width: 100, Height: 80}))
	modeller := model.NewDefaultModeller()

	gridsnap.Quantize(r, modeller, 10)

	a, _ := r.Get("a")
	assert.Equal(t, 10.0, a.X)
	assert.Equal(t, 30.0, a.Y)
}

func TestQuantize_RecomputesConnectionEndpoints(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "a", Type: model.TypeTask, X: 0, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "b", Type: model.TypeTask, X: 300, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "f", Type: model.TypeSequenceFlow, Source: "a", Target: "b",
		Waypoints: []geometry.Point{{X: 99, Y: 41}, {X: 300, Y: 40}}}))

	modeller := model.NewDefaultModeller()
	gridsnap.Quantize(r, modeller, 10)

	f, _ := r.Get("f")
	assert.Equal(t, 100.0, f.Waypoints[0].X)
	assert.Equal(t, 300.0, f.Waypoints[len(f.Waypoints)-1].X)
}
