package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpmnlayout/engine/geometry"
)

func TestBuildOrthogonalWaypoints_StraightWhenAligned(t *testing.T) {
	wps := geometry.BuildOrthogonalWaypoints(geometry.Point{X: 0, Y: 50}, geometry.Point{X: 200, Y: 50.5})
	assert.Len(t, wps, 2)
}

func TestBuildOrthogonalWaypoints_LBendsDominantAxis(t *testing.T) {
	wps := geometry.BuildOrthogonalWaypoints(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 200, Y: 40})
	assert.Len(t, wps, 3)
	assert.Equal(t, 200.0, wps[1].X)
	assert.Equal(t, 0.0, wps[1].Y)
}

func TestBuildZShapeRoute(t *testing.T) {
	wps := geometry.BuildZShapeRoute(100, 50, 300, 150)
	assert.Len(t, wps, 4)
	assert.Equal(t, 200.0, wps[1].X)
	assert.Equal(t, wps[1].X, wps[2].X)
}

func TestDeduplicateWaypoints_CollapsesOscillation(t *testing.T) {
	wps := []geometry.Point{{0, 0}, {10, 0}, {0, 0}, {20, 0}}
	out := geometry.DeduplicateWaypoints(wps, 1)
	assert.Equal(t, []geometry.Point{{0, 0}, {20, 0}}, out)
}

func TestRemoveCollinearPoints(t *testing.T) {
	wps := []geometry.Point{{0, 0}, {50, 0}, {100, 0}, {100, 50}}
	out := geometry.RemoveCollinearPoints(wps)
	assert.Equal(t, []geometry.Point{{0, 0}, {100, 0}, {100, 50}}, out)
}

func TestSegmentIntersectsRect(t *testing.T) {
	rect := geometry.Rect{X: 90, Y: 40, Width: 20, Height: 20}
	assert.True(t, geometry.SegmentIntersectsRect(geometry.Point{X: 0, Y: 50}, geometry.Point{X: 200, Y: 50}, rect))
	assert.False(t, geometry.SegmentIntersectsRect(geometry.Point{X: 0, Y: 200}, geometry.Point{X: 200, Y: 200}, rect))
}

func TestRoundToGrid(t *testing.T) {
	assert.Equal(t, 120.0, geometry.RoundToGrid(123, 10))
	assert.Equal(t, 120.0, geometry.RoundToGrid(117, 10))
}
