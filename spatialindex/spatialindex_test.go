package spatialindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/spatialindex"
)

func TestIndex_GetCandidates(t *testing.T) {
	obstacles := []spatialindex.Obstacle{
		{ID: "a", Rect: geometry.Rect{X: 0, Y: 0, Width: 100, Height: 80}},
		{ID: "b", Rect: geometry.Rect{X: 500, Y: 500, Width: 100, Height: 80}},
		{ID: "c", Rect: geometry.Rect{X: 90, Y: 10, Width: 100, Height: 80}},
	}
	idx := spatialindex.Build(obstacles, 120)

	got := idx.GetCandidates(geometry.Rect{X: 0, Y: 0, Width: 50, Height: 50})
	ids := map[string]bool{}
	for _, o := range got {
		ids[o.ID] = true
	}
	assert.True(t, ids["a"])
	assert.False(t, ids["b"], "far-away obstacle should not be a candidate")
}

func TestIndex_EmptyIsSafe(t *testing.T) {
	idx := spatialindex.Build(nil, 0)
	assert.Empty(t, idx.GetCandidates(geometry.Rect{Width: 10, Height: 10}))
}
