package lanes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/lanes"
	"github.com/bpmnlayout/engine/model"
)

func poolWithLanes(t *testing.T) *model.Registry {
	t.Helper()
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "pool", Type: model.TypeParticipant, X: 0, Y: 0, Width: 800, Height: 10}))
	require.NoError(t, r.Add(&model.Element{ID: "laneA", Type: model.TypeLane, Parent: "pool", X: 30, Y: 0, Width: 770, Height: 100,
		BusinessObject: &model.BusinessObject{FlowNodeRefs: []string{"t1"}}}))
	require.NoError(t, r.Add(&model.Element{ID: "laneB", Type: model.TypeLane, Parent: "pool", X: 30, Y: 100, Width: 770, Height: 100,
		BusinessObject: &model.BusinessObject{FlowNodeRefs: []string{"t2"}}}))
	require.NoError(t, r.Add(&model.Element{ID: "t1", Type: model.TypeTask, Parent: "pool", X: 100, Y: 10, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "t2", Type: model.TypeTask, Parent: "pool", X: 300, Y: 110, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "f", Type: model.TypeSequenceFlow, Source: "t1", Target: "t2"}))
	return r
}

func TestCaptureSnapshots_RecordsOriginalYAndMembers(t *testing.T) {
	r := poolWithLanes(t)
	snaps := lanes.CaptureSnapshots(r)
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Members["t1"])
}

func TestApplyBands_ResizesLanesToContentHeight(t *testing.T) {
	r := poolWithLanes(t)
	snaps := lanes.CaptureSnapshots(r)
	modeller := model.NewDefaultModeller()

	lanes.ApplyBands(r, modeller, snaps, false)

	laneA, _ := r.Get("laneA")
	laneB, _ := r.Get("laneB")
	assert.GreaterOrEqual(t, laneA.Height, lanes.MinLaneHeight)
	assert.Less(t, laneA.Rect().Bottom(), laneB.Rect().Top()+1)
}

func TestRouteCrossLaneStaircases_ZForSingleBoundary(t *testing.T) {
	r := poolWithLanes(t)
	modeller := model.NewDefaultModeller()
	lanes.RouteCrossLaneStaircases(r, modeller)

	f, ok := r.Get("f")
	require.True(t, ok)
	assert.Len(t, f.Waypoints, 4)
}
