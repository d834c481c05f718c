package layout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/config"
	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/layout"
	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/oracle"
)

func TestRun_LinearFlowEndToEnd(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "start", Type: model.TypeStartEvent, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "task", Type: model.TypeTask, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "end", Type: model.TypeEndEvent, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "start", Target: "task"}))
	require.NoError(t, r.Add(&model.Element{ID: "f2", Type: model.TypeSequenceFlow, Source: "task", Target: "end"}))

	modeller := model.NewDefaultModeller()
	records, err := layout.Run(context.Background(), r, modeller, oracle.NewDefaultOracle(), config.Default())
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	task, _ := r.Get("task")
	assert.Greater(t, task.X, 0.0)

	f1, _ := r.Get("f1")
	assert.GreaterOrEqual(t, len(f1.Waypoints), 2)
}

func gatewayRegistry(t *testing.T) *model.Registry {
	t.Helper()
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "start", Type: model.TypeStartEvent, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "gw", Type: model.TypeExclusiveGateway, Width: 50, Height: 50}))
	require.NoError(t, r.Add(&model.Element{ID: "accept", Type: model.TypeTask, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "reject", Type: model.TypeTask, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "end", Type: model.TypeEndEvent, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "start", Target: "gw"}))
	require.NoError(t, r.Add(&model.Element{ID: "f2", Type: model.TypeSequenceFlow, Source: "gw", Target: "accept"}))
	require.NoError(t, r.Add(&model.Element{ID: "f3", Type: model.TypeSequenceFlow, Source: "gw", Target: "reject"}))
	require.NoError(t, r.Add(&model.Element{ID: "f4", Type: model.TypeSequenceFlow, Source: "accept", Target: "end"}))
	require.NoError(t, r.Add(&model.Element{ID: "f5", Type: model.TypeSequenceFlow, Source: "reject", Target: "end"}))
	return r
}

func TestRun_GatewayBranchesAreOrthogonal(t *testing.T) {
	r := gatewayRegistry(t)
	_, err := layout.Run(context.Background(), r, model.NewDefaultModeller(), oracle.NewDefaultOracle(), config.Default())
	require.NoError(t, err)

	for _, id := range []string{"f1", "f2", "f3", "f4", "f5"} {
		f, ok := r.Get(id)
		require.True(t, ok)
		require.GreaterOrEqual(t, len(f.Waypoints), 2, id)
		assert.True(t, geometry.IsOrthogonal(f.Waypoints, 1.0), id)
	}

	gw, _ := r.Get("gw")
	accept, _ := r.Get("accept")
	reject, _ := r.Get("reject")
	assert.Greater(t, accept.X, gw.X)
	assert.Greater(t, reject.X, gw.X)
	assert.NotEqual(t, accept.Y, reject.Y, "branches land on different rows")
}

func TestRun_IsDeterministic(t *testing.T) {
	run := func() *model.Registry {
		r := gatewayRegistry(t)
		_, err := layout.Run(context.Background(), r, model.NewDefaultModeller(), oracle.NewDefaultOracle(), config.Default())
		require.NoError(t, err)
		return r
	}

	first, second := run(), run()
	for _, e := range first.GetAll() {
		other, ok := second.Get(e.ID)
		require.True(t, ok)
		assert.Equal(t, e.X, other.X, e.ID)
		assert.Equal(t, e.Y, other.Y, e.ID)
		assert.Equal(t, e.Waypoints, other.Waypoints, e.ID)
	}
}

func TestRun_PooledLanesEndToEnd(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "pool", Type: model.TypeParticipant, X: 0, Y: 0, Width: 800, Height: 200}))
	require.NoError(t, r.Add(&model.Element{ID: "laneA", Type: model.TypeLane, Parent: "pool", X: 30, Y: 0, Width: 770, Height: 100,
		BusinessObject: &model.BusinessObject{FlowNodeRefs: []string{"t1"}}}))
	require.NoError(t, r.Add(&model.Element{ID: "laneB", Type: model.TypeLane, Parent: "pool", X: 30, Y: 100, Width: 770, Height: 100,
		BusinessObject: &model.BusinessObject{FlowNodeRefs: []string{"t2"}}}))
	require.NoError(t, r.Add(&model.Element{ID: "t1", Type: model.TypeTask, Parent: "pool", Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "t2", Type: model.TypeTask, Parent: "pool", Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "f", Type: model.TypeSequenceFlow, Parent: "pool", Source: "t1", Target: "t2"}))

	_, err := layout.Run(context.Background(), r, model.NewDefaultModeller(), oracle.NewDefaultOracle(), config.Default())
	require.NoError(t, err)

	pool, _ := r.Get("pool")
	laneA, _ := r.Get("laneA")
	laneB, _ := r.Get("laneB")
	t1, _ := r.Get("t1")
	t2, _ := r.Get("t2")

	assert.Greater(t, t2.X, t1.X, "pooled flow lays out left to right")
	assert.True(t, pool.Rect().Contains(t1.Rect().Center()), "t1 inside the pool")
	assert.True(t, pool.Rect().Contains(t2.Rect().Center()), "t2 inside the pool")

	withinBand := func(lane, task *model.Element) bool {
		cy := task.Rect().CenterY()
		return cy >= lane.Rect().Top() && cy <= lane.Rect().Bottom()
	}
	assert.True(t, withinBand(laneA, t1), "t1 centre-Y in laneA's band")
	assert.True(t, withinBand(laneB, t2), "t2 centre-Y in laneB's band")
	assert.Less(t, laneA.Rect().Bottom(), laneB.Rect().Top()+1, "bands stacked in original order")

	f, _ := r.Get("f")
	require.GreaterOrEqual(t, len(f.Waypoints), 2)
	assert.True(t, geometry.IsOrthogonal(f.Waypoints, 1.0))
}

func TestComputeHappyPath_FollowsLongestForwardChain(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "start", Type: model.TypeStartEvent}))
	require.NoError(t, r.Add(&model.Element{ID: "a", Type: model.TypeTask}))
	require.NoError(t, r.Add(&model.Element{ID: "end", Type: model.TypeEndEvent}))
	require.NoError(t, r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "start", Target: "a"}))
	require.NoError(t, r.Add(&model.Element{ID: "f2", Type: model.TypeSequenceFlow, Source: "a", Target: "end"}))

	path := layout.ComputeHappyPath(r)
	assert.Equal(t, []string{"start", "a", "end"}, path)
}
