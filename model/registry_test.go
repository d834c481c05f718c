package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

func TestRegistry_AddGet(t *testing.T) {
	r := model.NewRegistry()
	err := r.Add(&model.Element{ID: "task1", Type: model.TypeTask, Width: 100, Height: 80})
	require.NoError(t, err)

	e, ok := r.Get("task1")
	require.True(t, ok)
	assert.Equal(t, model.TypeTask, e.Type)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.ErrorIs(t, r.Add(&model.Element{}), model.ErrEmptyID)
}

func TestRegistry_ChildrenAndFilter(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "pool", Type: model.TypeParticipant}))
	require.NoError(t, r.Add(&model.Element{ID: "t1", Type: model.TypeTask, Parent: "pool"}))
	require.NoError(t, r.Add(&model.Element{ID: "t2", Type: model.TypeTask, Parent: "pool"}))
	require.NoError(t, r.Add(&model.Element{ID: "g", Type: model.TypeExclusiveGateway, Parent: "other"}))

	kids := r.Children("pool")
	assert.Len(t, kids, 2)

	gateways := r.Filter(func(e *model.Element) bool { return model.IsGateway(e.Type) })
	assert.Len(t, gateways, 1)
}

func TestDefaultModeller_UpdateWaypointsRejectsInvariantViolation(t *testing.T) {
	m := model.NewDefaultModeller()
	conn := &model.Element{ID: "c1", Type: model.TypeSequenceFlow,
		Waypoints: []geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}

	err := m.UpdateWaypoints(conn, []geometry.Point{{X: 5, Y: 5}})
	assert.ErrorIs(t, err, model.ErrInvalidWaypoints)
	// prior waypoints remain untouched
	assert.Len(t, conn.Waypoints, 2)

	err = m.UpdateWaypoints(conn, []geometry.Point{{X: 0, Y: 0}, {X: 20, Y: 0}})
	require.NoError(t, err)
	assert.Equal(t, 20.0, conn.Waypoints[1].X)
}

func TestDefaultModeller_SetDirectGeometry(t *testing.T) {
	m := model.NewDefaultModeller()
	e := &model.Element{ID: "b1", Type: model.TypeBoundaryEvent, Width: 36, Height: 36}
	m.SetDirectGeometry(e, geometry.Rect{X: 100, Y: 200})
	assert.Equal(t, 100.0, e.X)
	assert.Equal(t, 200.0, e.Y)
	assert.Equal(t, 36.0, e.Width, "width unchanged when rect carries no size")
}

func TestClassify_IsLayoutableShape(t *testing.T) {
	assert.True(t, model.IsLayoutableShape(model.TypeTask))
	assert.True(t, model.IsLayoutableShape(model.TypeExclusiveGateway))
	assert.False(t, model.IsLayoutableShape(model.TypeSequenceFlow))
	assert.False(t, model.IsLayoutableShape(model.TypeParticipant))
	assert.False(t, model.IsLayoutableShape(model.TypeBoundaryEvent))
	assert.False(t, model.IsLayoutableShape(model.TypeTextAnnotation))
	assert.False(t, model.IsLayoutableShape(model.TypeLane))
}
