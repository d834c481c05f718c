package boundary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/boundary"
	"github.com/bpmnlayout/engine/model"
)

func TestReposition_NoOutgoingGoesBottom(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "host", Type: model.TypeTask, X: 0, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "ev", Type: model.TypeBoundaryEvent, Host: "host", X: 80, Y: 70, Width: 36, Height: 36}))

	modeller := model.NewDefaultModeller()
	boundary.Reposition(r, modeller, true)

	ev, _ := r.Get("ev")
	host, _ := r.Get("host")
	assert.InDelta(t, host.Rect().Bottom(), ev.Rect().CenterY(), 0.01)
	assert.InDelta(t, host.Rect().CenterX(), ev.Rect().CenterX(), 0.01)
}

func TestReposition_TargetAboveGoesTop(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "host", Type: model.TypeTask, X: 100, Y: 200, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "ev", Type: model.TypeBoundaryEvent, Host: "host", X: 180, Y: 170, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "tgt", Type: model.TypeTask, X: 100, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "f", Type: model.TypeSequenceFlow, Source: "ev", Target: "tgt"}))

	modeller := model.NewDefaultModeller()
	boundary.Reposition(r, modeller, true)

	ev, _ := r.Get("ev")
	host, _ := r.Get("host")
	assert.InDelta(t, host.Rect().Top(), ev.Rect().CenterY(), 0.01)
}

func TestRestore_RewritesReclassifiedElement(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "host", Type: model.TypeTask, X: 0, Y: 0, Width: 100, Height: 80}))
	ev := &model.Element{ID: "ev", Type: model.TypeTask, Host: "", X: 80, Y: 70, Width: 36, Height: 36,
		BusinessObject: &model.BusinessObject{Type: model.TypeTask}}
	require.NoError(t, r.Add(ev))

	snaps := []boundary.Snapshot{{EventID: "ev", HostID: "host"}}
	require.NoError(t, boundary.Restore(r, snaps))

	restored, _ := r.Get("ev")
	assert.Equal(t, model.TypeBoundaryEvent, restored.Type)
	assert.Equal(t, "host", restored.Host)
	assert.Equal(t, model.TypeBoundaryEvent, restored.BusinessObject.Type)
}

func TestRestore_ReportsInvalidHost(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "gw", Type: model.TypeExclusiveGateway, Width: 50, Height: 50}))
	ev := &model.Element{ID: "ev", Type: model.TypeBoundaryEvent, Host: "gone", Width: 36, Height: 36}
	require.NoError(t, r.Add(ev))

	err := boundary.Restore(r, []boundary.Snapshot{
		{EventID: "ev", HostID: "gone"}, // host no longer in the registry
		{EventID: "ev", HostID: "gw"},   // host resolves, but not to an activity
	})
	assert.ErrorIs(t, err, model.ErrInvalidHost)
	assert.Equal(t, "gone", ev.Host, "reattachment skipped for invalid hosts")
}

func TestChooseBorder_MultipleOutgoingIsDeterministic(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "host", Type: model.TypeTask, X: 100, Y: 200, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "ev", Type: model.TypeBoundaryEvent, Host: "host", X: 180, Y: 170, Width: 36, Height: 36}))
	require.NoError(t, r.Add(&model.Element{ID: "above", Type: model.TypeTask, X: 100, Y: 0, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "below", Type: model.TypeTask, X: 100, Y: 400, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "fA", Type: model.TypeSequenceFlow, Source: "ev", Target: "above"}))
	require.NoError(t, r.Add(&model.Element{ID: "fB", Type: model.TypeSequenceFlow, Source: "ev", Target: "below"}))

	// the lowest-ID outgoing flow ("fA", target above) decides the border,
	// regardless of registry iteration order
	for i := 0; i < 5; i++ {
		modeller := model.NewDefaultModeller()
		boundary.Reposition(r, modeller, true)
		ev, _ := r.Get("ev")
		host, _ := r.Get("host")
		assert.InDelta(t, host.Rect().Top(), ev.Rect().CenterY(), 0.01)
	}
}
