package artifacts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/artifacts"
	"github.com/bpmnlayout/engine/model"
)

func TestReposition_GroupEnclosesChildren(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "group", Type: model.TypeGroup, X: 0, Y: 0, Width: 10, Height: 10}))
	require.NoError(t, r.Add(&model.Element{ID: "t1", Type: model.TypeTask, Parent: "group", X: 100, Y: 100, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "t2", Type: model.TypeTask, Parent: "group", X: 300, Y: 200, Width: 100, Height: 80}))

	modeller := model.NewDefaultModeller()
	artifacts.Reposition(r, modeller)

	group, _ := r.Get("group")
	assert.LessOrEqual(t, group.Rect().Left(), 100.0)
	assert.GreaterOrEqual(t, group.Rect().Right(), 400.0)
}

func TestReposition_AnnotationPlacedAboveAssociatedTask(t *testing.T) {
	r := model.NewRegistry()
	require.NoError(t, r.Add(&model.Element{ID: "task", Type: model.TypeTask, X: 100, Y: 100, Width: 100, Height: 80}))
	require.NoError(t, r.Add(&model.Element{ID: "note", Type: model.TypeTextAnnotation, X: 0, Y: 0, Width: 80, Height: 40}))
	require.NoError(t, r.Add(&model.Element{ID: "assoc", Type: model.TypeAssociation, Source: "note", Target: "task"}))

	modeller := model.NewDefaultModeller()
	artifacts.Reposition(r, modeller)

	note, _ := r.Get("note")
	task, _ := r.Get("task")
	assert.Less(t, note.Rect().Bottom(), task.Rect().Top())
}
