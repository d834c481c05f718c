package graphbuild_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/graphbuild"
	"github.com/bpmnlayout/engine/model"
)

func linearRegistry() *model.Registry {
	r := model.NewRegistry()
	_ = r.Add(&model.Element{ID: "start", Type: model.TypeStartEvent})
	_ = r.Add(&model.Element{ID: "task", Type: model.TypeTask})
	_ = r.Add(&model.Element{ID: "end", Type: model.TypeEndEvent})
	_ = r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "start", Target: "task"})
	_ = r.Add(&model.Element{ID: "f2", Type: model.TypeSequenceFlow, Source: "task", Target: "end"})
	return r
}

func TestBuild_LinearFlow(t *testing.T) {
	r := linearRegistry()
	root, err := graphbuild.Build(r, "")
	require.NoError(t, err)
	assert.Len(t, root.Children, 3)
	assert.Len(t, root.Edges, 2)
	for _, e := range root.Edges {
		assert.False(t, e.BackEdge)
	}
}

func TestBuild_MarksBackEdge(t *testing.T) {
	r := model.NewRegistry()
	_ = r.Add(&model.Element{ID: "a", Type: model.TypeTask})
	_ = r.Add(&model.Element{ID: "b", Type: model.TypeTask})
	_ = r.Add(&model.Element{ID: "c", Type: model.TypeTask})
	_ = r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "a", Target: "b"})
	_ = r.Add(&model.Element{ID: "f2", Type: model.TypeSequenceFlow, Source: "b", Target: "c"})
	_ = r.Add(&model.Element{ID: "f3", Type: model.TypeSequenceFlow, Source: "c", Target: "a"})

	root, err := graphbuild.Build(r, "")
	require.NoError(t, err)

	var backEdges int
	for _, e := range root.Edges {
		if e.BackEdge {
			backEdges++
			assert.Equal(t, graphbuild.LowPriority, e.Priority)
		}
	}
	assert.Equal(t, 1, backEdges, "exactly one edge closes the 3-cycle")
}

func TestBuild_BoundaryEventProxyEdge(t *testing.T) {
	r := model.NewRegistry()
	_ = r.Add(&model.Element{ID: "task", Type: model.TypeTask})
	_ = r.Add(&model.Element{ID: "errEnd", Type: model.TypeEndEvent})
	_ = r.Add(&model.Element{ID: "boundary", Type: model.TypeBoundaryEvent, Host: "task"})
	_ = r.Add(&model.Element{ID: "f1", Type: model.TypeSequenceFlow, Source: "boundary", Target: "errEnd"})

	root, err := graphbuild.Build(r, "")
	require.NoError(t, err)
	// boundary events are excluded from Children (not layoutable shapes)
	assert.Len(t, root.Children, 2)

	var proxies int
	for _, e := range root.Edges {
		if e.IsProxy {
			proxies++
			assert.Equal(t, []string{"task"}, e.Sources)
			assert.Equal(t, []string{"errEnd"}, e.Targets)
		}
	}
	assert.Equal(t, 1, proxies)
}

func TestBuild_Subprocess(t *testing.T) {
	r := model.NewRegistry()
	_ = r.Add(&model.Element{ID: "sp", Type: model.TypeSubProcess})
	_ = r.Add(&model.Element{ID: "inner", Type: model.TypeTask, Parent: "sp"})

	root, err := graphbuild.Build(r, "")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	spNode := root.Children[0]
	assert.Len(t, spNode.Children, 1)
	assert.Equal(t, 20.0, spNode.PaddingTop)
}
