package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadFixture_RoundTripsElements(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.json")
	doc := `{"elements":[
		{"ID":"start","Type":"bpmn:StartEvent","Width":36,"Height":36},
		{"ID":"task","Type":"bpmn:Task","Width":100,"Height":80},
		{"ID":"f1","Type":"bpmn:SequenceFlow","Source":"start","Target":"task"}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	registry, err := loadFixture(path)
	require.NoError(t, err)

	task, ok := registry.Get("task")
	require.True(t, ok)
	assert.Equal(t, 100.0, task.Width)

	f1, ok := registry.Get("f1")
	require.True(t, ok)
	assert.Equal(t, "start", f1.Source)
}

func TestRunLayout_WritesComputedGeometry(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	doc := `{"elements":[
		{"ID":"start","Type":"bpmn:StartEvent","Width":36,"Height":36},
		{"ID":"task","Type":"bpmn:Task","Width":100,"Height":80},
		{"ID":"end","Type":"bpmn:EndEvent","Width":36,"Height":36},
		{"ID":"f1","Type":"bpmn:SequenceFlow","Source":"start","Target":"task"},
		{"ID":"f2","Type":"bpmn:SequenceFlow","Source":"task","Target":"end"}
	]}`
	require.NoError(t, os.WriteFile(in, []byte(doc), 0o644))

	inputPath, outputPath, configPath = in, out, ""
	logger = zap.NewNop()
	require.NoError(t, runLayout(rootCmd, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var result fixture
	require.NoError(t, json.Unmarshal(data, &result))
	require.NotEmpty(t, result.Elements)
}
