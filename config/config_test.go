package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmnlayout/engine/config"
	"github.com/bpmnlayout/engine/oracle"
)

func TestLoad_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("direction: DOWN\ncompactness: COMPACT\ngrid_snap: 5\n"), 0o644))

	opts, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, oracle.DirectionDown, opts.Direction)
	assert.Equal(t, config.CompactnessCompact, opts.Compactness)
	assert.True(t, opts.GridSnap.Enabled)
	assert.Equal(t, 5.0, opts.GridSnap.Quantum)
}

func TestToOracleOptions_AppliesCompactPreset(t *testing.T) {
	opts := config.Default()
	opts.Compactness = config.CompactnessCompact

	resolved := opts.ToOracleOptions()
	assert.Equal(t, 30.0, resolved.NodeNodeSpacing)
}
