// Package config defines the caller-facing layout-options surface and its
// YAML loader.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bpmnlayout/engine/oracle"
)

// Compactness selects a spacing preset.
type Compactness string

const (
	CompactnessCompact  Compactness = "COMPACT"
	CompactnessSpacious Compactness = "SPACIOUS"
)

// LaneStrategy selects whether lane order is preserved or optimized for
// crossing minimization.
type LaneStrategy string

const (
	LaneStrategyPreserve LaneStrategy = "PRESERVE"
	LaneStrategyOptimize LaneStrategy = "OPTIMIZE"
)

// GridSnap is a bool-or-integer field: when Enabled is true and Quantum is
// zero, the driver's default grid quantum applies; a positive Quantum
// overrides it.
type GridSnap struct {
	Enabled bool
	Quantum float64
}

// UnmarshalYAML implements yaml.Unmarshaler so grid_snap accepts either a
// bare bool or an integer quantum in the YAML source.
func (g *GridSnap) UnmarshalYAML(value *yaml.Node) error {
	var asBool bool
	if err := value.Decode(&asBool); err == nil {
		g.Enabled = asBool
		return nil
	}
	var asQuantum float64
	if err := value.Decode(&asQuantum); err != nil {
		return err
	}
	g.Enabled = asQuantum > 0
	g.Quantum = asQuantum
	return nil
}

// Options is the YAML-facing layout-options surface; ToOracleOptions
// converts it into an oracle.Options, and the layout driver reads the
// remaining driver-level flags directly.
type Options struct {
	Direction         oracle.Direction `yaml:"direction"`
	NodeSpacing       float64          `yaml:"node_spacing"`
	LayerSpacing      float64          `yaml:"layer_spacing"`
	ScopeElementID    string           `yaml:"scope_element_id"`
	PreserveHappyPath bool             `yaml:"preserve_happy_path"`
	GridSnap          GridSnap         `yaml:"grid_snap"`
	SimplifyRoutes    *bool            `yaml:"simplify_routes"`
	Compactness       Compactness      `yaml:"compactness"`
	LaneStrategy      LaneStrategy     `yaml:"lane_strategy"`
}

// Default returns the documented default option surface.
func Default() Options {
	simplify := true
	return Options{
		Direction:         oracle.DirectionRight,
		PreserveHappyPath: false,
		GridSnap:          GridSnap{Enabled: true},
		SimplifyRoutes:    &simplify,
		Compactness:       CompactnessSpacious,
		LaneStrategy:      LaneStrategyPreserve,
	}
}

// Load reads and parses a YAML options file at path, merging over Default().
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// ToOracleOptions converts the YAML-facing surface into an oracle.Options:
// the compactness preset first, then explicit spacing overrides, then the
// interactive layering switch for scoped re-layout.
func (o Options) ToOracleOptions() oracle.Options {
	var resolved oracle.Options
	switch o.Compactness {
	case CompactnessCompact:
		resolved = oracle.Resolve(oracle.WithDirection(o.Direction), oracle.WithSpacing(30, 20, 60, 12))
	default:
		resolved = oracle.Resolve(oracle.WithDirection(o.Direction), oracle.WithSpacing(50, 30, 100, 20))
	}
	if o.NodeSpacing > 0 {
		resolved.NodeNodeSpacing = o.NodeSpacing
	}
	if o.LayerSpacing > 0 {
		resolved.NodeNodeSpacingBetweenLayers = o.LayerSpacing
	}
	if o.ScopeElementID != "" {
		resolved.LayeringStrategy = oracle.LayeringInteractive
	}
	return resolved
}
