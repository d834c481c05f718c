package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/bpmnlayout/engine/model"
)

// fixture is the on-disk JSON element-model document: a flat list of
// elements, the same shape a bpmn-js ElementRegistry dump would produce
// once reduced to this engine's Element fields.
type fixture struct {
	Elements []*model.Element `json:"elements"`
}

// loadFixture reads path and populates a fresh Registry from its elements.
func loadFixture(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var doc fixture
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	registry := model.NewRegistry()
	for _, e := range doc.Elements {
		if err := registry.Add(e); err != nil {
			return nil, fmt.Errorf("fixture element %q: %w", e.ID, err)
		}
	}
	return registry, nil
}

// writeFixture serializes every element currently in registry back out as a
// fixture document, sorted by ID so output is diffable across runs.
func writeFixture(path string, registry *model.Registry) error {
	elements := registry.GetAll()
	sortElementsByID(elements)
	data, err := json.MarshalIndent(fixture{Elements: elements}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func sortElementsByID(elements []*model.Element) {
	sort.Slice(elements, func(i, j int) bool { return elements[i].ID < elements[j].ID })
}
