package layout

import (
	"sort"

	"github.com/bpmnlayout/engine/model"
)

// ComputeHappyPath finds the forward sequence-flow path of maximum length
// from a start event, as defined in the glossary: "the most direct sequence
// of flow nodes from a start to an end event through the forward edges."
// Cycles are guarded against via a per-path visited set rather than relying
// on any prior back-edge marking, since this runs against the flat registry
// model the driver operates on.
func ComputeHappyPath(registry *model.Registry) []string {
	starts := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeStartEvent })
	if len(starts) == 0 {
		return nil
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].ID < starts[j].ID })

	flows := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeSequenceFlow })
	sort.Slice(flows, func(i, j int) bool { return flows[i].ID < flows[j].ID })
	outFlows := make(map[string][]*model.Element)
	for _, f := range flows {
		outFlows[f.Source] = append(outFlows[f.Source], f)
	}

	var best []string
	for _, s := range starts {
		path := longestForwardPath(s.ID, outFlows, map[string]bool{})
		if len(path) > len(best) {
			best = path
		}
	}
	return best
}

func longestForwardPath(nodeID string, outFlows map[string][]*model.Element, visiting map[string]bool) []string {
	if visiting[nodeID] {
		return nil
	}
	visiting[nodeID] = true
	defer delete(visiting, nodeID)

	best := []string{nodeID}
	for _, f := range outFlows[nodeID] {
		tail := longestForwardPath(f.Target, outFlows, visiting)
		if len(tail)+1 > len(best) {
			candidate := append([]string{nodeID}, tail...)
			best = candidate
		}
	}
	return best
}
