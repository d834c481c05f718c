package oracle

import (
	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/graphbuild"
)

// routeEdges emits an approximate orthogonal Section for every non-proxy
// edge whose endpoints both resolved to a position, mimicking the kind of
// section a real layered-layout oracle would hand back. Proxy edges are
// skipped: they exist only to influence node placement, not to be routed.
func routeEdges(containerID string, children []*graphbuild.Node, edges []*graphbuild.Edge, positions map[string]geometry.Point, opts Options, out map[string]*EdgeResult) {
	byID := make(map[string]*graphbuild.Node, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}

	for _, e := range edges {
		if e.IsProxy || e.ElementID == "" {
			continue
		}
		if len(e.Sources) != 1 || len(e.Targets) != 1 {
			continue
		}
		srcNode, srcOK := byID[e.Sources[0]]
		tgtNode, tgtOK := byID[e.Targets[0]]
		if !srcOK || !tgtOK {
			continue
		}
		srcPos, tgtPos := positions[e.Sources[0]], positions[e.Targets[0]]

		start := exitPoint(srcPos, srcNode, opts.Direction)
		end := entryPoint(tgtPos, tgtNode, opts.Direction)
		full := geometry.BuildOrthogonalWaypoints(start, end)

		sec := Section{Start: full[0], End: full[len(full)-1]}
		if len(full) > 2 {
			sec.Bends = append(sec.Bends, full[1:len(full)-1]...)
		}
		out[e.ID] = &EdgeResult{ID: e.ID, ContainerID: containerID, Sections: []Section{sec}}
	}
}

func exitPoint(pos geometry.Point, n *graphbuild.Node, dir Direction) geometry.Point {
	switch dir {
	case DirectionDown:
		return geometry.Point{X: pos.X + n.Width/2, Y: pos.Y + n.Height}
	case DirectionUp:
		return geometry.Point{X: pos.X + n.Width/2, Y: pos.Y}
	case DirectionLeft:
		return geometry.Point{X: pos.X, Y: pos.Y + n.Height/2}
	default: // RIGHT
		return geometry.Point{X: pos.X + n.Width, Y: pos.Y + n.Height/2}
	}
}

func entryPoint(pos geometry.Point, n *graphbuild.Node, dir Direction) geometry.Point {
	switch dir {
	case DirectionDown:
		return geometry.Point{X: pos.X + n.Width/2, Y: pos.Y}
	case DirectionUp:
		return geometry.Point{X: pos.X + n.Width/2, Y: pos.Y + n.Height}
	case DirectionLeft:
		return geometry.Point{X: pos.X + n.Width, Y: pos.Y + n.Height/2}
	default: // RIGHT
		return geometry.Point{X: pos.X, Y: pos.Y + n.Height/2}
	}
}
