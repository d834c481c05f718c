package oracle

import (
	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

// Offsets accumulates, per container, the absolute origin its children's
// oracle-relative positions must be added to. The layout driver stores it
// on pipeline.LayoutContext.Offsets; lane banding and boundary
// repositioning work from the registry's absolute coordinates and do not
// read it.
type Offsets map[string]geometry.Point

// ApplyPositions walks result.Root and writes each node's absolute
// position (and, for compound nodes, its interior-derived size) into the
// registry via modeller.ResizeShape, accumulating container offsets along
// the way. It returns the final Offsets map so later passes can translate
// container-relative quantities themselves.
func ApplyPositions(result *Result, registry *model.Registry, modeller model.Modeller) Offsets {
	offsets := make(Offsets)
	applyNode(result.Root, geometry.Point{}, registry, modeller, offsets)
	offsets[result.Root.ID] = geometry.Point{} // root container itself has no offset

	for _, er := range result.Edges {
		origin := offsets[er.ContainerID]
		for i, sec := range er.Sections {
			er.Sections[i].Start = geometry.Point{X: sec.Start.X + origin.X, Y: sec.Start.Y + origin.Y}
			er.Sections[i].End = geometry.Point{X: sec.End.X + origin.X, Y: sec.End.Y + origin.Y}
			for j, b := range sec.Bends {
				er.Sections[i].Bends[j] = geometry.Point{X: b.X + origin.X, Y: b.Y + origin.Y}
			}
		}
	}

	return offsets
}

func applyNode(n *NodeResult, parentOrigin geometry.Point, registry *model.Registry, modeller model.Modeller, offsets Offsets) {
	if n == nil {
		return
	}
	absolute := geometry.Point{X: parentOrigin.X + n.X, Y: parentOrigin.Y + n.Y}
	offsets[n.ID] = absolute

	if e, ok := registry.Get(n.ID); ok {
		w, h := e.Width, e.Height
		if n.Width > 0 {
			w = n.Width
		}
		if n.Height > 0 {
			h = n.Height
		}
		_ = modeller.ResizeShape(e, geometry.Rect{X: absolute.X, Y: absolute.Y, Width: w, Height: h})
	}

	for _, child := range n.Children {
		applyNode(child, absolute, registry, modeller, offsets)
	}
}
