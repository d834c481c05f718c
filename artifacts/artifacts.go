// Package artifacts repositions the artifacts the oracle never places:
// groups (resized to enclose their layoutable children) and text
// annotations/data object/data store references (spread around the flow
// element they're associated with, or stepped out past the flow's bounding
// box when unlinked).
package artifacts

import (
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

const (
	GroupPadding = 20.0
	AboveOffset  = 20.0
	BelowOffset  = 20.0
	stepOffset   = 20.0
)

// Reposition places every artifact: groups first, then associated and
// unlinked artifacts.
func Reposition(registry *model.Registry, modeller model.Modeller) {
	repositionGroups(registry, modeller)
	repositionAssociated(registry, modeller)
}

func repositionGroups(registry *model.Registry, modeller model.Modeller) {
	groups := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeGroup })
	for _, g := range groups {
		children := registry.Filter(func(e *model.Element) bool {
			return model.IsLayoutableShape(e.Type) && e.Parent == g.ID
		})
		if len(children) == 0 {
			continue
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, c := range children {
			r := c.Rect()
			minX, minY = math.Min(minX, r.Left()), math.Min(minY, r.Top())
			maxX, maxY = math.Max(maxX, r.Right()), math.Max(maxY, r.Bottom())
		}
		_ = modeller.ResizeShape(g, geometry.Rect{
			X: minX - GroupPadding, Y: minY - GroupPadding,
			Width: (maxX - minX) + 2*GroupPadding, Height: (maxY - minY) + 2*GroupPadding,
		})
	}
}

func repositionAssociated(registry *model.Registry, modeller model.Modeller) {
	artifactEls := registry.Filter(func(e *model.Element) bool {
		return e.Type == model.TypeTextAnnotation || e.Type == model.TypeDataObjectRef || e.Type == model.TypeDataStoreRef
	})
	sort.Slice(artifactEls, func(i, j int) bool { return artifactEls[i].ID < artifactEls[j].ID })

	byElement := make(map[string][]*model.Element)
	var unlinked []*model.Element
	for _, a := range artifactEls {
		elementID := associatedFlowElement(registry, a.ID)
		if elementID == "" {
			unlinked = append(unlinked, a)
			continue
		}
		byElement[elementID] = append(byElement[elementID], a)
	}

	placed := flowBoundingBoxRects(registry)

	elementIDs := make([]string, 0, len(byElement))
	for id := range byElement {
		elementIDs = append(elementIDs, id)
	}
	sort.Strings(elementIDs)
	for _, elementID := range elementIDs {
		el, ok := registry.Get(elementID)
		if !ok {
			continue
		}
		placeAroundElement(modeller, el.Rect(), byElement[elementID], &placed)
	}

	placeUnlinked(registry, modeller, unlinked, &placed)
}

// associatedFlowElement walks bpmn:Association connections to find the
// flow element an artifact is linked to, returning "" if none.
func associatedFlowElement(registry *model.Registry, artifactID string) string {
	assocs := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeAssociation })
	for _, a := range assocs {
		if a.Source == artifactID {
			return a.Target
		}
		if a.Target == artifactID {
			return a.Source
		}
	}
	return ""
}

func placeAroundElement(modeller model.Modeller, anchor geometry.Rect, group []*model.Element, placed *[]geometry.Rect) {
	above := make([]*model.Element, 0)
	below := make([]*model.Element, 0)
	for _, a := range group {
		if a.Type == model.TypeTextAnnotation {
			above = append(above, a)
		} else {
			below = append(below, a)
		}
	}

	layoutRow(modeller, above, anchor.CenterX(), anchor.Top()-AboveOffset, false, placed)
	layoutRow(modeller, below, anchor.CenterX(), anchor.Bottom()+BelowOffset, true, placed)
}

// layoutRow spreads els horizontally centred on centerX at the given
// anchorY (interpreted as top-of-row when growingDown, bottom-of-row
// otherwise), resolving collisions by shifting right then further
// vertically.
func layoutRow(modeller model.Modeller, els []*model.Element, centerX, anchorY float64, growingDown bool, placed *[]geometry.Rect) {
	if len(els) == 0 {
		return
	}
	totalWidth := 0.0
	for _, e := range els {
		totalWidth += e.Width
	}
	totalWidth += float64(len(els)-1) * stepOffset

	x := centerX - totalWidth/2
	for _, e := range els {
		y := anchorY
		if !growingDown {
			y = anchorY - e.Height
		}
		rect := geometry.Rect{X: x, Y: y, Width: e.Width, Height: e.Height}
		rect = resolveCollision(rect, placed, growingDown)
		_ = modeller.ResizeShape(e, rect)
		*placed = append(*placed, rect)
		x += e.Width + stepOffset
	}
}

func resolveCollision(rect geometry.Rect, placed *[]geometry.Rect, growingDown bool) geometry.Rect {
	for iter := 0; iter < len(*placed)+1; iter++ {
		collided := false
		for _, p := range *placed {
			if rect.Overlaps(p, 0) {
				collided = true
				rect.X = p.Right() + stepOffset
				break
			}
		}
		if !collided {
			return rect
		}
	}
	if growingDown {
		rect.Y += rect.Height + stepOffset
	} else {
		rect.Y -= rect.Height + stepOffset
	}
	return rect
}

func flowBoundingBoxRects(registry *model.Registry) []geometry.Rect {
	shapes := registry.Filter(func(e *model.Element) bool { return model.IsLayoutableShape(e.Type) })
	out := make([]geometry.Rect, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, s.Rect())
	}
	return out
}

func placeUnlinked(registry *model.Registry, modeller model.Modeller, unlinked []*model.Element, placed *[]geometry.Rect) {
	if len(unlinked) == 0 {
		return
	}
	minX, maxY := math.Inf(1), math.Inf(-1)
	minY := math.Inf(1)
	for _, r := range *placed {
		minX = math.Min(minX, r.Left())
		maxY = math.Max(maxY, r.Bottom())
		minY = math.Min(minY, r.Top())
	}
	if math.IsInf(minX, 1) {
		minX, maxY, minY = 0, 0, 0
	}

	x := minX
	for _, a := range unlinked {
		y := maxY + BelowOffset
		if a.Type == model.TypeTextAnnotation {
			y = minY - AboveOffset - a.Height
		}
		rect := geometry.Rect{X: x, Y: y, Width: a.Width, Height: a.Height}
		rect = resolveCollision(rect, placed, a.Type != model.TypeTextAnnotation)
		_ = modeller.ResizeShape(a, rect)
		*placed = append(*placed, rect)
		x += a.Width + stepOffset
	}
}
