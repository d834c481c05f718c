// Package gridsnap provides layer detection, column grid snapping,
// happy-path row pinning with symmetric branch alignment, and final
// pixel-grid quantisation.
package gridsnap

import (
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

// DefaultGridQuantum is the default pixel quantum pixel positions and
// interior waypoints snap to in the final quantisation pass.
const DefaultGridQuantum = 10.0

const clusterThreshold = 40.0

// Layer is a cluster of shapes sharing an approximate x-centre.
type Layer struct {
	Shapes   []*model.Element
	MinX     float64
	MaxRight float64
	MaxWidth float64
}

// DetectLayers clusters layoutable shapes by x-centre using clusterThreshold,
// returning layers ordered left to right.
func DetectLayers(registry *model.Registry) []Layer {
	shapes := registry.Filter(func(e *model.Element) bool { return model.IsLayoutableShape(e.Type) })
	sort.Slice(shapes, func(i, j int) bool { return shapes[i].Rect().CenterX() < shapes[j].Rect().CenterX() })

	var layers []Layer
	for _, s := range shapes {
		cx := s.Rect().CenterX()
		placed := false
		for i := range layers {
			avgCX := layerAvgCenterX(layers[i])
			if math.Abs(cx-avgCX) <= clusterThreshold {
				layers[i].Shapes = append(layers[i].Shapes, s)
				placed = true
				break
			}
		}
		if !placed {
			layers = append(layers, Layer{Shapes: []*model.Element{s}})
		}
	}

	for i := range layers {
		finalizeLayer(&layers[i])
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i].MinX < layers[j].MinX })
	return layers
}

func layerAvgCenterX(l Layer) float64 {
	sum := 0.0
	for _, s := range l.Shapes {
		sum += s.Rect().CenterX()
	}
	return sum / float64(len(l.Shapes))
}

func finalizeLayer(l *Layer) {
	minX, maxRight, maxWidth := math.Inf(1), math.Inf(-1), 0.0
	for _, s := range l.Shapes {
		r := s.Rect()
		minX = math.Min(minX, r.Left())
		maxRight = math.Max(maxRight, r.Right())
		maxWidth = math.Max(maxWidth, r.Width)
	}
	l.MinX, l.MaxRight, l.MaxWidth = minX, maxRight, maxWidth
}

// GridSnap computes a virtual column pitch from layerSpacing plus the
// widest layer's max column width, then repositions each layer's column to
// firstColumnX + layerIndex*pitch, aligning shapes within a layer by left
// edge.
func GridSnap(modeller model.Modeller, layers []Layer, layerSpacing float64) {
	if len(layers) == 0 {
		return
	}
	maxWidth := 0.0
	for _, l := range layers {
		maxWidth = math.Max(maxWidth, l.MaxWidth)
	}
	pitch := layerSpacing + maxWidth
	firstColumnX := layers[0].MinX

	for i, l := range layers {
		targetX := firstColumnX + float64(i)*pitch
		delta := targetX - l.MinX
		if math.Abs(delta) < 0.5 {
			continue
		}
		_ = modeller.MoveElements(l.Shapes, geometry.Point{X: delta, Y: 0})
	}
}

// PinHappyPath uniformly shifts every shape on happyPathIDs (in flow order)
// to share one row Y (the first shape's current centre-Y), then
// symmetrically aligns binary-gateway branches whose branch task sits on
// that row so both branches are equidistant from it.
func PinHappyPath(registry *model.Registry, modeller model.Modeller, happyPathIDs []string) {
	if len(happyPathIDs) == 0 {
		return
	}
	var rowY float64
	var toShift []*model.Element
	for i, id := range happyPathIDs {
		e, ok := registry.Get(id)
		if !ok {
			continue
		}
		if i == 0 {
			rowY = e.Rect().CenterY()
		}
		toShift = append(toShift, e)
	}

	for _, e := range toShift {
		delta := rowY - e.Rect().CenterY()
		if math.Abs(delta) < 0.5 {
			continue
		}
		_ = modeller.MoveElements([]*model.Element{e}, geometry.Point{X: 0, Y: delta})
	}

	alignBinaryBranches(registry, modeller, happyPathIDs, rowY)
}

// alignBinaryBranches finds binary-split gateways on the happy path and, for
// each, symmetrically repositions its two branch targets so they sit
// equidistant above/below rowY when at least one already sits on it.
func alignBinaryBranches(registry *model.Registry, modeller model.Modeller, happyPathIDs []string, rowY float64) {
	onPath := make(map[string]bool, len(happyPathIDs))
	for _, id := range happyPathIDs {
		onPath[id] = true
	}

	for _, id := range happyPathIDs {
		gw, ok := registry.Get(id)
		if !ok || !model.IsGateway(gw.Type) {
			continue
		}
		outFlows := registry.Filter(func(e *model.Element) bool {
			return e.Type == model.TypeSequenceFlow && e.Source == gw.ID
		})
		if len(outFlows) != 2 {
			continue
		}

		var branchA, branchB *model.Element
		if a, ok := registry.Get(outFlows[0].Target); ok {
			branchA = a
		}
		if b, ok := registry.Get(outFlows[1].Target); ok {
			branchB = b
		}
		if branchA == nil || branchB == nil {
			continue
		}

		onRow := func(e *model.Element) bool { return math.Abs(e.Rect().CenterY()-rowY) < 0.5 }
		if !onRow(branchA) && !onRow(branchB) {
			continue
		}

		offAbove, offBelow := branchA, branchB
		if onPath[branchA.ID] {
			continue // the happy-path branch itself stays put
		}
		dist := math.Abs(offBelow.Rect().CenterY() - rowY)
		target := rowY - dist
		if offAbove.Rect().CenterY() > rowY {
			target = rowY + dist
		}
		delta := target - offAbove.Rect().CenterY()
		if math.Abs(delta) >= 0.5 {
			_ = modeller.MoveElements([]*model.Element{offAbove}, geometry.Point{X: 0, Y: delta})
		}
	}
}

// alignToEndpoint snaps adjacent onto endpoint's axis when the segment
// between them is within half a quantum of horizontal or vertical.
func alignToEndpoint(endpoint, adjacent geometry.Point, quantum float64) geometry.Point {
	dx := math.Abs(adjacent.X - endpoint.X)
	dy := math.Abs(adjacent.Y - endpoint.Y)
	if dy > 0 && dy <= quantum/2 && dx >= dy {
		adjacent.Y = endpoint.Y
	} else if dx > 0 && dx <= quantum/2 && dy > dx {
		adjacent.X = endpoint.X
	}
	return adjacent
}

// nearestBorderPoint projects p onto the border of rect closest to it,
// preferring whichever side the point already sits nearest to.
func nearestBorderPoint(rect geometry.Rect, p geometry.Point) geometry.Point {
	distLeft := math.Abs(p.X - rect.Left())
	distRight := math.Abs(p.X - rect.Right())
	distTop := math.Abs(p.Y - rect.Top())
	distBottom := math.Abs(p.Y - rect.Bottom())

	min := distLeft
	side := 0 // 0=left,1=right,2=top,3=bottom
	if distRight < min {
		min, side = distRight, 1
	}
	if distTop < min {
		min, side = distTop, 2
	}
	if distBottom < min {
		min, side = distBottom, 3
	}

	clampedY := math.Min(math.Max(p.Y, rect.Top()), rect.Bottom())
	clampedX := math.Min(math.Max(p.X, rect.Left()), rect.Right())

	switch side {
	case 0:
		return geometry.Point{X: rect.Left(), Y: clampedY}
	case 1:
		return geometry.Point{X: rect.Right(), Y: clampedY}
	case 2:
		return geometry.Point{X: clampedX, Y: rect.Top()}
	default:
		return geometry.Point{X: clampedX, Y: rect.Bottom()}
	}
}

// Quantize is the final pixel-grid pass: rounds every layoutable shape's
// x/y to the nearest multiple of quantum (DefaultGridQuantum if <= 0),
// rounds interior connection waypoints to the same quantum, and recomputes
// first/last waypoints from the (already-quantised) element borders.
func Quantize(registry *model.Registry, modeller model.Modeller, quantum float64) {
	if quantum <= 0 {
		quantum = DefaultGridQuantum
	}

	shapes := registry.Filter(func(e *model.Element) bool { return model.IsLayoutableShape(e.Type) })
	for _, s := range shapes {
		_ = modeller.ResizeShape(s, geometry.Rect{
			X:      geometry.RoundToGrid(s.X, quantum),
			Y:      geometry.RoundToGrid(s.Y, quantum),
			Width:  s.Width,
			Height: s.Height,
		})
	}

	conns := registry.Filter(func(e *model.Element) bool { return model.IsConnection(e.Type) })
	for _, c := range conns {
		if len(c.Waypoints) < 2 {
			continue
		}
		src, srcOK := registry.Get(c.Source)
		tgt, tgtOK := registry.Get(c.Target)
		if !srcOK || !tgtOK {
			continue
		}

		wps := make([]geometry.Point, len(c.Waypoints))
		copy(wps, c.Waypoints)
		for i := 1; i < len(wps)-1; i++ {
			wps[i].X = geometry.RoundToGrid(wps[i].X, quantum)
			wps[i].Y = geometry.RoundToGrid(wps[i].Y, quantum)
		}
		wps[0] = nearestBorderPoint(src.Rect(), wps[0])
		wps[len(wps)-1] = nearestBorderPoint(tgt.Rect(), wps[len(wps)-1])
		if len(wps) > 2 {
			// rounding an interior point can leave the endpoint-adjacent
			// segment a few pixels off axis; pull it back onto the endpoint
			wps[1] = alignToEndpoint(wps[0], wps[1], quantum)
			n := len(wps)
			wps[n-2] = alignToEndpoint(wps[n-1], wps[n-2], quantum)
		}

		_ = modeller.UpdateWaypoints(c, wps)
	}
}
