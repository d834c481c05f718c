// Package routing turns oracle edge sections into registry waypoints,
// repairs or synthesizes routes the oracle never computed, and detours
// around shapes a straight route would otherwise cross.
package routing

import (
	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/oracle"
)

// Routing tolerances and margins, in pixels.
const (
	OrthoSnapTolerance     = 8.0
	EndpointSnapTolerance  = 15.0
	CenterSnapTolerance    = 10.0
	SameRowTolerance       = 5.0
	DifferentRowMinimum    = 30.0
	DisconnectThreshold    = 20.0
	AvoidanceMargin        = 15.0
	MaxAvoidanceIterations = 3
	MovementThreshold      = 0.5

	selfLoopHorizontalMargin = 40.0
	selfLoopVerticalMargin   = 30.0
)

// ApplyRoutes routes every connection in the registry whose
// source and target both exist, writes its waypoints from the oracle's
// edge-section map when available, or synthesizes a fallback route when
// not (boundary-event exits, message-flow dog-legs, plain Ls, and
// self-loops).
func ApplyRoutes(registry *model.Registry, modeller model.Modeller, edgeResults map[string]*oracle.EdgeResult) {
	conns := registry.Filter(func(e *model.Element) bool { return model.IsConnection(e.Type) })
	for _, c := range conns {
		src, srcOK := registry.Get(c.Source)
		tgt, tgtOK := registry.Get(c.Target)
		if !srcOK || !tgtOK {
			continue
		}

		if c.Source == c.Target {
			applySelfLoop(modeller, c, src)
			continue
		}

		if er, ok := edgeResults[c.ID]; ok && len(er.Sections) > 0 {
			applySectionRoute(modeller, c, er, src, tgt)
			continue
		}

		applyFallbackRoute(modeller, c, src, tgt, registry)
	}
}

// applySectionRoute converts the oracle's section list (already absolute,
// per oracle.ApplyPositions) into waypoints, snaps near-orthogonal
// segments, deduplicates, and straightens a flat two-point route whose
// endpoints sit near the source/target centre lines.
func applySectionRoute(modeller model.Modeller, c *model.Element, er *oracle.EdgeResult, src, tgt *model.Element) {
	var wps []geometry.Point
	for _, sec := range er.Sections {
		if len(wps) == 0 {
			wps = append(wps, sec.Start)
		}
		wps = append(wps, sec.Bends...)
		wps = append(wps, sec.End)
	}

	wps = geometry.SnapNearOrthogonal(wps, OrthoSnapTolerance)
	wps = geometry.DeduplicateWaypoints(wps, geometry.DefaultTolerance)

	if len(wps) == 2 {
		wps = straightenIfNearCenters(wps, src, tgt)
	}

	if len(wps) < 2 {
		return // leave prior waypoints untouched
	}
	_ = modeller.UpdateWaypoints(c, wps)
}

// straightenIfNearCenters rewrites a flat two-point route to the exact
// source-right-centre/target-left-centre anchor points when both endpoints
// already sit within EndpointSnapTolerance of them.
func straightenIfNearCenters(wps []geometry.Point, src, tgt *model.Element) []geometry.Point {
	if len(wps) != 2 || !almostEqual(wps[0].Y, wps[1].Y, SameRowTolerance) {
		return wps
	}
	srcAnchor := geometry.Point{X: src.Rect().Right(), Y: src.Rect().CenterY()}
	tgtAnchor := geometry.Point{X: tgt.Rect().Left(), Y: tgt.Rect().CenterY()}
	if near(wps[0], srcAnchor, EndpointSnapTolerance) && near(wps[1], tgtAnchor, EndpointSnapTolerance) {
		return []geometry.Point{srcAnchor, tgtAnchor}
	}
	return wps
}

func near(a, b geometry.Point, tol float64) bool {
	return almostEqual(a.X, b.X, tol) && almostEqual(a.Y, b.Y, tol)
}

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// applyFallbackRoute synthesizes a route for a connection the oracle did
// not (or could not) route: boundary-event exits, message-flow dog-legs,
// and plain Ls.
func applyFallbackRoute(modeller model.Modeller, c *model.Element, src, tgt *model.Element, registry *model.Registry) {
	if model.IsBoundaryEvent(src.Type) {
		wps := boundaryEventExitRoute(src, tgt, registry)
		_ = modeller.UpdateWaypoints(c, wps)
		return
	}

	if c.Type == model.TypeMessageFlow {
		wps := messageFlowDogLeg(src, tgt)
		_ = modeller.UpdateWaypoints(c, wps)
		return
	}

	srcP := geometry.Point{X: src.Rect().Right(), Y: src.Rect().CenterY()}
	tgtP := geometry.Point{X: tgt.Rect().Left(), Y: tgt.Rect().CenterY()}
	wps := geometry.BuildOrthogonalWaypoints(srcP, tgtP)
	_ = modeller.UpdateWaypoints(c, wps)
}

// boundaryEventExitRoute builds an L from the host's bottom (or top) at
// host-centre-X down (or up) to the target's centre-Y, then across to the
// target's near edge.
func boundaryEventExitRoute(boundary, tgt *model.Element, registry *model.Registry) []geometry.Point {
	host, ok := registry.Get(boundary.Host)
	if !ok {
		host = boundary
	}
	hostRect := host.Rect()
	tgtRect := tgt.Rect()

	exitingDown := tgtRect.CenterY() >= hostRect.Bottom()
	var start geometry.Point
	if exitingDown {
		start = geometry.Point{X: hostRect.CenterX(), Y: hostRect.Bottom()}
	} else {
		start = geometry.Point{X: hostRect.CenterX(), Y: hostRect.Top()}
	}

	mid := geometry.Point{X: start.X, Y: tgtRect.CenterY()}
	end := geometry.Point{X: tgtRect.Left(), Y: tgtRect.CenterY()}
	if tgtRect.CenterX() < start.X {
		end.X = tgtRect.Right()
	}

	return geometry.DeduplicateWaypoints([]geometry.Point{start, mid, end}, geometry.DefaultTolerance)
}

// messageFlowDogLeg builds a V-H-V route with the horizontal segment at the
// midpoint between the two elements' vertical extents, falling back to a
// single L if their Y ranges overlap.
func messageFlowDogLeg(src, tgt *model.Element) []geometry.Point {
	srcRect, tgtRect := src.Rect(), tgt.Rect()

	if srcRect.Bottom() > tgtRect.Top() && srcRect.Top() < tgtRect.Bottom() {
		srcP := geometry.Point{X: srcRect.Right(), Y: srcRect.CenterY()}
		tgtP := geometry.Point{X: tgtRect.Left(), Y: tgtRect.CenterY()}
		return geometry.BuildOrthogonalWaypoints(srcP, tgtP)
	}

	var midY float64
	if srcRect.Bottom() <= tgtRect.Top() {
		midY = (srcRect.Bottom() + tgtRect.Top()) / 2
	} else {
		midY = (tgtRect.Bottom() + srcRect.Top()) / 2
	}

	start := geometry.Point{X: srcRect.CenterX(), Y: srcRect.CenterY()}
	end := geometry.Point{X: tgtRect.CenterX(), Y: tgtRect.CenterY()}
	return geometry.DeduplicateWaypoints([]geometry.Point{
		start,
		{X: start.X, Y: midY},
		{X: end.X, Y: midY},
		end,
	}, geometry.DefaultTolerance)
}

// applySelfLoop writes the canonical 5-waypoint rectangular loop for a
// sequence flow whose source equals its target: out the right side at a
// quarter height, around below, back in at bottom centre.
func applySelfLoop(modeller model.Modeller, c *model.Element, el *model.Element) {
	rect := el.Rect()
	exitY := rect.Top() + rect.Height/4
	rightX := rect.Right() + selfLoopHorizontalMargin
	belowY := rect.Bottom() + selfLoopVerticalMargin
	centerX := rect.CenterX()

	wps := []geometry.Point{
		{X: rect.Right(), Y: exitY},
		{X: rightX, Y: exitY},
		{X: rightX, Y: belowY},
		{X: centerX, Y: belowY},
		{X: centerX, Y: rect.Bottom()},
	}
	_ = modeller.UpdateWaypoints(c, wps) // non-fatal if the modeller refuses
}
