package routing

import (
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

// RunPasses runs the seven edge routing passes, in order, after ApplyRoutes
// and before element avoidance. simplify gates the gateway-branch
// simplification pass (the simplify_routes option). The driver calls
// RunPasses again, with all of its passes, after grid snap, since grid snap
// can invalidate a route an earlier pass already fixed.
func RunPasses(registry *model.Registry, simplify bool) {
	flows := sequenceFlows(registry)

	if simplify {
		simplifyGatewayBranches(registry, flows)
	}
	rebuildOffRowGatewayRoutes(registry, flows)
	repairDisconnectedEdges(registry, flows)
	snapEndpointsToCentre(registry, flows)
	separateOverlappingCollinearFlows(registry, flows)
	routeLoopbacksBelow(registry, flows)
	cleanupCollinearPoints(registry, flows)
}

func sequenceFlows(registry *model.Registry) []*model.Element {
	return registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeSequenceFlow })
}

func incidentCount(registry *model.Registry, id string, byTarget bool) int {
	n := 0
	for _, f := range sequenceFlows(registry) {
		if byTarget && f.Target == id {
			n++
		}
		if !byTarget && f.Source == id {
			n++
		}
	}
	return n
}

// 1. Gateway-branch simplification.
func simplifyGatewayBranches(registry *model.Registry, flows []*model.Element) {
	for _, f := range flows {
		src, srcOK := registry.Get(f.Source)
		tgt, tgtOK := registry.Get(f.Target)
		if !srcOK || !tgtOK || len(f.Waypoints) < 5 {
			continue
		}

		srcIsGateway := model.IsGateway(src.Type) && incidentCount(registry, src.ID, false) <= 2
		tgtIsGateway := model.IsGateway(tgt.Type) && incidentCount(registry, tgt.ID, true) <= 2
		if !srcIsGateway && !tgtIsGateway {
			continue
		}

		srcRect, tgtRect := src.Rect(), tgt.Rect()
		if math.Abs(tgtRect.CenterY()-srcRect.CenterY()) <= 10 || tgtRect.CenterX() <= srcRect.CenterX() {
			continue
		}

		route := geometry.BuildZShapeRoute(srcRect.Right(), srcRect.CenterY(), tgtRect.Left(), tgtRect.CenterY())
		f.Waypoints = route
	}
}

// 2. Rebuild off-row gateway routes.
func rebuildOffRowGatewayRoutes(registry *model.Registry, flows []*model.Element) {
	for _, f := range flows {
		src, srcOK := registry.Get(f.Source)
		tgt, tgtOK := registry.Get(f.Target)
		if !srcOK || !tgtOK {
			continue
		}
		srcRect, tgtRect := src.Rect(), tgt.Rect()
		if tgtRect.CenterX() <= srcRect.CenterX() {
			continue
		}
		if math.Abs(tgtRect.CenterY()-srcRect.CenterY()) < DifferentRowMinimum {
			continue
		}

		srcIsGateway := model.IsGateway(src.Type)
		tgtIsGateway := model.IsGateway(tgt.Type)

		switch {
		case srcIsGateway:
			f.Waypoints = []geometry.Point{
				{X: srcRect.CenterX(), Y: gatewayExitY(srcRect, tgtRect)},
				{X: srcRect.CenterX(), Y: tgtRect.CenterY()},
				{X: tgtRect.Left(), Y: tgtRect.CenterY()},
			}
		case tgtIsGateway:
			f.Waypoints = []geometry.Point{
				{X: srcRect.Right(), Y: srcRect.CenterY()},
				{X: tgtRect.CenterX(), Y: srcRect.CenterY()},
				{X: tgtRect.CenterX(), Y: gatewayEntryY(srcRect, tgtRect)},
			}
		default:
			if !isFlatRoute(f.Waypoints, DifferentRowMinimum) {
				continue
			}
			f.Waypoints = geometry.BuildZShapeRoute(srcRect.Right(), srcRect.CenterY(), tgtRect.Left(), tgtRect.CenterY())
		}
	}
}

func gatewayExitY(srcRect, tgtRect geometry.Rect) float64 {
	if tgtRect.CenterY() >= srcRect.CenterY() {
		return srcRect.Bottom()
	}
	return srcRect.Top()
}

func gatewayEntryY(srcRect, tgtRect geometry.Rect) float64 {
	if tgtRect.CenterY() >= srcRect.CenterY() {
		return tgtRect.Top()
	}
	return tgtRect.Bottom()
}

func isFlatRoute(wps []geometry.Point, tolerance float64) bool {
	if len(wps) == 0 {
		return true
	}
	refY := wps[0].Y
	for _, p := range wps {
		if math.Abs(p.Y-refY) > tolerance {
			return false
		}
	}
	return true
}

// 3. Disconnected-edge repair.
func repairDisconnectedEdges(registry *model.Registry, flows []*model.Element) {
	for _, f := range flows {
		src, srcOK := registry.Get(f.Source)
		tgt, tgtOK := registry.Get(f.Target)
		if !srcOK || !tgtOK || len(f.Waypoints) == 0 {
			continue
		}
		srcRect, tgtRect := src.Rect(), tgt.Rect()
		first, last := f.Waypoints[0], f.Waypoints[len(f.Waypoints)-1]

		if distanceToRectBorder(first, srcRect) <= DisconnectThreshold &&
			distanceToRectBorder(last, tgtRect) <= DisconnectThreshold {
			continue
		}

		if math.Abs(tgtRect.CenterY()-srcRect.CenterY()) <= SameRowTolerance {
			f.Waypoints = []geometry.Point{
				{X: srcRect.Right(), Y: srcRect.CenterY()},
				{X: tgtRect.Left(), Y: tgtRect.CenterY()},
			}
		} else if tgtRect.CenterX() > srcRect.CenterX() {
			f.Waypoints = geometry.BuildZShapeRoute(srcRect.Right(), srcRect.CenterY(), tgtRect.Left(), tgtRect.CenterY())
		} else {
			clamped := make([]geometry.Point, len(f.Waypoints))
			copy(clamped, f.Waypoints)
			clamped[0] = clampToBorder(clamped[0], srcRect)
			clamped[len(clamped)-1] = clampToBorder(clamped[len(clamped)-1], tgtRect)
			if len(clamped) > 2 {
				clamped[1] = reorthogonalize(clamped[0], clamped[1])
				n := len(clamped)
				clamped[n-2] = reorthogonalize(clamped[n-1], clamped[n-2])
			}
			f.Waypoints = clamped
		}
	}
}

func distanceToRectBorder(p geometry.Point, r geometry.Rect) float64 {
	dx := 0.0
	if p.X < r.Left() {
		dx = r.Left() - p.X
	} else if p.X > r.Right() {
		dx = p.X - r.Right()
	}
	dy := 0.0
	if p.Y < r.Top() {
		dy = r.Top() - p.Y
	} else if p.Y > r.Bottom() {
		dy = p.Y - r.Bottom()
	}
	return math.Hypot(dx, dy)
}

func clampToBorder(p geometry.Point, r geometry.Rect) geometry.Point {
	return geometry.Point{
		X: math.Min(math.Max(p.X, r.Left()), r.Right()),
		Y: math.Min(math.Max(p.Y, r.Top()), r.Bottom()),
	}
}

// reorthogonalize shifts adjacent so its segment to endpoint is strictly
// horizontal or vertical, whichever needs the smaller move.
func reorthogonalize(endpoint, adjacent geometry.Point) geometry.Point {
	dx := math.Abs(adjacent.X - endpoint.X)
	dy := math.Abs(adjacent.Y - endpoint.Y)
	if dx <= dy {
		adjacent.X = endpoint.X
	} else {
		adjacent.Y = endpoint.Y
	}
	return adjacent
}

// 4. Endpoint centre snap.
func snapEndpointsToCentre(registry *model.Registry, flows []*model.Element) {
	for _, f := range flows {
		if model.IsBoundaryEvent(elementTypeOf(registry, f.Source)) {
			continue
		}
		src, srcOK := registry.Get(f.Source)
		tgt, tgtOK := registry.Get(f.Target)
		if !srcOK || !tgtOK || len(f.Waypoints) < 2 {
			continue
		}
		wps := f.Waypoints
		first, last := wps[0], wps[len(wps)-1]
		dx := math.Abs(last.X - first.X)
		dy := math.Abs(last.Y - first.Y)
		srcRect, tgtRect := src.Rect(), tgt.Rect()

		if dx >= dy {
			snapFirst := snapAxis(wps[0].Y, srcRect.CenterY())
			if snapFirst != nil {
				wps[0].Y = *snapFirst
				if len(wps) > 2 && almostEqual(wps[1].Y, first.Y, 0.5) {
					wps[1].Y = *snapFirst
				}
			}
			snapLast := snapAxis(wps[len(wps)-1].Y, tgtRect.CenterY())
			if snapLast != nil {
				wps[len(wps)-1].Y = *snapLast
				if len(wps) > 2 && almostEqual(wps[len(wps)-2].Y, last.Y, 0.5) {
					wps[len(wps)-2].Y = *snapLast
				}
			}
		} else {
			snapFirst := snapAxis(wps[0].X, srcRect.CenterX())
			if snapFirst != nil {
				wps[0].X = *snapFirst
				if len(wps) > 2 && almostEqual(wps[1].X, first.X, 0.5) {
					wps[1].X = *snapFirst
				}
			}
			snapLast := snapAxis(wps[len(wps)-1].X, tgtRect.CenterX())
			if snapLast != nil {
				wps[len(wps)-1].X = *snapLast
				if len(wps) > 2 && almostEqual(wps[len(wps)-2].X, last.X, 0.5) {
					wps[len(wps)-2].X = *snapLast
				}
			}
		}
		f.Waypoints = wps
	}
}

// snapAxis returns a pointer to center when value differs from it by more
// than MovementThreshold and at most CenterSnapTolerance, nil otherwise.
func snapAxis(value, center float64) *float64 {
	d := math.Abs(value - center)
	if d > MovementThreshold && d <= CenterSnapTolerance {
		c := center
		return &c
	}
	return nil
}

func elementTypeOf(registry *model.Registry, id string) model.Type {
	if e, ok := registry.Get(id); ok {
		return e.Type
	}
	return ""
}

// 5. Overlapping collinear flow separation.
func separateOverlappingCollinearFlows(registry *model.Registry, flows []*model.Element) {
	const detourOffset = 20.0

	byGateway := make(map[string][]*model.Element)
	for _, f := range flows {
		if model.IsGateway(elementTypeOf(registry, f.Source)) {
			byGateway[f.Source] = append(byGateway[f.Source], f)
		}
	}

	for _, group := range byGateway {
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if len(a.Waypoints) < 2 || len(b.Waypoints) < 2 {
					continue
				}
				if !almostEqual(a.Waypoints[0].Y, b.Waypoints[0].Y, 1.0) {
					continue
				}
				if !horizontalOverlap(a.Waypoints, b.Waypoints, 10) {
					continue
				}

				src, srcOK := registry.Get(a.Source)
				tgt, tgtOK := registry.Get(a.Target)
				if !srcOK || !tgtOK {
					continue
				}
				srcRect, tgtRect := src.Rect(), tgt.Rect()
				if math.Abs(tgtRect.CenterY()-srcRect.CenterY()) > SameRowTolerance {
					continue
				}

				longer := a
				if routeLength(b.Waypoints) > routeLength(a.Waypoints) {
					longer = b
				}
				lSrc, lSrcOK := registry.Get(longer.Source)
				lTgt, lTgtOK := registry.Get(longer.Target)
				if !lSrcOK || !lTgtOK {
					continue
				}
				lSrcRect, lTgtRect := lSrc.Rect(), lTgt.Rect()
				upY := lSrcRect.CenterY() - detourOffset
				longer.Waypoints = []geometry.Point{
					{X: lSrcRect.Right(), Y: lSrcRect.CenterY()},
					{X: lSrcRect.Right(), Y: upY},
					{X: lTgtRect.Left(), Y: upY},
					{X: lTgtRect.Left(), Y: lTgtRect.CenterY()},
				}
			}
		}
	}
}

func horizontalOverlap(a, b []geometry.Point, minOverlap float64) bool {
	aMinX, aMaxX := segmentXRange(a)
	bMinX, bMaxX := segmentXRange(b)
	overlap := math.Min(aMaxX, bMaxX) - math.Max(aMinX, bMinX)
	return overlap > minOverlap
}

func segmentXRange(wps []geometry.Point) (float64, float64) {
	if len(wps) < 2 {
		return 0, 0
	}
	return math.Min(wps[0].X, wps[1].X), math.Max(wps[0].X, wps[1].X)
}

func routeLength(wps []geometry.Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(wps); i++ {
		total += math.Hypot(wps[i+1].X-wps[i].X, wps[i+1].Y-wps[i].Y)
	}
	return total
}

// 6. Loopback-below routing. Backward flows dip below the lowest element
// in the source's participant scope (whole diagram when unpooled) and come
// back up into the target.
func routeLoopbacksBelow(registry *model.Registry, flows []*model.Element) {
	const belowMargin = 40.0
	const horizontalMargin = 30.0

	for _, f := range flows {
		src, srcOK := registry.Get(f.Source)
		tgt, tgtOK := registry.Get(f.Target)
		if !srcOK || !tgtOK {
			continue
		}
		srcRect, tgtRect := src.Rect(), tgt.Rect()
		if tgtRect.Left() >= srcRect.Right()-DisconnectThreshold {
			continue // not backward
		}
		belowY := scopeBottom(registry, src) + belowMargin
		if len(f.Waypoints) > 0 && routeAlreadyBelow(f.Waypoints, belowY) {
			continue
		}

		if model.IsGateway(src.Type) {
			f.Waypoints = []geometry.Point{
				{X: srcRect.CenterX(), Y: srcRect.Bottom()},
				{X: srcRect.CenterX(), Y: belowY},
				{X: tgtRect.CenterX(), Y: belowY},
				{X: tgtRect.CenterX(), Y: tgtRect.Bottom()},
			}
		} else {
			exitX := srcRect.Right() + horizontalMargin
			entryX := tgtRect.Left() - horizontalMargin
			f.Waypoints = []geometry.Point{
				{X: srcRect.Right(), Y: srcRect.CenterY()},
				{X: exitX, Y: srcRect.CenterY()},
				{X: exitX, Y: belowY},
				{X: entryX, Y: belowY},
				{X: entryX, Y: tgtRect.CenterY()},
				{X: tgtRect.Left(), Y: tgtRect.CenterY()},
			}
		}
	}
}

// scopeBottom returns the bottom-most edge of the layoutable shapes sharing
// el's enclosing participant, or of every layoutable shape when el has no
// participant ancestor.
func scopeBottom(registry *model.Registry, el *model.Element) float64 {
	scope := participantOf(registry, el)
	maxBottom := 0.0
	for _, e := range registry.GetAll() {
		if !model.IsLayoutableShape(e.Type) {
			continue
		}
		if scope != "" && participantOf(registry, e) != scope {
			continue
		}
		if b := e.Rect().Bottom(); b > maxBottom {
			maxBottom = b
		}
	}
	return maxBottom
}

func participantOf(registry *model.Registry, el *model.Element) string {
	for cur := el; cur != nil; {
		if model.IsParticipant(cur.Type) {
			return cur.ID
		}
		if cur.Parent == "" {
			return ""
		}
		cur = registry.MustGet(cur.Parent)
	}
	return ""
}

func routeAlreadyBelow(wps []geometry.Point, belowY float64) bool {
	for _, p := range wps {
		if p.Y >= belowY-1 {
			return true
		}
	}
	return false
}

// 7. Micro-bend removal / collinear cleanup.
func cleanupCollinearPoints(registry *model.Registry, flows []*model.Element) {
	for _, f := range flows {
		if len(f.Waypoints) < 3 {
			continue
		}
		f.Waypoints = geometry.RemoveCollinearPoints(f.Waypoints)
	}
}
