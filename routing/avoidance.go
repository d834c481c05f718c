package routing

import (
	"math"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
	"github.com/bpmnlayout/engine/spatialindex"
)

// ApplyAvoidance builds a single global obstacle index from every
// layoutable shape, then for each sequence flow whose endpoints are not
// gateways, detours any segment that crosses a shape other than its own
// source/target/attached-boundary-events/artifacts/non-siblings. Gateway
// fan-in/out flows are left alone: they naturally pass near branch
// elements, and rerouting them creates more crossings than it removes.
func ApplyAvoidance(registry *model.Registry, modeller model.Modeller) {
	shapes := registry.Filter(func(e *model.Element) bool { return model.IsLayoutableShape(e.Type) })
	obstacles := make([]spatialindex.Obstacle, 0, len(shapes))
	for _, s := range shapes {
		obstacles = append(obstacles, spatialindex.Obstacle{ID: s.ID, Rect: s.Rect()})
	}
	index := spatialindex.Build(obstacles, spatialindex.DefaultCellSize)

	for _, f := range sequenceFlows(registry) {
		avoidOne(registry, modeller, index, shapes, f)
	}
}

func avoidOne(registry *model.Registry, modeller model.Modeller, index *spatialindex.Index, shapes []*model.Element, conn *model.Element) {
	src, srcOK := registry.Get(conn.Source)
	tgt, tgtOK := registry.Get(conn.Target)
	if !srcOK || !tgtOK || len(conn.Waypoints) < 2 {
		return
	}
	if model.IsGateway(src.Type) || model.IsGateway(tgt.Type) {
		return
	}

	excluded := excludedIDs(registry, shapes, src, tgt)
	wps := append([]geometry.Point(nil), conn.Waypoints...)

	for iter := 0; iter < MaxAvoidanceIterations; iter++ {
		detoured := false
		for i := 0; i+1 < len(wps); i++ {
			p1, p2 := wps[i], wps[i+1]
			bbox := segmentBBox(p1, p2).Expand(AvoidanceMargin)
			var hit *geometry.Rect
			for _, ob := range index.GetCandidates(bbox) {
				if excluded[ob.ID] {
					continue
				}
				expanded := ob.Rect.Expand(AvoidanceMargin)
				if geometry.SegmentIntersectsRect(p1, p2, expanded) {
					r := expanded
					hit = &r
					break
				}
			}
			if hit == nil {
				continue
			}

			detour := computeDetour(p1, p2, *hit, index, excluded)
			rebuilt := make([]geometry.Point, 0, len(wps)+len(detour))
			rebuilt = append(rebuilt, wps[:i+1]...)
			rebuilt = append(rebuilt, detour...)
			rebuilt = append(rebuilt, wps[i+1:]...)
			wps = rebuilt
			detoured = true
			break
		}
		if !detoured {
			break
		}
	}

	wps = geometry.DeduplicateWaypoints(wps, geometry.DefaultTolerance)
	for _, p := range wps {
		if isNaN(p.X) || isNaN(p.Y) {
			return // non-fatal: leave original waypoints untouched
		}
	}
	_ = modeller.UpdateWaypoints(conn, wps)
}

func isNaN(f float64) bool { return f != f }

// excludedIDs returns the set of obstacle IDs avoidance must never detour
// around for this connection: the source, target, any boundary event hosted
// on either, artifacts, and (when source/target share a subprocess parent)
// any shape not a direct child of that parent.
func excludedIDs(registry *model.Registry, shapes []*model.Element, src, tgt *model.Element) map[string]bool {
	excluded := map[string]bool{src.ID: true, tgt.ID: true}
	for _, s := range shapes {
		if model.IsBoundaryEvent(s.Type) && (s.Host == src.ID || s.Host == tgt.ID) {
			excluded[s.ID] = true
		}
		if model.IsArtifact(s.Type) {
			excluded[s.ID] = true
		}
	}

	if src.Parent != "" && src.Parent == tgt.Parent {
		if parent, ok := registry.Get(src.Parent); ok && parent.Type == model.TypeSubProcess {
			for _, s := range shapes {
				if s.Parent != src.Parent {
					excluded[s.ID] = true
				}
			}
		}
	}

	return excluded
}

func segmentBBox(p1, p2 geometry.Point) geometry.Rect {
	minX, maxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	minY, maxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	return geometry.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// computeDetour builds an H-V-H or V-H-V detour around obstacle for the
// segment p1->p2, choosing the side (above/below or left/right) whose
// detour crosses fewer other obstacles; ties favor above/left.
func computeDetour(p1, p2 geometry.Point, obstacle geometry.Rect, index *spatialindex.Index, excluded map[string]bool) []geometry.Point {
	horizontal := math.Abs(p2.X-p1.X) >= math.Abs(p2.Y-p1.Y)

	if horizontal {
		minX, maxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
		above := []geometry.Point{
			{X: minX, Y: obstacle.Top() - AvoidanceMargin},
			{X: maxX, Y: obstacle.Top() - AvoidanceMargin},
		}
		below := []geometry.Point{
			{X: minX, Y: obstacle.Bottom() + AvoidanceMargin},
			{X: maxX, Y: obstacle.Bottom() + AvoidanceMargin},
		}
		if crossingCount(p1, above[0], index, excluded)+crossingCount(above[1], p2, index, excluded) <=
			crossingCount(p1, below[0], index, excluded)+crossingCount(below[1], p2, index, excluded) {
			return []geometry.Point{{X: p1.X, Y: above[0].Y}, above[0], above[1], {X: p2.X, Y: above[1].Y}}
		}
		return []geometry.Point{{X: p1.X, Y: below[0].Y}, below[0], below[1], {X: p2.X, Y: below[1].Y}}
	}

	minY, maxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)
	left := []geometry.Point{
		{X: obstacle.Left() - AvoidanceMargin, Y: minY},
		{X: obstacle.Left() - AvoidanceMargin, Y: maxY},
	}
	right := []geometry.Point{
		{X: obstacle.Right() + AvoidanceMargin, Y: minY},
		{X: obstacle.Right() + AvoidanceMargin, Y: maxY},
	}
	if crossingCount(p1, left[0], index, excluded)+crossingCount(left[1], p2, index, excluded) <=
		crossingCount(p1, right[0], index, excluded)+crossingCount(right[1], p2, index, excluded) {
		return []geometry.Point{{X: left[0].X, Y: p1.Y}, left[0], left[1], {X: left[1].X, Y: p2.Y}}
	}
	return []geometry.Point{{X: right[0].X, Y: p1.Y}, right[0], right[1], {X: right[1].X, Y: p2.Y}}
}

func crossingCount(p1, p2 geometry.Point, index *spatialindex.Index, excluded map[string]bool) int {
	bbox := segmentBBox(p1, p2).Expand(AvoidanceMargin)
	count := 0
	for _, ob := range index.GetCandidates(bbox) {
		if excluded[ob.ID] {
			continue
		}
		if geometry.SegmentIntersectsRect(p1, p2, ob.Rect.Expand(AvoidanceMargin)) {
			count++
		}
	}
	return count
}
