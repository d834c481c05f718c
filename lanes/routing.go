package lanes

import (
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

// laneIndex holds a single pool's lanes sorted top to bottom and maps every
// flow-node id listed in a lane's current FlowNodeRefs to that lane's index.
// Nodes listed in no lane's FlowNodeRefs have no entry.
type laneIndex struct {
	lanes   []*model.Element
	indexOf map[string]int
}

func buildLaneIndex(registry *model.Registry, pool *model.Element) *laneIndex {
	laneEls := registry.Children(pool.ID)
	var lanes []*model.Element
	for _, l := range laneEls {
		if model.IsLane(l.Type) {
			lanes = append(lanes, l)
		}
	}
	sort.Slice(lanes, func(i, j int) bool { return lanes[i].Rect().Top() < lanes[j].Rect().Top() })

	idx := &laneIndex{lanes: lanes, indexOf: make(map[string]int)}
	for i, l := range lanes {
		for _, ref := range laneMemberRefs(l) {
			idx.indexOf[ref] = i
		}
	}
	return idx
}

func laneMemberRefs(l *model.Element) []string {
	if l.BusinessObject == nil {
		return nil
	}
	return l.BusinessObject.FlowNodeRefs
}

// RouteCrossLaneStaircases reroutes cross-lane flows:
// for each sequence flow whose endpoints sit in different lanes of
// the same pool with target right of source, build a Z (single lane
// boundary crossed) or a multi-step staircase (one vertical transition per
// crossed boundary, evenly spaced in X).
func RouteCrossLaneStaircases(registry *model.Registry, modeller model.Modeller) {
	pools := registry.Filter(func(e *model.Element) bool { return model.IsParticipant(e.Type) })
	for _, pool := range pools {
		idx := buildLaneIndex(registry, pool)
		if len(idx.lanes) < 2 {
			continue
		}
		flows := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeSequenceFlow })
		for _, f := range flows {
			srcLane, srcOK := idx.indexOf[f.Source]
			tgtLane, tgtOK := idx.indexOf[f.Target]
			if !srcOK || !tgtOK || srcLane == tgtLane {
				continue
			}
			src, sOK := registry.Get(f.Source)
			tgt, tOK := registry.Get(f.Target)
			if !sOK || !tOK || tgt.Rect().CenterX() <= src.Rect().CenterX() {
				continue
			}

			crossed := tgtLane - srcLane
			if crossed < 0 {
				crossed = -crossed
			}
			srcRect, tgtRect := src.Rect(), tgt.Rect()

			if crossed == 1 {
				wps := geometry.BuildZShapeRoute(srcRect.Right(), srcRect.CenterY(), tgtRect.Left(), tgtRect.CenterY())
				_ = modeller.UpdateWaypoints(f, wps)
				continue
			}

			wps := buildStaircase(srcRect, tgtRect, crossed)
			_ = modeller.UpdateWaypoints(f, wps)
		}
	}
}

func buildStaircase(srcRect, tgtRect geometry.Rect, steps int) []geometry.Point {
	totalDX := tgtRect.Left() - srcRect.Right()
	stepDX := totalDX / float64(steps+1)
	dy := (tgtRect.CenterY() - srcRect.CenterY()) / float64(steps)

	wps := []geometry.Point{{X: srcRect.Right(), Y: srcRect.CenterY()}}
	curX := srcRect.Right()
	curY := srcRect.CenterY()
	for i := 0; i < steps; i++ {
		curX += stepDX
		wps = append(wps, geometry.Point{X: curX, Y: curY})
		curY += dy
		wps = append(wps, geometry.Point{X: curX, Y: curY})
	}
	wps = append(wps, geometry.Point{X: tgtRect.Left(), Y: tgtRect.CenterY()})
	return geometry.DeduplicateWaypoints(wps, geometry.DefaultTolerance)
}

// ClampIntraLane keeps same-lane routes inside their lane: for flows whose
// source and target share a lane, clamp any waypoint Y outside
// [lane_top+margin, lane_bottom-margin], grouping consecutive waypoints
// within sameSegmentDelta of each other into one horizontal segment clamped
// to their shared average Y.
func ClampIntraLane(registry *model.Registry, modeller model.Modeller) {
	pools := registry.Filter(func(e *model.Element) bool { return model.IsParticipant(e.Type) })
	for _, pool := range pools {
		idx := buildLaneIndex(registry, pool)
		flows := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeSequenceFlow })
		for _, f := range flows {
			srcLane, srcOK := idx.indexOf[f.Source]
			tgtLane, tgtOK := idx.indexOf[f.Target]
			if !srcOK || !tgtOK || srcLane != tgtLane || len(f.Waypoints) == 0 {
				continue
			}
			lane := idx.lanes[srcLane]
			rect := lane.Rect()
			lo, hi := rect.Top()+intraLaneMargin, rect.Bottom()-intraLaneMargin

			wps := clampGrouped(f.Waypoints, lo, hi)
			_ = modeller.UpdateWaypoints(f, wps)
		}
	}
}

func clampGrouped(wps []geometry.Point, lo, hi float64) []geometry.Point {
	out := make([]geometry.Point, len(wps))
	copy(out, wps)

	i := 0
	for i < len(out) {
		j := i
		for j+1 < len(out) && math.Abs(out[j+1].Y-out[i].Y) <= sameSegmentDelta {
			j++
		}
		sum := 0.0
		for k := i; k <= j; k++ {
			sum += out[k].Y
		}
		avg := sum / float64(j-i+1)
		clamped := math.Min(math.Max(avg, lo), hi)
		for k := i; k <= j; k++ {
			out[k].Y = clamped
		}
		i = j + 1
	}
	return out
}
