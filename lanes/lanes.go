// Package lanes covers lane snapshot capture, post-oracle band assignment
// (including lane-crossing-minimizing reorder), cross-lane staircase
// routing, and intra-lane waypoint clamping.
package lanes

import (
	"math"
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/model"
)

const (
	MinLaneHeight    = 80.0
	LaneVertPadding  = 20.0
	PoolLabelBand    = 30.0
	intraLaneMargin  = 10.0
	sameSegmentDelta = 2.0
)

// Snapshot is an immutable pre-layout capture of one lane's original Y and
// member node set, taken before any geometry mutation.
type Snapshot struct {
	LaneID    string
	OriginalY float64
	Members   map[string]bool
}

// CaptureSnapshots records, for every lane in the registry, its id,
// original Y, and member set drawn from its business object's
// FlowNodeRefs.
func CaptureSnapshots(registry *model.Registry) []Snapshot {
	laneEls := registry.Filter(func(e *model.Element) bool { return model.IsLane(e.Type) })
	sort.Slice(laneEls, func(i, j int) bool { return laneEls[i].ID < laneEls[j].ID })

	snapshots := make([]Snapshot, 0, len(laneEls))
	for _, l := range laneEls {
		members := make(map[string]bool)
		if l.BusinessObject != nil {
			for _, ref := range l.BusinessObject.FlowNodeRefs {
				members[ref] = true
			}
		}
		snapshots = append(snapshots, Snapshot{LaneID: l.ID, OriginalY: l.Y, Members: members})
	}
	return snapshots
}

// ApplyBands runs the post-oracle band assignment for every
// participant pool that owns lanes: order lanes top-to-bottom, assign
// orphans, optionally reorder to minimize lane-crossing cost, compute and
// lay out band heights, recentre member shapes, and resize lanes/pool to
// match.
func ApplyBands(registry *model.Registry, modeller model.Modeller, snapshots []Snapshot, optimize bool) {
	pools := registry.Filter(func(e *model.Element) bool { return model.IsParticipant(e.Type) })
	snapByLane := make(map[string]Snapshot, len(snapshots))
	for _, s := range snapshots {
		snapByLane[s.LaneID] = s
	}

	for _, pool := range pools {
		laneEls := registry.Children(pool.ID)
		lanes := make([]*model.Element, 0, len(laneEls))
		for _, l := range laneEls {
			if model.IsLane(l.Type) {
				lanes = append(lanes, l)
			}
		}
		if len(lanes) == 0 {
			continue
		}
		applyBandsForPool(registry, modeller, pool, lanes, snapByLane, optimize)
	}
}

func applyBandsForPool(registry *model.Registry, modeller model.Modeller, pool *model.Element, lanes []*model.Element, snapByLane map[string]Snapshot, optimize bool) {
	sort.Slice(lanes, func(i, j int) bool {
		return snapByLane[lanes[i].ID].OriginalY < snapByLane[lanes[j].ID].OriginalY
	})

	members := make([][]*model.Element, len(lanes))
	assigned := make(map[string]bool)
	nodes := registry.Filter(func(e *model.Element) bool {
		return model.IsLayoutableShape(e.Type) && isDescendantOf(registry, e, pool.ID)
	})

	for i, l := range lanes {
		for _, n := range nodes {
			if snapByLane[l.ID].Members[n.ID] {
				members[i] = append(members[i], n)
				assigned[n.ID] = true
			}
		}
	}

	for _, n := range nodes {
		if assigned[n.ID] {
			continue
		}
		best := nearestLane(lanes, n)
		members[best] = append(members[best], n)
	}

	if optimize && len(lanes) > 1 {
		order := optimalLaneOrder(registry, members, len(lanes) <= 8)
		lanes = reorder(lanes, order)
		members = reorderMembers(members, order)
	}

	bandTop := pool.Y + PoolLabelBand
	heights := make([]float64, len(lanes))
	for i, mem := range members {
		heights[i] = math.Max(contentHeight(mem)+2*LaneVertPadding, MinLaneHeight)
	}

	y := bandTop
	for i, l := range lanes {
		bandCenterY := y + heights[i]/2
		shiftMembersToCenter(modeller, members[i], bandCenterY)

		rect := geometry.Rect{X: pool.X + laneLabelBand(pool), Y: y, Width: pool.Width - laneLabelBand(pool), Height: heights[i]}
		modeller.SetDirectGeometry(l, rect)
		y += heights[i]
	}

	totalHeight := y - pool.Y
	modeller.SetDirectGeometry(pool, geometry.Rect{X: pool.X, Y: pool.Y, Width: pool.Width, Height: totalHeight})

	// second pass: counter any pool-resize redistribution.
	y = bandTop
	for i, l := range lanes {
		rect := geometry.Rect{X: pool.X + laneLabelBand(pool), Y: y, Width: pool.Width - laneLabelBand(pool), Height: heights[i]}
		modeller.SetDirectGeometry(l, rect)
		y += heights[i]
	}
}

func laneLabelBand(pool *model.Element) float64 { return math.Min(PoolLabelBand, pool.Width/10) }

func isDescendantOf(registry *model.Registry, e *model.Element, ancestorID string) bool {
	cur := e
	for cur != nil && cur.Parent != "" {
		if cur.Parent == ancestorID {
			return true
		}
		next, ok := registry.Get(cur.Parent)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

func nearestLane(lanes []*model.Element, n *model.Element) int {
	best, bestDist := 0, math.Inf(1)
	cy := n.Rect().CenterY()
	for i, l := range lanes {
		d := math.Abs(l.Rect().CenterY() - cy)
		if d < bestDist {
			bestDist, best = d, i
		}
	}
	return best
}

func contentHeight(members []*model.Element) float64 {
	if len(members) == 0 {
		return 0
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, m := range members {
		r := m.Rect()
		if r.Top() < minY {
			minY = r.Top()
		}
		if r.Bottom() > maxY {
			maxY = r.Bottom()
		}
	}
	return maxY - minY
}

// shiftMembersToCenter moves every member in Y uniformly so the median
// Y-centre lands on bandCenterY.
func shiftMembersToCenter(modeller model.Modeller, members []*model.Element, bandCenterY float64) {
	if len(members) == 0 {
		return
	}
	centers := make([]float64, len(members))
	for i, m := range members {
		centers[i] = m.Rect().CenterY()
	}
	sort.Float64s(centers)
	median := centers[len(centers)/2]
	delta := bandCenterY - median
	if math.Abs(delta) < 0.5 {
		return
	}
	_ = modeller.MoveElements(members, geometry.Point{X: 0, Y: delta})
}

func reorder(lanes []*model.Element, order []int) []*model.Element {
	out := make([]*model.Element, len(lanes))
	for i, idx := range order {
		out[i] = lanes[idx]
	}
	return out
}

func reorderMembers(members [][]*model.Element, order []int) [][]*model.Element {
	out := make([][]*model.Element, len(members))
	for i, idx := range order {
		out[i] = members[idx]
	}
	return out
}

// optimalLaneOrder returns a permutation of lane indices minimizing the sum
// over inter-lane sequence flows of |source-lane-index - target-lane-index|.
// Brute force for <= 8 lanes; greedy adjacent swaps to a local minimum
// otherwise.
func optimalLaneOrder(registry *model.Registry, members [][]*model.Element, bruteForce bool) []int {
	n := len(members)
	laneOf := make(map[string]int)
	for i, mem := range members {
		for _, m := range mem {
			laneOf[m.ID] = i
		}
	}
	flows := registry.Filter(func(e *model.Element) bool { return e.Type == model.TypeSequenceFlow })

	cost := func(order []int) int {
		pos := make([]int, n)
		for i, idx := range order {
			pos[idx] = i
		}
		total := 0
		for _, f := range flows {
			sl, sOK := laneOf[f.Source]
			tl, tOK := laneOf[f.Target]
			if !sOK || !tOK {
				continue
			}
			d := pos[sl] - pos[tl]
			if d < 0 {
				d = -d
			}
			total += d
		}
		return total
	}

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}

	if bruteForce {
		best := append([]int(nil), identity...)
		bestCost := cost(best)
		permute(identity, func(p []int) {
			c := cost(p)
			if c < bestCost {
				bestCost = c
				best = append([]int(nil), p...)
			}
		})
		return best
	}

	order := append([]int(nil), identity...)
	curCost := cost(order)
	improved := true
	for improved {
		improved = false
		for i := 0; i+1 < n; i++ {
			order[i], order[i+1] = order[i+1], order[i]
			if c := cost(order); c < curCost {
				curCost = c
				improved = true
			} else {
				order[i], order[i+1] = order[i+1], order[i]
			}
		}
	}
	return order
}

func permute(items []int, visit func([]int)) {
	var helper func(k int)
	helper = func(k int) {
		if k == len(items) {
			visit(items)
			return
		}
		for i := k; i < len(items); i++ {
			items[k], items[i] = items[i], items[k]
			helper(k + 1)
			items[k], items[i] = items[i], items[k]
		}
	}
	helper(0)
}
