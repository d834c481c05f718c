package oracle

import (
	"sort"

	"github.com/bpmnlayout/engine/geometry"
	"github.com/bpmnlayout/engine/graphbuild"
)

// assignLayers runs longest-path layering over children/edges, ignoring
// edges marked BackEdge (the cycle breaker has already chosen those as the
// ones to reverse, so they must not participate in forward layering).
// Returns node ID -> layer index (0-based, increasing in the flow
// direction).
func assignLayers(children []*graphbuild.Node, edges []*graphbuild.Edge) map[string]int {
	indegree := make(map[string]int, len(children))
	forward := make(map[string][]string)
	for _, c := range children {
		indegree[c.ID] = 0
	}
	for _, e := range edges {
		if e.BackEdge || len(e.Sources) != 1 || len(e.Targets) != 1 {
			continue
		}
		src, tgt := e.Sources[0], e.Targets[0]
		if _, ok := indegree[src]; !ok {
			continue
		}
		if _, ok := indegree[tgt]; !ok {
			continue
		}
		forward[src] = append(forward[src], tgt)
		indegree[tgt]++
	}

	layer := make(map[string]int, len(children))
	var queue []string
	for _, c := range children {
		if indegree[c.ID] == 0 {
			layer[c.ID] = 0
			queue = append(queue, c.ID)
		}
	}
	sort.Strings(queue)

	// Kahn's algorithm, propagating layer = max(predecessor layers) + 1.
	remaining := make(map[string]int, len(indegree))
	for k, v := range indegree {
		remaining[k] = v
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, nbr := range forward[id] {
			if layer[id]+1 > layer[nbr] {
				layer[nbr] = layer[id] + 1
			}
			remaining[nbr]--
			if remaining[nbr] == 0 {
				queue = append(queue, nbr)
				sort.Strings(queue)
			}
		}
	}

	// Anything left unlayered (pure cycle with no detected back edge, or an
	// isolated node never reached) defaults to layer 0.
	for _, c := range children {
		if _, ok := layer[c.ID]; !ok {
			layer[c.ID] = 0
		}
	}

	return layer
}

// minimizeCrossings groups children into layer buckets ordered by layer
// index, then repeatedly reorders each layer by the barycenter of its
// neighbors in the adjacent layer (alternating forward/backward sweeps),
// for up to `thoroughness` sweeps. Ties fall back to the node's original
// (sorted-ID) position, keeping the result deterministic.
func minimizeCrossings(layerOf map[string]int, edges []*graphbuild.Edge, thoroughness int) [][]string {
	maxLayer := 0
	for _, l := range layerOf {
		if l > maxLayer {
			maxLayer = l
		}
	}
	layers := make([][]string, maxLayer+1)
	for id, l := range layerOf {
		layers[l] = append(layers[l], id)
	}
	for i := range layers {
		sort.Strings(layers[i])
	}

	neighbors := make(map[string][]string)
	for _, e := range edges {
		if len(e.Sources) != 1 || len(e.Targets) != 1 {
			continue
		}
		src, tgt := e.Sources[0], e.Targets[0]
		neighbors[src] = append(neighbors[src], tgt)
		neighbors[tgt] = append(neighbors[tgt], src)
	}

	positionOf := func(layerIdx int) map[string]int {
		pos := make(map[string]int, len(layers[layerIdx]))
		for i, id := range layers[layerIdx] {
			pos[id] = i
		}
		return pos
	}

	if thoroughness <= 0 {
		thoroughness = 1
	}
	for sweep := 0; sweep < thoroughness; sweep++ {
		forward := sweep%2 == 0
		if forward {
			for l := 1; l <= maxLayer; l++ {
				barycenterSort(layers[l], neighbors, positionOf(l-1))
			}
		} else {
			for l := maxLayer - 1; l >= 0; l-- {
				barycenterSort(layers[l], neighbors, positionOf(l+1))
			}
		}
	}

	return layers
}

func barycenterSort(layer []string, neighbors map[string][]string, refPos map[string]int) {
	score := make(map[string]float64, len(layer))
	for _, id := range layer {
		nbrs := neighbors[id]
		if len(nbrs) == 0 {
			score[id] = float64(refPos[id])
			continue
		}
		sum, n := 0.0, 0.0
		for _, nb := range nbrs {
			if p, ok := refPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			score[id] = 0
		} else {
			score[id] = sum / n
		}
	}
	sort.SliceStable(layer, func(i, j int) bool {
		if score[layer[i]] != score[layer[j]] {
			return score[layer[i]] < score[layer[j]]
		}
		return layer[i] < layer[j] // deterministic tiebreak
	})
}

// placeNodes assigns absolute (container-relative) top-left positions:
// layer index determines the position along the flow axis (layer spacing
// plus the widest/tallest node seen so far along that axis), and
// within-layer order determines the position along the cross axis (node
// spacing).
func placeNodes(layers [][]string, children []*graphbuild.Node, opts Options) map[string]geometry.Point {
	byID := make(map[string]*graphbuild.Node, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}

	positions := make(map[string]geometry.Point, len(children))
	axisOffset := 0.0
	vertical := opts.Direction == DirectionDown || opts.Direction == DirectionUp

	for _, layer := range layers {
		maxAlongAxis := 0.0
		crossOffset := 0.0
		for _, id := range layer {
			n := byID[id]
			var p geometry.Point
			if vertical {
				p = geometry.Point{X: crossOffset, Y: axisOffset}
				crossOffset += n.Width + opts.NodeNodeSpacing
				if n.Height > maxAlongAxis {
					maxAlongAxis = n.Height
				}
			} else {
				p = geometry.Point{X: axisOffset, Y: crossOffset}
				crossOffset += n.Height + opts.NodeNodeSpacing
				if n.Width > maxAlongAxis {
					maxAlongAxis = n.Width
				}
			}
			positions[id] = p
		}
		axisOffset += maxAlongAxis + opts.NodeNodeSpacingBetweenLayers
	}

	if opts.Direction == DirectionLeft || opts.Direction == DirectionUp {
		positions = mirrorAxis(positions, children, vertical)
	}

	return positions
}

// mirrorAxis flips the flow axis so LEFT/UP directions lay out in the
// opposite sense from RIGHT/DOWN without duplicating placeNodes.
func mirrorAxis(positions map[string]geometry.Point, children []*graphbuild.Node, vertical bool) map[string]geometry.Point {
	byID := make(map[string]*graphbuild.Node, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}
	extent := 0.0
	for id, p := range positions {
		n := byID[id]
		if vertical {
			if p.Y+n.Height > extent {
				extent = p.Y + n.Height
			}
		} else if p.X+n.Width > extent {
			extent = p.X + n.Width
		}
	}
	out := make(map[string]geometry.Point, len(positions))
	for id, p := range positions {
		n := byID[id]
		if vertical {
			out[id] = geometry.Point{X: p.X, Y: extent - p.Y - n.Height}
		} else {
			out[id] = geometry.Point{X: extent - p.X - n.Width, Y: p.Y}
		}
	}
	return out
}
