// Package geometry provides the pure, dependency-free primitives the layout
// pipeline builds every pass on top of: points, rectangles, segment/rect
// intersection, orthogonal waypoint construction, and waypoint cleanup.
//
// Every function here is total: empty or degenerate input produces an empty
// or degenerate result, never a panic. Callers that need validation own it.
package geometry

import "math"

// DefaultTolerance is the pixel tolerance most geometry comparisons use
// unless a pass carries its own.
const DefaultTolerance = 1.0

// Point is a single coordinate in the diagram plane.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box in the diagram plane.
type Rect struct {
	X, Y, Width, Height float64
}

// Left, Right, Top, Bottom, CenterX, CenterY return the four edges and
// centre of a Rect.
func (r Rect) Left() float64    { return r.X }
func (r Rect) Right() float64   { return r.X + r.Width }
func (r Rect) Top() float64     { return r.Y }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }
func (r Rect) Center() Point    { return Point{r.CenterX(), r.CenterY()} }

// Expand returns a copy of r grown by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Contains reports whether p lies within r (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Overlaps reports whether r and o share any area larger than tolerance.
func (r Rect) Overlaps(o Rect, tolerance float64) bool {
	return r.Left() < o.Right()-tolerance &&
		r.Right() > o.Left()+tolerance &&
		r.Top() < o.Bottom()-tolerance &&
		r.Bottom() > o.Top()+tolerance
}

// almostEqual reports whether a and b differ by no more than tol.
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// SegmentIntersectsRect reports whether the orthogonal or near-orthogonal
// segment p1→p2 crosses the interior of rect. Segments are tested as
// bounding boxes (both H and V segments reduce to a degenerate rectangle),
// which is sufficient since every segment the routing passes build is axis
// aligned after snapping.
func SegmentIntersectsRect(p1, p2 Point, rect Rect) bool {
	segMinX, segMaxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	segMinY, segMaxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)

	return segMinX < rect.Right() && segMaxX > rect.Left() &&
		segMinY < rect.Bottom() && segMaxY > rect.Top()
}

// BuildOrthogonalWaypoints returns a 2- or 3-point route between src and
// tgt: straight if the two points are axis-aligned within 2px, otherwise an
// L-shaped bend along the dominant axis (the axis with the larger delta
// bends first, matching how a horizontal-flowing diagram prefers to exit
// horizontally before turning).
func BuildOrthogonalWaypoints(src, tgt Point) []Point {
	const axisAlignTolerance = 2.0
	dx := tgt.X - src.X
	dy := tgt.Y - src.Y

	if math.Abs(dy) <= axisAlignTolerance || math.Abs(dx) <= axisAlignTolerance {
		return []Point{src, tgt}
	}

	if math.Abs(dx) >= math.Abs(dy) {
		// bend horizontally first: go to (tgt.X, src.Y) then down/up to tgt
		return []Point{src, {X: tgt.X, Y: src.Y}, tgt}
	}
	// bend vertically first: go to (src.X, tgt.Y) then across to tgt
	return []Point{src, {X: src.X, Y: tgt.Y}, tgt}
}

// BuildZShapeRoute returns the canonical 4-waypoint Z route exiting a
// shape's right edge and entering another's left edge, bending at the
// horizontal midpoint between the two.
func BuildZShapeRoute(srcRight, srcCY, tgtLeft, tgtCY float64) []Point {
	midX := (srcRight + tgtLeft) / 2
	return []Point{
		{X: srcRight, Y: srcCY},
		{X: midX, Y: srcCY},
		{X: midX, Y: tgtCY},
		{X: tgtLeft, Y: tgtCY},
	}
}

// DeduplicateWaypoints removes consecutive near-duplicate points (within
// tolerance) and then collapses A→B→A oscillations, repeating up to 20
// sweeps.
func DeduplicateWaypoints(wps []Point, tolerance float64) []Point {
	if len(wps) == 0 {
		return wps
	}

	out := make([]Point, 0, len(wps))
	out = append(out, wps[0])
	for _, p := range wps[1:] {
		last := out[len(out)-1]
		if almostEqual(p.X, last.X, tolerance) && almostEqual(p.Y, last.Y, tolerance) {
			continue
		}
		out = append(out, p)
	}

	const maxSweeps = 20
	for sweep := 0; sweep < maxSweeps; sweep++ {
		changed := false
		cleaned := out[:0:0]
		i := 0
		for i < len(out) {
			if i+2 < len(out) &&
				almostEqual(out[i].X, out[i+2].X, tolerance) &&
				almostEqual(out[i].Y, out[i+2].Y, tolerance) {
				// A→B→A oscillation: drop B and A's duplicate, keep a single A
				cleaned = append(cleaned, out[i])
				i += 3
				changed = true
				continue
			}
			cleaned = append(cleaned, out[i])
			i++
		}
		out = cleaned
		if !changed {
			break
		}
	}

	return out
}

// RemoveCollinearPoints deletes a middle point whenever prev, curr, and next
// share an X or a Y coordinate within tolerance, simplifying micro-bends
// left behind by earlier routing passes.
func RemoveCollinearPoints(wps []Point) []Point {
	const tol = DefaultTolerance
	if len(wps) < 3 {
		return wps
	}

	out := make([]Point, 0, len(wps))
	out = append(out, wps[0])
	for i := 1; i < len(wps)-1; i++ {
		prev, curr, next := wps[i-1], wps[i], wps[i+1]
		sameX := almostEqual(prev.X, curr.X, tol) && almostEqual(curr.X, next.X, tol)
		sameY := almostEqual(prev.Y, curr.Y, tol) && almostEqual(curr.Y, next.Y, tol)
		if sameX || sameY {
			continue // drop curr: it adds no geometric information
		}
		out = append(out, curr)
	}
	out = append(out, wps[len(wps)-1])

	return out
}

// IsOrthogonal reports whether every segment of wps is horizontal or
// vertical within tolerance.
func IsOrthogonal(wps []Point, tolerance float64) bool {
	for i := 0; i+1 < len(wps); i++ {
		dx := math.Abs(wps[i+1].X - wps[i].X)
		dy := math.Abs(wps[i+1].Y - wps[i].Y)
		if dx > tolerance && dy > tolerance {
			return false
		}
	}
	return true
}

// SnapNearOrthogonal rewrites each segment whose delta on one axis is below
// snapTolerance to be exactly axis aligned, in place conceptually (returns a
// new slice).
func SnapNearOrthogonal(wps []Point, snapTolerance float64) []Point {
	if len(wps) < 2 {
		return wps
	}
	out := make([]Point, len(wps))
	copy(out, wps)
	for i := 0; i+1 < len(out); i++ {
		dx := out[i+1].X - out[i].X
		dy := out[i+1].Y - out[i].Y
		if math.Abs(dx) < snapTolerance && dx != 0 {
			out[i+1].X = out[i].X
		} else if math.Abs(dy) < snapTolerance && dy != 0 {
			out[i+1].Y = out[i].Y
		}
	}
	return out
}

// RoundToGrid rounds v to the nearest multiple of quantum.
func RoundToGrid(v float64, quantum float64) float64 {
	if quantum <= 0 {
		return v
	}
	return math.Round(v/quantum) * quantum
}
