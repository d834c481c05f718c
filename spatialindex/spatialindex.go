// Package spatialindex provides a uniform-grid obstacle index used by
// element avoidance (routing) to query "which shapes are near this
// bounding box" in roughly constant time instead of scanning every shape.
//
// Cells are unbounded in both directions, keyed by a (col, row) pair rather
// than a fixed width/height grid, since a diagram's extent is not known up
// front.
package spatialindex

import (
	"github.com/bpmnlayout/engine/geometry"
)

// DefaultCellSize is calibrated to a typical flow-node footprint (a 100x80
// task plus spacing), so a query rarely touches more than a handful of
// cells.
const DefaultCellSize = 120.0

type cellKey struct{ col, row int }

// Obstacle is a rectangle carrying an opaque ID the caller can use to map
// query results back to its own element.
type Obstacle struct {
	ID   string
	Rect geometry.Rect
}

// Index is a uniform-grid spatial index over a fixed set of obstacles. It is
// built once per pass that needs it and dropped when the pass returns, never
// persisted across passes.
type Index struct {
	cellSize float64
	buckets  map[cellKey][]Obstacle
}

// Build buckets every obstacle's bounding box into every grid cell it
// overlaps, using cellSize (DefaultCellSize if <= 0).
func Build(obstacles []Obstacle, cellSize float64) *Index {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	idx := &Index{cellSize: cellSize, buckets: make(map[cellKey][]Obstacle)}
	for _, ob := range obstacles {
		idx.insert(ob)
	}
	return idx
}

func (idx *Index) insert(ob Obstacle) {
	minCol, minRow := idx.cellOf(ob.Rect.Left(), ob.Rect.Top())
	maxCol, maxRow := idx.cellOf(ob.Rect.Right(), ob.Rect.Bottom())
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			key := cellKey{col, row}
			idx.buckets[key] = append(idx.buckets[key], ob)
		}
	}
}

func (idx *Index) cellOf(x, y float64) (col, row int) {
	return int(x / idx.cellSize), int(y / idx.cellSize)
}

// GetCandidates returns the union (deduplicated by ID) of every obstacle
// bucketed into a cell touched by bbox.
func (idx *Index) GetCandidates(bbox geometry.Rect) []Obstacle {
	minCol, minRow := idx.cellOf(bbox.Left(), bbox.Top())
	maxCol, maxRow := idx.cellOf(bbox.Right(), bbox.Bottom())

	seen := make(map[string]bool)
	var out []Obstacle
	for col := minCol; col <= maxCol; col++ {
		for row := minRow; row <= maxRow; row++ {
			for _, ob := range idx.buckets[cellKey{col, row}] {
				if seen[ob.ID] {
					continue
				}
				seen[ob.ID] = true
				out = append(out, ob)
			}
		}
	}
	return out
}
