package optimize

import (
	"hatchplot/pkg/gcode"
	"math"

	"github.com/asim/quadtree"
)

// pathTree indexes segment endpoints. Endpoints shared by several segments are
// stored once, with the set of segment indices as the point's data.
type pathTree struct {
	quadTree *quadtree.QuadTree
	points   map[gcode.Point]*quadtree.Point
	extent   float64
}

func newPathTree(minX, minY, maxX, maxY float64) *pathTree {
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2
	halfWidth := maxX - midX
	halfHeight := maxY - midY

	// Add a small margin to avoid dropping objects at the edges
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &pathTree{
		quadTree: quadtree.New(aabb, 0, nil),
		points:   map[gcode.Point]*quadtree.Point{},
		extent:   2 * (halfWidth + halfHeight),
	}
}

func (t *pathTree) add(p gcode.Point, seg int) {
	if point, ok := t.points[p]; ok {
		point.Data().(map[int]struct{})[seg] = struct{}{}
		return
	}
	point := quadtree.NewPoint(p.X, p.Y, map[int]struct{}{seg: {}})
	t.quadTree.Insert(point)
	t.points[p] = point
}

func (t *pathTree) remove(p gcode.Point, seg int) {
	point, ok := t.points[p]
	if !ok {
		return
	}
	segs := point.Data().(map[int]struct{})
	delete(segs, seg)
	if len(segs) == 0 {
		t.quadTree.Remove(point)
		delete(t.points, p)
	}
}

// closest returns the point nearest to (x, y) among those within the square of
// half size r around it.
func (t *pathTree) closest(x, y, r float64) (*quadtree.Point, float64) {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(x, y, nil),
		quadtree.NewPoint(r, r, nil),
	)
	var best *quadtree.Point
	bestDist := math.Inf(1)
	bestSeg := math.MaxInt
	for _, point := range t.quadTree.Search(aabb) {
		px, py := point.Coordinates()
		d := math.Hypot(px-x, py-y)
		seg := lowest(point.Data().(map[int]struct{}))
		if d < bestDist || (d == bestDist && seg < bestSeg) {
			best, bestDist, bestSeg = point, d, seg
		}
	}
	return best, bestDist
}

// findNearest returns the endpoint nearest to (x, y), or nil when the tree is
// empty. The search square grows until it holds a point; the nearest point of the
// square is exact once the square is at least as large as its distance.
func (t *pathTree) findNearest(x, y float64) *quadtree.Point {
	if len(t.points) == 0 {
		return nil
	}
	for r := 1.0; ; r *= 2 {
		best, d := t.closest(x, y, r)
		if best != nil {
			if d > r {
				best, _ = t.closest(x, y, d)
			}
			return best
		}
		if r > t.extent+math.Abs(x)+math.Abs(y) {
			return nil
		}
	}
}

func lowest(segs map[int]struct{}) int {
	min := math.MaxInt
	for seg := range segs {
		if seg < min {
			min = seg
		}
	}
	return min
}
