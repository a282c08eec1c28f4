// Package optimize reorders marked segments to shorten travel between them.
package optimize

import (
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/logging"
	"math"
)

// Order sorts segs greedily: starting from start, it repeatedly takes the segment
// with the endpoint nearest to the current position, reversing it if that endpoint
// is its end. Every segment appears exactly once in the result.
func Order(segs []gcode.Segment, start gcode.Point) []gcode.Segment {
	if len(segs) == 0 {
		return nil
	}

	minX, minY := start.X, start.Y
	maxX, maxY := start.X, start.Y
	for _, s := range segs {
		for _, p := range []gcode.Point{s.From, s.To} {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	tree := newPathTree(minX, minY, maxX, maxY)
	for i, s := range segs {
		tree.add(s.From, i)
		tree.add(s.To, i)
	}

	sorted := make([]gcode.Segment, 0, len(segs))
	x, y := start.X, start.Y
	for {
		nearest := tree.findNearest(x, y)
		if nearest == nil {
			break
		}
		i := lowest(nearest.Data().(map[int]struct{}))
		seg := segs[i]
		tree.remove(seg.From, i)
		tree.remove(seg.To, i)

		px, py := nearest.Coordinates()
		if seg.From != (gcode.Point{X: px, Y: py}) {
			seg = seg.Reverse()
		}
		x, y = seg.To.X, seg.To.Y
		sorted = append(sorted, seg)
	}
	logging.Logger().Debug("ordered segments", "count", len(sorted))
	return sorted
}

// Program replays p's segments in optimized order into a new program.
func Program(p *gcode.Program) *gcode.Program {
	out := gcode.NewProgram(p.MinUnit)
	out.Replay(Order(p.Segments, gcode.Point{}))
	logging.Logger().Info("optimized travel",
		"before_mm", p.TravelLength(), "after_mm", out.TravelLength())
	return out
}
