package vectorize

import (
	"hatchplot/pkg/logging"
)

// Axis is the direction of the strokes produced by a pass.
type Axis int

const (
	// Horizontal strokes come from scanning the grid's rows.
	Horizontal Axis = iota
	// Vertical strokes come from scanning the rows of the transposed grid.
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Stroke is a drawn run in pixel space. Line is the row (horizontal) or column
// (vertical) index. From and To are positions along the line; on a reversed line
// From > To, and the stroke is meant to be drawn in that direction.
type Stroke struct {
	Axis  Axis
	Line  int
	From  int
	To    int
	Shade uint8
}

// Points returns the stroke's endpoints as (x, y) pixel coordinates.
func (s Stroke) Points() (x1, y1, x2, y2 int) {
	if s.Axis == Vertical {
		return s.Line, s.From, s.Line, s.To
	}
	return s.From, s.Line, s.To, s.Line
}

// StrokeHandler receives strokes in drawing order.
type StrokeHandler interface {
	AddStroke(s Stroke)
}

// StrokeFunc adapts a function to a StrokeHandler.
type StrokeFunc func(s Stroke)

func (f StrokeFunc) AddStroke(s Stroke) {
	f(s)
}

// Options selects the rule tables of the two passes.
type Options struct {
	Horizontal Rules
	Vertical   Rules
}

// DefaultOptions uses HorizontalRules and VerticalRules.
func DefaultOptions() Options {
	return Options{
		Horizontal: HorizontalRules,
		Vertical:   VerticalRules,
	}
}

// Stats counts what a Vectorize call produced.
type Stats struct {
	Horizontal int
	Vertical   int
}

func (s Stats) Strokes() int {
	return s.Horizontal + s.Vertical
}

// Vectorize turns grid into strokes: first every horizontal stroke, row by row,
// then every vertical stroke, column by column. Within a pass the scan direction
// alternates between consecutive lines that draw something (serpentine order).
// Both passes feed the same handler, so a handler that tracks a pen position
// sees one continuous path.
func Vectorize(grid *Grid, opts Options, h StrokeHandler) Stats {
	var stats Stats
	if grid.Width == 0 || grid.Height == 0 {
		return stats
	}
	stats.Horizontal = scan(grid, Horizontal, opts.Horizontal, h)
	stats.Vertical = scan(grid.Transpose(), Vertical, opts.Vertical, h)
	logging.Logger().Debug("vectorized",
		"width", grid.Width, "height", grid.Height,
		"horizontal", stats.Horizontal, "vertical", stats.Vertical)
	return stats
}

// scan runs one pass over the rows of grid and returns the number of strokes.
func scan(grid *Grid, axis Axis, rules Rules, h StrokeHandler) int {
	n := grid.Width
	reversed := make([]uint8, n)
	inverted := false
	total := 0
	for y := 0; y < grid.Height; y++ {
		line := grid.Row(y)
		if inverted {
			for i, v := range line {
				reversed[n-1-i] = v
			}
			line = reversed
		}
		drawn := DetectRuns(line, y, rules.Draw, func(run Run) {
			s := Stroke{Axis: axis, Line: y, From: run.Start, To: run.End, Shade: run.Shade}
			if inverted {
				s.From, s.To = n-run.Start, n-run.End
			}
			h.AddStroke(s)
		})
		// Only lines that drew something flip the direction.
		if drawn > 0 {
			inverted = !inverted
		}
		total += drawn
	}
	return total
}
