// Package emit turns vectorizer strokes into the two outputs of a plot: the SVG
// drawing in pixel space and the motion program in mm.
package emit

import (
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/shade"
	"hatchplot/pkg/svgdoc"
	"hatchplot/pkg/vectorize"
)

// Options fixes how pixels map to the machine.
type Options struct {
	// Scale is the size of one pixel in mm.
	Scale   float64
	Mode    gcode.Mode
	Machine gcode.Machine
	MinUnit float64
}

// Emitter is a vectorize.StrokeHandler writing every stroke to both a drawing and
// a program. The program's cursor carries over between the two vectorizer passes.
type Emitter struct {
	opts    Options
	Drawing *svgdoc.Document
	Program *gcode.Program
}

// New returns an emitter for a grid of the given size.
func New(width, height int, opts Options) *Emitter {
	return &Emitter{
		opts:    opts,
		Drawing: &svgdoc.Document{Width: width, Height: height},
		Program: gcode.NewProgram(opts.MinUnit),
	}
}

func (e *Emitter) AddStroke(s vectorize.Stroke) {
	bucket := shade.Bucket(s.Shade)
	x1, y1, x2, y2 := s.Points()

	e.Drawing.AddLine(svgdoc.Line{
		X1: x1, Y1: y1,
		X2: x2, Y2: y2,
		Gray: shade.BucketGray(bucket),
	})

	from := gcode.Point{X: float64(x1) * e.opts.Scale, Y: float64(y1) * e.opts.Scale}
	to := gcode.Point{X: float64(x2) * e.opts.Scale, Y: float64(y2) * e.opts.Scale}
	e.Program.Stroke(from, to, e.opts.Machine.Modulation(bucket, e.opts.Mode))
}

// Run vectorizes grid into a new emitter.
func Run(grid *vectorize.Grid, vopts vectorize.Options, opts Options) (*Emitter, vectorize.Stats) {
	e := New(grid.Width, grid.Height, opts)
	stats := vectorize.Vectorize(grid, vopts, e)
	return e, stats
}
