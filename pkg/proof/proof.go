// Package proof draws a motion program as a PDF at its physical size, so a plot
// can be printed and checked on paper.
package proof

import (
	"errors"
	"fmt"
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/logging"
	"image/color"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
)

// ErrEmpty is returned when there is nothing to draw and no page size is given.
var ErrEmpty = errors.New("proof: empty program")

// Options controls Render. Lengths are in mm.
type Options struct {
	// Width and Height are the page size. Zero sizes the page to the program.
	Width, Height float64
	// StrokeWidth is the width of a mark, normally the size of a pixel.
	StrokeWidth float64
	Mode        gcode.Mode
	Machine     gcode.Machine
	// ShowTravel draws travel moves as dashed lines.
	ShowTravel bool
}

var travelColor = canvas.RGBA(1, 0, 1, 1)

// Render writes p as a single page PDF. Marks are drawn darker the more they
// burn: higher power, or slower feed in speed mode.
func Render(w io.Writer, p *gcode.Program, o Options) error {
	width, height := o.Width, o.Height
	if width <= 0 || height <= 0 {
		for _, in := range p.Instructions {
			width = math.Max(width, in.X+o.StrokeWidth)
			height = math.Max(height, in.Y+o.StrokeWidth)
		}
	}
	if width <= 0 || height <= 0 {
		return ErrEmpty
	}
	strokeWidth := o.StrokeWidth
	if strokeWidth <= 0 {
		strokeWidth = 0.1
	}

	writer := pdf.New(w, width, height, nil)
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI)
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})

	var cursor gcode.Point
	travels := 0
	for _, in := range p.Instructions {
		to := gcode.Point{X: in.X, Y: in.Y}
		if in.Op == gcode.Travel {
			if o.ShowTravel {
				ctx.SetStrokeColor(travelColor)
				ctx.SetStrokeWidth(strokeWidth / 2)
				ctx.SetDashes(0, strokeWidth*2, strokeWidth*2)
				drawLine(ctx, cursor, to)
				ctx.SetDashes(0)
				travels++
			}
			cursor = to
			continue
		}
		ctx.SetStrokeColor(markColor(in.Value, o))
		ctx.SetStrokeWidth(strokeWidth)
		drawLine(ctx, cursor, to)
		cursor = to
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return fmt.Errorf("write proof: %w", err)
	}
	logging.Logger().Debug("rendered proof", "width_mm", width, "height_mm", height, "travels", travels)
	return nil
}

func drawLine(ctx *canvas.Context, from, to gcode.Point) {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(to.X-from.X, to.Y-from.Y)
	ctx.DrawPath(from.X, from.Y, p)
}

func markColor(v float64, o Options) color.Gray {
	m := o.Machine
	var burn float64
	if o.Mode == gcode.Speed {
		if m.FeedSpeedMax > m.FeedSpeed {
			burn = (m.FeedSpeedMax - v) / (m.FeedSpeedMax - m.FeedSpeed)
		}
	} else if m.PowerMax > m.PowerMin {
		burn = (v - m.PowerMin) / (m.PowerMax - m.PowerMin)
	}
	burn = math.Max(0, math.Min(1, burn))
	return color.Gray{Y: uint8(255 * (1 - burn))}
}
