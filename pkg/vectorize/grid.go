package vectorize

import (
	"hatchplot/pkg/shade"
	"image"
	"image/color"
)

// Grid is a quantized grayscale image. Every sample is expected to be one of the
// shade levels; the vectorizer does not check.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrid returns a white grid of the given size.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
	for i := range g.Pix {
		g.Pix[i] = shade.L5
	}
	return g
}

// GridFromRows builds a grid from rows of samples. All rows must be the same length.
func GridFromRows(rows ...[]uint8) *Grid {
	if len(rows) == 0 {
		return &Grid{}
	}
	g := &Grid{Width: len(rows[0]), Height: len(rows)}
	g.Pix = make([]uint8, 0, g.Width*g.Height)
	for _, row := range rows {
		g.Pix = append(g.Pix, row...)
	}
	return g
}

// Row returns the samples of row y. The slice aliases the grid.
func (g *Grid) Row(y int) []uint8 {
	return g.Pix[y*g.Width : (y+1)*g.Width]
}

func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[x+y*g.Width] = v
}

func (g *Grid) Value(x, y int) uint8 {
	return g.Pix[x+y*g.Width]
}

// Transpose returns a new grid with rows and columns swapped, so that the columns
// of g can be scanned as rows.
func (g *Grid) Transpose() *Grid {
	t := &Grid{
		Width:  g.Height,
		Height: g.Width,
		Pix:    make([]uint8, len(g.Pix)),
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t.Pix[y+x*t.Width] = g.Pix[x+y*g.Width]
		}
	}
	return t
}

func (g *Grid) ColorModel() color.Model {
	return color.GrayModel
}

func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

func (g *Grid) At(x, y int) color.Color {
	return color.Gray{Y: g.Value(x, y)}
}
