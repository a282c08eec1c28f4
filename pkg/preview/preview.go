// Package preview rasterizes a drawing to a bitmap, for checking a plot before
// sending it to the machine.
package preview

import (
	"fmt"
	"hatchplot/pkg/logging"
	"hatchplot/pkg/shade"
	"hatchplot/pkg/svgdoc"
	"hatchplot/pkg/vectorize"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Render draws doc onto a white image, scale output pixels per grid pixel. Each
// stroke is one pixel wide and centered on the pixel row or column it covers.
func Render(doc *svgdoc.Document, scale float64) *image.Gray {
	if scale <= 0 {
		scale = 1
	}
	width := int(float64(doc.Width)*scale + 0.5)
	height := int(float64(doc.Height)*scale + 0.5)
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	if width == 0 || height == 0 {
		return img
	}

	byGray := map[uint8][]svgdoc.Line{}
	for _, l := range doc.Lines {
		byGray[l.Gray] = append(byGray[l.Gray], l)
	}
	grays := make([]int, 0, len(byGray))
	for g := range byGray {
		grays = append(grays, int(g))
	}
	// Light strokes first, so darker ones end up on top.
	sort.Sort(sort.Reverse(sort.IntSlice(grays)))

	for _, g := range grays {
		scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
		dasher := rasterx.NewDasher(width, height, scanner)
		dasher.SetStroke(fixed.Int26_6(scale*64), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
		dasher.SetColor(color.Gray{Y: uint8(g)})
		for _, l := range byGray[uint8(g)] {
			x1, y1, x2, y2 := centered(l)
			if doc.FlipY {
				y1 = float64(doc.Height) - y1
				y2 = float64(doc.Height) - y2
			}
			dasher.Start(rasterx.ToFixedP(x1*scale, y1*scale))
			dasher.Line(rasterx.ToFixedP(x2*scale, y2*scale))
			dasher.Stop(false)
		}
		dasher.Draw()
	}
	logging.Logger().Debug("rendered preview", "width", width, "height", height, "lines", len(doc.Lines))
	return img
}

// centered moves a line from pixel edges onto pixel centers across its run.
func centered(l svgdoc.Line) (x1, y1, x2, y2 float64) {
	x1, y1, x2, y2 = float64(l.X1), float64(l.Y1), float64(l.X2), float64(l.Y2)
	if l.Y1 == l.Y2 {
		y1 += 0.5
		y2 += 0.5
	} else {
		x1 += 0.5
		x2 += 0.5
	}
	return x1, y1, x2, y2
}

// Grid returns the quantized grid as a paletted image, one pixel per sample.
func Grid(g *vectorize.Grid) *image.Paletted {
	img := image.NewPaletted(g.Bounds(), shade.Palette)
	for i, v := range g.Pix {
		img.Pix[i] = uint8(shade.Band(v))
	}
	return img
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}
