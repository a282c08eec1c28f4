// Package prep turns a decoded image into the quantized grid the vectorizer scans:
// grayscale, resampled to the plotting resolution, optionally flipped, and snapped
// to the six shade levels.
package prep

import (
	"bytes"
	"errors"
	"fmt"
	"hatchplot/pkg/cfg"
	"hatchplot/pkg/logging"
	"hatchplot/pkg/shade"
	"hatchplot/pkg/vectorize"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned for images that end up with no pixels.
var ErrEmpty = errors.New("image is empty")

// Options controls Prepare.
type Options struct {
	// SourceDPI is the resolution of the input. Zero values fall back to
	// cfg.DefaultDPI.
	SourceDPI Density
	// TargetDPI is the resolution of the grid. Zero means cfg.TargetDPI.
	TargetDPI float64
	// FlipY mirrors the image top to bottom.
	FlipY bool
}

// Decode reads an image and whatever pixel density it declares.
func Decode(r io.Reader) (image.Image, Density, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Density{}, fmt.Errorf("read image: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, Density{}, fmt.Errorf("decode image: %w", err)
	}
	dpi := ReadDensity(data)
	logging.Logger().Debug("decoded image",
		"format", format, "bounds", img.Bounds().String(), "dpi_x", dpi.X, "dpi_y", dpi.Y)
	return img, dpi, nil
}

// Prepare converts img into a quantized grid.
func Prepare(img image.Image, o Options) (*vectorize.Grid, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmpty
	}
	// Transparent pixels are paper, so composite onto white.
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Over)

	target := o.TargetDPI
	if target <= 0 {
		target = cfg.TargetDPI
	}
	src := o.SourceDPI
	if src.X <= 0 {
		src.X = cfg.DefaultDPI
	}
	if src.Y <= 0 {
		src.Y = cfg.DefaultDPI
	}
	width := int(float64(b.Dx())*target/src.X + 0.5)
	height := int(float64(b.Dy())*target/src.Y + 0.5)
	if width <= 0 || height <= 0 {
		return nil, ErrEmpty
	}
	if width != b.Dx() || height != b.Dy() {
		scaled := image.NewGray(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, gray.Bounds(), draw.Src, nil)
		gray = scaled
	}

	grid := &vectorize.Grid{Width: width, Height: height, Pix: make([]uint8, width*height)}
	for y := 0; y < height; y++ {
		srcY := y
		if o.FlipY {
			srcY = height - 1 - y
		}
		row := gray.Pix[srcY*gray.Stride : srcY*gray.Stride+width]
		for x, v := range row {
			grid.Set(x, y, shade.Classify(v))
		}
	}
	logging.Logger().Debug("prepared grid", "width", width, "height", height, "flip", o.FlipY)
	return grid, nil
}
