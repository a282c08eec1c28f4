//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"image"
	"syscall/js"

	"hatchplot/pkg/cfg"
	"hatchplot/pkg/emit"
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/prep"
	"hatchplot/pkg/vectorize"
)

func main() {
	js.Global().Set("goHatchPlot", js.FuncOf(goHatchPlot))
	<-make(chan any, 0)
}

// goHatchPlot is the entry point from JavaScript. It takes canvas RGBA pixel data
// already at plotting resolution, with its width and height, and whether to
// modulate speed instead of power. It returns {svg, gcode} or {error}.
func goHatchPlot(this js.Value, args []js.Value) any {
	pixels := args[0]
	width := args[1].Int()
	height := args[2].Int()
	speed := args[3].Truthy()
	fmt.Printf("Go HatchPlot called: %d bytes, %d, %d\n", pixels.Length(), width, height)

	if pixels.Length() != width*height*4 {
		return map[string]any{"error": "pixel data does not match the image size"}
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	js.CopyBytesToGo(img.Pix, pixels)

	grid, err := prep.Prepare(img, prep.Options{
		SourceDPI: prep.Density{X: cfg.TargetDPI, Y: cfg.TargetDPI},
		FlipY:     cfg.FlipY,
	})
	if err != nil {
		return map[string]any{"error": err.Error()}
	}

	mode := gcode.Power
	if speed {
		mode = gcode.Speed
	}
	machine := gcode.Machine{
		PowerMin:     cfg.PowerMin,
		PowerMax:     cfg.PowerMax,
		FeedSpeed:    cfg.FeedSpeed,
		FeedSpeedMax: cfg.FeedSpeedMax,
		TravelFeed:   cfg.TravelFeed,
	}
	e, _ := emit.Run(grid, vectorize.DefaultOptions(), emit.Options{
		Scale:   cfg.PixelSize(cfg.TargetDPI),
		Mode:    mode,
		Machine: machine,
		MinUnit: cfg.MinUnit,
	})
	e.Drawing.FlipY = cfg.FlipY

	var svg, gc bytes.Buffer
	if err := e.Drawing.Encode(&svg); err != nil {
		return map[string]any{"error": err.Error()}
	}
	enc := &gcode.Encoder{
		Prologue: gcode.DefaultPrologue(machine, mode),
		Epilogue: gcode.DefaultEpilogue(machine),
		Mode:     mode,
	}
	if err := enc.Encode(&gc, e.Program); err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"svg": svg.String(), "gcode": gc.String()}
}
