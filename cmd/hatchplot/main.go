package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"hatchplot/pkg/cfg"
	"hatchplot/pkg/device"
	"hatchplot/pkg/emit"
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/logging"
	"hatchplot/pkg/optimize"
	"hatchplot/pkg/prep"
	"hatchplot/pkg/preview"
	"hatchplot/pkg/proof"
	"hatchplot/pkg/vectorize"
)

var (
	speed     = flag.Bool("speed", false, "modulate feed rate instead of laser power")
	dpi       = flag.Float64("dpi", 0, "source resolution, overriding the image's own")
	targetDPI = flag.Float64("target-dpi", cfg.TargetDPI, "plotting resolution")
	noflip    = flag.Bool("noflip", false, "do not flip the image vertically")
	optim     = flag.Bool("optimize", false, "reorder strokes to shorten travel")
	previewTo = flag.String("preview", "", "write a PNG preview to `file`")
	gridTo    = flag.String("grid", "", "write the quantized grid as a PNG to `file`")
	pdfTo     = flag.String("pdf", "", "write a PDF proof to `file`")
	travel    = flag.Bool("travel", false, "draw travel moves in the PDF proof")
	dev       = flag.String("device", "", "stream the G-code to a serial `device` (auto for the platform default)")
	baud      = flag.Int("baud", device.DefaultBaud, "serial line speed")
	verbose   = flag.Bool("v", false, "verbose logging")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] image-file\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("hatchplot: %s", err)
	}
}

func run(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	img, density, err := prep.Decode(f)
	f.Close()
	if err != nil {
		return err
	}
	if *dpi > 0 {
		density = prep.Density{X: *dpi, Y: *dpi}
	}
	flip := cfg.FlipY && !*noflip
	grid, err := prep.Prepare(img, prep.Options{SourceDPI: density, TargetDPI: *targetDPI, FlipY: flip})
	if err != nil {
		return err
	}

	mode := gcode.Power
	if *speed {
		mode = gcode.Speed
	}
	machine := gcode.Machine{
		PowerMin:     cfg.PowerMin,
		PowerMax:     cfg.PowerMax,
		FeedSpeed:    cfg.FeedSpeed,
		FeedSpeedMax: cfg.FeedSpeedMax,
		TravelFeed:   cfg.TravelFeed,
	}
	pixel := cfg.PixelSize(*targetDPI)
	e, stats := emit.Run(grid, vectorize.DefaultOptions(), emit.Options{
		Scale:   pixel,
		Mode:    mode,
		Machine: machine,
		MinUnit: cfg.MinUnit,
	})
	e.Drawing.FlipY = flip
	logging.Logger().Info("vectorized", "horizontal", stats.Horizontal, "vertical", stats.Vertical)

	program := e.Program
	if *optim {
		program = optimize.Program(program)
	}

	if err := writeFile(outputName(filename, "svg"), func(f *os.File) error { return e.Drawing.Encode(f) }); err != nil {
		return err
	}
	enc := &gcode.Encoder{
		Prologue: gcode.DefaultPrologue(machine, mode),
		Epilogue: gcode.DefaultEpilogue(machine),
		Mode:     mode,
	}
	var gc bytes.Buffer
	if err := enc.Encode(&gc, program); err != nil {
		return err
	}
	if err := os.WriteFile(outputName(filename, "gcode"), gc.Bytes(), 0o644); err != nil {
		return err
	}

	if *previewTo != "" {
		err := writeFile(*previewTo, func(f *os.File) error {
			return preview.WritePNG(f, preview.Render(e.Drawing, 1))
		})
		if err != nil {
			return err
		}
	}
	if *gridTo != "" {
		err := writeFile(*gridTo, func(f *os.File) error {
			return preview.WritePNG(f, preview.Grid(grid))
		})
		if err != nil {
			return err
		}
	}
	if *pdfTo != "" {
		err := writeFile(*pdfTo, func(f *os.File) error {
			return proof.Render(f, program, proof.Options{
				StrokeWidth: pixel,
				Mode:        mode,
				Machine:     machine,
				ShowTravel:  *travel,
			})
		})
		if err != nil {
			return err
		}
	}

	if *dev != "" {
		name := *dev
		if name == "auto" {
			name = ""
		}
		port, err := device.Open(name, *baud)
		if err != nil {
			return err
		}
		defer port.Close()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err := device.Stream(ctx, port, &gc); err != nil {
			return err
		}
	}
	return nil
}

// outputName names an output after the full input file name, extension included.
func outputName(input, ext string) string {
	return input + "." + ext
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		return errors.Join(fmt.Errorf("%s: %w", name, err), f.Close())
	}
	return f.Close()
}
