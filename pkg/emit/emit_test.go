package emit_test

import (
	"bytes"
	"hatchplot/pkg/emit"
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/shade"
	"hatchplot/pkg/svgdoc"
	"hatchplot/pkg/vectorize"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var opts = emit.Options{
	Scale: 0.5,
	Mode:  gcode.Power,
	Machine: gcode.Machine{
		PowerMin:     0,
		PowerMax:     15,
		FeedSpeed:    300,
		FeedSpeedMax: 800,
		TravelFeed:   8000,
	},
	MinUnit: 0.001,
}

func TestScenario(t *testing.T) {
	grid := vectorize.GridFromRows(
		[]uint8{0, 0, 255, 255},
		[]uint8{255, 255, 0, 0},
	)
	e, stats := emit.Run(grid, vectorize.DefaultOptions(), opts)
	if stats.Strokes() != 1 {
		t.Fatalf("got %d strokes, want 1", stats.Strokes())
	}
	wantLines := []svgdoc.Line{{X1: 0, Y1: 0, X2: 2, Y2: 0, Gray: 0}}
	if diff := cmp.Diff(wantLines, e.Drawing.Lines); diff != "" {
		t.Errorf("incorrect drawing: %s", diff)
	}
	// The stroke starts at the origin, where the tool already is.
	wantProg := []gcode.Instruction{{Op: gcode.Mark, X: 1, Y: 0, Value: 15}}
	if diff := cmp.Diff(wantProg, e.Program.Instructions); diff != "" {
		t.Errorf("incorrect program: %s", diff)
	}
}

func TestAdjacentRunsShareEndpoint(t *testing.T) {
	// Two runs of different drawable shades touching on row 0: the second one
	// starts where the first ended, so only one travel (none, from the origin)
	// is needed for the whole row.
	grid := vectorize.GridFromRows(
		[]uint8{shade.L0, shade.L0, shade.L2, shade.L2, shade.L5},
	)
	e, _ := emit.Run(grid, vectorize.DefaultOptions(), opts)
	want := []gcode.Instruction{
		{Op: gcode.Mark, X: 1, Y: 0, Value: 15},
		{Op: gcode.Mark, X: 2, Y: 0, Value: 10},
	}
	if diff := cmp.Diff(want, e.Program.Instructions[:2]); diff != "" {
		t.Errorf("incorrect program: %s", diff)
	}
	for _, in := range e.Program.Instructions[:2] {
		if in.Op == gcode.Travel {
			t.Errorf("redundant travel %v", in)
		}
	}
}

func TestVerticalAxisMapping(t *testing.T) {
	// A single mid-dark column is only drawn by the vertical pass.
	grid := vectorize.GridFromRows(
		[]uint8{shade.L5, shade.L1},
		[]uint8{shade.L5, shade.L1},
		[]uint8{shade.L5, shade.L1},
	)
	vopts := vectorize.Options{Vertical: vectorize.Rules{{Period: 1, Max: shade.L1, Draw: true}}}
	speed := opts
	speed.Mode = gcode.Speed
	e, stats := emit.Run(grid, vopts, speed)
	if stats.Vertical != 1 || stats.Horizontal != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	wantLines := []svgdoc.Line{{X1: 1, Y1: 0, X2: 1, Y2: 3, Gray: 42}}
	if diff := cmp.Diff(wantLines, e.Drawing.Lines); diff != "" {
		t.Errorf("incorrect drawing: %s", diff)
	}
	wantProg := []gcode.Instruction{
		{Op: gcode.Travel, X: 0.5, Y: 0},
		{Op: gcode.Mark, X: 0.5, Y: 1.5, Value: speed.Machine.Modulation(1, gcode.Speed)},
	}
	if diff := cmp.Diff(wantProg, e.Program.Instructions); diff != "" {
		t.Errorf("incorrect program: %s", diff)
	}
}

func TestCursorSpansPasses(t *testing.T) {
	// The horizontal pass ends at pixel (0,1) after its reversed second row. The
	// first vertical stroke starts right there, so no travel separates the passes.
	grid := vectorize.GridFromRows(
		[]uint8{shade.L0, shade.L0, shade.L0, shade.L0},
		[]uint8{shade.L1, shade.L1, shade.L1, shade.L1},
	)
	vopts := vectorize.Options{
		Horizontal: vectorize.Rules{{Period: 1, Max: shade.L1, Draw: true}},
		Vertical: vectorize.Rules{
			{Period: 1, Max: shade.L0, Draw: false},
			{Period: 1, Max: shade.L1, Draw: true},
		},
	}
	e, _ := emit.Run(grid, vopts, emit.Options{Scale: 0.5, MinUnit: 0.001, Machine: opts.Machine})
	want := []gcode.Instruction{
		{Op: gcode.Mark, X: 2, Y: 0, Value: 15},
		{Op: gcode.Travel, X: 2, Y: 0.5},
		{Op: gcode.Mark, X: 0, Y: 0.5, Value: 12.5},
		{Op: gcode.Mark, X: 0, Y: 1, Value: 12.5},
		{Op: gcode.Travel, X: 0.5, Y: 1},
		{Op: gcode.Mark, X: 0.5, Y: 0.5, Value: 12.5},
		{Op: gcode.Travel, X: 1, Y: 0.5},
		{Op: gcode.Mark, X: 1, Y: 1, Value: 12.5},
		{Op: gcode.Travel, X: 1.5, Y: 1},
		{Op: gcode.Mark, X: 1.5, Y: 0.5, Value: 12.5},
	}
	if diff := cmp.Diff(want, e.Program.Instructions); diff != "" {
		t.Errorf("incorrect program: %s", diff)
	}
}

func TestAllWhite(t *testing.T) {
	e, stats := emit.Run(vectorize.NewGrid(8, 8), vectorize.DefaultOptions(), opts)
	if stats.Strokes() != 0 || len(e.Drawing.Lines) != 0 || len(e.Program.Instructions) != 0 {
		t.Fatalf("white grid produced output: %+v", stats)
	}
	enc := gcode.Encoder{Prologue: "P\n", Epilogue: "E\n"}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, e.Program); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "P\nE\n" {
		t.Errorf("got %q, want only prologue and epilogue", buf.String())
	}
}
