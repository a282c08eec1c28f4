package optimize_test

import (
	"hatchplot/pkg/gcode"
	"hatchplot/pkg/optimize"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seg(x1, y1, x2, y2, v float64) gcode.Segment {
	return gcode.Segment{From: gcode.Point{X: x1, Y: y1}, To: gcode.Point{X: x2, Y: y2}, Value: v}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name string
		segs []gcode.Segment
		want []gcode.Segment
	}{
		{
			name: "empty",
		},
		{
			name: "reverses far segment",
			segs: []gcode.Segment{seg(0, 0, 1, 0, 1), seg(5, 0, 3, 0, 2)},
			want: []gcode.Segment{seg(0, 0, 1, 0, 1), seg(3, 0, 5, 0, 2)},
		},
		{
			name: "follows shared endpoints",
			segs: []gcode.Segment{seg(0, 0, 1, 0, 1), seg(10, 0, 11, 0, 2), seg(1, 0, 2, 0, 3)},
			want: []gcode.Segment{seg(0, 0, 1, 0, 1), seg(1, 0, 2, 0, 3), seg(10, 0, 11, 0, 2)},
		},
		{
			name: "nearest first",
			segs: []gcode.Segment{seg(50, 50, 60, 50, 1), seg(2, 2, 2, 8, 2), seg(40, 0, 30, 0, 3)},
			want: []gcode.Segment{seg(2, 2, 2, 8, 2), seg(30, 0, 40, 0, 3), seg(50, 50, 60, 50, 1)},
		},
		{
			name: "serpentine stays",
			segs: []gcode.Segment{seg(0, 0, 4, 0, 1), seg(4, 1, 0, 1, 1), seg(0, 2, 4, 2, 1)},
			want: []gcode.Segment{seg(0, 0, 4, 0, 1), seg(4, 1, 0, 1, 1), seg(0, 2, 4, 2, 1)},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := optimize.Order(test.segs, gcode.Point{})
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("incorrect order: %s", diff)
			}
		})
	}
}

func TestOrderKeepsEverySegment(t *testing.T) {
	var segs []gcode.Segment
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x += 4 {
			// Scatter the input order.
			xx := float64((x*7 + y*13) % 40)
			segs = append(segs, seg(xx, float64(y), xx+2, float64(y), float64(y%7)))
		}
	}
	got := optimize.Order(segs, gcode.Point{})
	if len(got) != len(segs) {
		t.Fatalf("got %d segments, want %d", len(got), len(segs))
	}
	seen := map[gcode.Segment]int{}
	for _, s := range segs {
		seen[s]++
	}
	for _, s := range got {
		if seen[s] > 0 {
			seen[s]--
			continue
		}
		if r := s.Reverse(); seen[r] > 0 {
			seen[r]--
			continue
		}
		t.Errorf("unexpected segment %v", s)
	}
}

func TestProgramShortensTravel(t *testing.T) {
	p := gcode.NewProgram(0.001)
	p.Replay([]gcode.Segment{seg(0, 0, 1, 0, 1), seg(10, 0, 11, 0, 2), seg(1, 0, 2, 0, 3)})
	if p.TravelLength() != 19 {
		t.Fatalf("unoptimized travel %v, want 19", p.TravelLength())
	}
	opt := optimize.Program(p)
	if opt.TravelLength() != 8 {
		t.Errorf("optimized travel %v, want 8", opt.TravelLength())
	}
	if opt.MarkLength() != p.MarkLength() {
		t.Errorf("mark length changed: %v != %v", opt.MarkLength(), p.MarkLength())
	}
}
