package gcode

import (
	"bufio"
	"fmt"
	"hatchplot/pkg/logging"
	"hatchplot/pkg/shade"
	"io"
)

// Mode selects what a Mark's value modulates.
type Mode int

const (
	// Power modulates laser power (S word) at a constant feed.
	Power Mode = iota
	// Speed modulates the feed rate (F word) at constant power.
	Speed
)

func (m Mode) String() string {
	if m == Speed {
		return "speed"
	}
	return "power"
}

// Machine holds the modulation ranges of the device.
type Machine struct {
	PowerMin     float64
	PowerMax     float64
	FeedSpeed    float64
	FeedSpeedMax float64
	TravelFeed   float64
}

// Modulation maps a shade bucket to a mark value. There are seven linearly spaced
// levels: in Power mode darker buckets get more power, in Speed mode darker
// buckets get a slower feed.
func (m Machine) Modulation(bucket int, mode Mode) float64 {
	if mode == Speed {
		step := (m.FeedSpeedMax - m.FeedSpeed) / 6
		return m.FeedSpeed + float64(bucket)*step
	}
	step := (m.PowerMax - m.PowerMin) / 6
	return m.PowerMin + float64(shade.MaxBucket-bucket)*step
}

// DefaultPrologue is the laser start-up sequence: a short low power pulse to
// settle the laser, then laser on at zero power. In Speed mode power is then
// fixed at PowerMax, since marks only carry a feed rate.
func DefaultPrologue(m Machine, mode Mode) string {
	s := fmt.Sprintf(`;-- Laser gcode Head
M5
G90
G21
G0F%d
G1F%d
M3S1
G4P2
M5
G4P3
M3S0

`, int(m.TravelFeed), int(m.FeedSpeed))
	if mode == Speed {
		s += fmt.Sprintf("S%d\n", int(m.PowerMax))
	}
	return s
}

// DefaultEpilogue turns the laser off and returns home.
func DefaultEpilogue(m Machine) string {
	return fmt.Sprintf(`
;-- Laser gcode Footer
M5S0
G0X0Y0F%d
`, int(m.TravelFeed))
}

// Encoder writes programs as G-code. Prologue and Epilogue are written verbatim.
type Encoder struct {
	Prologue string
	Epilogue string
	Mode     Mode
}

// Encode writes p to w.
func (e *Encoder) Encode(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, e.Prologue); err != nil {
		return fmt.Errorf("gcode prologue: %w", err)
	}
	for _, in := range p.Instructions {
		var err error
		switch {
		case in.Op == Travel:
			_, err = fmt.Fprintf(bw, "G0 X%.3f Y%.3f\n", in.X, in.Y)
		case e.Mode == Speed:
			_, err = fmt.Fprintf(bw, "G1 X%.3f Y%.3f F%d\n", in.X, in.Y, int(in.Value))
		default:
			_, err = fmt.Fprintf(bw, "S%.3f\nG1 X%.3f Y%.3f\n", in.Value, in.X, in.Y)
		}
		if err != nil {
			return fmt.Errorf("gcode: %w", err)
		}
	}
	if _, err := io.WriteString(bw, e.Epilogue); err != nil {
		return fmt.Errorf("gcode epilogue: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gcode: %w", err)
	}
	logging.Logger().Info("gcode written",
		"instructions", len(p.Instructions),
		"travel_mm", p.TravelLength(),
		"mark_mm", p.MarkLength())
	return nil
}
