package gcode

import (
	"math"
)

// Point is a physical position in mm.
type Point struct {
	X, Y float64
}

// Op is the kind of an Instruction.
type Op int

const (
	// Travel moves without marking.
	Travel Op = iota
	// Mark moves while drawing, at the instruction's Value (power or feed).
	Mark
)

// Instruction is one entry of a motion program.
type Instruction struct {
	Op    Op
	X, Y  float64
	Value float64
}

// Segment is one marked stroke.
type Segment struct {
	From, To Point
	Value    float64
}

// Reverse returns the segment drawn in the opposite direction.
func (s Segment) Reverse() Segment {
	return Segment{From: s.To, To: s.From, Value: s.Value}
}

func (s Segment) Length() float64 {
	return distance(s.From, s.To)
}

// Program is an append-only motion program. It remembers where the tool is, so
// that a stroke starting where the previous one ended needs no travel move.
type Program struct {
	// MinUnit is the resolution of the machine. Positions closer than this are
	// the same position, and coordinates smaller than it are written as 0.
	MinUnit float64

	Instructions []Instruction
	Segments     []Segment

	cursor       Point
	travelLength float64
	markLength   float64
}

// NewProgram returns an empty program with the tool at the origin.
func NewProgram(minUnit float64) *Program {
	return &Program{MinUnit: minUnit}
}

// Cursor returns the last position written to the program.
func (p *Program) Cursor() Point {
	return p.cursor
}

// TravelLength is the total distance of all travel moves so far.
func (p *Program) TravelLength() float64 {
	return p.travelLength
}

// MarkLength is the total distance of all marked moves so far.
func (p *Program) MarkLength() float64 {
	return p.markLength
}

func (p *Program) snap(v float64) float64 {
	if v < p.MinUnit {
		return 0
	}
	return v
}

func (p *Program) samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) < p.MinUnit && math.Abs(a.Y-b.Y) < p.MinUnit
}

// Stroke appends a marked move from one point to another, preceded by a travel
// move if from is not where the tool already is.
func (p *Program) Stroke(from, to Point, value float64) {
	from = Point{X: p.snap(from.X), Y: p.snap(from.Y)}
	to = Point{X: p.snap(to.X), Y: p.snap(to.Y)}
	if !p.samePoint(from, p.cursor) {
		p.Instructions = append(p.Instructions, Instruction{Op: Travel, X: from.X, Y: from.Y})
		p.travelLength += distance(p.cursor, from)
	}
	p.Instructions = append(p.Instructions, Instruction{Op: Mark, X: to.X, Y: to.Y, Value: value})
	p.Segments = append(p.Segments, Segment{From: from, To: to, Value: value})
	p.markLength += distance(from, to)
	p.cursor = to
}

// Replay appends segs to the program in order.
func (p *Program) Replay(segs []Segment) {
	for _, s := range segs {
		p.Stroke(s.From, s.To, s.Value)
	}
}

func distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
