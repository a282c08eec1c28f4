package vectorize

import "hatchplot/pkg/shade"

// Rule matches scanlines whose index is a multiple of Period and runs no lighter
// than Max. Draw says what happens to a matching run.
type Rule struct {
	Period int
	Max    uint8
	Draw   bool
}

func (r Rule) matches(v uint8, index int) bool {
	return index%r.Period == 0 && v <= r.Max
}

// Rules is an ordered rule table. The first matching rule decides; a run no rule
// matches is not drawn.
type Rules []Rule

// Draw is the Predicate for the table.
func (rs Rules) Draw(v uint8, index int) bool {
	for _, r := range rs {
		if r.matches(v, index) {
			return r.Draw
		}
	}
	return false
}

// HorizontalRules hatch rows. Black is drawn on every other row, down to mid gray
// on every 4th row and light gray on every 8th. Each coarser period only adds to
// what the finer ones already draw.
var HorizontalRules = Rules{
	{Period: 2, Max: shade.L0, Draw: true},
	{Period: 4, Max: shade.L2, Draw: true},
	{Period: 8, Max: shade.L4, Draw: true},
}

// VerticalRules cross-hatch columns. Combinations the horizontal pass already
// covers with dense hatching are suppressed explicitly so that the next, broader
// rule cannot pick them up.
var VerticalRules = Rules{
	{Period: 2, Max: shade.L0, Draw: false},
	{Period: 4, Max: shade.L1, Draw: true},
	{Period: 4, Max: shade.L2, Draw: false},
	{Period: 8, Max: shade.L3, Draw: true},
}
