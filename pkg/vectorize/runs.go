package vectorize

// Run is a maximal range [Start, End) of identical samples along one scanline.
type Run struct {
	Start int
	End   int
	Shade uint8
}

func (r Run) Len() int {
	return r.End - r.Start
}

// Predicate decides whether a run of the given shade on scanline index is drawn.
type Predicate func(shade uint8, index int) bool

// FindRuns reports every run of line in ascending order. Together the runs cover
// the line exactly once. An empty line has no runs.
func FindRuns(line []uint8, fn func(Run)) {
	if len(line) == 0 {
		return
	}
	runStart := 0
	for i := 1; i < len(line); i++ {
		if line[i] != line[i-1] {
			fn(Run{Start: runStart, End: i, Shade: line[i-1]})
			runStart = i
		}
	}
	// The last run is never closed by a boundary; this also covers a line that is
	// a single shade from end to end.
	fn(Run{Start: runStart, End: len(line), Shade: line[len(line)-1]})
}

// DetectRuns runs FindRuns on line and forwards the runs that draw passes for
// scanline index. It returns the number of runs forwarded.
func DetectRuns(line []uint8, index int, draw Predicate, fn func(Run)) int {
	drawn := 0
	FindRuns(line, func(run Run) {
		if draw(run.Shade, index) {
			fn(run)
			drawn++
		}
	})
	return drawn
}
