package tool

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// MeasureState is the measurement tool's finite state.
type MeasureState int

const (
	// Ready: no path yet, waiting for the first click.
	Ready MeasureState = iota
	// Measuring: at least one committed point, preview follows the pointer.
	Measuring
	// Finishing: the tail marker was clicked; the next map click finalizes.
	Finishing
	// Done: path finalized with a pinned tooltip; the next click clears it.
	Done
)

func (s MeasureState) String() string {
	switch s {
	case Ready:
		return "ready"
	case Measuring:
		return "measuring"
	case Finishing:
		return "finishing"
	case Done:
		return "done"
	}
	return "unknown"
}

// pointEps absorbs floating-point drift when comparing clicked
// coordinates against the path tail.
const pointEps = 1e-5

// Measure implements the distance measuring tool. Clicks append to a
// committed polyline and accumulate scaled Euclidean distance; pointer
// moves update only a dashed preview segment. Clicking the path tail
// arms finalization, the next click pins the tooltip, and a further
// click resets everything.
type Measure struct {
	host  Host
	state MeasureState

	path    []orb.Point
	total   float64 // committed distance × map scale
	preview *orb.Point
	pinned  string // finalized tooltip text, set in Done
}

// NewMeasure creates the measure tool.
func NewMeasure() *Measure {
	return &Measure{}
}

func (t *Measure) Name() string  { return "measure" }
func (t *Measure) Label() string { return "Measure distance" }

func (t *Measure) OnAdd(h Host) { t.host = h }

func (t *Measure) OnRemove() {
	t.reset()
	t.host = nil
}

func (t *Measure) OnSelected() {
	t.host.SetCursor("crosshair")
}

// OnDeselected releases the cursor override and drops all measurement
// state, whatever the current phase. The next selection starts fresh.
func (t *Measure) OnDeselected() {
	t.host.ClearCursor()
	t.reset()
	t.host.Repaint()
}

func (t *Measure) reset() {
	t.state = Ready
	t.path = nil
	t.total = 0
	t.preview = nil
	t.pinned = ""
}

// OnMapClick drives the state machine. A click on (or within pointEps
// of) the current tail counts as a tail click.
func (t *Measure) OnMapClick(p orb.Point) {
	switch t.state {
	case Ready, Measuring:
		if t.state == Measuring && t.isTail(p) {
			t.OnTailClick()
			return
		}
		if n := len(t.path); n > 0 {
			t.total += planar.Distance(t.path[n-1], p) * t.host.Scale()
		}
		t.path = append(t.path, p)
		t.preview = nil
		t.state = Measuring
	case Finishing:
		t.pinned = t.formatDistance(t.total)
		t.preview = nil
		t.state = Done
	case Done:
		t.reset()
	}
	t.host.Repaint()
}

// OnTailClick arms finalization. Only meaningful while measuring.
func (t *Measure) OnTailClick() {
	if t.state != Measuring {
		return
	}
	t.state = Finishing
	t.host.Repaint()
}

// OnPointerMove updates the live preview segment and its running total.
// The committed path and total are untouched.
func (t *Measure) OnPointerMove(p orb.Point) {
	if t.state != Measuring {
		return
	}
	t.preview = &p
	t.host.Repaint()
}

func (t *Measure) isTail(p orb.Point) bool {
	n := len(t.path)
	if n == 0 {
		return false
	}
	tail := t.path[n-1]
	return math.Abs(tail[0]-p[0]) <= pointEps && math.Abs(tail[1]-p[1]) <= pointEps
}

// State returns the current machine state.
func (t *Measure) State() MeasureState { return t.state }

// Path returns the committed points in click order.
func (t *Measure) Path() []orb.Point { return t.path }

// Tail returns the last committed point, if any.
func (t *Measure) Tail() (orb.Point, bool) {
	if len(t.path) == 0 {
		return orb.Point{}, false
	}
	return t.path[len(t.path)-1], true
}

// Total returns the committed scaled distance.
func (t *Measure) Total() float64 { return t.total }

// Preview returns the live pointer position while measuring, if set.
func (t *Measure) Preview() (orb.Point, bool) {
	if t.preview == nil {
		return orb.Point{}, false
	}
	return *t.preview, true
}

// Pinned returns the finalized tooltip text once the tool is Done.
func (t *Measure) Pinned() (string, bool) {
	return t.pinned, t.pinned != ""
}

// TooltipText returns the running-total tooltip: the committed distance
// plus the preview segment when the pointer is live.
func (t *Measure) TooltipText() string {
	total := t.total
	if t.preview != nil {
		if tail, ok := t.Tail(); ok {
			total += planar.Distance(tail, *t.preview) * t.host.Scale()
		}
	}
	return t.formatDistance(total)
}

func (t *Measure) formatDistance(d float64) string {
	unit := t.host.Unit()
	if unit == "" {
		return fmt.Sprintf("%.2f", d)
	}
	return fmt.Sprintf("%.2f %s", d, unit)
}
