// Package tracker turns a pointer gesture into a stroke.
package tracker

import (
	"math"

	"github.com/example/inkdraw/internal/stroke"
)

// DefaultMinDistance is the coalescing radius, in surface pixels, applied
// when a Tracker is created with a non-positive distance.
const DefaultMinDistance = 1.0

// State is the gesture state of a Tracker.
type State int

const (
	Idle State = iota
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}
	return "idle"
}

// Tracker accumulates move samples for at most one gesture at a time.
// Samples closer than MinDistance to the last kept sample are dropped, which
// bounds memory and render cost for slow drags.
type Tracker struct {
	bounds      stroke.Bounds
	minDistance float64
	builder     *stroke.Builder
	dropped     int
}

// New returns an idle Tracker that clamps samples to bounds.
func New(bounds stroke.Bounds, minDistance float64) *Tracker {
	if !(minDistance > 0) {
		minDistance = DefaultMinDistance
	}
	return &Tracker{bounds: bounds, minDistance: minDistance}
}

// State returns Idle or Tracking.
func (t *Tracker) State() State {
	if t.builder != nil {
		return Tracking
	}
	return Idle
}

// MinDistance returns the coalescing radius.
func (t *Tracker) MinDistance() float64 { return t.minDistance }

// Dropped returns how many samples were coalesced away in the current or
// last gesture.
func (t *Tracker) Dropped() int { return t.dropped }

// Down starts a gesture at p with brush. It returns false and does nothing
// when a gesture is already being tracked.
func (t *Tracker) Down(p stroke.Point, brush stroke.Brush) bool {
	if t.builder != nil {
		return false
	}
	t.builder = stroke.Begin(p, brush, t.bounds)
	t.dropped = 0
	return true
}

// Move appends p to the gesture. It reports whether the sample was kept.
func (t *Tracker) Move(p stroke.Point) bool {
	if t.builder == nil {
		return false
	}
	p = t.bounds.Clamp(p, t.builder.Last())
	if distance(p, t.builder.Last()) < t.minDistance {
		t.dropped++
		return false
	}
	t.builder.Append(p)
	return true
}

// Up ends the gesture. The final sample is kept whenever it differs from the
// last kept one so the stroke ends exactly where the pointer was lifted.
func (t *Tracker) Up(p stroke.Point) (stroke.Stroke, bool) {
	if t.builder == nil {
		return stroke.Stroke{}, false
	}
	p = t.bounds.Clamp(p, t.builder.Last())
	if p != t.builder.Last() {
		t.builder.Append(p)
	}
	s := t.builder.Finalize()
	t.builder = nil
	return s, true
}

// Cancel abandons the gesture without producing a stroke. It reports whether
// a gesture was active.
func (t *Tracker) Cancel() bool {
	if t.builder == nil {
		return false
	}
	t.builder = nil
	return true
}

// Pending returns the in-flight stroke for previews.
func (t *Tracker) Pending() (stroke.Stroke, bool) {
	if t.builder == nil {
		return stroke.Stroke{}, false
	}
	return t.builder.Snapshot(), true
}

func distance(a, b stroke.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
