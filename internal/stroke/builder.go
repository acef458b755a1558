package stroke

import (
	"math"

	"github.com/google/uuid"
)

// Bounds is the drawable area of a surface. Samples are clamped to
// [0, Width] × [0, Height]. A zero dimension leaves that axis unclamped.
type Bounds struct {
	Width  float64
	Height float64
}

// Clamp brings p inside the bounds. NaN coordinates are replaced by the
// matching coordinate of fallback; infinities are clamped like any other
// out-of-range value, or replaced by fallback on an unbounded axis.
func (b Bounds) Clamp(p, fallback Point) Point {
	p.X = clampAxis(p.X, b.Width, fallback.X)
	p.Y = clampAxis(p.Y, b.Height, fallback.Y)
	return p
}

func clampAxis(v, limit, fallback float64) float64 {
	if math.IsNaN(v) {
		v = fallback
	}
	if limit <= 0 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0
		}
		return v
	}
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// Builder accumulates samples for a stroke that is still being drawn.
type Builder struct {
	id     string
	brush  Brush
	bounds Bounds
	points []Point
	done   bool
}

// Begin starts a new stroke at origin using brush. The origin is clamped to
// bounds so the builder always holds at least one valid sample.
func Begin(origin Point, brush Brush, bounds Bounds) *Builder {
	b := &Builder{
		id:     uuid.NewString(),
		brush:  brush.Sanitized(),
		bounds: bounds,
		points: make([]Point, 0, 16),
	}
	b.points = append(b.points, bounds.Clamp(origin, Point{}))
	return b
}

// Append adds a sample and returns the value actually stored. Samples
// appended after Finalize are ignored.
func (b *Builder) Append(p Point) Point {
	p = b.bounds.Clamp(p, b.Last())
	if b.done {
		return p
	}
	b.points = append(b.points, p)
	return p
}

// Last returns the most recent sample.
func (b *Builder) Last() Point { return b.points[len(b.points)-1] }

// Len returns the number of samples collected so far.
func (b *Builder) Len() int { return len(b.points) }

// Brush returns the paint settings captured when the stroke began.
func (b *Builder) Brush() Brush { return b.brush }

// Snapshot returns the stroke as drawn so far without ending it.
func (b *Builder) Snapshot() Stroke {
	pts := make([]Point, len(b.points))
	copy(pts, b.points)
	return Stroke{id: b.id, points: pts, brush: b.brush}
}

// Finalize freezes the collected samples into an immutable Stroke.
func (b *Builder) Finalize() Stroke {
	b.done = true
	return b.Snapshot()
}
