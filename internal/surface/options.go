package surface

import (
	"image"
	"log/slog"
	"time"

	"github.com/example/inkdraw/internal/history"
	"github.com/example/inkdraw/internal/stroke"
)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground sets the read-only image strokes are drawn over. Unless
// WithSize is also given the surface takes the background's dimensions.
func WithBackground(img *image.RGBA) Option { return func(s *Surface) { s.background = img } }

// WithSize sets the surface dimensions in pixels.
func WithSize(width, height int) Option {
	return func(s *Surface) { s.width, s.height = width, height }
}

// WithBrush sets the initial brush.
func WithBrush(b stroke.Brush) Option { return func(s *Surface) { s.brush = b } }

// WithMinDistance sets the sample coalescing radius in surface pixels.
func WithMinDistance(d float64) Option { return func(s *Surface) { s.minDistance = d } }

// WithRedrawInterval bounds how often move samples trigger a preview render.
// Zero renders on every kept sample.
func WithRedrawInterval(d time.Duration) Option {
	return func(s *Surface) { s.redrawInterval = d }
}

// WithClock replaces time.Now for pointers that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Surface) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAvailabilityListener registers fn to be called whenever undo or redo
// availability may have changed.
func WithAvailabilityListener(fn func(history.Availability)) Option {
	return func(s *Surface) { s.history.OnChange(fn) }
}

// WithPreviewListener registers fn to receive every freshly rendered preview.
func WithPreviewListener(fn func(*image.RGBA)) Option {
	return func(s *Surface) { s.previewFn = fn }
}

// WithLogger overrides the package logger for one surface.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.log = l
		}
	}
}
