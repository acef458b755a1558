// Package surface is the drawing engine hosts talk to. It turns pointer
// input into strokes, keeps undo/redo history and renders previews and
// export bitmaps.
package surface

import (
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/example/inkdraw/internal/history"
	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/render"
	"github.com/example/inkdraw/internal/stroke"
	"github.com/example/inkdraw/internal/tracker"
)

// Surface size used when neither a background nor WithSize is supplied.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// DefaultRedrawInterval limits preview renders during a drag to roughly one
// per display frame.
const DefaultRedrawInterval = 16 * time.Millisecond

// Pointer is one input sample. A zero Time means "now" according to the
// surface clock.
type Pointer struct {
	X, Y float64
	Time time.Time
}

// EventKind identifies the phase of a pointer gesture.
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
	Cancel
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	}
	return "unknown"
}

// Event is a pointer sample tagged with its phase.
type Event struct {
	Kind EventKind
	Pointer
}

// Surface owns the strokes drawn over one background. It is not safe for
// concurrent use; hosts serialize calls on their event loop.
type Surface struct {
	width, height int
	background    *image.RGBA
	brush         stroke.Brush

	history    *history.History
	tracker    *tracker.Tracker
	compositor render.Compositor

	minDistance    float64
	redrawInterval time.Duration
	now            func() time.Time
	previewFn      func(*image.RGBA)
	log            *slog.Logger

	preview    *image.RGBA
	stale      bool
	lastRender time.Time
	closed     bool
}

// New returns a Surface configured by opts.
func New(opts ...Option) *Surface {
	s := &Surface{
		history:        history.New(),
		minDistance:    tracker.DefaultMinDistance,
		redrawInterval: DefaultRedrawInterval,
		now:            time.Now,
		log:            Logger(),
		brush:          stroke.Brush{Color: palette.Default().Color},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.width <= 0 || s.height <= 0 {
		if s.background != nil && !s.background.Bounds().Empty() {
			s.width, s.height = s.background.Bounds().Dx(), s.background.Bounds().Dy()
		} else {
			s.width, s.height = DefaultWidth, DefaultHeight
		}
	}
	if s.brush.Width <= 0 {
		s.brush.Width = palette.RelativeWidth(palette.DefaultRelativeWidth, s.width, s.height)
	}
	s.brush = s.brush.Sanitized()
	s.compositor = render.Compositor{SurfaceWidth: s.width, SurfaceHeight: s.height}
	s.tracker = tracker.New(stroke.Bounds{Width: float64(s.width), Height: float64(s.height)}, s.minDistance)
	s.stale = true
	return s
}

// Size returns the surface dimensions.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Background returns the read-only background image, or nil.
func (s *Surface) Background() *image.RGBA { return s.background }

// SetBrush replaces the brush used by strokes that start after the call.
func (s *Surface) SetBrush(c color.RGBA, width float64, mode stroke.Mode) {
	s.brush = stroke.Brush{Color: c, Width: width, Mode: mode}.Sanitized()
}

// Brush returns the current brush.
func (s *Surface) Brush() stroke.Brush { return s.brush }

// SetColor changes only the brush color.
func (s *Surface) SetColor(c color.RGBA) { s.SetBrush(c, s.brush.Width, s.brush.Mode) }

// SetWidth changes only the brush width.
func (s *Surface) SetWidth(w float64) { s.SetBrush(s.brush.Color, w, s.brush.Mode) }

// SetMode switches between drawing and erasing.
func (s *Surface) SetMode(m stroke.Mode) { s.SetBrush(s.brush.Color, s.brush.Width, m) }

// Drawing reports whether a gesture is in progress.
func (s *Surface) Drawing() bool { return s.tracker.State() == tracker.Tracking }

// HandlePointer dispatches e to the matching Pointer method.
func (s *Surface) HandlePointer(e Event) {
	switch e.Kind {
	case Down:
		s.PointerDown(e.Pointer)
	case Move:
		s.PointerMove(e.Pointer)
	case Up:
		s.PointerUp(e.Pointer)
	case Cancel:
		s.PointerCancel(e.Pointer)
	}
}

// PointerDown starts a stroke with the current brush. It is ignored while
// another gesture is active or after Close.
func (s *Surface) PointerDown(p Pointer) {
	if s.closed {
		return
	}
	if !s.tracker.Down(stroke.Pt(p.X, p.Y), s.brush) {
		s.log.Debug("surface: pointer down ignored, gesture active")
		return
	}
	s.renderPreview(s.stamp(p))
}

// PointerMove extends the active stroke. The preview is re-rendered at most
// once per redraw interval; skipped renders are picked up by the next
// render or by Preview.
func (s *Surface) PointerMove(p Pointer) {
	if s.closed || !s.tracker.Move(stroke.Pt(p.X, p.Y)) {
		return
	}
	s.stale = true
	at := s.stamp(p)
	if s.redrawInterval > 0 && !s.lastRender.IsZero() && at.Sub(s.lastRender) < s.redrawInterval {
		return
	}
	s.renderPreview(at)
}

// PointerUp finishes the active stroke and commits it to history.
func (s *Surface) PointerUp(p Pointer) {
	if s.closed {
		return
	}
	st, ok := s.tracker.Up(stroke.Pt(p.X, p.Y))
	if !ok {
		return
	}
	av := s.history.Commit(st)
	s.log.Debug("surface: stroke committed",
		"id", st.ID(),
		"points", st.Len(),
		"dropped", s.tracker.Dropped(),
		"bounds", st.Bounds().String(),
		"mode", st.Mode().String(),
		"undo", av.Undo,
		"redo", av.Redo,
	)
	s.renderPreview(s.stamp(p))
}

// PointerCancel abandons the active stroke without touching history.
func (s *Surface) PointerCancel(p Pointer) {
	if !s.tracker.Cancel() {
		return
	}
	s.log.Debug("surface: gesture cancelled")
	if !s.closed {
		s.renderPreview(s.stamp(p))
	}
}

// Undo removes the newest committed stroke.
func (s *Surface) Undo() history.Availability {
	ok, av := s.history.Undo()
	if ok {
		s.log.Debug("surface: undo", "undo", av.Undo, "redo", av.Redo)
		s.renderPreview(s.now())
	}
	return av
}

// Redo restores the most recently undone stroke.
func (s *Surface) Redo() history.Availability {
	ok, av := s.history.Redo()
	if ok {
		s.log.Debug("surface: redo", "undo", av.Undo, "redo", av.Redo)
		s.renderPreview(s.now())
	}
	return av
}

// Availability reports whether Undo and Redo would have an effect.
func (s *Surface) Availability() history.Availability { return s.history.Availability() }

// Strokes returns the committed strokes in paint order.
func (s *Surface) Strokes() []stroke.Stroke { return s.history.Active() }

// Clear drops every stroke including the redo stack and any gesture in
// progress.
func (s *Surface) Clear() history.Availability {
	s.tracker.Cancel()
	av := s.history.Clear()
	s.log.Debug("surface: cleared")
	s.renderPreview(s.now())
	return av
}

// Preview returns the latest preview: committed strokes plus the stroke
// being drawn. A preview skipped by the redraw interval is rendered now.
// The returned image is shared until the next render and must not be
// modified.
func (s *Surface) Preview() *image.RGBA {
	if s.stale || s.preview == nil {
		s.renderPreview(s.now())
	}
	return s.preview
}

// ExportBitmap renders the committed strokes at width by height. A
// non-positive size uses the surface size. The in-flight stroke is not
// included.
func (s *Surface) ExportBitmap(width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		width, height = s.width, s.height
	}
	return s.compositor.Render(s.background, s.history.Active(), width, height)
}

// Close abandons any gesture in progress. Later pointer input is ignored;
// history, export and snapshots keep working.
func (s *Surface) Close() {
	if s.tracker.Cancel() {
		s.log.Debug("surface: gesture dropped on close")
		s.stale = true
	}
	s.closed = true
}

func (s *Surface) stamp(p Pointer) time.Time {
	if p.Time.IsZero() {
		return s.now()
	}
	return p.Time
}

func (s *Surface) renderPreview(at time.Time) {
	strokes := s.history.Active()
	if pending, ok := s.tracker.Pending(); ok {
		strokes = append(strokes, pending)
	}
	s.preview = s.compositor.Render(s.background, strokes, s.width, s.height)
	s.stale = false
	s.lastRender = at
	if s.previewFn != nil {
		s.previewFn(s.preview)
	}
}
