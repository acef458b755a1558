// Package stroke models freehand marks: ordered point samples painted with a
// single color, width and mode.
package stroke

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Point is a position in surface-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Mode selects how a stroke affects the pixels beneath it.
type Mode int

const (
	// ModeDraw paints the stroke color over existing pixels.
	ModeDraw Mode = iota
	// ModeErase clears existing pixels to full transparency.
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeErase:
		return "erase"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode converts "draw" or "erase" (case-insensitive) into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "pen", "":
		return ModeDraw, nil
	case "erase", "eraser":
		return ModeErase, nil
	}
	return ModeDraw, fmt.Errorf("unknown stroke mode %q", s)
}

// Brush holds the paint settings applied to strokes when they begin.
type Brush struct {
	Color color.RGBA
	Width float64
	Mode  Mode
}

// Sanitized returns b with a usable width. Non-positive, NaN and infinite
// widths become 1.
func (b Brush) Sanitized() Brush {
	if !(b.Width > 0) || math.IsInf(b.Width, 1) {
		b.Width = 1
	}
	if b.Mode != ModeErase {
		b.Mode = ModeDraw
	}
	return b
}

// Stroke is a finished freehand mark. The zero value is not a valid stroke;
// obtain one from Builder.Finalize or New.
type Stroke struct {
	id     string
	points []Point
	brush  Brush
}

// ErrInvalidStroke reports stroke data that cannot be rendered.
var ErrInvalidStroke = errors.New("invalid stroke")

// New validates the inputs and returns an immutable Stroke. An empty id is
// replaced by a fresh UUID.
func New(id string, points []Point, brush Brush) (Stroke, error) {
	if len(points) == 0 {
		return Stroke{}, fmt.Errorf("%w: no points", ErrInvalidStroke)
	}
	for i, p := range points {
		if !p.finite() {
			return Stroke{}, fmt.Errorf("%w: point %d is not finite", ErrInvalidStroke, i)
		}
	}
	if !(brush.Width > 0) || math.IsInf(brush.Width, 1) {
		return Stroke{}, fmt.Errorf("%w: width %v", ErrInvalidStroke, brush.Width)
	}
	if brush.Mode != ModeDraw && brush.Mode != ModeErase {
		return Stroke{}, fmt.Errorf("%w: %v", ErrInvalidStroke, brush.Mode)
	}
	if id == "" {
		id = uuid.NewString()
	}
	pts := make([]Point, len(points))
	copy(pts, points)
	return Stroke{id: id, points: pts, brush: brush}, nil
}

// ID returns the stroke identifier.
func (s Stroke) ID() string { return s.id }

// Len returns the number of samples in the stroke.
func (s Stroke) Len() int { return len(s.points) }

// At returns the i-th sample.
func (s Stroke) At(i int) Point { return s.points[i] }

// Points returns a copy of the samples in drawing order.
func (s Stroke) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

func (s Stroke) Color() color.RGBA { return s.brush.Color }
func (s Stroke) Width() float64    { return s.brush.Width }
func (s Stroke) Mode() Mode        { return s.brush.Mode }
func (s Stroke) Brush() Brush      { return s.brush }

// IsDot reports whether every sample sits on the first one, i.e. the stroke
// came from a tap without drag.
func (s Stroke) IsDot() bool {
	if len(s.points) == 0 {
		return false
	}
	first := s.points[0]
	for _, p := range s.points[1:] {
		if p != first {
			return false
		}
	}
	return true
}

// Bounds returns the pixel rectangle touched by the stroke, including half
// the width on every side.
func (s Stroke) Bounds() image.Rectangle {
	if len(s.points) == 0 {
		return image.Rectangle{}
	}
	minX, minY := s.points[0].X, s.points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	pad := s.brush.Width / 2
	return image.Rect(
		int(math.Floor(minX-pad)),
		int(math.Floor(minY-pad)),
		int(math.Ceil(maxX+pad)),
		int(math.Ceil(maxY+pad)),
	)
}

type strokeJSON struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Mode   string  `json:"mode"`
}

// MarshalJSON implements json.Marshaler.
func (s Stroke) MarshalJSON() ([]byte, error) {
	return json.Marshal(strokeJSON{
		ID:     s.id,
		Points: s.points,
		Color:  FormatHex(s.brush.Color),
		Width:  s.brush.Width,
		Mode:   s.brush.Mode.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded stroke is validated
// with the same rules as New.
func (s *Stroke) UnmarshalJSON(data []byte) error {
	var raw strokeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	col, err := ParseHex(raw.Color)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStroke, err)
	}
	mode, err := ParseMode(raw.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStroke, err)
	}
	st, err := New(raw.ID, raw.Points, Brush{Color: col, Width: raw.Width, Mode: mode})
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// FormatHex renders c as #RRGGBBAA.
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// ParseHex is the inverse of FormatHex.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q is not #RRGGBBAA", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}
