package surface

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/example/inkdraw/internal/render"
	"github.com/example/inkdraw/internal/stroke"
	"github.com/example/inkdraw/internal/tracker"
)

// ErrInvalidSnapshot is returned by Restore for data it cannot use.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

const snapshotVersion = 1

// Limits applied to restored surfaces and backgrounds.
const (
	maxSnapshotSide   = 16384
	maxSnapshotPixels = 1 << 26
)

type snapshotJSON struct {
	Version    int             `json:"version"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Background []byte          `json:"background,omitempty"`
	Active     []stroke.Stroke `json:"active"`
	Redo       []stroke.Stroke `json:"redo"`
	Brush      brushJSON       `json:"brush"`
}

type brushJSON struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Mode  string  `json:"mode"`
}

// Snapshot serializes the background, both history stacks and the brush.
// A gesture in progress is not part of the snapshot.
func (s *Surface) Snapshot() ([]byte, error) {
	snap := snapshotJSON{
		Version: snapshotVersion,
		Width:   s.width,
		Height:  s.height,
		Active:  s.history.Active(),
		Redo:    s.history.RedoStack(),
		Brush: brushJSON{
			Color: stroke.FormatHex(s.brush.Color),
			Width: s.brush.Width,
			Mode:  s.brush.Mode.String(),
		},
	}
	if s.background != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, s.background); err != nil {
			return nil, fmt.Errorf("encode background: %w", err)
		}
		snap.Background = buf.Bytes()
	}
	return json.Marshal(snap)
}

// Restore replaces the surface state with a value produced by Snapshot. On
// error the surface is left unchanged.
func (s *Surface) Restore(data []byte) error {
	var snap snapshotJSON
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn("surface: snapshot rejected", "err", err)
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidSnapshot, snap.Version)
	}
	if !sizeAllowed(snap.Width, snap.Height) {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidSnapshot, snap.Width, snap.Height)
	}
	brush, err := snap.Brush.decode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	for _, st := range [][]stroke.Stroke{snap.Active, snap.Redo} {
		if err := checkPoints(st, snap.Width, snap.Height); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}
	var bg *image.RGBA
	if len(snap.Background) > 0 {
		cfg, err := png.DecodeConfig(bytes.NewReader(snap.Background))
		if err != nil {
			return fmt.Errorf("%w: background: %v", ErrInvalidSnapshot, err)
		}
		if !sizeAllowed(cfg.Width, cfg.Height) {
			return fmt.Errorf("%w: background size %dx%d", ErrInvalidSnapshot, cfg.Width, cfg.Height)
		}
		img, err := png.Decode(bytes.NewReader(snap.Background))
		if err != nil {
			return fmt.Errorf("%w: background: %v", ErrInvalidSnapshot, err)
		}
		bg = toRGBA(img)
	}

	s.tracker = tracker.New(stroke.Bounds{Width: float64(snap.Width), Height: float64(snap.Height)}, s.minDistance)
	s.width, s.height = snap.Width, snap.Height
	s.background = bg
	s.brush = brush
	s.compositor = render.Compositor{SurfaceWidth: s.width, SurfaceHeight: s.height}
	av := s.history.Restore(snap.Active, snap.Redo)
	s.log.Info("surface: snapshot restored",
		"width", s.width,
		"height", s.height,
		"active", len(snap.Active),
		"redo", len(snap.Redo),
		"undo_available", av.Undo,
	)
	s.renderPreview(s.now())
	return nil
}

func sizeAllowed(w, h int) bool {
	if w <= 0 || h <= 0 || w > maxSnapshotSide || h > maxSnapshotSide {
		return false
	}
	return w*h <= maxSnapshotPixels
}

// checkPoints rejects points a Builder on a w by h surface could not have
// produced.
func checkPoints(strokes []stroke.Stroke, w, h int) error {
	fw, fh := float64(w), float64(h)
	for _, st := range strokes {
		for i := 0; i < st.Len(); i++ {
			p := st.At(i)
			if !(p.X >= 0 && p.X <= fw && p.Y >= 0 && p.Y <= fh) {
				return fmt.Errorf("stroke %s point %d (%v,%v) outside %dx%d", st.ID(), i, p.X, p.Y, w, h)
			}
		}
	}
	return nil
}

func (b brushJSON) decode() (stroke.Brush, error) {
	c, err := stroke.ParseHex(b.Color)
	if err != nil {
		return stroke.Brush{}, err
	}
	m, err := stroke.ParseMode(b.Mode)
	if err != nil {
		return stroke.Brush{}, err
	}
	if !(b.Width > 0) {
		return stroke.Brush{}, fmt.Errorf("brush width %v", b.Width)
	}
	return stroke.Brush{Color: c, Width: b.Width, Mode: m}.Sanitized(), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
