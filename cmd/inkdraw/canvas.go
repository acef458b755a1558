package main

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/example/inkdraw/internal/clipboard"
	"github.com/example/inkdraw/internal/config"
	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/surface"
)

var (
	pasteImageFn = clipboard.PasteImage
	copyImageFn  = clipboard.CopyImage
)

// canvasOptions are the flags shared by commands that build a surface.
type canvasOptions struct {
	file          string
	fromClipboard bool
	width         int
	height        int
	brushColor    string
	brushWidth    float64
}

// loadBackground returns the background image named by the options, or nil
// for a blank canvas.
func (o canvasOptions) loadBackground() (*image.RGBA, error) {
	switch {
	case o.fromClipboard && o.file != "":
		return nil, errors.New("-file and -from-clipboard cannot be combined")
	case o.fromClipboard:
		img, err := pasteImageFn()
		if err != nil {
			return nil, fmt.Errorf("failed to read clipboard: %w", err)
		}
		return img, nil
	case o.file != "":
		img, err := export.LoadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", o.file, err)
		}
		return img, nil
	}
	return nil, nil
}

// newSurface builds a surface from the configuration and options. A zero
// brush width leaves the surface to pick its size-relative default.
func newSurface(cfg *config.Config, o canvasOptions, extra ...surface.Option) (*surface.Surface, error) {
	bg, err := o.loadBackground()
	if err != nil {
		return nil, err
	}
	brush, err := cfg.BrushValue()
	if err != nil {
		return nil, fmt.Errorf("config brush: %w", err)
	}
	if c := strings.TrimSpace(o.brushColor); c != "" {
		if brush.Color, err = palette.ParseColor(c); err != nil {
			return nil, err
		}
	}
	if o.brushWidth > 0 {
		brush.Width = o.brushWidth
	}

	opts := []surface.Option{surface.WithBrush(brush)}
	if bg != nil {
		opts = append(opts, surface.WithBackground(bg))
	}
	switch {
	case o.width > 0 && o.height > 0:
		opts = append(opts, surface.WithSize(o.width, o.height))
	case o.width > 0 || o.height > 0:
		return nil, errors.New("-width and -height must be given together")
	}
	if cfg.Input.MinDistance > 0 {
		opts = append(opts, surface.WithMinDistance(cfg.Input.MinDistance))
	}
	if cfg.Input.RedrawInterval > 0 {
		opts = append(opts, surface.WithRedrawInterval(cfg.Input.RedrawInterval))
	}
	opts = append(opts, extra...)
	return surface.New(opts...), nil
}
