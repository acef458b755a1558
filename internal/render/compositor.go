// Package render rasterizes strokes over an optional background image.
package render

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/example/inkdraw/internal/stroke"
)

// Compositor renders strokes recorded in a surface of SurfaceWidth by
// SurfaceHeight pixels into rasters of any size. A zero surface dimension
// means "same as the background", or the target when there is none.
type Compositor struct {
	SurfaceWidth  int
	SurfaceHeight int
}

// Render composites strokes over background at the given size using a
// Compositor whose surface matches the background.
func Render(background *image.RGBA, strokes []stroke.Stroke, width, height int) *image.RGBA {
	return Compositor{}.Render(background, strokes, width, height)
}

// Render returns a freshly allocated raster of width by height pixels. A
// non-positive size falls back to the background size. Neither background
// nor strokes are modified.
func (c Compositor) Render(background *image.RGBA, strokes []stroke.Stroke, width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		if background != nil {
			width, height = background.Bounds().Dx(), background.Bounds().Dy()
		}
	}
	width, height = max(width, 0), max(height, 0)
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	if out.Bounds().Empty() {
		return out
	}
	if background != nil && !background.Bounds().Empty() {
		drawBackground(out, background)
	}

	sw, sh := c.surfaceSize(background, width, height)
	sx := float64(width) / float64(sw)
	sy := float64(height) / float64(sh)
	var ras vector.Rasterizer
	for _, s := range strokes {
		paintStroke(out, &ras, s, sx, sy)
	}
	return out
}

func (c Compositor) surfaceSize(background *image.RGBA, width, height int) (int, int) {
	sw, sh := c.SurfaceWidth, c.SurfaceHeight
	if sw <= 0 || sh <= 0 {
		if background != nil && !background.Bounds().Empty() {
			sw, sh = background.Bounds().Dx(), background.Bounds().Dy()
		} else {
			sw, sh = width, height
		}
	}
	return sw, sh
}

func drawBackground(dst, bg *image.RGBA) {
	if bg.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), bg, bg.Bounds().Min, draw.Src)
		return
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), bg, bg.Bounds(), draw.Src, nil)
}

// paintStroke fills the outline of s into a coverage mask the size of its
// bounding box and composites it onto dst.
func paintStroke(dst *image.RGBA, ras *vector.Rasterizer, s stroke.Stroke, sx, sy float64) {
	if s.Len() == 0 {
		return
	}
	r := s.Width() * (sx + sy) / 4
	if !(r > 0) || math.IsInf(r, 0) {
		return
	}

	pts := make([]vec, s.Len())
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range pts {
		p := s.At(i)
		v := vec{p.X * sx, p.Y * sy}
		pts[i] = v
		minX, minY = math.Min(minX, v.x), math.Min(minY, v.y)
		maxX, maxY = math.Max(maxX, v.x), math.Max(maxY, v.y)
	}
	box := image.Rect(
		int(math.Floor(minX-r))-1,
		int(math.Floor(minY-r))-1,
		int(math.Ceil(maxX+r))+1,
		int(math.Ceil(maxY+r))+1,
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	origin := vec{float64(box.Min.X), float64(box.Min.Y)}
	for i := range pts {
		pts[i] = pts[i].sub(origin)
	}
	w, h := box.Dx(), box.Dy()
	ras.Reset(w, h)
	ras.DrawOp = draw.Src
	outline{ras: ras}.polyline(pts, r)
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	switch s.Mode() {
	case stroke.ModeErase:
		draw.DrawMask(dst, box, image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
	default:
		draw.DrawMask(dst, box, image.NewUniform(s.Color()), image.Point{}, mask, image.Point{}, draw.Over)
	}
}
