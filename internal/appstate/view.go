package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	"golang.org/x/exp/shiny/screen"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/inkdraw/internal/theme"
)

const (
	statusHeight = 24
	swatchSize   = 16
	minWinWidth  = 320
)

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// viewport maps the surface onto the window area above the status bar.
type viewport struct {
	dst  image.Rectangle
	zoom float64
}

func fitZoom(imgW, imgH, availW, availH int) float64 {
	zx := float64(availW) / float64(imgW)
	zy := float64(availH) / float64(imgH)
	if zx < zy {
		return zx
	}
	return zy
}

// newViewport centers an imgW×imgH surface in the window, scaled to fit.
func newViewport(imgW, imgH, winW, winH int) viewport {
	availH := winH - statusHeight
	if imgW <= 0 || imgH <= 0 || winW <= 0 || availH <= 0 {
		return viewport{dst: image.Rect(0, 0, imgW, imgH), zoom: 1}
	}
	zoom := fitZoom(imgW, imgH, winW, availH)
	w := int(math.Round(float64(imgW) * zoom))
	h := int(math.Round(float64(imgH) * zoom))
	x := (winW - w) / 2
	y := (availH - h) / 2
	return viewport{dst: image.Rect(x, y, x+w, y+h), zoom: zoom}
}

// toSurface converts window pixel coordinates to surface coordinates.
func (v viewport) toSurface(x, y float32) (float64, float64) {
	return (float64(x) - float64(v.dst.Min.X)) / v.zoom, (float64(y) - float64(v.dst.Min.Y)) / v.zoom
}

// windowSize picks the initial window size for a surface.
func windowSize(imgW, imgH int) (int, int) {
	return max(imgW, minWinWidth), imgH + statusHeight
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// backdropCache holds a cached checkerboard backdrop. Only the paint
// goroutine touches it.
var (
	backdropCache *image.RGBA
	backdropTheme theme.Theme
)

func drawBackdrop(dst *image.RGBA, th *theme.Theme) {
	b := dst.Bounds()
	if backdropCache == nil || backdropCache.Bounds() != b || backdropTheme != *th {
		backdropCache = image.NewRGBA(b)
		backdropTheme = *th
		drawCheckerboard(backdropCache, backdropCache.Bounds(), 8, th.CheckerLight, th.CheckerDark)
	}
	draw.Draw(dst, b, backdropCache, image.Point{}, draw.Src)
}

// drawStatus paints the status bar into r: a swatch of the brush color
// followed by text.
func drawStatus(dst *image.RGBA, r image.Rectangle, th *theme.Theme, swatch color.RGBA, text string) {
	draw.Draw(dst, r, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1)
	draw.Draw(dst, top, image.NewUniform(th.StatusBorder), image.Point{}, draw.Src)

	pad := (r.Dy() - swatchSize) / 2
	sw := image.Rect(r.Min.X+4, r.Min.Y+pad, r.Min.X+4+swatchSize, r.Min.Y+pad+swatchSize)
	drawCheckerboard(dst, sw, 4, th.CheckerLight, th.CheckerDark)
	draw.Draw(dst, sw, image.NewUniform(swatch), image.Point{}, draw.Over)

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13,
		Dot: fixed.P(sw.Max.X+8, r.Min.Y+(r.Dy()+basicfont.Face7x13.Ascent)/2)}
	d.DrawString(text)
}

// drawMessage overlays a short centered message.
func drawMessage(dst *image.RGBA, width, height int, th *theme.Theme, msg string) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: messageFace}
	wmsg := d.MeasureString(msg).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := (height-statusHeight-ascent-descent)/2 + ascent
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	draw.Draw(dst, rect, image.NewUniform(th.MessageBackground), image.Point{}, draw.Over)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}

// paintState is an immutable snapshot of what a frame shows.
type paintState struct {
	width, height int
	theme         *theme.Theme
	img           *image.RGBA
	brush         color.RGBA
	status        string
	message       string
	messageUntil  time.Time
}

// composeFrame renders st into dst, returning false when ctx was canceled
// part way.
func composeFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	th := st.theme
	if th == nil {
		th = theme.Default()
	}
	drawBackdrop(dst, th)
	if ctx.Err() != nil {
		return false
	}
	if st.img != nil {
		v := newViewport(st.img.Bounds().Dx(), st.img.Bounds().Dy(), st.width, st.height)
		xdraw.NearestNeighbor.Scale(dst, v.dst, st.img, st.img.Bounds(), draw.Over, nil)
	}
	if ctx.Err() != nil {
		return false
	}
	bar := image.Rect(0, st.height-statusHeight, st.width, st.height)
	drawStatus(dst, bar, th, st.brush, st.status)
	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st.width, st.height, th, st.message)
	}
	return ctx.Err() == nil
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	if !composeFrame(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
