package appstate

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/example/inkdraw/internal/theme"
)

func TestNewViewportCentersAndFits(t *testing.T) {
	v := newViewport(100, 50, 300, 200+statusHeight)
	if v.zoom != 3 {
		t.Fatalf("expected zoom 3, got %v", v.zoom)
	}
	if want := image.Rect(0, 25, 300, 175); v.dst != want {
		t.Errorf("expected %v, got %v", want, v.dst)
	}

	v = newViewport(100, 100, 400, 100+statusHeight)
	if v.zoom != 1 || v.dst != image.Rect(150, 0, 250, 100) {
		t.Errorf("unexpected viewport %+v", v)
	}

	v = newViewport(100, 100, 0, 0)
	if v.zoom != 1 || v.dst != image.Rect(0, 0, 100, 100) {
		t.Errorf("degenerate window should map 1:1, got %+v", v)
	}
}

func TestToSurfaceInvertsViewport(t *testing.T) {
	v := newViewport(200, 100, 400, 300+statusHeight)
	x, y := v.toSurface(float32(v.dst.Min.X), float32(v.dst.Min.Y))
	if x != 0 || y != 0 {
		t.Errorf("expected origin, got %v,%v", x, y)
	}
	x, y = v.toSurface(float32(v.dst.Max.X), float32(v.dst.Max.Y))
	if math.Abs(x-200) > 1e-9 || math.Abs(y-100) > 1e-9 {
		t.Errorf("expected far corner, got %v,%v", x, y)
	}
}

func TestWindowSize(t *testing.T) {
	if w, h := windowSize(1024, 768); w != 1024 || h != 768+statusHeight {
		t.Errorf("unexpected size %dx%d", w, h)
	}
	if w, _ := windowSize(10, 10); w != minWinWidth {
		t.Errorf("expected minimum width, got %d", w)
	}
}

func TestDrawBackdropCheckerboard(t *testing.T) {
	th := theme.Default()
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))
	drawBackdrop(dst, th)
	if dst.RGBAAt(0, 0) != th.CheckerLight || dst.RGBAAt(8, 0) != th.CheckerDark || dst.RGBAAt(8, 8) != th.CheckerLight {
		t.Errorf("unexpected checkerboard %v %v %v", dst.RGBAAt(0, 0), dst.RGBAAt(8, 0), dst.RGBAAt(8, 8))
	}

	dark := *th
	dark.CheckerLight = color.RGBA{40, 40, 40, 255}
	drawBackdrop(dst, &dark)
	if dst.RGBAAt(0, 0) != dark.CheckerLight {
		t.Errorf("expected cache to follow the theme, got %v", dst.RGBAAt(0, 0))
	}
}

func TestComposeFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	red := color.RGBA{255, 0, 0, 255}
	for i := range img.Pix {
		if i%4 == 0 || i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	st := paintState{width: 100, height: 50 + statusHeight, img: img, brush: color.RGBA{0, 0, 255, 255}, status: "Blue"}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	if !composeFrame(context.Background(), dst, st) {
		t.Fatal("expected frame to complete")
	}
	if got := dst.RGBAAt(50, 25); got != red {
		t.Errorf("expected scaled drawing at center, got %v", got)
	}
	if got := dst.RGBAAt(5, 25); got == red {
		t.Error("expected backdrop outside the drawing")
	}
	bar := st.height - statusHeight
	if got := dst.RGBAAt(st.width-2, bar+2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected white status bar, got %v", got)
	}
	if got := dst.RGBAAt(4+swatchSize/2, bar+statusHeight/2); got != st.brush {
		t.Errorf("expected brush swatch, got %v", got)
	}
}

func TestComposeFrameUsesTheme(t *testing.T) {
	th := &theme.Theme{StatusBackground: color.RGBA{10, 20, 30, 255}}
	st := paintState{width: 60, height: 20 + statusHeight, theme: th}
	dst := image.NewRGBA(image.Rect(0, 0, st.width, st.height))
	composeFrame(context.Background(), dst, st)
	if got := dst.RGBAAt(st.width-2, st.height-2); got != th.StatusBackground {
		t.Errorf("expected themed status bar, got %v", got)
	}
}

func TestComposeFrameCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20+statusHeight))
	st := paintState{width: 20, height: 20 + statusHeight, message: "hi", messageUntil: time.Now().Add(time.Minute)}
	if composeFrame(ctx, dst, st) {
		t.Error("expected canceled frame to report false")
	}
}
