package clipboard

import (
	"image"
	"image/color"
	"testing"
)

func TestPNGRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 3, 6, 5))
	src.Set(2, 3, color.NRGBA{R: 0xff, A: 0xff})

	data, err := encodePNG(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodePNG(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("unexpected bounds %v", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Fatalf("unexpected pixel %v", c)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decodePNG([]byte("nope")); err == nil {
		t.Fatal("expected error for non-PNG data")
	}
}
