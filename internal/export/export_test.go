package export

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	img.SetRGBA(3, 4, color.RGBA{R: 0xff, A: 0xff})
	img.SetRGBA(5, 5, color.RGBA{G: 0x40, A: 0x80})
	return img
}

func TestPNGRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), PNG))
	got, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 12, 8), got.Bounds())
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, got.RGBAAt(3, 4))
	assert.Zero(t, got.RGBAAt(0, 0).A)
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample(), "PDF"))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
	assert.Contains(t, buf.String(), "%%EOF")

	assert.Error(t, EncodePDF(&buf, image.NewRGBA(image.Rectangle{})))
}

func TestUnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, sample(), "gif")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, PDF, FormatFromPath("out/drawing.PDF", PNG))
	assert.Equal(t, PNG, FormatFromPath("drawing.png", PDF))
	assert.Equal(t, PDF, FormatFromPath("drawing.jpg", PDF))
	assert.Equal(t, PNG, FormatFromPath("drawing", PNG))
}

func TestWriteAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.png")
	require.NoError(t, WriteFile(path, sample(), FormatFromPath(path, PDF)))
	img, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(3, 4))

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeGarbage(t *testing.T) {
	_, err := DecodeImage(strings.NewReader("definitely not an image"))
	assert.Error(t, err)
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	src.Set(10, 10, color.NRGBA{B: 0xff, A: 0xff})
	out := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, out.RGBAAt(0, 0))

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, ToRGBA(same))
}
