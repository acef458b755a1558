package stroke

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func TestBuilderClampsNoisyInput(t *testing.T) {
	b := Begin(Pt(-5, 20), Brush{Color: red, Width: 4}, Bounds{Width: 100, Height: 50})
	assert.Equal(t, Pt(0, 20), b.Last())

	assert.Equal(t, Pt(100, 50), b.Append(Pt(250, 80)))
	assert.Equal(t, Pt(100, 0), b.Append(Pt(math.Inf(1), math.Inf(-1))))
	assert.Equal(t, Pt(100, 0), b.Append(Pt(math.NaN(), math.NaN())), "NaN keeps the previous sample")
	assert.Equal(t, Pt(30, 0), b.Append(Pt(30, math.NaN())))

	s := b.Finalize()
	require.Equal(t, 5, s.Len())
	for _, p := range s.Points() {
		assert.True(t, p.finite())
	}
}

func TestBuilderUnboundedAxis(t *testing.T) {
	b := Begin(Pt(math.NaN(), 3), Brush{Width: 1}, Bounds{})
	assert.Equal(t, Pt(0, 3), b.Last())
	assert.Equal(t, Pt(-40, 0), b.Append(Pt(-40, math.Inf(1))))
}

func TestFinalizeIsImmutable(t *testing.T) {
	b := Begin(Pt(1, 1), Brush{Color: red, Width: 2}, Bounds{})
	b.Append(Pt(2, 2))
	s := b.Finalize()
	b.Append(Pt(3, 3))
	assert.Equal(t, 2, s.Len())

	pts := s.Points()
	pts[0] = Pt(99, 99)
	assert.Equal(t, Pt(1, 1), s.At(0))
}

func TestBeginSanitizesWidth(t *testing.T) {
	for _, w := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		s := Begin(Pt(0, 0), Brush{Width: w}, Bounds{}).Finalize()
		assert.Equal(t, 1.0, s.Width(), "width %v", w)
	}
}

func TestTapIsDot(t *testing.T) {
	s := Begin(Pt(10, 10), Brush{Color: red, Width: 6}, Bounds{}).Finalize()
	assert.True(t, s.IsDot())
	assert.Equal(t, image.Rect(7, 7, 13, 13), s.Bounds())

	b := Begin(Pt(10, 10), Brush{Width: 6}, Bounds{})
	b.Append(Pt(12, 10))
	assert.False(t, b.Finalize().IsDot())
}

func TestNewRejectsInvalidData(t *testing.T) {
	_, err := New("", nil, Brush{Width: 1})
	assert.True(t, errors.Is(err, ErrInvalidStroke))

	_, err = New("", []Point{Pt(math.NaN(), 0)}, Brush{Width: 1})
	assert.True(t, errors.Is(err, ErrInvalidStroke))

	_, err = New("", []Point{Pt(0, 0)}, Brush{Width: 0})
	assert.True(t, errors.Is(err, ErrInvalidStroke))

	s, err := New("", []Point{Pt(0, 0)}, Brush{Width: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
}

func TestStrokeJSON(t *testing.T) {
	b := Begin(Pt(1, 2), Brush{Color: color.RGBA{R: 10, G: 20, B: 30, A: 40}, Width: 3, Mode: ModeErase}, Bounds{})
	b.Append(Pt(4, 5))
	s := b.Finalize()

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"color":"#0A141E28"`)
	assert.Contains(t, string(data), `"mode":"erase"`)

	var got Stroke
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s, got)

	err = json.Unmarshal([]byte(`{"id":"x","points":[],"color":"#000000FF","width":1,"mode":"draw"}`), &got)
	assert.True(t, errors.Is(err, ErrInvalidStroke))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Erase")
	require.NoError(t, err)
	assert.Equal(t, ModeErase, m)
	_, err = ParseMode("smudge")
	assert.Error(t, err)
	assert.Equal(t, "draw", ModeDraw.String())
}
