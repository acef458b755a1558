// Package palette holds the named brush colors and width presets offered to
// hosts.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// Color is a palette entry.
type Color struct {
	Name  string
	Color color.RGBA
}

// DefaultRelativeWidth is the brush width as a fraction of the shorter image
// side used when no explicit width is configured.
const DefaultRelativeWidth = 0.02

const defaultColorIndex = 4

var (
	mu     sync.RWMutex
	colors = []Color{
		{"Black", color.RGBA{0x00, 0x00, 0x00, 0xff}},
		{"Red", color.RGBA{0xf4, 0x43, 0x36, 0xff}},
		{"Yellow", color.RGBA{0xff, 0xeb, 0x3b, 0xff}},
		{"Green", color.RGBA{0x4c, 0xaf, 0x50, 0xff}},
		{"Blue", color.RGBA{0x21, 0x96, 0xf3, 0xff}},
		{"Pink", color.RGBA{0xe9, 0x1e, 0x63, 0xff}},
		{"Brown", color.RGBA{0x79, 0x55, 0x48, 0xff}},
	}
	widths = []float64{2, 4, 8, 12, 16, 24}
)

// Colors returns a copy of the palette.
func Colors() []Color {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Color, len(colors))
	copy(out, colors)
	return out
}

// Default returns the color new brushes start with.
func Default() Color {
	return At(defaultColorIndex)
}

// DefaultIndex returns the palette index of Default.
func DefaultIndex() int { return defaultColorIndex }

// Len returns the number of palette entries.
func Len() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(colors)
}

// At returns the entry at idx, clamped to the palette.
func At(idx int) Color {
	mu.RLock()
	defer mu.RUnlock()
	if len(colors) == 0 {
		return Color{}
	}
	return colors[clamp(idx, len(colors))]
}

// IndexOf returns the index of c, or -1.
func IndexOf(c color.RGBA) int {
	mu.RLock()
	defer mu.RUnlock()
	for i, e := range colors {
		if e.Color == c {
			return i
		}
	}
	return -1
}

// Lookup finds a palette entry by case-insensitive name.
func Lookup(name string) (Color, bool) {
	mu.RLock()
	defer mu.RUnlock()
	for _, e := range colors {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Color{}, false
}

// Ensure adds c to the palette unless an entry with the same color exists and
// returns its index. An empty name is replaced by the hex value.
func Ensure(c color.RGBA, name string) int {
	mu.Lock()
	defer mu.Unlock()
	for i, e := range colors {
		if e.Color == c {
			if name != "" && e.Name == "" {
				colors[i].Name = name
			}
			return i
		}
	}
	if name == "" {
		name = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	colors = append(colors, Color{Name: name, Color: c})
	return len(colors) - 1
}

// Widths returns a copy of the width presets in ascending order.
func Widths() []float64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]float64, len(widths))
	copy(out, widths)
	return out
}

// EnsureWidth adds w to the presets and returns its index. Widths below one
// pixel are raised to one.
func EnsureWidth(w float64) int {
	if !(w >= 1) || math.IsInf(w, 1) {
		w = 1
	}
	mu.Lock()
	defer mu.Unlock()
	if i := indexOfWidth(w); i >= 0 {
		return i
	}
	widths = append(widths, w)
	sort.Float64s(widths)
	return indexOfWidth(w)
}

func indexOfWidth(w float64) int {
	for i, v := range widths {
		if v == w {
			return i
		}
	}
	return -1
}

// NearestWidth returns the index of the preset closest to w.
func NearestWidth(w float64) int {
	mu.RLock()
	defer mu.RUnlock()
	best, bestDiff := 0, math.Inf(1)
	for i, v := range widths {
		if d := math.Abs(v - w); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// WidthAt returns the preset at idx, clamped.
func WidthAt(idx int) float64 {
	mu.RLock()
	defer mu.RUnlock()
	if len(widths) == 0 {
		return 1
	}
	return widths[clamp(idx, len(widths))]
}

// RelativeWidth converts a fraction of the shorter image side into pixels.
// The result is never below one pixel.
func RelativeWidth(fraction float64, width, height int) float64 {
	side := min(width, height)
	if side <= 0 || !(fraction > 0) {
		return 1
	}
	return math.Max(1, fraction*float64(side))
}

// ParseColor accepts a palette name, an SVG color name or #RGB, #RRGGBB and
// #RRGGBBAA hex values. Translucent hex colors are returned premultiplied.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if e, ok := Lookup(name); ok {
		return e.Color, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := name[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	n := color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}

// Name returns the palette name of c or its hex value.
func Name(c color.RGBA) string {
	if i := IndexOf(c); i >= 0 {
		return At(i).Name
	}
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

func clamp(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
