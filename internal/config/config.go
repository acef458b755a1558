package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/stroke"
)

// Formats accepted for exports.
const (
	FormatPNG = export.PNG
	FormatPDF = export.PDF
)

// EnvFormat overrides the configured export format.
const EnvFormat = "INKDRAW_FORMAT"

// Brush holds the initial brush. Zero values mean "use the built-in
// default".
type Brush struct {
	Color string
	Width float64
	Mode  string
}

// Input tunes pointer handling.
type Input struct {
	MinDistance    float64
	RedrawInterval time.Duration
}

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir string
	Format  string
	// Theme names the window theme, or a path to a theme file.
	Theme  string
	Brush  Brush
	Input  Input
	Notify Notify
	// Palette lists extra named colors in file order.
	Palette []palette.Color
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Format: FormatPNG,
	}
}

// BrushValue resolves the brush section. Width is zero when unset so the
// caller can derive it from the image size.
func (c *Config) BrushValue() (stroke.Brush, error) {
	b := stroke.Brush{Color: palette.Default().Color, Width: c.Brush.Width}
	if c.Brush.Color != "" {
		col, err := palette.ParseColor(c.Brush.Color)
		if err != nil {
			return stroke.Brush{}, err
		}
		b.Color = col
	}
	mode, err := stroke.ParseMode(c.Brush.Mode)
	if err != nil {
		return stroke.Brush{}, err
	}
	b.Mode = mode
	return b, nil
}

// RegisterPalette adds the configured colors to the global palette.
func (c *Config) RegisterPalette() {
	for _, e := range c.Palette {
		palette.Ensure(e.Color, e.Name)
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Format != "" {
		fmt.Fprintf(&sb, "format = %s\n", c.Format)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	if c.Brush.Color != "" {
		fmt.Fprintf(&sb, "color = %s\n", c.Brush.Color)
	}
	if c.Brush.Width > 0 {
		fmt.Fprintf(&sb, "width = %s\n", strconv.FormatFloat(c.Brush.Width, 'g', -1, 64))
	}
	if c.Brush.Mode != "" {
		fmt.Fprintf(&sb, "mode = %s\n", c.Brush.Mode)
	}
	sb.WriteString("\n")

	sb.WriteString("[input]\n")
	if c.Input.MinDistance > 0 {
		fmt.Fprintf(&sb, "min_distance = %s\n", strconv.FormatFloat(c.Input.MinDistance, 'g', -1, 64))
	}
	if c.Input.RedrawInterval > 0 {
		fmt.Fprintf(&sb, "redraw_interval = %s\n", c.Input.RedrawInterval)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	if len(c.Palette) > 0 {
		sb.WriteString("\n[palette]\n")
		for _, e := range c.Palette {
			fmt.Fprintf(&sb, "%s = %s\n", e.Name, toHex(e.Color))
		}
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
