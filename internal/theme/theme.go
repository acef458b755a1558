// Package theme holds the colors used by the drawing window.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes contains the built-in theme files.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colors of the window chrome. Drawings are never tinted.
type Theme struct {
	Name string

	// Canvas backdrop behind transparent pixels
	CheckerLight color.RGBA
	CheckerDark  color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA
	StatusBorder     color.RGBA

	// Flash messages
	MessageBackground color.RGBA
	MessageText       color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:              "Default",
		CheckerLight:      color.RGBA{220, 220, 220, 255},
		CheckerDark:       color.RGBA{192, 192, 192, 255},
		StatusBackground:  color.RGBA{255, 255, 255, 255},
		StatusText:        color.RGBA{0, 0, 0, 255},
		StatusBorder:      color.RGBA{0, 0, 0, 255},
		MessageBackground: color.RGBA{230, 230, 230, 230},
		MessageText:       color.RGBA{0, 0, 0, 255},
	}
}
