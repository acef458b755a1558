package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/stroke"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "":
			err = setRootField(cfg, key, value)
		case "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case "input":
			err = setInputField(&cfg.Input, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case "palette":
			err = addPaletteEntry(cfg, key, value)
		}
		if err != nil {
			if section == "" {
				return nil, fmt.Errorf("line %d: error in root section: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: error in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "save_dir":
		cfg.SaveDir = value
	case "format":
		f, err := ParseFormat(value)
		if err != nil {
			return err
		}
		cfg.Format = f
	case "theme":
		cfg.Theme = value
	}
	return nil
}

// ParseFormat normalizes an export format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

func setBrushField(b *Brush, key, value string) error {
	switch strings.ToLower(key) {
	case "color":
		if _, err := palette.ParseColor(value); err != nil {
			return err
		}
		b.Color = value
	case "width":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || !(w > 0) {
			return fmt.Errorf("invalid width %q", value)
		}
		b.Width = w
	case "mode":
		m, err := stroke.ParseMode(value)
		if err != nil {
			return err
		}
		b.Mode = m.String()
	}
	return nil
}

func setInputField(in *Input, key, value string) error {
	switch strings.ToLower(key) {
	case "min_distance":
		d, err := strconv.ParseFloat(value, 64)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid min_distance %q", value)
		}
		in.MinDistance = d
	case "redraw_interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid redraw_interval: %w", err)
		}
		in.RedrawInterval = d
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func addPaletteEntry(cfg *Config, name, value string) error {
	if !strings.HasPrefix(value, "#") {
		return fmt.Errorf("color for %s must start with #", name)
	}
	col, err := palette.ParseColor(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", name, err)
	}
	cfg.Palette = append(cfg.Palette, palette.Color{Name: name, Color: col})
	return nil
}
