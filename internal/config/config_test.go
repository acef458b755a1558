package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/inkdraw/internal/stroke"
)

func TestParse(t *testing.T) {
	input := `
save_dir = /tmp/drawings
format = PDF
theme = dark

[brush]
color = red
width = 6.5
mode = eraser

[input]
min_distance = 2
redraw_interval = 33ms

[notify]
save = false
copy = true

[palette]
Teal = #008080
Ghost = "#FFFFFF80"
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/drawings" {
		t.Errorf("Expected save_dir '/tmp/drawings', got '%s'", cfg.SaveDir)
	}
	if cfg.Format != FormatPDF {
		t.Errorf("Expected format pdf, got %q", cfg.Format)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected theme dark, got %q", cfg.Theme)
	}
	if cfg.Brush.Color != "red" || cfg.Brush.Width != 6.5 || cfg.Brush.Mode != "erase" {
		t.Errorf("Unexpected brush: %+v", cfg.Brush)
	}
	if cfg.Input.MinDistance != 2 || cfg.Input.RedrawInterval != 33*time.Millisecond {
		t.Errorf("Unexpected input: %+v", cfg.Input)
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}
	if len(cfg.Palette) != 2 || cfg.Palette[0].Name != "Teal" || cfg.Palette[0].Color.G != 0x80 {
		t.Fatalf("Unexpected palette: %+v", cfg.Palette)
	}
	if cfg.Palette[1].Color.A != 0x80 {
		t.Errorf("Expected translucent palette entry, got %+v", cfg.Palette[1].Color)
	}

	b, err := cfg.BrushValue()
	if err != nil {
		t.Fatalf("BrushValue: %v", err)
	}
	if b.Mode != stroke.ModeErase || b.Width != 6.5 {
		t.Errorf("Unexpected brush value: %+v", b)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"format = gif",
		"[brush]\ncolor = nope",
		"[brush]\nwidth = -1",
		"[brush]\nmode = smudge",
		"[input]\nredraw_interval = soon",
		"[notify]\nsave = maybe",
		"[palette]\nRed = red",
	} {
		if _, err := Parse(strings.NewReader(input)); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

func TestParseErrorHasLine(t *testing.T) {
	_, err := Parse(strings.NewReader("# comment\n\n[brush]\nwidth = x\n"))
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("Expected line 4 in error, got %v", err)
	}
}

func TestCircular(t *testing.T) {
	input := `save_dir = /home/user/drawings
format = png
theme = high_contrast

[brush]
color = #112233
width = 3
mode = draw

[input]
min_distance = 1.5
redraw_interval = 20ms

[notify]
save = true
copy = false

[palette]
Mint = #98FF98
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Format != cfg2.Format {
		t.Errorf("Format mismatch: %q vs %q", cfg.Format, cfg2.Format)
	}
	if cfg.Brush != cfg2.Brush {
		t.Errorf("Brush mismatch: %+v vs %+v", cfg.Brush, cfg2.Brush)
	}
	if cfg.Input != cfg2.Input {
		t.Errorf("Input mismatch: %+v vs %+v", cfg.Input, cfg2.Input)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if len(cfg2.Palette) != 1 || cfg.Palette[0] != cfg2.Palette[0] {
		t.Errorf("Palette mismatch: %+v vs %+v", cfg.Palette, cfg2.Palette)
	}
}

func TestLoaderSearchOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvFormat, "")

	l := NewLoader("v1.0.0", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("Expected no config, got %q", p)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != FormatPNG {
		t.Errorf("Expected default format, got %q", cfg.Format)
	}

	dir := filepath.Join(home, ".config", "inkdraw")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	fallback := filepath.Join(dir, "inkdraw.rc")
	if err := os.WriteFile(fallback, []byte("save_dir = /fallback\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != fallback {
		t.Errorf("Expected %q, got %q", fallback, p)
	}

	primary := filepath.Join(dir, "config.rc")
	if err := os.WriteFile(primary, []byte("save_dir = /primary\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if p := l.GetConfigPath(); p != primary {
		t.Errorf("Expected %q, got %q", primary, p)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("save_dir = /override\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = NewLoader("v1.0.0", override).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SaveDir != "/override" {
		t.Errorf("Expected override config, got %q", cfg.SaveDir)
	}
}

func TestLoaderEnvFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvFormat, "pdf")
	cfg, err := NewLoader("v1", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != FormatPDF {
		t.Errorf("Expected env format pdf, got %q", cfg.Format)
	}

	t.Setenv(EnvFormat, "bmp")
	if _, err := NewLoader("v1", "").Load(); err == nil {
		t.Error("Expected error for unsupported env format")
	}
}

func TestLoaderSave(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvFormat, "")

	cfg := New()
	cfg.SaveDir = "/saved"
	cfg.Notify.Save = true
	l := NewLoader("v1", "")
	path, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(home, ".config", "inkdraw", "config.rc"); path != want {
		t.Errorf("Expected %q, got %q", want, path)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SaveDir != "/saved" || !loaded.Notify.Save {
		t.Errorf("Unexpected loaded config: %+v", loaded)
	}
}

func TestLoadReportsPath(t *testing.T) {
	t.Setenv(EnvFormat, "")
	bad := filepath.Join(t.TempDir(), "bad.rc")
	if err := os.WriteFile(bad, []byte("format = tiff\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewLoader("v1", bad).Load()
	if err == nil || !strings.Contains(err.Error(), bad) {
		t.Fatalf("Expected error mentioning %q, got %v", bad, err)
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		t.Errorf("Parse error should not be a path error: %v", err)
	}
}
