package main

import (
	"bytes"
	"errors"
	"flag"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/inkdraw/internal/config"
	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/notify"
	"github.com/example/inkdraw/internal/script"
)

func testRoot(stdin string) (*root, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &root{
		fs:      flag.NewFlagSet("inkdraw", flag.ContinueOnError),
		program: "inkdraw",
		format:  config.FormatPNG,
		config:  config.New(),
		stdout:  out,
		stdin:   strings.NewReader(stdin),
	}, out
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drawing.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func isRed(c color.RGBA) bool {
	return c.R > 250 && c.G < 5 && c.B < 5 && c.A > 250
}

func TestParseRenderRequiresOutput(t *testing.T) {
	_, err := parseRenderCmd([]string{"drawing.txt"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "an output file or -to-clipboard is required"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseRenderRejectsBadFormat(t *testing.T) {
	if _, err := parseRenderCmd([]string{"-output", "out.png", "-format", "gif"}, nil); err == nil {
		t.Fatalf("expected format error")
	}
	if _, err := parseRenderCmd([]string{"-output", "out.png", "-file", "a.png", "-from-clipboard"}, nil); err == nil {
		t.Fatalf("expected conflicting source error")
	}
}

func TestRenderClipboardReadError(t *testing.T) {
	original := pasteImageFn
	sentinel := errors.New("no image")
	pasteImageFn = func() (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { pasteImageFn = original })

	r, _ := testRoot("")
	cmd, err := parseRenderCmd([]string{"-from-clipboard", "-output", filepath.Join(t.TempDir(), "out.png")}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if want := "failed to read clipboard"; !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to contain %q, got %v", want, err)
		}
	}
}

func TestRenderScriptErrorReportsLine(t *testing.T) {
	r, _ := testRoot("")
	path := writeScript(t, "tap 1 1\nscribble 2 2\n")
	cmd, err := parseRenderCmd([]string{"-width", "10", "-height", "10", "-output", filepath.Join(t.TempDir(), "out.png"), path}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = cmd.Run()
	if !errors.Is(err, script.ErrUnknownCommand) {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if want := "line 2"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	r, _ := testRoot("")
	path := writeScript(t, "brush #FF0000 4\nstroke 2 2 17 2\n")
	out := filepath.Join(t.TempDir(), "nested", "out.png")
	cmd, err := parseRenderCmd([]string{"-width", "20", "-height", "20", "-script", path, "-output", out}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := export.LoadFile(out)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(10, 2); !isRed(c) {
		t.Errorf("expected red stroke, got %v", c)
	}
	if c := img.RGBAAt(10, 15); c.A != 0 {
		t.Errorf("expected transparent pixel, got %v", c)
	}
}

func TestRenderStdinToStdoutPDF(t *testing.T) {
	r, out := testRoot("tap 5 5\n")
	cmd, err := parseRenderCmd([]string{"-width", "10", "-height", "10", "-output", "-", "-format", "pdf"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "%PDF-") {
		t.Fatalf("expected pdf output, got %q", out.String()[:min(16, out.Len())])
	}
}

func TestRenderToClipboard(t *testing.T) {
	original := copyImageFn
	var copied image.Image
	copyImageFn = func(img image.Image) error {
		copied = img
		return nil
	}
	t.Cleanup(func() { copyImageFn = original })

	bg := filepath.Join(t.TempDir(), "bg.png")
	if err := export.WriteFile(bg, image.NewRGBA(image.Rect(0, 0, 30, 12)), export.PNG); err != nil {
		t.Fatal(err)
	}
	r, _ := testRoot("tap 3 3\n")
	cmd, err := parseRenderCmd([]string{"-file", bg, "-to-clipboard"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if copied == nil || copied.Bounds() != image.Rect(0, 0, 30, 12) {
		t.Fatalf("expected copy at background size, got %v", copied)
	}
}

func TestCanvasSizeRequiresBothDimensions(t *testing.T) {
	_, err := newSurface(config.New(), canvasOptions{width: 10})
	if err == nil || !strings.Contains(err.Error(), "-width and -height") {
		t.Fatalf("expected size error, got %v", err)
	}
	if _, err := newSurface(config.New(), canvasOptions{brushColor: "mauve-ish"}); err == nil {
		t.Fatalf("expected color error")
	}
	s, err := newSurface(config.New(), canvasOptions{width: 40, height: 30, brushColor: "red", brushWidth: 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w, h := s.Size(); w != 40 || h != 30 {
		t.Errorf("unexpected size %dx%d", w, h)
	}
	if b := s.Brush(); b.Width != 6 || b.Color != (color.RGBA{0xf4, 0x43, 0x36, 0xff}) {
		t.Errorf("unexpected brush %+v", b)
	}
}

func TestInteractiveSession(t *testing.T) {
	out := filepath.Join(t.TempDir(), "session.png")
	r, stdout := testRoot("brush #FF0000 4\nstroke 2 2 17 2\n\nstatus\nexport " + out + "\nquit\ntap 1 1\n")
	cmd, err := parseInteractiveCmd([]string{"-width", "20", "-height", "20"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("interactive: %v", err)
	}
	got := stdout.String()
	if want := "canvas 20x20 brush #FF0000 4px draw strokes 1 undo true redo false"; !strings.Contains(got, want) {
		t.Errorf("expected status %q in output:\n%s", want, got)
	}
	if !strings.Contains(got, "saved "+out) {
		t.Errorf("expected save message in output:\n%s", got)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if n := len(cmd.surface.Strokes()); n != 1 {
		t.Errorf("expected commands after quit to be ignored, got %d strokes", n)
	}
}

func TestInteractiveImmediateModeStopsOnError(t *testing.T) {
	r, _ := testRoot("")
	cmd, err := parseInteractiveCmd([]string{"-width", "10", "-height", "10", "-e", "down 1 1", "-e", "down 2 2", "-e", "up"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	err = cmd.Run()
	if !errors.Is(err, script.ErrState) {
		t.Fatalf("expected state error, got %v", err)
	}
	if len(cmd.surface.Strokes()) != 0 {
		t.Errorf("expected no committed strokes")
	}
	if _, err := cmd.executeLine("export", 4); err == nil {
		t.Errorf("expected usage error for export without a path")
	}
}

func TestEditDefaultsOutputToFile(t *testing.T) {
	bg := filepath.Join(t.TempDir(), "bg.png")
	if err := export.WriteFile(bg, image.NewRGBA(image.Rect(0, 0, 64, 48)), export.PNG); err != nil {
		t.Fatal(err)
	}
	r, _ := testRoot("")
	cmd, err := parseEditCmd([]string{"-file", bg}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.output != bg {
		t.Errorf("expected output %q, got %q", bg, cmd.output)
	}
	st, err := cmd.window()
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	if w, h := st.Surface.Size(); w != 64 || h != 48 {
		t.Errorf("unexpected surface size %dx%d", w, h)
	}
	if st.Output != bg || st.Format != config.FormatPNG {
		t.Errorf("unexpected window state %q %q", st.Output, st.Format)
	}
}

func TestUsageErrorRendersHelp(t *testing.T) {
	r, _ := testRoot("")
	cmd, err := parseRenderCmd([]string{"-output", "out.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	help := (&UsageError{of: cmd}).Error()
	for _, want := range []string{"-script", "-to-clipboard", "stroke"} {
		if !strings.Contains(help, want) {
			t.Errorf("expected help to mention %q:\n%s", want, help)
		}
	}

	edit, err := parseEditCmd(nil, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if help := (&UsageError{of: edit}).Error(); !strings.Contains(help, "Ctrl+Z") {
		t.Errorf("expected key help:\n%s", help)
	}
}

func TestRootUnknownCommand(t *testing.T) {
	r, _ := testRoot("")
	err := r.Run([]string{"scribble"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "interactive") {
		t.Errorf("expected command list in help:\n%s", uerr.Error())
	}
}

func TestListAndVersionCommands(t *testing.T) {
	r, out := testRoot("")
	if err := r.Run([]string{"colors"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "*  4: Blue") {
		t.Errorf("expected default marker on Blue:\n%s", out.String())
	}

	out.Reset()
	r, out = testRoot("")
	if err := r.Run([]string{"widths"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "   2px") || !strings.Contains(out.String(), "  24px") {
		t.Errorf("unexpected widths output:\n%s", out.String())
	}

	r, out = testRoot("")
	if err := r.Run([]string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "inkdraw version dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestConfigPrint(t *testing.T) {
	r, out := testRoot("")
	r.config.Brush.Color = "red"
	if err := r.Run([]string{"config", "print"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Parse(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("printed config does not parse: %v\n%s", err, out.String())
	}
	if cfg.Brush.Color != "red" {
		t.Errorf("expected brush color to round trip, got %q", cfg.Brush.Color)
	}
}

func TestThemeSelection(t *testing.T) {
	t.Setenv("INKDRAW_THEME", "")
	r, out := testRoot("")
	if err := r.Run([]string{"themes"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "* default") || !strings.Contains(out.String(), "  dark") {
		t.Errorf("unexpected themes output:\n%s", out.String())
	}

	t.Setenv("INKDRAW_THEME", "dark")
	r, _ = testRoot("")
	if got := r.loadTheme(); got.Name != "Dark" {
		t.Errorf("expected env theme, got %q", got.Name)
	}
	r.themeName = "high_contrast"
	if got := r.loadTheme(); got.Name != "High Contrast" {
		t.Errorf("expected flag to win, got %q", got.Name)
	}
	r.themeName = "no-such-theme"
	if got := r.loadTheme(); got.Name != "Default" {
		t.Errorf("expected default fallback, got %q", got.Name)
	}
}

func TestNotifierFollowsConfigAndFlags(t *testing.T) {
	cfg := config.New()
	cfg.Notify.Save = true
	r := newRootFromConfig(cfg, flag.ContinueOnError)
	if !r.notifier.Enabled(notify.EventSave) || r.notifier.Enabled(notify.EventCopy) {
		t.Fatal("expected notifier to follow the config before flags are parsed")
	}

	var out bytes.Buffer
	r.stdout = &out
	if err := r.Run([]string{"-notify-save=false", "-notify-copy", "version"}); err != nil {
		t.Fatal(err)
	}
	if r.notifier.Enabled(notify.EventSave) {
		t.Error("expected -notify-save=false to override the config")
	}
	if !r.notifier.Enabled(notify.EventCopy) {
		t.Error("expected -notify-copy to enable copy notifications")
	}
}
