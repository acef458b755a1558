package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/script"
)

// renderCmd replays a drawing script onto a canvas and exports the result.
type renderCmd struct {
	canvas      canvasOptions
	scriptPath  string
	output      string
	format      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func addCanvasFlags(fs *flag.FlagSet, o *canvasOptions) {
	fs.StringVar(&o.file, "file", "", "background image file")
	fs.BoolVar(&o.fromClipboard, "from-clipboard", false, "read the background image from the clipboard")
	fs.BoolVar(&o.fromClipboard, "from-clip", false, "read the background image from the clipboard (alias)")
	fs.IntVar(&o.width, "width", 0, "canvas width in pixels (defaults to the background width)")
	fs.IntVar(&o.height, "height", 0, "canvas height in pixels (defaults to the background height)")
	fs.StringVar(&o.brushColor, "color", "", "initial brush color name or hex value")
	fs.Float64Var(&o.brushWidth, "brush-width", 0, "initial brush width in pixels (0 scales with the canvas)")
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	addCanvasFlags(fs, &c.canvas)
	fs.StringVar(&c.scriptPath, "script", "", "drawing script file (defaults to the first argument or standard input)")
	fs.StringVar(&c.output, "output", "", "output file path, or - for standard output")
	fs.StringVar(&c.format, "format", "", "output format (png, pdf); defaults to the output extension")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.scriptPath == "" && fs.NArg() > 0 {
		c.scriptPath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	if c.output == "" && !c.toClipboard {
		return nil, errors.New("an output file or -to-clipboard is required")
	}
	if c.canvas.fromClipboard && c.canvas.file != "" {
		return nil, errors.New("-file and -from-clipboard cannot be combined")
	}
	if _, err := c.root.exportFormat(c.format, c.output); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *renderCmd) openScript() (io.ReadCloser, error) {
	if c.scriptPath == "" || c.scriptPath == "-" {
		return io.NopCloser(c.root.in()), nil
	}
	return os.Open(c.scriptPath)
}

func (c *renderCmd) Run() error {
	s, err := newSurface(c.root.cfg(), c.canvas)
	if err != nil {
		return err
	}
	defer s.Close()

	src, err := c.openScript()
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Printf("error closing script: %v", err)
		}
	}()
	if _, err := script.Run(s, src); err != nil {
		return fmt.Errorf("script %s: %w", c.scriptName(), err)
	}

	img := s.ExportBitmap(0, 0)
	if c.output != "" {
		if err := c.write(img); err != nil {
			return err
		}
	}
	if c.toClipboard {
		if err := copyImageFn(img); err != nil {
			return fmt.Errorf("copy drawing to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "copied drawing to clipboard")
		c.root.notifyCopy("", img)
	}
	return nil
}

func (c *renderCmd) scriptName() string {
	if c.scriptPath == "" || c.scriptPath == "-" {
		return "stdin"
	}
	return c.scriptPath
}

func (c *renderCmd) write(img image.Image) error {
	format, err := c.root.exportFormat(c.format, c.output)
	if err != nil {
		return err
	}
	if c.output == "-" {
		return export.Encode(c.root.out(), img, format)
	}
	if err := export.WriteFile(c.output, img, format); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.output, err)
	}
	saved := c.output
	if abs, err := filepath.Abs(c.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	c.root.notifySave(saved)
	return nil
}
