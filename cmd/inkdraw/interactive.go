package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/script"
	"github.com/example/inkdraw/internal/stroke"
	"github.com/example/inkdraw/internal/surface"
)

type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// interactiveCmd reads drawing commands line by line against one surface.
type interactiveCmd struct {
	canvas canvasOptions
	execs  commandList
	*root
	fs *flag.FlagSet

	surface *surface.Surface
	runner  *script.Runner
	stdout  io.Writer
	stderr  io.Writer
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, stdout: r.out(), stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	addCanvasFlags(fs, &i.canvas)
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: i}
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	s, err := newSurface(i.root.cfg(), i.canvas)
	if err != nil {
		return err
	}
	defer s.Close()
	i.surface = s
	i.runner = script.NewRunner(s)

	if len(i.execs) > 0 {
		for n, line := range i.execs {
			done, err := i.executeLine(line, n+1)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'quit' to leave)")
	scanner := bufio.NewScanner(i.root.in())
	for n := 1; ; n++ {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text(), n)
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one session line and reports whether the session ended.
func (i *interactiveCmd) executeLine(line string, n int) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(i.stdout, (&UsageError{of: i}).Error())
		return false, nil
	case "status":
		fmt.Fprintln(i.stdout, i.status())
		return false, nil
	case "export", "save":
		if len(fields) != 2 {
			return false, fmt.Errorf("line %d: usage: export <path>", n)
		}
		return false, i.export(fields[1])
	case "copy":
		img := i.surface.ExportBitmap(0, 0)
		if err := copyImageFn(img); err != nil {
			return false, fmt.Errorf("copy drawing to clipboard: %w", err)
		}
		i.root.notifyCopy("", img)
		fmt.Fprintln(i.stdout, "copied drawing to clipboard")
		return false, nil
	}
	return false, i.runner.ExecLine(line, n)
}

func (i *interactiveCmd) export(path string) error {
	format, err := i.root.exportFormat("", path)
	if err != nil {
		return err
	}
	if err := export.WriteFile(path, i.surface.ExportBitmap(0, 0), format); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	i.root.notifySave(path)
	fmt.Fprintf(i.stdout, "saved %s\n", path)
	return nil
}

func (i *interactiveCmd) status() string {
	b := i.surface.Brush()
	av := i.surface.Availability()
	w, h := i.surface.Size()
	mode := "draw"
	if b.Mode == stroke.ModeErase {
		mode = "erase"
	}
	return fmt.Sprintf("canvas %dx%d brush %s %gpx %s strokes %d undo %t redo %t",
		w, h, palette.Name(b.Color), b.Width, mode, len(i.surface.Strokes()), av.Undo, av.Redo)
}
