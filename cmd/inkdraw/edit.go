package main

import (
	"errors"
	"flag"

	"github.com/example/inkdraw/internal/appstate"
)

// editCmd opens a drawing window.
type editCmd struct {
	canvas canvasOptions
	output string
	*root
	fs *flag.FlagSet
}

func (c *editCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	c := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	addCanvasFlags(fs, &c.canvas)
	fs.StringVar(&c.output, "output", "", "file written by the save key (defaults to -file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.canvas.fromClipboard && c.canvas.file != "" {
		return nil, errors.New("-file and -from-clipboard cannot be combined")
	}
	if c.output == "" {
		c.output = c.canvas.file
	}
	return c, nil
}

// window builds the window state without opening it.
func (c *editCmd) window() (*appstate.AppState, error) {
	s, err := newSurface(c.root.cfg(), c.canvas)
	if err != nil {
		return nil, err
	}
	format := ""
	if c.root != nil {
		format = c.root.format
	}
	opts := []appstate.Option{
		appstate.WithSurface(s),
		appstate.WithOutput(c.output),
		appstate.WithClipboard(copyImageFn),
	}
	if format != "" {
		opts = append(opts, appstate.WithFormat(format))
	}
	if c.root != nil && c.root.theme != nil {
		opts = append(opts, appstate.WithTheme(c.root.theme))
	}
	if c.root != nil && c.root.notifier != nil {
		opts = append(opts, appstate.WithNotifier(c.root.notifier))
	}
	return appstate.New(opts...), nil
}

func (c *editCmd) Run() error {
	st, err := c.window()
	if err != nil {
		return err
	}
	defer st.Surface.Close()
	st.Run()
	return nil
}
