package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/inkdraw/internal/config"
	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/notify"
	"github.com/example/inkdraw/internal/surface"
	"github.com/example/inkdraw/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs         *flag.FlagSet
	program    string
	notifier   *notify.Notifier
	config     *config.Config
	saveAlerts bool
	copyAlerts bool
	format     string
	verbose    bool
	themeName  string
	theme      *theme.Theme
	stdout     io.Writer
	stdin      io.Reader
}

func (r *root) Program() string {
	if r == nil {
		return "inkdraw"
	}
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	if r == nil {
		return nil
	}
	return r.fs
}

func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func (r *root) in() io.Reader {
	if r == nil || r.stdin == nil {
		return os.Stdin
	}
	return r.stdin
}

func (r *root) cfg() *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootFromConfig(cfg, flag.ExitOnError)
}

func newRootFromConfig(cfg *config.Config, handling flag.ErrorHandling) *root {
	cfg.RegisterPalette()

	r := &root{
		fs:       flag.NewFlagSet("inkdraw", handling),
		program:  "inkdraw",
		notifier: notify.FromConfig(cfg.Notify),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default. The loader already folded
	// the environment into cfg.Format.
	r.fs.StringVar(&r.format, "format", cfg.Format, "default export format (png, pdf)")
	r.fs.StringVar(&r.themeName, "theme", "", "window theme name or file (default, dark, high_contrast)")
	r.fs.BoolVar(&r.verbose, "v", false, "log drawing events to standard error")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	format, err := config.ParseFormat(r.format)
	if err != nil {
		return err
	}
	r.format = format
	if r.verbose {
		surface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.theme = r.loadTheme()
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "widths":
		cmd, err = parseWidthsCmd(subArgs, r)
	case "themes":
		cmd, err = parseThemesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadTheme resolves the window theme. Precedence: CLI > Env > Config >
// Default. A theme that fails to load falls back to the default with a
// warning.
func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("INKDRAW_THEME")
	}
	if name == "" {
		name = r.cfg().Theme
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		return theme.Default()
	}
	return t
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail, img)
}

// exportFormat resolves the format for path: an explicit flag wins, then the
// file extension, then the root default.
func (r *root) exportFormat(flagValue, path string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return config.ParseFormat(flagValue)
	}
	fallback := config.FormatPNG
	if r != nil && r.format != "" {
		fallback = r.format
	}
	return export.FormatFromPath(path, fallback), nil
}
