// Package appstate hosts a drawing surface in a desktop window.
package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/inkdraw/internal/clipboard"
	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/notify"
	"github.com/example/inkdraw/internal/surface"
	"github.com/example/inkdraw/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 1500 * time.Millisecond

// AppState holds the window configuration.
type AppState struct {
	Surface  *surface.Surface
	Output   string
	Format   string
	Notifier *notify.Notifier
	Theme    *theme.Theme

	copyImage func(image.Image) error

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSurface sets the surface being edited.
func WithSurface(s *surface.Surface) Option { return func(a *AppState) { a.Surface = s } }

// WithOutput sets the file the save action writes to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithFormat sets the format used when the output extension is unknown.
func WithFormat(format string) Option { return func(a *AppState) { a.Format = format } }

// WithNotifier sets the notifier used after save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithTheme sets the window colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithClipboard replaces the function used by the copy action.
func WithClipboard(fn func(image.Image) error) Option {
	return func(a *AppState) {
		if fn != nil {
			a.copyImage = fn
		}
	}
}

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState. Without WithSurface a default sized surface is
// used.
func New(opts ...Option) *AppState {
	a := &AppState{Format: export.PNG, copyImage: clipboard.CopyImage}
	for _, o := range opts {
		o(a)
	}
	if a.Surface == nil {
		a.Surface = surface.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run opens the window and blocks until it is closed.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the event loop on s. Every surface call happens on this
// goroutine; the paint goroutine only reads immutable preview rasters.
func (a *AppState) Main(s screen.Screen) {
	ed := newEditor(a)
	width, height := windowSize(a.Surface.Size())
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "inkdraw"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()
	repaint := &delayedRepaint{send: func() { w.Send(paint.Event{}) }}
	defer repaint.stop()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	var pressed bool
	var last surface.Pointer
	var message string
	var messageUntil time.Time

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && pressed {
				a.Surface.PointerCancel(last)
				pressed = false
				w.Send(paint.Event{})
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := paintState{
				width:        width,
				height:       height,
				theme:        a.Theme,
				img:          a.Surface.Preview(),
				brush:        a.Surface.Brush().Color,
				status:       ed.status(),
				message:      message,
				messageUntil: messageUntil,
			}
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			sw, sh := a.Surface.Size()
			x, y := newViewport(sw, sh, width, height).toSurface(e.X, e.Y)
			p := surface.Pointer{X: x, Y: y, Time: time.Now()}
			switch {
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
				a.Surface.PointerDown(p)
				pressed = true
			case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				if !pressed {
					continue
				}
				a.Surface.PointerUp(p)
				pressed = false
			case e.Direction == mouse.DirNone && pressed:
				a.Surface.PointerMove(p)
			default:
				continue
			}
			last = p
			w.Send(paint.Event{})
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			action, ok := lookupShortcut(e)
			if !ok {
				continue
			}
			if pressed && action != ActionQuit {
				continue
			}
			msg, quit := ed.perform(action)
			if quit {
				stopPaint()
				return
			}
			message = msg
			messageUntil = time.Now().Add(messageDuration)
			w.Send(paint.Event{})
			repaint.schedule(messageDuration)
		case error:
			log.Printf("window: %v", e)
		}
	}
}

// delayedRepaint sends a repaint once the action message expires. After stop
// no further sends happen, so the window can be released safely.
type delayedRepaint struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	send    func()
}

func (d *delayedRepaint) schedule(after time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(after, d.fire)
}

func (d *delayedRepaint) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.stopped {
		d.send()
	}
}

func (d *delayedRepaint) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
