package appstate

import (
	"fmt"
	"image"
	"log"
	"strings"

	"golang.org/x/mobile/event/key"

	"github.com/example/inkdraw/internal/export"
	"github.com/example/inkdraw/internal/notify"
	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/stroke"
	"github.com/example/inkdraw/internal/surface"
)

// Action names an editor command reachable from the keyboard.
type Action string

const (
	ActionUndo      Action = "undo"
	ActionRedo      Action = "redo"
	ActionSave      Action = "save"
	ActionCopy      Action = "copy"
	ActionErase     Action = "erase"
	ActionWider     Action = "wider"
	ActionThinner   Action = "thinner"
	ActionNextColor Action = "nextcolor"
	ActionPrevColor Action = "prevcolor"
	ActionClear     Action = "clear"
	ActionQuit      Action = "quit"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type shortcutList []KeyShortcut

type binding struct {
	action    Action
	shortcuts shortcutList
}

const modMask = key.ModShift | key.ModControl | key.ModAlt | key.ModMeta

// bindings are matched in order so Ctrl+Shift+Z reaches redo before the
// plain Ctrl+Z undo binding is considered.
var bindings = []binding{
	{ActionRedo, shortcutList{
		{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
		{Code: key.CodeY, Modifiers: key.ModControl},
		{Rune: 'r', Code: key.CodeR},
	}},
	{ActionUndo, shortcutList{
		{Code: key.CodeZ, Modifiers: key.ModControl},
		{Rune: 'u', Code: key.CodeU},
	}},
	{ActionSave, shortcutList{
		{Code: key.CodeS, Modifiers: key.ModControl},
		{Rune: 's', Code: key.CodeS},
	}},
	{ActionCopy, shortcutList{
		{Code: key.CodeC, Modifiers: key.ModControl},
		{Rune: 'c', Code: key.CodeC},
	}},
	{ActionErase, shortcutList{{Rune: 'e', Code: key.CodeE}}},
	{ActionWider, shortcutList{
		{Rune: ']', Code: key.CodeRightSquareBracket},
		{Rune: '+'},
	}},
	{ActionThinner, shortcutList{
		{Rune: '[', Code: key.CodeLeftSquareBracket},
		{Rune: '-', Code: key.CodeHyphenMinus},
	}},
	{ActionNextColor, shortcutList{{Rune: 'n', Code: key.CodeN}}},
	{ActionPrevColor, shortcutList{{Rune: 'p', Code: key.CodeP}}},
	{ActionClear, shortcutList{{Rune: 'x', Code: key.CodeX}}},
	{ActionQuit, shortcutList{
		{Rune: 'q', Code: key.CodeQ},
		{Code: key.CodeEscape},
	}},
}

// lookupShortcut maps a key press to an action. Codes are compared with the
// exact modifier set; shortcuts that only carry a rune ignore Shift since
// producing the rune may require it.
func lookupShortcut(e key.Event) (Action, bool) {
	mods := e.Modifiers & modMask
	for _, b := range bindings {
		for _, s := range b.shortcuts {
			if s.Code != key.CodeUnknown && s.Code == e.Code && s.Modifiers == mods {
				return b.action, true
			}
		}
	}
	r := e.Rune
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	for _, b := range bindings {
		for _, s := range b.shortcuts {
			if s.Rune != 0 && s.Rune == r && s.Modifiers == mods&^key.ModShift {
				return b.action, true
			}
		}
	}
	return "", false
}

// ShortcutHelp lists the bindings for display.
func ShortcutHelp() []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		var keys []string
		for _, s := range b.shortcuts {
			keys = append(keys, shortcutLabel(s))
		}
		out = append(out, fmt.Sprintf("%-10s %s", b.action, strings.Join(keys, ", ")))
	}
	return out
}

func shortcutLabel(s KeyShortcut) string {
	var parts []string
	if s.Modifiers&key.ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if s.Modifiers&key.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	switch {
	case s.Code == key.CodeEscape:
		parts = append(parts, "Esc")
	case s.Rune != 0:
		parts = append(parts, string(s.Rune))
	case s.Code >= key.CodeA && s.Code <= key.CodeZ:
		parts = append(parts, string(rune('A'+(s.Code-key.CodeA))))
	default:
		parts = append(parts, s.Code.String())
	}
	return strings.Join(parts, "+")
}

// editor applies actions to a surface and keeps the palette cursor in sync
// with the brush.
type editor struct {
	surface   *surface.Surface
	output    string
	format    string
	notifier  *notify.Notifier
	copyImage func(image.Image) error

	colorIdx int
	widthIdx int
}

func newEditor(a *AppState) *editor {
	b := a.Surface.Brush()
	idx := palette.IndexOf(b.Color)
	if idx < 0 {
		idx = palette.Ensure(b.Color, "")
	}
	return &editor{
		surface:   a.Surface,
		output:    a.Output,
		format:    a.Format,
		notifier:  a.Notifier,
		copyImage: a.copyImage,
		colorIdx:  idx,
		widthIdx:  palette.NearestWidth(b.Width),
	}
}

// perform runs a and returns the message to flash and whether the window
// should close.
func (e *editor) perform(a Action) (string, bool) {
	s := e.surface
	switch a {
	case ActionUndo:
		before := len(s.Strokes())
		s.Undo()
		if len(s.Strokes()) == before {
			return "Nothing to undo", false
		}
		return "Undo", false
	case ActionRedo:
		before := len(s.Strokes())
		s.Redo()
		if len(s.Strokes()) == before {
			return "Nothing to redo", false
		}
		return "Redo", false
	case ActionSave:
		return e.save(), false
	case ActionCopy:
		return e.copy(), false
	case ActionErase:
		if s.Brush().Mode == stroke.ModeErase {
			s.SetMode(stroke.ModeDraw)
			return "Draw", false
		}
		s.SetMode(stroke.ModeErase)
		return "Erase", false
	case ActionWider, ActionThinner:
		step := 1
		if a == ActionThinner {
			step = -1
		}
		e.widthIdx = clampIndex(e.widthIdx+step, len(palette.Widths()))
		s.SetWidth(palette.WidthAt(e.widthIdx))
		return fmt.Sprintf("Width %gpx", s.Brush().Width), false
	case ActionNextColor, ActionPrevColor:
		step := 1
		if a == ActionPrevColor {
			step = -1
		}
		n := palette.Len()
		e.colorIdx = ((e.colorIdx+step)%n + n) % n
		c := palette.At(e.colorIdx)
		s.SetColor(c.Color)
		return c.Name, false
	case ActionClear:
		s.Clear()
		return "Cleared", false
	case ActionQuit:
		return "", true
	}
	return "", false
}

func (e *editor) save() string {
	if e.output == "" {
		return "No output file"
	}
	format := export.FormatFromPath(e.output, e.format)
	if err := export.WriteFile(e.output, e.surface.ExportBitmap(0, 0), format); err != nil {
		log.Printf("save: %v", err)
		return "Save failed"
	}
	e.notifier.Save(e.output)
	return "Saved " + e.output
}

func (e *editor) copy() string {
	img := e.surface.ExportBitmap(0, 0)
	if err := e.copyImage(img); err != nil {
		log.Printf("copy: %v", err)
		return "Copy failed"
	}
	e.notifier.Copy("", img)
	return "Copied"
}

// status describes the brush and history for the status bar.
func (e *editor) status() string {
	b := e.surface.Brush()
	av := e.surface.Availability()
	mode := "draw"
	if b.Mode == stroke.ModeErase {
		mode = "erase"
	}
	text := fmt.Sprintf("%s  %gpx  %s  strokes:%d", palette.Name(b.Color), b.Width, mode, len(e.surface.Strokes()))
	if av.Undo {
		text += "  U:undo"
	}
	if av.Redo {
		text += "  R:redo"
	}
	return text
}

func clampIndex(idx, n int) int {
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
