package script

import (
	"fmt"
	"io"

	"github.com/example/inkdraw/internal/surface"
)

// Runner replays commands onto a surface.
type Runner struct {
	s    *surface.Surface
	last surface.Pointer
}

// NewRunner returns a Runner driving s.
func NewRunner(s *surface.Surface) *Runner {
	return &Runner{s: s}
}

// Run parses r and executes every command. It returns the number of
// commands executed before any error.
func Run(s *surface.Surface, r io.Reader) (int, error) {
	cmds, err := Parse(r)
	if err != nil {
		return 0, err
	}
	run := NewRunner(s)
	for i, c := range cmds {
		if err := run.Exec(c); err != nil {
			return i, err
		}
	}
	return len(cmds), nil
}

// ExecLine parses and executes a single line. Blank lines and comments are
// accepted and do nothing.
func (r *Runner) ExecLine(line string, n int) error {
	cmd, ok, err := ParseLine(line, n)
	if err != nil || !ok {
		return err
	}
	return r.Exec(cmd)
}

// Exec executes one command.
func (r *Runner) Exec(c Command) error {
	s := r.s
	switch c.Name {
	case "brush":
		s.SetBrush(c.Color, c.Nums[0], c.Mode)
	case "color":
		s.SetColor(c.Color)
	case "width":
		s.SetWidth(c.Nums[0])
	case "mode":
		s.SetMode(c.Mode)
	case "down":
		if s.Drawing() {
			return r.stateErr(c, "stroke already in progress")
		}
		r.pointer(c.Nums[0], c.Nums[1])
		s.PointerDown(r.last)
	case "move":
		if !s.Drawing() {
			return r.stateErr(c, "move without down")
		}
		r.pointer(c.Nums[0], c.Nums[1])
		s.PointerMove(r.last)
	case "up":
		if !s.Drawing() {
			return r.stateErr(c, "up without down")
		}
		if len(c.Nums) == 2 {
			r.pointer(c.Nums[0], c.Nums[1])
		}
		s.PointerUp(r.last)
	case "cancel":
		if !s.Drawing() {
			return r.stateErr(c, "cancel without down")
		}
		s.PointerCancel(r.last)
	case "stroke", "tap":
		if s.Drawing() {
			return r.stateErr(c, "stroke already in progress")
		}
		r.pointer(c.Nums[0], c.Nums[1])
		s.PointerDown(r.last)
		for i := 2; i+1 < len(c.Nums); i += 2 {
			r.pointer(c.Nums[i], c.Nums[i+1])
			s.PointerMove(r.last)
		}
		s.PointerUp(r.last)
	case "undo":
		s.Undo()
	case "redo":
		s.Redo()
	case "clear":
		s.Clear()
	default:
		return &Error{Line: c.Line, Err: fmt.Errorf("%w %q", ErrUnknownCommand, c.Name)}
	}
	return nil
}

func (r *Runner) pointer(x, y float64) {
	r.last = surface.Pointer{X: x, Y: y}
}

func (r *Runner) stateErr(c Command, msg string) error {
	return &Error{Line: c.Line, Err: fmt.Errorf("%w: %s", ErrState, msg)}
}
