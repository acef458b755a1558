// Package script parses and replays line-oriented drawing commands against
// a surface. One command per line; lines starting with # are comments.
//
//	brush <color> <width> [draw|erase]
//	color <color> | width <w> | mode draw|erase
//	down x y | move x y | up [x y] | cancel
//	stroke x1 y1 [x2 y2 ...] | tap x y
//	undo | redo | clear
package script

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/inkdraw/internal/palette"
	"github.com/example/inkdraw/internal/stroke"
)

var (
	// ErrUnknownCommand is returned for a command name the language lacks.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrBadArgs is returned when a command has the wrong arguments.
	ErrBadArgs = errors.New("bad arguments")
	// ErrState is returned when a pointer command does not fit the current
	// gesture, such as move without down.
	ErrState = errors.New("invalid in current state")
)

// Error ties a failure to its script line.
type Error struct {
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Command is one parsed script line.
type Command struct {
	Line  int
	Name  string
	Color color.RGBA
	Mode  stroke.Mode
	Nums  []float64
}

type arity struct{ min, max int }

var commands = map[string]arity{
	"brush":  {2, 3},
	"color":  {1, 1},
	"width":  {1, 1},
	"mode":   {1, 1},
	"down":   {2, 2},
	"move":   {2, 2},
	"up":     {0, 2},
	"cancel": {0, 0},
	"stroke": {2, -1},
	"tap":    {2, 2},
	"undo":   {0, 0},
	"redo":   {0, 0},
	"clear":  {0, 0},
}

// Names returns the command names in a stable order for help output.
func Names() []string {
	return []string{"brush", "color", "width", "mode", "down", "move", "up", "cancel", "stroke", "tap", "undo", "redo", "clear"}
}

// Parse reads every command from r. Parsing stops at the first error.
func Parse(r io.Reader) ([]Command, error) {
	var out []Command
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		cmd, ok, err := ParseLine(scanner.Text(), n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cmd)
		}
	}
	return out, scanner.Err()
}

// ParseLine parses one line. It reports false for blank and comment lines.
func ParseLine(line string, n int) (Command, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Command{}, false, nil
	}
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])
	args := fields[1:]
	ar, ok := commands[name]
	if !ok {
		return Command{}, false, &Error{Line: n, Err: fmt.Errorf("%w %q", ErrUnknownCommand, fields[0])}
	}
	if len(args) < ar.min || (ar.max >= 0 && len(args) > ar.max) {
		return Command{}, false, &Error{Line: n, Err: fmt.Errorf("%w: %s takes %s", ErrBadArgs, name, ar)}
	}
	cmd := Command{Line: n, Name: name}
	var err error
	switch name {
	case "brush":
		if cmd.Color, err = palette.ParseColor(args[0]); err != nil {
			break
		}
		if cmd.Nums, err = numbers(args[1:2]); err != nil {
			break
		}
		if len(args) == 3 {
			cmd.Mode, err = stroke.ParseMode(args[2])
		}
	case "color":
		cmd.Color, err = palette.ParseColor(args[0])
	case "mode":
		cmd.Mode, err = stroke.ParseMode(args[0])
	case "up":
		if len(args) == 1 {
			err = errors.New("up takes no arguments or x y")
			break
		}
		cmd.Nums, err = numbers(args)
	case "stroke":
		if len(args)%2 != 0 {
			err = errors.New("stroke needs x y pairs")
			break
		}
		cmd.Nums, err = numbers(args)
	default:
		cmd.Nums, err = numbers(args)
	}
	if err != nil {
		return Command{}, false, &Error{Line: n, Err: fmt.Errorf("%w: %v", ErrBadArgs, err)}
	}
	if name == "width" || name == "brush" {
		if !(cmd.Nums[0] > 0) {
			return Command{}, false, &Error{Line: n, Err: fmt.Errorf("%w: width must be positive", ErrBadArgs)}
		}
	}
	return cmd, true, nil
}

func (a arity) String() string {
	switch {
	case a.max < 0:
		return fmt.Sprintf("at least %d arguments", a.min)
	case a.min == a.max:
		return fmt.Sprintf("%d arguments", a.min)
	}
	return fmt.Sprintf("%d to %d arguments", a.min, a.max)
}

func numbers(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = v
	}
	return out, nil
}
