// Package history keeps the undo/redo log of committed strokes.
package history

import "github.com/example/inkdraw/internal/stroke"

// Availability reports which history operations currently have an effect.
type Availability struct {
	Undo bool
	Redo bool
}

// History owns the active strokes and the strokes that were undone. A stroke
// lives in exactly one of the two stacks. History is not safe for concurrent
// use.
type History struct {
	active    []stroke.Stroke
	redo      []stroke.Stroke
	listeners []func(Availability)
}

// New returns an empty History.
func New() *History {
	return &History{}
}

// OnChange registers fn to receive the availability after every successful
// mutation.
func (h *History) OnChange(fn func(Availability)) {
	if fn != nil {
		h.listeners = append(h.listeners, fn)
	}
}

// Availability returns the current undo/redo state.
func (h *History) Availability() Availability {
	return Availability{Undo: len(h.active) > 0, Redo: len(h.redo) > 0}
}

// Commit pushes s on top of the active strokes and discards the redo stack.
func (h *History) Commit(s stroke.Stroke) Availability {
	h.active = append(h.active, s)
	clear(h.redo)
	h.redo = h.redo[:0]
	return h.emit()
}

// Undo moves the newest active stroke onto the redo stack. It reports false
// and leaves the history untouched when there is nothing to undo.
func (h *History) Undo() (bool, Availability) {
	if len(h.active) == 0 {
		return false, h.Availability()
	}
	last := len(h.active) - 1
	h.redo = append(h.redo, h.active[last])
	h.active[last] = stroke.Stroke{}
	h.active = h.active[:last]
	return true, h.emit()
}

// Redo moves the most recently undone stroke back onto the active stack.
func (h *History) Redo() (bool, Availability) {
	if len(h.redo) == 0 {
		return false, h.Availability()
	}
	last := len(h.redo) - 1
	h.active = append(h.active, h.redo[last])
	h.redo[last] = stroke.Stroke{}
	h.redo = h.redo[:last]
	return true, h.emit()
}

// Active returns the active strokes, oldest first. The slice is a copy.
func (h *History) Active() []stroke.Stroke {
	out := make([]stroke.Stroke, len(h.active))
	copy(out, h.active)
	return out
}

// RedoStack returns the undone strokes, oldest undo first; the last element
// is the next stroke Redo would restore.
func (h *History) RedoStack() []stroke.Stroke {
	out := make([]stroke.Stroke, len(h.redo))
	copy(out, h.redo)
	return out
}

// Len returns the number of active strokes.
func (h *History) Len() int { return len(h.active) }

// Clear drops every stroke from both stacks.
func (h *History) Clear() Availability {
	h.active = nil
	h.redo = nil
	return h.emit()
}

// Restore replaces both stacks. The slices are copied.
func (h *History) Restore(active, redo []stroke.Stroke) Availability {
	h.active = append([]stroke.Stroke(nil), active...)
	h.redo = append([]stroke.Stroke(nil), redo...)
	return h.emit()
}

func (h *History) emit() Availability {
	av := h.Availability()
	for _, fn := range h.listeners {
		fn(av)
	}
	return av
}
