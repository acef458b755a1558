package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/inkdraw/internal/stroke"
)

func mkStroke(t *testing.T, i int) stroke.Stroke {
	t.Helper()
	s, err := stroke.New(fmt.Sprintf("s%d", i), []stroke.Point{stroke.Pt(float64(i), 0)}, stroke.Brush{Width: 1})
	require.NoError(t, err)
	return s
}

func ids(strokes []stroke.Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID()
	}
	return out
}

func TestUndoRedoPrefixProperty(t *testing.T) {
	for n := 0; n <= 5; n++ {
		for k := 0; k <= n; k++ {
			for r := 0; r <= k; r++ {
				h := New()
				var committed []stroke.Stroke
				for i := 0; i < n; i++ {
					s := mkStroke(t, i)
					committed = append(committed, s)
					h.Commit(s)
				}
				for i := 0; i < k; i++ {
					ok, _ := h.Undo()
					require.True(t, ok)
				}
				for i := 0; i < r; i++ {
					ok, _ := h.Redo()
					require.True(t, ok)
				}
				want := ids(committed[:n-k+r])
				assert.Equal(t, want, ids(h.Active()), "n=%d k=%d r=%d", n, k, r)
				assert.Equal(t, k-r, len(h.RedoStack()))
			}
		}
	}
}

func TestUndoRedoOnEmpty(t *testing.T) {
	h := New()
	calls := 0
	h.OnChange(func(Availability) { calls++ })

	ok, av := h.Undo()
	assert.False(t, ok)
	assert.Equal(t, Availability{}, av)
	ok, av = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, Availability{}, av)
	assert.Zero(t, calls, "no-op must not notify")
}

func TestCommitAfterUndoDropsRedo(t *testing.T) {
	h := New()
	h.Commit(mkStroke(t, 1))
	h.Commit(mkStroke(t, 2))
	h.Undo()
	_, av := h.Undo()
	assert.Equal(t, Availability{Undo: false, Redo: true}, av)

	av = h.Commit(mkStroke(t, 3))
	assert.Equal(t, Availability{Undo: true, Redo: false}, av)
	ok, _ := h.Redo()
	assert.False(t, ok)
	assert.Equal(t, []string{"s3"}, ids(h.Active()))
}

func TestListenerSeesEveryMutation(t *testing.T) {
	h := New()
	var got []Availability
	h.OnChange(func(av Availability) { got = append(got, av) })

	h.Commit(mkStroke(t, 1))
	h.Undo()
	h.Redo()
	h.Clear()

	assert.Equal(t, []Availability{
		{Undo: true},
		{Redo: true},
		{Undo: true},
		{},
	}, got)
}

func TestStrokeLivesInOneStack(t *testing.T) {
	h := New()
	h.Commit(mkStroke(t, 1))
	h.Commit(mkStroke(t, 2))
	h.Undo()

	seen := map[string]int{}
	for _, s := range h.Active() {
		seen[s.ID()]++
	}
	for _, s := range h.RedoStack() {
		seen[s.ID()]++
	}
	assert.Equal(t, map[string]int{"s1": 1, "s2": 1}, seen)
}

func TestRestoreCopiesInput(t *testing.T) {
	h := New()
	active := []stroke.Stroke{mkStroke(t, 1)}
	redo := []stroke.Stroke{mkStroke(t, 2)}
	av := h.Restore(active, redo)
	assert.Equal(t, Availability{Undo: true, Redo: true}, av)

	active[0] = mkStroke(t, 9)
	assert.Equal(t, []string{"s1"}, ids(h.Active()))

	ok, _ := h.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{"s1", "s2"}, ids(h.Active()))
}
