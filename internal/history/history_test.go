package history

import (
	"errors"
	"image/color"
	"testing"

	"github.com/example/whiteboard/internal/surface"
)

func marker(i int) color.RGBA {
	return color.RGBA{R: uint8(i), G: 10, B: 20, A: 255}
}

func current(s *surface.Surface) int {
	return int(s.At(surface.Pt(0, 0)).R)
}

// mark paints marker i onto the surface and checkpoints it.
func mark(s *surface.Surface, h *Stack, i int) {
	s.Clear(marker(i))
	h.Checkpoint(false)
}

func TestNewSeedsFloor(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 0)
	if h.Limit() != DefaultLimit {
		t.Fatalf("limit = %d, want %d", h.Limit(), DefaultLimit)
	}
	if h.UndoDepth() != 1 || h.RedoDepth() != 0 {
		t.Fatalf("unexpected depths %d/%d", h.UndoDepth(), h.RedoDepth())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatalf("fresh stack should have nothing to undo or redo")
	}
}

func TestLimitCapped(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	if got := New(s, 1_000_000_000).Limit(); got != MaxLimit {
		t.Fatalf("limit = %d, want %d", got, MaxLimit)
	}
	if got := New(s, 30).Limit(); got != 30 {
		t.Fatalf("limit = %d, want 30", got)
	}
}

func TestUndoFloor(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	for i := 1; i <= 5; i++ {
		mark(s, h, i)
	}
	for i := 0; i < 50; i++ {
		if _, err := h.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
	}
	if got := current(s); got != 0 {
		t.Fatalf("surface at marker %d, want the floor", got)
	}
	if h.UndoDepth() != 1 {
		t.Fatalf("undo depth %d, want 1", h.UndoDepth())
	}
	snap, err := h.Undo()
	if snap != nil || err != nil {
		t.Fatalf("undo at the floor should be a no-op, got %v, %v", snap, err)
	}
}

func TestBoundedDepth(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	for i := 1; i < 25; i++ {
		mark(s, h, i)
	}
	if h.UndoDepth() != 20 {
		t.Fatalf("undo depth %d, want 20", h.UndoDepth())
	}
	seen := []int{current(s)}
	for {
		snap, err := h.Undo()
		if err != nil {
			t.Fatalf("undo: %v", err)
		}
		if snap == nil {
			break
		}
		seen = append(seen, current(s))
	}
	if len(seen) != 20 {
		t.Fatalf("recovered %d states, want 20: %v", len(seen), seen)
	}
	for i, got := range seen {
		if want := 24 - i; got != want {
			t.Fatalf("state %d = marker %d, want %d", i, got, want)
		}
	}
}

func TestRedoRoundTrip(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	mark(s, h, 1)
	mark(s, h, 2)
	if _, err := h.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := current(s); got != 1 {
		t.Fatalf("after undo at marker %d, want 1", got)
	}
	if _, err := h.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if h.RedoDepth() != 2 {
		t.Fatalf("redo depth %d, want 2", h.RedoDepth())
	}
	for _, want := range []int{1, 2} {
		snap, err := h.Redo()
		if err != nil || snap == nil {
			t.Fatalf("redo: %v, %v", snap, err)
		}
		if got := current(s); got != want {
			t.Fatalf("after redo at marker %d, want %d", got, want)
		}
	}
	if snap, err := h.Redo(); snap != nil || err != nil {
		t.Fatalf("redo with empty stack should be a no-op")
	}
}

func TestCheckpointInvalidatesRedo(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	mark(s, h, 1)
	mark(s, h, 2)
	if _, err := h.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	s.Clear(marker(3))
	h.Checkpoint(true)
	if h.RedoDepth() != 1 {
		t.Fatalf("preserving checkpoint dropped redo")
	}
	mark(s, h, 4)
	if h.RedoDepth() != 0 || h.CanRedo() {
		t.Fatalf("checkpoint should clear redo")
	}
}

func TestReset(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	mark(s, h, 1)
	mark(s, h, 2)
	h.Undo()
	s.Clear(marker(9))
	h.Reset(s.Snapshot())
	if h.UndoDepth() != 1 || h.RedoDepth() != 0 {
		t.Fatalf("unexpected depths %d/%d", h.UndoDepth(), h.RedoDepth())
	}
	h.Undo()
	if got := current(s); got != 9 {
		t.Fatalf("reset floor not kept: %d", got)
	}
}

type failingSurface struct {
	*surface.Surface
	fail bool
}

var errBroken = errors.New("broken")

func (f *failingSurface) Restore(snap *surface.Snapshot) error {
	if f.fail {
		return errBroken
	}
	return f.Surface.Restore(snap)
}

func TestFailedRestoreKeepsStacks(t *testing.T) {
	fs := &failingSurface{Surface: surface.New(4, 4, 1, marker(0))}
	h := New(fs, 20)
	mark(fs.Surface, h, 1)
	mark(fs.Surface, h, 2)
	fs.fail = true
	if _, err := h.Undo(); !errors.Is(err, errBroken) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if h.UndoDepth() != 3 || h.RedoDepth() != 0 {
		t.Fatalf("failed undo changed stacks: %d/%d", h.UndoDepth(), h.RedoDepth())
	}
	fs.fail = false
	if _, err := h.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	fs.fail = true
	if _, err := h.Redo(); !errors.Is(err, errBroken) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if h.UndoDepth() != 2 || h.RedoDepth() != 1 {
		t.Fatalf("failed redo changed stacks: %d/%d", h.UndoDepth(), h.RedoDepth())
	}
}

func TestRingEviction(t *testing.T) {
	r := newRing(3)
	snaps := make([]*surface.Snapshot, 5)
	s := surface.New(1, 1, 1, marker(0))
	for i := range snaps {
		snaps[i] = s.Snapshot()
		if evicted := r.push(snaps[i]); evicted != (i >= 3) {
			t.Fatalf("push %d evicted=%v", i, evicted)
		}
	}
	for i := 4; i >= 2; i-- {
		if got := r.pop(); got != snaps[i] {
			t.Fatalf("pop returned the wrong entry for %d", i)
		}
	}
	if r.pop() != nil || r.len() != 0 {
		t.Fatalf("ring should be empty")
	}
}

func TestAmendRecordsFinishedAction(t *testing.T) {
	s := surface.New(4, 4, 1, marker(0))
	h := New(s, 20)
	for i := 1; i <= 3; i++ {
		h.Checkpoint(false)
		s.Clear(marker(i))
		h.Amend()
	}
	if h.UndoDepth() != 4 {
		t.Fatalf("undo depth %d, want 4", h.UndoDepth())
	}
	for _, want := range []int{2, 1, 0} {
		if _, err := h.Undo(); err != nil {
			t.Fatalf("undo: %v", err)
		}
		if got := current(s); got != want {
			t.Fatalf("undo landed on marker %d, want %d", got, want)
		}
	}
	for _, want := range []int{1, 2, 3} {
		if _, err := h.Redo(); err != nil {
			t.Fatalf("redo: %v", err)
		}
		if got := current(s); got != want {
			t.Fatalf("redo landed on marker %d, want %d", got, want)
		}
	}
}
