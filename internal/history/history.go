// Package history keeps a bounded undo/redo ledger of surface snapshots.
package history

import (
	"fmt"

	"github.com/example/whiteboard/internal/surface"
)

// Undo capacities, counting the floor entry.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Surface is the raster the stack snapshots and restores.
type Surface interface {
	Snapshot() *surface.Snapshot
	Restore(*surface.Snapshot) error
}

// Stack holds undo and redo snapshots. The undo side is never empty once
// Reset has been called: its bottom entry is the floor undo cannot go past.
type Stack struct {
	surf Surface
	undo ring
	redo []*surface.Snapshot
}

// New returns a stack over surf seeded with its current pixels. A limit
// below 2 means DefaultLimit and one above MaxLimit is capped.
func New(surf Surface, limit int) *Stack {
	if limit < 2 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)
	s := &Stack{surf: surf, undo: newRing(limit)}
	s.Reset(surf.Snapshot())
	return s
}

// Limit returns the undo capacity.
func (s *Stack) Limit() int {
	return len(s.undo.buf)
}

// Checkpoint pushes the surface's current pixels. The oldest entry is
// dropped when the stack is full. The redo side is cleared unless
// preserveRedo is set. It returns the pushed snapshot.
func (s *Stack) Checkpoint(preserveRedo bool) *surface.Snapshot {
	snap := s.surf.Snapshot()
	s.undo.push(snap)
	if !preserveRedo {
		clear(s.redo)
		s.redo = s.redo[:0]
	}
	return snap
}

// Amend replaces the newest undo entry with the surface's current pixels,
// turning the checkpoint taken when an action began into the record of the
// finished action. Depth and redo are unchanged.
func (s *Stack) Amend() *surface.Snapshot {
	snap := s.surf.Snapshot()
	s.undo.replaceTop(snap)
	return snap
}

// Undo restores the entry below the top of the undo side and moves the top
// to redo. With one entry or fewer it does nothing and returns nil. If the
// restore fails neither side changes.
func (s *Stack) Undo() (*surface.Snapshot, error) {
	if s.undo.len() <= 1 {
		return nil, nil
	}
	target := s.undo.at(s.undo.len() - 2)
	if err := s.surf.Restore(target); err != nil {
		return nil, fmt.Errorf("undo: %w", err)
	}
	s.redo = append(s.redo, s.undo.pop())
	return target, nil
}

// Redo restores the most recently undone entry and moves it back onto the
// undo side. With nothing to redo it returns nil.
func (s *Stack) Redo() (*surface.Snapshot, error) {
	if len(s.redo) == 0 {
		return nil, nil
	}
	target := s.redo[len(s.redo)-1]
	if err := s.surf.Restore(target); err != nil {
		return nil, fmt.Errorf("redo: %w", err)
	}
	s.redo[len(s.redo)-1] = nil
	s.redo = s.redo[:len(s.redo)-1]
	s.undo.push(target)
	return target, nil
}

// Reset discards both sides and seeds undo with initial.
func (s *Stack) Reset(initial *surface.Snapshot) {
	s.undo.reset()
	clear(s.redo)
	s.redo = s.redo[:0]
	s.undo.push(initial)
}

// UndoDepth returns the number of undo entries, floor included.
func (s *Stack) UndoDepth() int {
	return s.undo.len()
}

// RedoDepth returns the number of redo entries.
func (s *Stack) RedoDepth() int {
	return len(s.redo)
}

// CanUndo reports whether Undo would change anything.
func (s *Stack) CanUndo() bool {
	return s.undo.len() > 1
}

// CanRedo reports whether Redo would change anything.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}
