package history

import "github.com/example/whiteboard/internal/surface"

// ring is a fixed-capacity stack that drops its oldest entry when full.
type ring struct {
	buf  []*surface.Snapshot
	head int // index of the oldest entry
	n    int
}

func newRing(capacity int) ring {
	return ring{buf: make([]*surface.Snapshot, capacity)}
}

func (r *ring) len() int { return r.n }

// push appends s and reports whether the oldest entry was evicted.
func (r *ring) push(s *surface.Snapshot) bool {
	if len(r.buf) == 0 {
		return false
	}
	if r.n == len(r.buf) {
		r.buf[r.head] = s
		r.head = (r.head + 1) % len(r.buf)
		return true
	}
	r.buf[(r.head+r.n)%len(r.buf)] = s
	r.n++
	return false
}

// at returns the i-th entry counted from the oldest.
func (r *ring) at(i int) *surface.Snapshot {
	return r.buf[(r.head+i)%len(r.buf)]
}

// replaceTop overwrites the newest entry, pushing when empty.
func (r *ring) replaceTop(s *surface.Snapshot) {
	if r.n == 0 {
		r.push(s)
		return
	}
	r.buf[(r.head+r.n-1)%len(r.buf)] = s
}

func (r *ring) pop() *surface.Snapshot {
	if r.n == 0 {
		return nil
	}
	i := (r.head + r.n - 1) % len(r.buf)
	s := r.buf[i]
	r.buf[i] = nil
	r.n--
	return s
}

func (r *ring) reset() {
	clear(r.buf)
	r.head, r.n = 0, 0
}
