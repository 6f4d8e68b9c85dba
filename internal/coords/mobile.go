package coords

import (
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

// FromMouse converts a window mouse event. Device pixels are divided by
// scale to give client coordinates. Only the primary button draws; wheel
// steps and other buttons report false.
func FromMouse(e mouse.Event, scale float64) (Event, bool) {
	if scale <= 0 {
		scale = 1
	}
	x, y := float64(e.X)/scale, float64(e.Y)/scale
	switch e.Direction {
	case mouse.DirNone:
		return Pointer(Move, x, y), true
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		return Pointer(Down, x, y), true
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		return Pointer(Up, x, y), true
	}
	return Event{}, false
}

// TouchTracker turns per-sequence touch events into events carrying every
// active contact in the order the fingers went down.
type TouchTracker struct {
	order    []touch.Sequence
	contacts map[touch.Sequence]Contact
}

// Convert records e and returns the equivalent event. Device pixels are
// divided by scale.
func (t *TouchTracker) Convert(e touch.Event, scale float64) Event {
	if t.contacts == nil {
		t.contacts = make(map[touch.Sequence]Contact)
	}
	if scale <= 0 {
		scale = 1
	}
	c := Contact{X: float64(e.X) / scale, Y: float64(e.Y) / scale}
	kind := Move
	switch e.Type {
	case touch.TypeBegin:
		kind = Down
		if _, ok := t.contacts[e.Sequence]; !ok {
			t.order = append(t.order, e.Sequence)
		}
		t.contacts[e.Sequence] = c
	case touch.TypeMove:
		if _, ok := t.contacts[e.Sequence]; !ok {
			t.order = append(t.order, e.Sequence)
		}
		t.contacts[e.Sequence] = c
	case touch.TypeEnd:
		kind = Up
		delete(t.contacts, e.Sequence)
		for i, s := range t.order {
			if s == e.Sequence {
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}
	}
	active := make([]Contact, 0, len(t.order))
	for _, s := range t.order {
		active = append(active, t.contacts[s])
	}
	return Touch(kind, active...)
}
