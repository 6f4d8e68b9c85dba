// Package coords normalizes pointer and touch input into surface-local points.
package coords

import (
	"fmt"
	"math"

	"github.com/example/whiteboard/internal/surface"
)

// Kind is the phase of an input event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	// Leave is reported when the pointer exits the surface.
	Leave
)

var kindNames = [...]string{"down", "move", "up", "leave"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Contact is a single touch point in client coordinates.
type Contact struct {
	X, Y float64
}

// Event is an input event in client coordinates. Pointer events carry X and
// Y; touch events carry their active contacts, first contact first.
type Event struct {
	Kind     Kind
	Touch    bool
	X, Y     float64
	Contacts []Contact
}

// Pointer builds a mouse or pen event.
func Pointer(kind Kind, x, y float64) Event {
	return Event{Kind: kind, X: x, Y: y}
}

// Touch builds a touch event from the active contacts.
func Touch(kind Kind, contacts ...Contact) Event {
	return Event{Kind: kind, Touch: true, Contacts: contacts}
}

// Finalizes reports whether the event ends a gesture. Such events need no
// position.
func (e Event) Finalizes() bool {
	return e.Kind == Up || e.Kind == Leave
}

// Rect is the surface's rectangle in client coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether the client point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Map converts ev into a point relative to the surface origin. It reports
// false when the event has no usable position, such as a touch event with no
// contacts. Pointer and touch events at the same client position map to the
// same point.
func Map(ev Event, r Rect) (surface.Point, bool) {
	x, y := ev.X, ev.Y
	if ev.Touch {
		if len(ev.Contacts) == 0 {
			return surface.Point{}, false
		}
		x, y = ev.Contacts[0].X, ev.Contacts[0].Y
	}
	if !finite(x) || !finite(y) {
		return surface.Point{}, false
	}
	return surface.Point{X: x - r.X, Y: y - r.Y}, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
