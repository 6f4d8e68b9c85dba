package coords

import (
	"math"
	"testing"

	"github.com/example/whiteboard/internal/surface"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"
)

func TestPointerAndTouchAgree(t *testing.T) {
	bounds := Rect{X: 37, Y: 112, Width: 800, Height: 600}
	cases := []struct{ x, y float64 }{
		{37, 112},
		{100, 200},
		{836.5, 711.25},
		{0, 0},
	}
	for _, c := range cases {
		for _, kind := range []Kind{Down, Move} {
			p, ok := Map(Pointer(kind, c.x, c.y), bounds)
			if !ok {
				t.Fatalf("pointer %v at (%v,%v) rejected", kind, c.x, c.y)
			}
			q, ok := Map(Touch(kind, Contact{X: c.x, Y: c.y}), bounds)
			if !ok {
				t.Fatalf("touch %v at (%v,%v) rejected", kind, c.x, c.y)
			}
			if p != q {
				t.Fatalf("pointer %v and touch %v differ", p, q)
			}
			want := surface.Pt(c.x-bounds.X, c.y-bounds.Y)
			if p != want {
				t.Fatalf("got %v want %v", p, want)
			}
		}
	}
}

func TestTouchUsesFirstContact(t *testing.T) {
	p, ok := Map(Touch(Move, Contact{X: 10, Y: 20}, Contact{X: 300, Y: 400}), Rect{})
	if !ok || p != surface.Pt(10, 20) {
		t.Fatalf("got %v, %v", p, ok)
	}
}

func TestMapRejectsUnusableEvents(t *testing.T) {
	if _, ok := Map(Touch(Down), Rect{}); ok {
		t.Fatalf("touch without contacts should be rejected")
	}
	if _, ok := Map(Pointer(Move, math.NaN(), 3), Rect{}); ok {
		t.Fatalf("NaN coordinate should be rejected")
	}
	if _, ok := Map(Pointer(Move, 3, math.Inf(1)), Rect{}); ok {
		t.Fatalf("infinite coordinate should be rejected")
	}
}

func TestFinalizes(t *testing.T) {
	if !Touch(Up).Finalizes() || !Pointer(Leave, 0, 0).Finalizes() {
		t.Fatalf("up and leave should finalize")
	}
	if Pointer(Move, 0, 0).Finalizes() {
		t.Fatalf("move should not finalize")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Down, Move, Up, Leave} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("round trip of %v: %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("hover"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromMouse(t *testing.T) {
	tests := []struct {
		name string
		in   mouse.Event
		want Event
		ok   bool
	}{
		{"press", mouse.Event{X: 20, Y: 40, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, Pointer(Down, 10, 20), true},
		{"drag", mouse.Event{X: 22, Y: 44, Direction: mouse.DirNone}, Pointer(Move, 11, 22), true},
		{"release", mouse.Event{X: 24, Y: 48, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, Pointer(Up, 12, 24), true},
		{"right button", mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}, Event{}, false},
		{"wheel", mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep}, Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromMouse(tt.in, 2)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (got.Kind != tt.want.Kind || got.X != tt.want.X || got.Y != tt.want.Y || got.Touch) {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestTouchTracker(t *testing.T) {
	var tr TouchTracker
	ev := tr.Convert(touch.Event{X: 10, Y: 10, Sequence: 1, Type: touch.TypeBegin}, 1)
	if ev.Kind != Down || len(ev.Contacts) != 1 {
		t.Fatalf("unexpected begin %+v", ev)
	}
	tr.Convert(touch.Event{X: 90, Y: 90, Sequence: 2, Type: touch.TypeBegin}, 1)
	ev = tr.Convert(touch.Event{X: 95, Y: 95, Sequence: 2, Type: touch.TypeMove}, 1)
	if p, _ := Map(ev, Rect{}); p != surface.Pt(10, 10) {
		t.Fatalf("second finger moved the primary contact: %v", p)
	}
	ev = tr.Convert(touch.Event{X: 12, Y: 12, Sequence: 1, Type: touch.TypeEnd}, 1)
	if ev.Kind != Up || len(ev.Contacts) != 1 || ev.Contacts[0].X != 95 {
		t.Fatalf("unexpected end %+v", ev)
	}
	ev = tr.Convert(touch.Event{X: 96, Y: 96, Sequence: 2, Type: touch.TypeEnd}, 1)
	if ev.Kind != Up || len(ev.Contacts) != 0 {
		t.Fatalf("last finger up should carry no contacts: %+v", ev)
	}
	if _, ok := Map(ev, Rect{}); ok {
		t.Fatalf("contactless touch end should not map to a point")
	}
}
