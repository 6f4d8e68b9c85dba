package script

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/surface"
	"github.com/sirupsen/logrus"
)

var white = color.RGBA{255, 255, 255, 255}

func newRunner(strict bool) (*Runner, *bytes.Buffer) {
	l := logrus.New()
	l.SetOutput(io.Discard)
	var out bytes.Buffer
	return &Runner{
		Engine: engine.New(120, 100, engine.WithLogger(logrus.NewEntry(l))),
		Out:    &out,
		Strict: strict,
	}, &out
}

func run(t *testing.T, r *Runner, src string) {
	t.Helper()
	if err := r.Run(context.Background(), strings.NewReader(src)); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestStrokeAndStatus(t *testing.T) {
	r, out := newRunner(false)
	run(t, r, `
# red pen stroke
color red
width 4
down 10 20
move 60 20   # inline comment
up
status
`)
	if got := r.Engine.Surface().At(surface.Pt(35, 20)); got == white {
		t.Fatalf("stroke was not drawn")
	}
	want := "Tool: Pen | Color: #FF0000 | Size: 4px | Undo: 2 | Redo: 0\n"
	if out.String() != want {
		t.Fatalf("status = %q, want %q", out.String(), want)
	}
}

func TestRectangleScript(t *testing.T) {
	r, _ := newRunner(true)
	run(t, r, `
tool rect
down 10 10
move 50 50
move 80 20
move 60 60
up
`)
	s := r.Engine.Surface()
	if s.At(surface.Pt(10, 35)) == white || s.At(surface.Pt(60, 35)) == white {
		t.Fatalf("final rectangle edges missing")
	}
	if s.At(surface.Pt(80, 15)) != white || s.At(surface.Pt(50, 30)) != white {
		t.Fatalf("preview residue left on surface")
	}
}

func TestTextScript(t *testing.T) {
	r, _ := newRunner(true)
	run(t, r, `
tool text
down 10 10
type he
type llo world
backspace
commit
`)
	if got := r.Engine.Status().UndoDepth; got != 2 {
		t.Fatalf("undo depth = %d, want 2", got)
	}
	if r.Engine.State() != engine.Idle {
		t.Fatalf("state = %v, want idle", r.Engine.State())
	}
}

func TestTouchScript(t *testing.T) {
	r, _ := newRunner(true)
	run(t, r, `
bounds 100 50 120 100
touch down 110 70 300 300
touch move 170 70
touch up
`)
	if r.Engine.Surface().At(surface.Pt(40, 20)) == white {
		t.Fatalf("touch stroke not drawn in surface space")
	}
	if r.Engine.State() != engine.Idle {
		t.Fatalf("touch up should finalize")
	}
}

func TestStrictNoOps(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"undo at floor", "undo", engine.ErrHistoryUnderflow},
		{"redo empty", "redo", engine.ErrHistoryUnderflow},
		{"blank commit", "tool text\ndown 5 5\ntype    \ncommit", engine.ErrEmptyText},
		{"commit without entry", "commit", engine.ErrEmptyText},
		{"touch without contacts", "touch down", engine.ErrInvalidInput},
		{"type without entry", "type hi", engine.ErrInvalidInput},
		{"width out of range", "width 99", engine.ErrInvalidInput},
		{"oversized resize", "resize 100000 100000", engine.ErrInvalidInput},
		{"unknown", "paint 1 2", ErrUnknownCommand},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newRunner(true)
			err := r.Run(context.Background(), strings.NewReader(tc.src))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var lerr *LineError
			if !errors.As(err, &lerr) || lerr.Line < 1 {
				t.Fatalf("expected a LineError, got %T", err)
			}
		})
	}
}

func TestLenientNoOps(t *testing.T) {
	r, _ := newRunner(false)
	run(t, r, "undo\nredo\ncommit\ntouch down\ntype hi\n")
	if st := r.Engine.Status(); st.UndoDepth != 1 || st.RedoDepth != 0 {
		t.Fatalf("status changed: %+v", st)
	}
}

func TestArgumentErrors(t *testing.T) {
	r, _ := newRunner(false)
	for _, line := range []string{"down 1", "move a b", "bounds 0 0 0 10", "tool brush", "color nope", "resize 0 10", "touch sideways 1 2", "touch down 1"} {
		if err := r.Exec(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestUndoRedoClearResize(t *testing.T) {
	r, _ := newRunner(true)
	run(t, r, `
down 10 10
move 50 10
up
undo
redo
clear
resize 60 40
`)
	st := r.Engine.Status()
	if st.Width != 60 || st.Height != 40 || st.UndoDepth != 1 || st.RedoDepth != 0 {
		t.Fatalf("status = %+v", st)
	}
}

func TestTabSeparatedCommands(t *testing.T) {
	r, _ := newRunner(true)
	run(t, r, "tool\trect\ndown\t10 20\nmove 40\t50\nup\n")
	st := r.Engine.Status()
	if st.ToolName != "rectangle" || st.UndoDepth != 2 {
		t.Fatalf("status = %+v", st)
	}
}

func TestExportAndCopy(t *testing.T) {
	var copied image.Image
	r, out := newRunner(true)
	r.Exporter = &export.Exporter{WriteClipboard: func(img image.Image) error {
		copied = img
		return nil
	}}
	path := filepath.Join(t.TempDir(), "board.png")
	run(t, r, "down 10 10\nmove 40 40\nup\nexport "+path+"\ncopy\n")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export missing: %v", err)
	}
	if !strings.Contains(out.String(), "saved "+path) {
		t.Fatalf("output = %q", out.String())
	}
	if copied == nil {
		t.Fatalf("copy did not reach the clipboard")
	}
}

func TestRunHonoursContext(t *testing.T) {
	r, _ := newRunner(false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, strings.NewReader("down 1 1\n")); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
