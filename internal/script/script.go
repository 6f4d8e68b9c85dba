// Package script replays line-oriented input scripts against an engine.
//
// Each line holds one command:
//
//	tool <name>              color <spec>            width <n>
//	font <n>                 bounds <x> <y> <w> <h>  down|move <x> <y>
//	touch <kind> [<x> <y>]…  up                      leave
//	type <text>              backspace               commit
//	cancel                   undo                    redo
//	clear                    resize <w> <h>          export [path]
//	copy                     status
//
// Blank lines are skipped and # starts a comment, except inside type text.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/whiteboard/internal/coords"
	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/palette"
	"github.com/sirupsen/logrus"
)

// ErrUnknownCommand is returned for a command name the runner does not know.
var ErrUnknownCommand = errors.New("unknown command")

// Runner executes script commands against Engine.
type Runner struct {
	Engine *engine.Engine
	// Out receives status lines and export paths. Nil discards them.
	Out io.Writer
	// Strict turns silent no-ops into errors: undo or redo with nothing to
	// apply, commits of blank text and events without a usable position.
	Strict bool
	// Exporter handles export and copy. Nil uses a zero Exporter.
	Exporter *export.Exporter
}

// LineError reports the script line a command failed on.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Run executes every line of in, stopping at the first failure or when ctx
// is done.
func (r *Runner) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if err := r.Exec(line); err != nil {
			return &LineError{Line: n, Text: strings.TrimSpace(line), Err: err}
		}
	}
	return scanner.Err()
}

// Exec runs a single command line.
func (r *Runner) Exec(line string) error {
	name, rest := split(line)
	if name == "" || strings.HasPrefix(name, "#") {
		return nil
	}
	if name != "type" {
		rest, _, _ = strings.Cut(rest, "#")
	}
	args := strings.Fields(rest)
	logrus.WithFields(logrus.Fields{"component": "script", "command": name}).Debug(strings.TrimSpace(rest))

	switch name {
	case "tool":
		if err := want(args, 1); err != nil {
			return err
		}
		t, err := engine.ParseTool(args[0])
		if err != nil {
			return err
		}
		return r.Engine.SelectTool(t)
	case "color", "colour":
		if err := want(args, 1); err != nil {
			return err
		}
		c, err := palette.Parse(args[0])
		if err != nil {
			return err
		}
		return r.configure(func(cfg *engine.ToolConfig) { cfg.Color = c })
	case "width":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		return r.configure(func(cfg *engine.ToolConfig) { cfg.StrokeWidth = v[0] })
	case "font":
		v, err := floats(args, 1)
		if err != nil {
			return err
		}
		return r.configure(func(cfg *engine.ToolConfig) { cfg.FontSize = v[0] })
	case "bounds":
		v, err := floats(args, 4)
		if err != nil {
			return err
		}
		if v[2] <= 0 || v[3] <= 0 {
			return fmt.Errorf("%w: bounds %vx%v", engine.ErrInvalidInput, v[2], v[3])
		}
		r.Engine.SetBounds(coords.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]})
		return nil
	case "down", "move":
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		kind, _ := coords.ParseKind(name)
		return r.handle(coords.Pointer(kind, v[0], v[1]))
	case "touch":
		return r.touch(args)
	case "up", "leave":
		if err := want(args, 0); err != nil {
			return err
		}
		kind, _ := coords.ParseKind(name)
		return r.handle(coords.Pointer(kind, 0, 0))
	case "type":
		if _, open := r.Engine.PendingText(); !open && r.Strict {
			return fmt.Errorf("%w: no text entry open", engine.ErrInvalidInput)
		}
		r.Engine.InsertText(strings.TrimPrefix(rest, " "))
		return nil
	case "backspace":
		r.Engine.Backspace()
		return nil
	case "commit":
		pending, open := r.Engine.PendingText()
		ok, err := r.Engine.CommitText()
		if err != nil {
			return err
		}
		if !ok && r.Strict {
			if !open {
				return fmt.Errorf("%w: no text entry open", engine.ErrEmptyText)
			}
			return fmt.Errorf("%w: %q", engine.ErrEmptyText, pending.Text)
		}
		return nil
	case "cancel":
		r.Engine.CancelText()
		return nil
	case "undo":
		return r.history(r.Engine.Undo)
	case "redo":
		return r.history(r.Engine.Redo)
	case "clear":
		r.Engine.Clear()
		return nil
	case "resize":
		v, err := floats(args, 2)
		if err != nil {
			return err
		}
		_, err = r.Engine.Resize(int(v[0]), int(v[1]), 0)
		return err
	case "export", "save":
		if len(args) > 1 {
			return fmt.Errorf("expected at most 1 argument, got %d", len(args))
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		written, err := r.exporter().Save(r.Engine.ExportSnapshot(), path)
		if err != nil {
			return err
		}
		r.printf("saved %s\n", written)
		return nil
	case "copy":
		return r.exporter().Copy(r.Engine.ExportSnapshot())
	case "status":
		r.printf("%s\n", r.Engine.Status())
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

func (r *Runner) configure(fn func(*engine.ToolConfig)) error {
	cfg := r.Engine.Settings().Load()
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return r.Engine.Configure(cfg)
}

func (r *Runner) handle(ev coords.Event) error {
	if !ev.Finalizes() && r.Strict {
		if _, ok := coords.Map(ev, r.Engine.Bounds()); !ok {
			return fmt.Errorf("%w: %s", engine.ErrInvalidInput, ev.Kind)
		}
	}
	_, err := r.Engine.Handle(ev)
	return err
}

func (r *Runner) touch(args []string) error {
	if len(args) < 1 {
		return errors.New("touch needs an event kind")
	}
	kind, err := coords.ParseKind(args[0])
	if err != nil {
		return err
	}
	if len(args[1:])%2 != 0 {
		return errors.New("touch contacts need x and y")
	}
	v, err := floats(args[1:], len(args)-1)
	if err != nil {
		return err
	}
	contacts := make([]coords.Contact, 0, len(v)/2)
	for i := 0; i < len(v); i += 2 {
		contacts = append(contacts, coords.Contact{X: v[i], Y: v[i+1]})
	}
	return r.handle(coords.Touch(kind, contacts...))
}

func (r *Runner) history(op func() (bool, error)) error {
	ok, err := op()
	if err != nil {
		return err
	}
	if !ok && r.Strict {
		return engine.ErrHistoryUnderflow
	}
	return nil
}

func (r *Runner) exporter() *export.Exporter {
	if r.Exporter == nil {
		r.Exporter = &export.Exporter{}
	}
	return r.Exporter
}

func (r *Runner) printf(format string, args ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, args...)
	}
}

func split(line string) (string, string) {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	_, n := utf8.DecodeRuneInString(line[i:])
	return strings.ToLower(line[:i]), line[i+n:]
}

func want(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if err := want(args, n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}
