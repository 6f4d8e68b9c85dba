package app

import (
	"fmt"
	"image"
	"time"
	"unicode"

	"github.com/example/whiteboard/internal/coords"
	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/palette"
	"github.com/example/whiteboard/internal/theme"
	"github.com/sirupsen/logrus"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

const (
	messageDuration = 2 * time.Second
	widthStep       = 1
	fontStep        = 2
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// controller routes window input to the engine and owns the chrome. It has
// no screen dependency so it can run headless.
type controller struct {
	eng      *engine.Engine
	theme    *theme.Theme
	exporter *export.Exporter
	output   string
	log      *logrus.Entry

	width, height int
	layout        layout

	tools    []*CacheButton
	swatches []*CacheButton
	steppers []*CacheButton
	actions  []*CacheButton
	typing   []*CacheButton
	hover    *CacheButton

	actionFns      map[string]func()
	keyboardAction map[KeyShortcut]string

	touches      coords.TouchTracker
	dirty        bool
	message      string
	messageUntil time.Time
	quit         bool
}

func newController(eng *engine.Engine, th *theme.Theme, x *export.Exporter, output string) *controller {
	if th == nil {
		th = theme.Default()
	}
	if x == nil {
		x = &export.Exporter{}
	}
	c := &controller{
		eng:            eng,
		theme:          th,
		exporter:       x,
		output:         output,
		log:            logrus.WithField("component", "app"),
		actionFns:      map[string]func(){},
		keyboardAction: map[KeyShortcut]string{},
	}
	c.registerActions()
	c.buildChrome()
	eng.Settings().OnChange(func(cfg engine.ToolConfig) {
		c.log.WithField("tools", cfg).Debug("tool settings changed")
		c.dirty = true
	})
	w, h := eng.Surface().Size()
	ww, wh := windowSize(w, h, c.scale())
	c.handleSize(size.Event{WidthPx: ww, HeightPx: wh})
	return c
}

func (c *controller) scale() float64 {
	return c.eng.Surface().Scale()
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actionFns[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keyboardAction[sc] = name
		}
	}
}

func (c *controller) trigger(name string) {
	if fn, ok := c.actionFns[name]; ok {
		fn()
	}
}

func (c *controller) registerActions() {
	c.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		if !c.eng.CanUndo() {
			c.flash("nothing to undo")
			return
		}
		if _, err := c.eng.Undo(); err != nil {
			c.fail("undo", err)
		}
	})
	c.register("redo", shortcutList{
		{Rune: 'y', Modifiers: key.ModControl},
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
	}, func() {
		if !c.eng.CanRedo() {
			c.flash("nothing to redo")
			return
		}
		if _, err := c.eng.Redo(); err != nil {
			c.fail("redo", err)
		}
	})
	c.register("clear", shortcutList{{Rune: 'l', Modifiers: key.ModControl}}, func() {
		c.eng.Clear()
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		path, err := c.exporter.Save(c.eng.ExportSnapshot(), c.output)
		if err != nil {
			c.fail("save", err)
			return
		}
		c.flash(fmt.Sprintf("saved %s", path))
	})
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := c.exporter.Copy(c.eng.ExportSnapshot()); err != nil {
			c.fail("copy", err)
			return
		}
		c.flash("board copied to clipboard")
	})
	c.register("quit", shortcutList{{Rune: 'q'}}, func() {
		c.quit = true
	})
	c.register("smaller", shortcutList{{Rune: '['}}, func() { c.step(-1) })
	c.register("larger", shortcutList{{Rune: ']'}}, func() { c.step(1) })
	for _, t := range engine.Tools() {
		t := t
		c.register("tool:"+t.String(), shortcutList{{Rune: shortcutRune(t)}}, func() {
			if err := c.eng.SelectTool(t); err != nil {
				c.fail("select tool", err)
			}
		})
	}
	c.register("textdone", nil, func() {
		if _, err := c.eng.CommitText(); err != nil {
			c.fail("commit text", err)
		}
	})
	c.register("textcancel", nil, func() { c.eng.CancelText() })
}

func (c *controller) buildChrome() {
	label := func(text, action string) *CacheButton {
		return &CacheButton{Button: &LabelButton{label: text, theme: c.theme, onActivate: func() { c.trigger(action) }}}
	}
	for _, t := range engine.Tools() {
		c.tools = append(c.tools, label(toolLabel(t), "tool:"+t.String()))
	}
	for _, e := range palette.Entries() {
		col := e.Color
		c.swatches = append(c.swatches, &CacheButton{Button: &SwatchButton{col: col, theme: c.theme, onSelect: func() {
			c.eng.Settings().Update(func(cfg *engine.ToolConfig) { cfg.Color = col })
		}}})
	}
	c.steppers = []*CacheButton{label(" -", "smaller"), label(" +", "larger")}
	when := func(b *CacheButton, enabled func() bool) *CacheButton {
		b.Button.(*LabelButton).enabled = enabled
		return b
	}
	c.actions = []*CacheButton{
		when(label("^Z:undo", "undo"), c.eng.CanUndo),
		when(label("^Y:redo", "redo"), c.eng.CanRedo),
		label("^L:clear", "clear"),
		label("^S:save", "save"),
		label("^C:copy", "copy"),
	}
	c.typing = []*CacheButton{label("Enter:place", "textdone"), label("Esc:cancel", "textcancel")}
}

// setWindowSize lays out the chrome for a width×height window.
func (c *controller) setWindowSize(width, height int) {
	c.width, c.height = width, height
	c.layout = computeLayout(width, height)
	l := c.layout

	y := l.title.Max.Y
	for _, b := range c.tools {
		b.SetRect(image.Rect(0, y, toolbarWidth, y+buttonHeight))
		y += buttonHeight
	}
	y += 4
	x := 4
	for _, b := range c.swatches {
		if x+swatchSize > toolbarWidth {
			x = 4
			y += swatchSize + swatchGap
		}
		b.SetRect(image.Rect(x, y, x+swatchSize, y+swatchSize))
		x += swatchSize + swatchGap
	}
	y += swatchSize + 4 + stepHeight
	half := toolbarWidth / 2
	c.steppers[0].SetRect(image.Rect(0, y, half, y+stepHeight))
	c.steppers[1].SetRect(image.Rect(half, y, toolbarWidth, y+stepHeight))

	for _, row := range [][]*CacheButton{c.actions, c.typing} {
		x := 4
		for _, b := range row {
			w := labelWidth(b.Button.(*LabelButton).label) + 8
			b.SetRect(image.Rect(x, l.status.Min.Y+2, x+w, l.status.Max.Y-2))
			x += w + 4
		}
	}

	s := c.scale()
	lw, lh := l.logicalSize(s)
	c.eng.SetBounds(coords.Rect{X: float64(l.canvas.Min.X) / s, Y: float64(l.canvas.Min.Y) / s, Width: float64(lw), Height: float64(lh)})
}

// sizeLabelRect is where the current size is printed.
func (c *controller) sizeLabelRect() image.Rectangle {
	r := c.steppers[0].Rect()
	return image.Rect(0, r.Min.Y-stepHeight, toolbarWidth, r.Min.Y)
}

// statusButtons are the shortcuts shown for the current state.
func (c *controller) statusButtons() []*CacheButton {
	if c.eng.State() == engine.Typing {
		return c.typing
	}
	return c.actions
}

func (c *controller) chrome() []*CacheButton {
	out := make([]*CacheButton, 0, len(c.tools)+len(c.swatches)+len(c.steppers)+len(c.actions))
	out = append(out, c.tools...)
	out = append(out, c.swatches...)
	out = append(out, c.steppers...)
	return append(out, c.statusButtons()...)
}

func (c *controller) buttonAt(p image.Point) *CacheButton {
	for _, b := range c.chrome() {
		if p.In(b.Rect()) {
			return b
		}
	}
	return nil
}

// handleSize resizes the surface to fill the canvas region.
func (c *controller) handleSize(e size.Event) {
	c.setWindowSize(e.WidthPx, e.HeightPx)
	lw, lh := c.layout.logicalSize(c.scale())
	if _, err := c.eng.Resize(lw, lh, 0); err != nil {
		c.fail("resize", err)
	}
}

// handleLifecycle commits pending text and finishes any stroke when the
// window loses focus.
func (c *controller) handleLifecycle(e lifecycle.Event) {
	if e.Crosses(lifecycle.StageFocused) != lifecycle.CrossOff {
		return
	}
	c.eng.Release()
	if _, err := c.eng.CommitText(); err != nil {
		c.fail("commit text", err)
	}
}

// handleMouse applies e and reports whether a repaint is needed.
func (c *controller) handleMouse(e mouse.Event) bool {
	if c.message != "" && time.Now().Before(c.messageUntil) && e.Direction == mouse.DirPress {
		c.messageUntil = time.Time{}
		return true
	}
	p := image.Pt(int(e.X), int(e.Y))
	if !p.In(c.layout.canvas) {
		repaint := false
		if c.eng.State() == engine.Drawing {
			c.apply(coords.Pointer(coords.Leave, 0, 0))
			repaint = true
		}
		return c.handleChrome(p, e) || repaint
	}
	repaint := c.hover != nil
	c.hover = nil
	ev, ok := coords.FromMouse(e, c.scale())
	if !ok {
		return repaint
	}
	if ev.Kind == coords.Move && c.eng.State() != engine.Drawing {
		return repaint
	}
	c.apply(ev)
	return true
}

func (c *controller) handleChrome(p image.Point, e mouse.Event) bool {
	b := c.buttonAt(p)
	repaint := false
	if b != c.hover {
		c.hover = b
		repaint = true
	}
	if b != nil && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
		b.Activate()
		repaint = true
	}
	return repaint
}

// handleTouch applies a touch event. Touches on the chrome are ignored.
func (c *controller) handleTouch(e touch.Event) bool {
	s := c.scale()
	ev := c.touches.Convert(e, s)
	if ev.Kind == coords.Down && !c.eng.Bounds().Contains(float64(e.X)/s, float64(e.Y)/s) {
		return false
	}
	c.apply(ev)
	return true
}

// handleKey applies e and reports whether a repaint is needed.
func (c *controller) handleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if c.eng.State() == engine.Typing && e.Modifiers&(key.ModControl|key.ModMeta) == 0 {
		switch e.Code {
		case key.CodeReturnEnter:
			c.trigger("textdone")
		case key.CodeEscape:
			c.trigger("textcancel")
		case key.CodeDeleteBackspace:
			c.eng.Backspace()
		default:
			if e.Rune > 0 && unicode.IsPrint(e.Rune) {
				c.eng.InsertText(string(e.Rune))
			}
		}
		return true
	}
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
	if action, ok := c.keyboardAction[ks]; ok {
		c.trigger(action)
		return true
	}
	// Letter shortcuts arrive with a code as well on some drivers.
	ks.Code = key.CodeUnknown
	if action, ok := c.keyboardAction[ks]; ok {
		c.trigger(action)
		return true
	}
	return false
}

func (c *controller) apply(ev coords.Event) {
	if _, err := c.eng.Handle(ev); err != nil {
		c.fail(ev.Kind.String(), err)
	}
}

// step moves the active size up or down by one notch.
func (c *controller) step(dir int) {
	c.eng.Settings().Update(func(cfg *engine.ToolConfig) {
		if cfg.Tool == engine.Text {
			cfg.FontSize += float64(dir * fontStep)
		} else {
			cfg.StrokeWidth += float64(dir * widthStep)
		}
	})
}

// takeDirty reports whether state changed outside an input handler since
// the last call, such as a tool settings update.
func (c *controller) takeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

func (c *controller) flash(msg string) {
	c.message = msg
	c.messageUntil = time.Now().Add(messageDuration)
	c.log.Info(msg)
}

func (c *controller) fail(op string, err error) {
	c.log.WithError(err).WithField("op", op).Warn("action failed")
	c.flash(fmt.Sprintf("%s failed", op))
}
