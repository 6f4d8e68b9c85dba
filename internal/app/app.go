// Package app is the desktop window for a board: a toolbar of tools,
// palette and size steppers beside the drawing surface, and a status bar
// underneath.
package app

import (
	"image"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/platform"
	"github.com/example/whiteboard/internal/theme"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
)

// App holds the window configuration for one board.
type App struct {
	Engine   *engine.Engine
	Theme    *theme.Theme
	Exporter *export.Exporter
	// Output is where Ctrl+S saves. Empty picks a name in the exporter's
	// save directory.
	Output string
	Title  string

	onClose func()
}

// Option modifies an App during creation.
type Option func(*App)

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *App) { a.Theme = t } }

// WithExporter sets how Ctrl+S and Ctrl+C deliver the board.
func WithExporter(x *export.Exporter) Option { return func(a *App) { a.Exporter = x } }

// WithOutput sets the file Ctrl+S writes.
func WithOutput(path string) Option { return func(a *App) { a.Output = path } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *App) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *App) { a.onClose = fn } }

// New creates an App showing eng.
func New(eng *engine.Engine, opts ...Option) *App {
	a := &App{Engine: eng, Title: platform.AppName}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run executes the UI loop using shiny's driver.
func (a *App) Run() { driver.Main(a.Main) }

// Main runs the window on s until it is closed.
func (a *App) Main(s screen.Screen) {
	if a.onClose != nil {
		defer a.onClose()
	}
	c := newController(a.Engine, a.Theme, a.Exporter, a.Output)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: c.width, Height: c.height, Title: a.Title})
	if err != nil {
		logrus.WithError(err).Error("new window")
		return
	}
	defer w.Release()

	var buf screen.Buffer
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()

	for {
		repaint := false
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			c.handleLifecycle(e)
			repaint = true
		case size.Event:
			c.handleSize(e)
			repaint = true
		case paint.Event:
			sz := image.Pt(c.width, c.height)
			if buf == nil || buf.Size() != sz {
				if buf != nil {
					buf.Release()
				}
				if buf, err = s.NewBuffer(sz); err != nil {
					logrus.WithError(err).Error("new buffer")
					buf = nil
					continue
				}
			}
			c.render(buf.RGBA())
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()
		case mouse.Event:
			repaint = c.handleMouse(e)
		case touch.Event:
			repaint = c.handleTouch(e)
		case key.Event:
			repaint = c.handleKey(e)
		case error:
			logrus.WithError(e).Warn("window event")
		}
		if c.quit {
			return
		}
		if c.takeDirty() || repaint {
			w.Send(paint.Event{})
		}
	}
}
