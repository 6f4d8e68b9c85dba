// Package engine turns normalized input events into drawing operations on a
// surface and keeps the undo history consistent with what is visible.
package engine

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/example/whiteboard/internal/coords"
	"github.com/example/whiteboard/internal/history"
	"github.com/example/whiteboard/internal/surface"
	"github.com/sirupsen/logrus"
)

// State is the input state of the engine.
type State int

const (
	Idle State = iota
	Drawing
	Typing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Typing:
		return "typing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ResizePolicy decides what happens to drawn content when the surface size
// changes.
type ResizePolicy int

const (
	// ResizeDiscard wipes the surface.
	ResizeDiscard ResizePolicy = iota
	// ResizePreserve keeps drawn content at its logical position.
	ResizePreserve
)

func (p ResizePolicy) String() string {
	if p == ResizePreserve {
		return "preserve"
	}
	return "discard"
}

// ParseResizePolicy accepts "discard" or "preserve".
func ParseResizePolicy(s string) (ResizePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return ResizeDiscard, nil
	case "preserve":
		return ResizePreserve, nil
	}
	return ResizeDiscard, fmt.Errorf("unknown resize policy %q", s)
}

// Background is the default surface colour.
var Background = color.RGBA{255, 255, 255, 255}

type stroke struct {
	tool   Tool
	anchor surface.Point
	last   surface.Point
	base   *surface.Snapshot
	moved  bool
}

// Engine owns a surface and its history. It is not safe for concurrent use;
// callers serialize access.
type Engine struct {
	surf     *surface.Surface
	hist     *history.Stack
	settings *Settings
	bounds   coords.Rect
	stroke   *stroke
	text     *TextSession

	scale         float64
	background    color.RGBA
	historyLimit  int
	resize        ResizePolicy
	legacyPreview bool
	log           *logrus.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithSettings shares a configuration cell with the front-end.
func WithSettings(s *Settings) Option { return func(e *Engine) { e.settings = s } }

// WithScale sets the device pixel ratio of the surface buffer.
func WithScale(scale float64) Option { return func(e *Engine) { e.scale = scale } }

// WithBackground sets the colour shown where nothing is drawn.
func WithBackground(c color.RGBA) Option { return func(e *Engine) { e.background = c } }

// WithHistoryLimit sets the undo capacity.
func WithHistoryLimit(n int) Option { return func(e *Engine) { e.historyLimit = n } }

// WithResizePolicy selects what Resize does to drawn content.
func WithResizePolicy(p ResizePolicy) Option { return func(e *Engine) { e.resize = p } }

// WithLegacyShapePreview makes shape previews start from a blank background
// instead of the pre-stroke pixels, erasing earlier drawing while dragging.
func WithLegacyShapePreview(on bool) Option { return func(e *Engine) { e.legacyPreview = on } }

// WithLogger sets the log destination.
func WithLogger(l *logrus.Entry) Option { return func(e *Engine) { e.log = l } }

// New creates an engine with a blank width×height surface.
func New(width, height int, opts ...Option) *Engine {
	e := &Engine{
		scale:        1,
		background:   Background,
		historyLimit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.settings == nil {
		e.settings = NewSettings(DefaultToolConfig())
	}
	if e.log == nil {
		e.log = logrus.WithField("component", "engine")
	}
	e.surf = surface.New(width, height, e.scale, e.background)
	e.hist = history.New(e.surf, e.historyLimit)
	e.bounds = coords.Rect{Width: float64(width), Height: float64(height)}
	return e
}

// Settings returns the configuration cell the engine reads.
func (e *Engine) Settings() *Settings {
	return e.settings
}

// Surface exposes the raster for display. Callers must not draw on it.
func (e *Engine) Surface() *surface.Surface {
	return e.surf
}

// State reports whether a stroke or text entry is in progress.
func (e *Engine) State() State {
	switch {
	case e.stroke != nil:
		return Drawing
	case e.text != nil:
		return Typing
	}
	return Idle
}

// SetBounds records where the surface sits in client coordinates.
func (e *Engine) SetBounds(r coords.Rect) {
	e.bounds = r
}

// Bounds returns the surface rectangle in client coordinates.
func (e *Engine) Bounds() coords.Rect {
	return e.bounds
}

// Handle maps ev to surface coordinates and applies it. It reports whether
// the event changed any state. Events with no usable position are ignored.
func (e *Engine) Handle(ev coords.Event) (bool, error) {
	if err := e.sync(); err != nil {
		return false, err
	}
	if ev.Finalizes() {
		return e.Release(), nil
	}
	p, ok := coords.Map(ev, e.bounds)
	if !ok {
		e.log.WithField("event", ev.Kind).Debug(ErrInvalidInput)
		return false, nil
	}
	switch ev.Kind {
	case coords.Down:
		return e.Press(p)
	case coords.Move:
		return e.Drag(p)
	}
	return false, nil
}

// Press starts a stroke at p, or a text entry when the Text tool is active.
func (e *Engine) Press(p surface.Point) (bool, error) {
	if err := e.sync(); err != nil {
		return false, err
	}
	cfg := e.settings.Load()
	if cfg.Tool == Text {
		return e.beginText(p)
	}
	if e.stroke != nil {
		return false, nil
	}
	base := e.hist.Checkpoint(false)
	e.stroke = &stroke{tool: cfg.Tool, anchor: p, last: p, base: base}
	e.log.WithFields(logrus.Fields{"tool": cfg.Tool, "at": p}).Debug("stroke started")
	return true, nil
}

// Drag extends the open stroke to p. It does nothing while no stroke is
// open.
func (e *Engine) Drag(p surface.Point) (bool, error) {
	if err := e.sync(); err != nil {
		return false, err
	}
	st := e.stroke
	if st == nil {
		return false, nil
	}
	cfg := e.settings.Load()
	var err error
	switch {
	case st.tool == Pen:
		err = e.surf.StrokeLine(st.last, p, cfg.StrokeWidth, cfg.Color, surface.SourceOver)
	case st.tool == Eraser:
		err = e.surf.StrokeLine(st.last, p, cfg.StrokeWidth, cfg.Color, surface.DestinationOut)
	case st.tool.Shape():
		err = e.preview(st, p, cfg)
	}
	st.last = p
	st.moved = true
	if err != nil {
		return true, fmt.Errorf("%s: %w", st.tool, err)
	}
	return true, nil
}

// preview redraws the shape from the pixels present when the stroke began.
func (e *Engine) preview(st *stroke, p surface.Point, cfg ToolConfig) error {
	if e.legacyPreview {
		e.surf.Clear(e.surf.Background())
	} else if err := e.surf.Restore(st.base); err != nil {
		e.log.WithError(err).Warn("shape preview restore failed")
		return fmt.Errorf("%w: %w", ErrRestore, err)
	}
	switch st.tool {
	case Line:
		return e.surf.StrokeLine(st.anchor, p, cfg.StrokeWidth, cfg.Color, surface.SourceOver)
	case Rectangle:
		d := p.Sub(st.anchor)
		return e.surf.StrokeRect(st.anchor, d.X, d.Y, cfg.StrokeWidth, cfg.Color)
	case Circle:
		return e.surf.StrokeCircle(st.anchor, st.anchor.Dist(p), cfg.StrokeWidth, cfg.Color)
	}
	return nil
}

// Release finalizes the open stroke. The checkpoint taken when the stroke
// began is amended to hold the finished pixels.
func (e *Engine) Release() bool {
	st := e.stroke
	if st == nil {
		return false
	}
	e.stroke = nil
	if st.moved {
		e.hist.Amend()
	}
	e.log.WithFields(logrus.Fields{"tool": st.tool, "at": st.last}).Debug("stroke finished")
	return true
}

// sync finalizes sessions that no longer match the configured tool.
func (e *Engine) sync() error {
	cfg := e.settings.Load()
	if e.stroke != nil && e.stroke.tool != cfg.Tool {
		e.Release()
	}
	if e.text != nil && cfg.Tool != Text {
		if _, err := e.CommitText(); err != nil {
			return err
		}
	}
	return nil
}

// settle closes any open stroke and commits pending text.
func (e *Engine) settle() error {
	e.Release()
	if _, err := e.CommitText(); err != nil {
		return err
	}
	return nil
}

// SelectTool switches tools. An open stroke is finalized first, and pending
// text is committed when leaving the Text tool.
func (e *Engine) SelectTool(t Tool) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown tool %d", ErrInvalidInput, int(t))
	}
	e.Release()
	e.settings.Update(func(c *ToolConfig) { c.Tool = t })
	return e.sync()
}

// Configure replaces the tool configuration after validating it.
func (e *Engine) Configure(cfg ToolConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Tool != e.settings.Load().Tool {
		e.Release()
	}
	e.settings.Store(cfg)
	return e.sync()
}

// Undo reverts the most recent completed action. It reports false when only
// the floor remains.
func (e *Engine) Undo() (bool, error) {
	if err := e.settle(); err != nil {
		return false, err
	}
	snap, err := e.hist.Undo()
	if err != nil {
		e.log.WithError(err).Warn("undo failed")
		return false, fmt.Errorf("%w: %w", ErrRestore, err)
	}
	if snap == nil {
		e.log.Debug(ErrHistoryUnderflow)
		return false, nil
	}
	return true, nil
}

// Redo reapplies the most recently undone action.
func (e *Engine) Redo() (bool, error) {
	if err := e.settle(); err != nil {
		return false, err
	}
	snap, err := e.hist.Redo()
	if err != nil {
		e.log.WithError(err).Warn("redo failed")
		return false, fmt.Errorf("%w: %w", ErrRestore, err)
	}
	if snap == nil {
		e.log.Debug(ErrHistoryUnderflow)
		return false, nil
	}
	return true, nil
}

// CanUndo reports whether Undo would change the surface.
func (e *Engine) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change the surface.
func (e *Engine) CanRedo() bool { return e.hist.CanRedo() }

// Clear wipes the surface to the background, discards any open stroke or
// pending text and restarts history from the blank surface.
func (e *Engine) Clear() {
	e.stroke = nil
	e.text = nil
	e.surf.Clear(e.background)
	e.hist.Reset(e.surf.Snapshot())
	e.log.Debug("surface cleared")
}

// Resize changes the logical size and, when scale is positive, the device
// scale. Sizes surface.CheckSize rejects fail with ErrInvalidInput and leave
// everything untouched. History restarts from the resized surface. It
// reports false when nothing changed.
func (e *Engine) Resize(width, height int, scale float64) (bool, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return false, fmt.Errorf("%w: scale %g", ErrInvalidInput, scale)
	}
	if scale <= 0 {
		scale = e.surf.Scale()
	}
	if err := surface.CheckSize(width, height, scale); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	w, h := e.surf.Size()
	if w == width && h == height && scale == e.surf.Scale() {
		return false, nil
	}
	if err := e.settle(); err != nil {
		return false, err
	}
	preserve := e.resize == ResizePreserve
	e.surf.Resize(width, height, scale, preserve)
	if !preserve {
		e.surf.Clear(e.background)
	}
	e.hist.Reset(e.surf.Snapshot())
	e.log.WithFields(logrus.Fields{"width": width, "height": height, "scale": scale, "policy": e.resize}).Debug("surface resized")
	return true, nil
}

// ExportSnapshot returns the current pixels without changing any state.
// Pending text is not part of the surface until committed.
func (e *Engine) ExportSnapshot() *surface.Snapshot {
	return e.surf.Snapshot()
}
