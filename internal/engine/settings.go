package engine

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/example/whiteboard/internal/palette"
)

// Value ranges and defaults for ToolConfig.
const (
	MinStrokeWidth     = 1
	MaxStrokeWidth     = 20
	DefaultStrokeWidth = 3
	MinFontSize        = 8
	MaxFontSize        = 72
	DefaultFontSize    = 16
)

// ToolConfig is the user's current tool selection.
type ToolConfig struct {
	Tool        Tool
	Color       color.RGBA
	StrokeWidth float64
	FontSize    float64
}

// DefaultToolConfig returns a black pen of width 3 and 16px text.
func DefaultToolConfig() ToolConfig {
	return ToolConfig{
		Tool:        Pen,
		Color:       color.RGBA{A: 255},
		StrokeWidth: DefaultStrokeWidth,
		FontSize:    DefaultFontSize,
	}
}

// Clamp limits sizes to their ranges and replaces an unknown tool with Pen.
func (c ToolConfig) Clamp() ToolConfig {
	if !c.Tool.Valid() {
		c.Tool = Pen
	}
	c.StrokeWidth = clamp(c.StrokeWidth, MinStrokeWidth, MaxStrokeWidth, DefaultStrokeWidth)
	c.FontSize = clamp(c.FontSize, MinFontSize, MaxFontSize, DefaultFontSize)
	return c
}

// Validate reports values outside their ranges.
func (c ToolConfig) Validate() error {
	if !c.Tool.Valid() {
		return fmt.Errorf("%w: unknown tool %d", ErrInvalidInput, int(c.Tool))
	}
	if c.StrokeWidth < MinStrokeWidth || c.StrokeWidth > MaxStrokeWidth || math.IsNaN(c.StrokeWidth) {
		return fmt.Errorf("%w: stroke width %g outside [%d,%d]", ErrInvalidInput, c.StrokeWidth, MinStrokeWidth, MaxStrokeWidth)
	}
	if c.FontSize < MinFontSize || c.FontSize > MaxFontSize || math.IsNaN(c.FontSize) {
		return fmt.Errorf("%w: font size %g outside [%d,%d]", ErrInvalidInput, c.FontSize, MinFontSize, MaxFontSize)
	}
	return nil
}

// ActiveSize is the font size for the Text tool and the stroke width
// otherwise.
func (c ToolConfig) ActiveSize() float64 {
	if c.Tool == Text {
		return c.FontSize
	}
	return c.StrokeWidth
}

func (c ToolConfig) String() string {
	return fmt.Sprintf("%s %s width=%g font=%g", c.Tool, palette.Hex(c.Color), c.StrokeWidth, c.FontSize)
}

func clamp(v, lo, hi, def float64) float64 {
	switch {
	case math.IsNaN(v):
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// Settings is the process-wide cell holding the current ToolConfig. The
// front-end writes it; the engine only reads it.
type Settings struct {
	mu        sync.RWMutex
	cfg       ToolConfig
	listeners []func(ToolConfig)
}

// NewSettings returns a cell holding cfg, clamped.
func NewSettings(cfg ToolConfig) *Settings {
	return &Settings{cfg: cfg.Clamp()}
}

// Load returns the current configuration.
func (s *Settings) Load() ToolConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Store replaces the configuration after clamping it and notifies
// listeners.
func (s *Settings) Store(cfg ToolConfig) {
	s.Update(func(c *ToolConfig) { *c = cfg })
}

// Update applies fn to the configuration, clamps the result and notifies
// listeners when it changed.
func (s *Settings) Update(fn func(*ToolConfig)) {
	s.mu.Lock()
	next := s.cfg
	fn(&next)
	next = next.Clamp()
	changed := next != s.cfg
	s.cfg = next
	listeners := append([]func(ToolConfig){}, s.listeners...)
	s.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(next)
	}
}

// OnChange registers fn to be called after each change.
func (s *Settings) OnChange(fn func(ToolConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
