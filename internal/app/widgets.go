package app

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/whiteboard/internal/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
	StateDisabled
	numStates
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [numStates]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [numStates]*image.RGBA{}
	}
}

// LabelButton is a text button. It backs the tool buttons, the size
// steppers and the status bar shortcuts. A nil enabled means always enabled.
type LabelButton struct {
	label      string
	rect       image.Rectangle
	theme      *theme.Theme
	onActivate func()
	enabled    func() bool
}

func (b *LabelButton) Draw(dst *image.RGBA, state ButtonState) {
	bg, fg := b.theme.ButtonBackground, b.theme.ButtonText
	switch state {
	case StateHover:
		bg = b.theme.ButtonBackgroundHover
	case StatePressed:
		bg, fg = b.theme.ButtonBackgroundPress, b.theme.ButtonTextPress
	case StateDisabled:
		fg = b.theme.ButtonBorder
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	outline(dst, b.rect, b.theme.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(fg), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+4, b.rect.Min.Y+(b.rect.Dy()+10)/2)}
	d.DrawString(b.label)
}

func (b *LabelButton) Rect() image.Rectangle { return b.rect }

func (b *LabelButton) SetRect(r image.Rectangle) { b.rect = r }

// Enabled reports whether the button currently responds to clicks.
func (b *LabelButton) Enabled() bool {
	return b.enabled == nil || b.enabled()
}

func (b *LabelButton) Activate() {
	if b.onActivate != nil && b.Enabled() {
		b.onActivate()
	}
}

// SwatchButton selects a palette colour.
type SwatchButton struct {
	col      color.RGBA
	rect     image.Rectangle
	theme    *theme.Theme
	onSelect func()
}

func (s *SwatchButton) Draw(dst *image.RGBA, state ButtonState) {
	draw.Draw(dst, s.rect, &image.Uniform{s.col}, image.Point{}, draw.Src)
	switch state {
	case StateHover:
		draw.Draw(dst, s.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		outline(dst, s.rect, s.theme.ButtonBorder)
	case StatePressed:
		outline(dst, s.rect, s.theme.SwatchSelected)
		outline(dst, s.rect.Inset(1), s.theme.ToolbarBackground)
	default:
		outline(dst, s.rect, s.theme.ButtonBorder)
	}
}

func (s *SwatchButton) Rect() image.Rectangle { return s.rect }

func (s *SwatchButton) SetRect(r image.Rectangle) { s.rect = r }

func (s *SwatchButton) Activate() {
	if s.onSelect != nil {
		s.onSelect()
	}
}

// outline draws a one pixel border just inside r.
func outline(dst *image.RGBA, r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func labelWidth(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}
