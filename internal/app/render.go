package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"time"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/platform"
	"github.com/example/whiteboard/internal/surface"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const messageSize = 24

// render draws a full frame into dst, which must cover the window.
func (c *controller) render(dst *image.RGBA) {
	l := c.layout
	th := c.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	c.eng.Surface().DrawTo(dst, l.canvas.Min)
	c.renderPendingText(dst)

	draw.Draw(dst, l.toolbar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	title := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, 16)}
	title.DrawString(platform.AppName)

	cfg := c.eng.Settings().Load()
	for i, b := range c.tools {
		c.drawButton(dst, b, engine.Tools()[i] == cfg.Tool)
	}
	for _, b := range c.swatches {
		c.drawButton(dst, b, b.Button.(*SwatchButton).col == cfg.Color)
	}
	sizeLabel := "Size " + strconv.FormatFloat(cfg.ActiveSize(), 'f', -1, 64)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13,
		Dot: fixed.P(4, c.sizeLabelRect().Min.Y+14)}
	d.DrawString(sizeLabel)
	for _, b := range c.steppers {
		c.drawButton(dst, b, false)
	}

	draw.Draw(dst, l.status, &image.Uniform{th.StatusBackground}, image.Point{}, draw.Src)
	outline(dst, image.Rect(l.status.Min.X, l.status.Min.Y, l.status.Max.X, l.status.Min.Y+1), th.ButtonBorder)
	for _, b := range c.statusButtons() {
		c.drawButton(dst, b, false)
	}
	status := c.eng.Status().String()
	sd := &font.Drawer{Dst: dst, Src: image.NewUniform(th.StatusText), Face: basicfont.Face7x13}
	sd.Dot = fixed.P(l.status.Max.X-sd.MeasureString(status).Ceil()-8, l.status.Min.Y+16)
	sd.DrawString(status)

	if c.message != "" && time.Now().Before(c.messageUntil) {
		c.renderMessage(dst)
	}
}

func (c *controller) drawButton(dst *image.RGBA, b *CacheButton, selected bool) {
	state := StateDefault
	lb, isLabel := b.Button.(*LabelButton)
	switch {
	case isLabel && !lb.Enabled():
		state = StateDisabled
	case selected:
		state = StatePressed
	case b == c.hover:
		state = StateHover
	}
	b.Draw(dst, state)
}

// renderPendingText shows the uncommitted text entry with a caret. It is
// drawn on the frame only; the surface changes on commit.
func (c *controller) renderPendingText(dst *image.RGBA) {
	ts, ok := c.eng.PendingText()
	if !ok {
		return
	}
	cfg := c.eng.Settings().Load()
	s := c.scale()
	size := cfg.FontSize * s
	w, h, _, err := surface.MeasureText(ts.Text, size)
	if err != nil {
		c.log.WithError(err).Debug("measure pending text")
		return
	}
	x := c.layout.canvas.Min.X + int(ts.At.X*s)
	y := c.layout.canvas.Min.Y + int(ts.At.Y*s)
	box := image.Rect(x-3, y-2, x+w+5, y+h+2).Intersect(c.layout.canvas)
	draw.Draw(dst, box, &image.Uniform{withAlpha(c.theme.TextEntryBackground, 200)}, image.Point{}, draw.Over)
	outline(dst, box, c.theme.TextEntryBorder)
	if err := surface.RenderText(dst, x, y, ts.Text, cfg.Color, size); err != nil {
		c.log.WithError(err).Debug("render pending text")
	}
	caret := image.Rect(x+w+1, y, x+w+2, y+h).Intersect(c.layout.canvas)
	draw.Draw(dst, caret, &image.Uniform{c.theme.Caret}, image.Point{}, draw.Src)
}

func (c *controller) renderMessage(dst *image.RGBA) {
	w, h, _, err := surface.MeasureText(c.message, messageSize)
	if err != nil {
		return
	}
	px := (c.width - w) / 2
	py := (c.height - h) / 2
	rect := image.Rect(px-8, py-8, px+w+8, py+h+8)
	draw.Draw(dst, rect, &image.Uniform{withAlpha(c.theme.TextEntryBackground, 230)}, image.Point{}, draw.Over)
	outline(dst, rect, c.theme.Foreground)
	outline(dst, rect.Inset(1), c.theme.Foreground)
	if err := surface.RenderText(dst, px, py, c.message, c.theme.Foreground, messageSize); err != nil {
		c.log.WithError(err).Debug(fmt.Sprintf("render message %q", c.message))
	}
}

// withAlpha returns c with alpha a, premultiplied.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	k := uint32(a)
	return color.RGBA{
		R: uint8(uint32(c.R) * k / 255),
		G: uint8(uint32(c.G) * k / 255),
		B: uint8(uint32(c.B) * k / 255),
		A: a,
	}
}
