package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
)

// StrokeLine draws a round-capped segment from p0 to p1.
func (s *Surface) StrokeLine(p0, p1 Point, width float64, col color.Color, mode CompositeMode) error {
	ext := extent{min(p0.X, p1.X), min(p0.Y, p1.Y), max(p0.X, p1.X), max(p0.Y, p1.Y)}
	if p0 == p1 {
		return s.paint(mode, col, width, true, ext, func(dc *gg.Context, k float64) {
			dc.DrawCircle(p0.X*k, p0.Y*k, width*k/2)
		})
	}
	return s.paint(mode, col, width, false, ext, func(dc *gg.Context, k float64) {
		dc.DrawLine(p0.X*k, p0.Y*k, p1.X*k, p1.Y*k)
	})
}

// StrokeRect outlines the axis-aligned rectangle with one corner at corner
// and the signed extent w×h.
func (s *Surface) StrokeRect(corner Point, w, h, width float64, col color.Color) error {
	x, y := corner.X, corner.Y
	if w < 0 {
		x, w = x+w, -w
	}
	if h < 0 {
		y, h = y+h, -h
	}
	return s.paint(SourceOver, col, width, false, extent{x, y, x + w, y + h}, func(dc *gg.Context, k float64) {
		dc.DrawRectangle(x*k, y*k, w*k, h*k)
	})
}

// StrokeCircle outlines a circle. A zero radius leaves the surface unchanged.
func (s *Surface) StrokeCircle(center Point, radius, width float64, col color.Color) error {
	if radius <= 0 || math.IsNaN(radius) {
		return nil
	}
	ext := extent{center.X - radius, center.Y - radius, center.X + radius, center.Y + radius}
	return s.paint(SourceOver, col, width, false, ext, func(dc *gg.Context, k float64) {
		dc.DrawCircle(center.X*k, center.Y*k, radius*k)
	})
}

// extent is the logical bounding box of a path before stroking.
type extent struct {
	minX, minY, maxX, maxY float64
}

// device grows e by pad on every side, converts it to device pixels and
// clips it to bounds.
func (e extent) device(pad, k float64, bounds image.Rectangle) image.Rectangle {
	px := func(v float64, lo, hi int) int {
		return int(math.Max(float64(lo), math.Min(float64(hi), v)))
	}
	return image.Rect(
		px(math.Floor((e.minX-pad)*k), bounds.Min.X, bounds.Max.X),
		px(math.Floor((e.minY-pad)*k), bounds.Min.Y, bounds.Max.Y),
		px(math.Ceil((e.maxX+pad)*k), bounds.Min.X, bounds.Max.X),
		px(math.Ceil((e.maxY+pad)*k), bounds.Min.Y, bounds.Max.Y),
	)
}

// paint rasterizes the path built by trace into a coverage mask covering
// only ext grown by half the stroke width, and composites col through it
// onto the ink layer.
func (s *Surface) paint(mode CompositeMode, col color.Color, width float64, fill bool, ext extent, trace func(dc *gg.Context, k float64)) error {
	if width <= 0 || math.IsNaN(width) {
		width = 1
	}
	area := ext.device(width/2+1, s.scale, s.ink.Bounds())
	if area.Empty() {
		return nil
	}
	dc := s.context(area.Dx(), area.Dy())
	dc.Clear()
	dc.Identity()
	dc.Translate(-float64(area.Min.X), -float64(area.Min.Y))
	dc.SetColor(color.White)
	dc.SetLineWidth(width * s.scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	trace(dc, s.scale)
	var err error
	if fill {
		err = dc.Fill()
	} else {
		err = dc.Stroke()
	}
	if err != nil {
		return fmt.Errorf("rasterize %s: %w", mode, err)
	}
	mask, ok := dc.Image().(*image.RGBA)
	if !ok {
		return fmt.Errorf("rasterize %s: unexpected mask type %T", mode, dc.Image())
	}
	mr := maskBounds(mask)
	if mr.Empty() {
		return nil
	}
	r := mr.Sub(mask.Bounds().Min).Add(area.Min)
	switch mode {
	case DestinationOut:
		draw.DrawMask(s.ink, r, image.Transparent, image.Point{}, mask, mr.Min, draw.Src)
	default:
		draw.DrawMask(s.ink, r, image.NewUniform(col), image.Point{}, mask, mr.Min, draw.Over)
	}
	return nil
}

// context returns a width×height mask context, reusing the previous one
// when the size matches.
func (s *Surface) context(width, height int) *gg.Context {
	if s.dc == nil || s.dc.Width() != width || s.dc.Height() != height {
		s.dc = gg.NewContext(width, height)
	}
	return s.dc
}

// maskBounds returns the smallest rectangle holding non-zero coverage.
func maskBounds(m *image.RGBA) image.Rectangle {
	b := m.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X, b.Min.Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := m.Pix[(y-b.Min.Y)*m.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x+1)
			minY = min(minY, y)
			maxY = max(maxY, y+1)
		}
	}
	if minX >= maxX || minY >= maxY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX, maxY)
}
