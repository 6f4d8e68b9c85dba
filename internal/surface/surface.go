// Package surface holds the drawing raster: an opaque background colour and a
// premultiplied ink layer sized to the logical canvas times the display scale.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// Point is a position in logical surface coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// CompositeMode selects how new ink combines with existing pixels.
type CompositeMode int

const (
	// SourceOver paints new colour over whatever is present.
	SourceOver CompositeMode = iota
	// DestinationOut removes existing ink where the stroke covers, so the
	// background shows through.
	DestinationOut
)

func (m CompositeMode) String() string {
	switch m {
	case SourceOver:
		return "source-over"
	case DestinationOut:
		return "destination-out"
	}
	return fmt.Sprintf("CompositeMode(%d)", int(m))
}

const (
	// MaxScale is the largest device pixel ratio a surface accepts.
	MaxScale = 8
	// MaxDeviceSide bounds each side of the backing buffer in device pixels.
	MaxDeviceSide = 16384
)

// Surface is a mutable raster. It is not safe for concurrent use.
type Surface struct {
	width, height int
	scale         float64
	background    color.RGBA
	ink           *image.RGBA
	dc            *gg.Context
}

// New creates a surface of width×height logical pixels backed by a buffer of
// width*scale × height*scale device pixels. A non-positive scale means 1.
// Sizes beyond CheckSize's limits are clamped.
func New(width, height int, scale float64, background color.RGBA) *Surface {
	s := &Surface{background: opaque(background)}
	s.alloc(width, height, scale)
	return s
}

func (s *Surface) alloc(width, height int, scale float64) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	scale = min(scale, MaxScale)
	side := int(MaxDeviceSide / scale)
	width = max(0, min(width, side))
	height = max(0, min(height, side))
	bw, bh := deviceSize(width, height, scale)
	ink := image.NewRGBA(image.Rect(0, 0, bw, bh))
	s.width, s.height, s.scale = width, height, scale
	s.ink = ink
	s.dc = nil
}

func deviceSize(width, height int, scale float64) (int, int) {
	return int(math.Ceil(float64(width) * scale)), int(math.Ceil(float64(height) * scale))
}

// CheckSize reports why a width×height surface at scale cannot be
// allocated, or nil when it can.
func CheckSize(width, height int, scale float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("size %dx%d", width, height)
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 || scale > MaxScale {
		return fmt.Errorf("scale %g outside (0,%d]", scale, MaxScale)
	}
	if bw, bh := float64(width)*scale, float64(height)*scale; bw > MaxDeviceSide || bh > MaxDeviceSide {
		return fmt.Errorf("device size %.0fx%.0f exceeds %d per side", bw, bh, MaxDeviceSide)
	}
	return nil
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}

// Size reports the logical dimensions.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Scale reports the device pixel ratio of the backing buffer.
func (s *Surface) Scale() float64 {
	return s.scale
}

// Bounds returns the device pixel bounds of the backing buffer.
func (s *Surface) Bounds() image.Rectangle {
	return s.ink.Bounds()
}

// Background returns the current background colour.
func (s *Surface) Background() color.RGBA {
	return s.background
}

// Clear sets the background to fill and removes all ink.
func (s *Surface) Clear(fill color.RGBA) {
	s.background = opaque(fill)
	clear(s.ink.Pix)
}

// Image composites the ink over the background into a new opaque image.
func (s *Surface) Image() *image.RGBA {
	return composite(s.ink, s.background)
}

// DrawTo composites the surface into dst with its origin at dp.
func (s *Surface) DrawTo(dst draw.Image, dp image.Point) {
	r := s.ink.Bounds().Add(dp)
	draw.Draw(dst, r, image.NewUniform(s.background), image.Point{}, draw.Src)
	draw.Draw(dst, r, s.ink, image.Point{}, draw.Over)
}

// At returns the composited colour under the logical point p. Points outside
// the surface report the zero colour.
func (s *Surface) At(p Point) color.RGBA {
	x := int(math.Floor(p.X * s.scale))
	y := int(math.Floor(p.Y * s.scale))
	if !(image.Point{X: x, Y: y}).In(s.ink.Bounds()) {
		return color.RGBA{}
	}
	return over(s.ink.RGBAAt(x, y), s.background)
}

func over(ink, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(ink.A)
	return color.RGBA{
		R: uint8(uint32(ink.R) + (uint32(bg.R)*inv+127)/255),
		G: uint8(uint32(ink.G) + (uint32(bg.G)*inv+127)/255),
		B: uint8(uint32(ink.B) + (uint32(bg.B)*inv+127)/255),
		A: 255,
	}
}

func composite(ink *image.RGBA, bg color.RGBA) *image.RGBA {
	out := image.NewRGBA(ink.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), ink, ink.Bounds().Min, draw.Over)
	return out
}

// Resize reallocates the surface for new logical dimensions and scale. When
// preserve is false the ink is discarded; otherwise the existing ink is
// resampled so logical coordinates keep their content.
func (s *Surface) Resize(width, height int, scale float64, preserve bool) {
	old, oldScale := s.ink, s.scale
	oldW, oldH := s.width, s.height
	s.alloc(width, height, scale)
	if !preserve || old.Bounds().Empty() {
		return
	}
	if s.scale == oldScale {
		draw.Draw(s.ink, old.Bounds(), old, image.Point{}, draw.Src)
		return
	}
	dw, dh := deviceSize(oldW, oldH, s.scale)
	xdraw.CatmullRom.Scale(s.ink, image.Rect(0, 0, dw, dh), old, old.Bounds(), draw.Src, nil)
}
