package surface

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce  sync.Once
	fontErr   error
	textFont  *opentype.Font
	textFaces sync.Map // map[float64]font.Face
)

// Face returns the regular text face at the given pixel size.
func Face(size float64) (font.Face, error) {
	if size <= 0 || math.IsNaN(size) {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	fontOnce.Do(func() {
		textFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("text font: %w", fontErr)
	}
	if face, ok := textFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(textFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := textFaces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the advance width and line height of text rendered at
// size, along with the distance from the top to the baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := Face(size)
	if err != nil {
		return 0, 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	width = drawer.MeasureString(text).Ceil()
	metrics := face.Metrics()
	baseline = metrics.Ascent.Ceil()
	height = baseline + metrics.Descent.Ceil()
	return width, height, baseline, nil
}

// RenderText draws text into dst with the top of the line at (x, y) in dst
// pixels.
func RenderText(dst *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := Face(size)
	if err != nil {
		return err
	}
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return nil
}

// DrawText renders text with its top-left corner at the logical point at.
// fontSize is in logical pixels.
func (s *Surface) DrawText(text string, at Point, fontSize float64, col color.Color) error {
	if text == "" {
		return nil
	}
	x := int(math.Round(at.X * s.scale))
	y := int(math.Round(at.Y * s.scale))
	if err := RenderText(s.ink, x, y, text, col, fontSize*s.scale); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}
