package app

import (
	"image"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/palette"
	"github.com/example/whiteboard/internal/platform"
)

const (
	statusHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	swatchGap    = 2
	stepHeight   = 20
)

// toolbarWidth fits the program title and the widest tool label.
var toolbarWidth = func() int {
	w := labelWidth(platform.AppName) + 8
	for _, t := range engine.Tools() {
		if lw := labelWidth(toolLabel(t)) + 8; lw > w {
			w = lw
		}
	}
	return w
}()

// layout holds the window regions in device pixels.
type layout struct {
	title   image.Rectangle
	toolbar image.Rectangle
	status  image.Rectangle
	canvas  image.Rectangle
}

func computeLayout(width, height int) layout {
	canvasW := max(width-toolbarWidth, 1)
	canvasH := max(height-statusHeight, 1)
	return layout{
		title:   image.Rect(0, 0, toolbarWidth, buttonHeight),
		toolbar: image.Rect(0, 0, toolbarWidth, canvasH),
		status:  image.Rect(0, canvasH, width, canvasH+statusHeight),
		canvas:  image.Rect(toolbarWidth, 0, toolbarWidth+canvasW, canvasH),
	}
}

// toolbarHeight is the height the toolbar column needs.
func toolbarHeight() int {
	perRow := max((toolbarWidth-4+swatchGap)/(swatchSize+swatchGap), 1)
	rows := (len(palette.Entries()) + perRow - 1) / perRow
	return buttonHeight*(1+len(engine.Tools())) + 4 + rows*(swatchSize+swatchGap) + 4 + 2*stepHeight
}

// windowSize is the window needed to show a logical w×h surface at scale.
// The canvas is never shorter than the toolbar.
func windowSize(w, h int, scale float64) (int, int) {
	ch := max(int(float64(h)*scale+0.5), toolbarHeight())
	return int(float64(w)*scale+0.5) + toolbarWidth, ch + statusHeight
}

// logicalSize is the surface size that fills the canvas region.
func (l layout) logicalSize(scale float64) (int, int) {
	return max(int(float64(l.canvas.Dx())/scale), 1), max(int(float64(l.canvas.Dy())/scale), 1)
}

func toolLabel(t engine.Tool) string {
	return string(shortcutRune(t)-'a'+'A') + ":" + t.Title()
}

// shortcutRune is the key that selects t.
func shortcutRune(t engine.Tool) rune {
	switch t {
	case engine.Pen:
		return 'p'
	case engine.Eraser:
		return 'e'
	case engine.Line:
		return 'l'
	case engine.Rectangle:
		return 'r'
	case engine.Circle:
		return 'c'
	case engine.Text:
		return 't'
	}
	return 0
}
