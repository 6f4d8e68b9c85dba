package engine

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/example/whiteboard/internal/palette"
)

// Status is a read-only summary for a status bar.
type Status struct {
	Tool       Tool       `json:"-"`
	ToolName   string     `json:"tool"`
	Color      color.RGBA `json:"-"`
	ColorHex   string     `json:"color"`
	ActiveSize float64    `json:"size"`
	UndoDepth  int        `json:"undo"`
	RedoDepth  int        `json:"redo"`
	State      string     `json:"state"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Limit      int        `json:"history_limit"`
}

// Status reports the active tool settings, history depths and capacity.
func (e *Engine) Status() Status {
	cfg := e.settings.Load()
	w, h := e.surf.Size()
	return Status{
		Tool:       cfg.Tool,
		ToolName:   cfg.Tool.String(),
		Color:      cfg.Color,
		ColorHex:   palette.Hex(cfg.Color),
		ActiveSize: cfg.ActiveSize(),
		UndoDepth:  e.hist.UndoDepth(),
		RedoDepth:  e.hist.RedoDepth(),
		State:      e.State().String(),
		Width:      w,
		Height:     h,
		Limit:      e.hist.Limit(),
	}
}

func (s Status) String() string {
	label := "Size"
	if s.Tool == Text {
		label = "Font Size"
	}
	return fmt.Sprintf("Tool: %s | Color: %s | %s: %spx | Undo: %d | Redo: %d",
		s.Tool.Title(), palette.Hex(s.Color), label, strconv.FormatFloat(s.ActiveSize, 'f', -1, 64), s.UndoDepth, s.RedoDepth)
}
