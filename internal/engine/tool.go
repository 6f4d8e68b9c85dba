package engine

import (
	"fmt"
	"strings"
)

// Tool is the active drawing tool.
type Tool int

const (
	Pen Tool = iota
	Eraser
	Line
	Rectangle
	Circle
	Text
)

var toolNames = [...]string{"pen", "eraser", "line", "rectangle", "circle", "text"}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{Pen, Eraser, Line, Rectangle, Circle, Text}
}

func (t Tool) String() string {
	if t.Valid() {
		return toolNames[t]
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// Title returns the capitalised name shown in the status bar.
func (t Tool) Title() string {
	s := t.String()
	if !t.Valid() {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t >= Pen && t <= Text
}

// Shape reports whether t draws a previewed primitive.
func (t Tool) Shape() bool {
	return t == Line || t == Rectangle || t == Circle
}

// ParseTool accepts a tool name, case-insensitively. "rect" is accepted for
// Rectangle.
func ParseTool(s string) (Tool, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "rect" {
		return Rectangle, nil
	}
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown tool %q", ErrInvalidInput, s)
}
