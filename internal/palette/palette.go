// Package palette holds the whiteboard colour swatches and colour parsing.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Entry is a named swatch.
type Entry struct {
	Name  string
	Color color.RGBA
}

var swatches = []Entry{
	{"black", color.RGBA{0x00, 0x00, 0x00, 0xff}},
	{"red", color.RGBA{0xff, 0x00, 0x00, 0xff}},
	{"green", color.RGBA{0x00, 0xff, 0x00, 0xff}},
	{"blue", color.RGBA{0x00, 0x00, 0xff, 0xff}},
	{"yellow", color.RGBA{0xff, 0xff, 0x00, 0xff}},
	{"magenta", color.RGBA{0xff, 0x00, 0xff, 0xff}},
	{"cyan", color.RGBA{0x00, 0xff, 0xff, 0xff}},
	{"orange", color.RGBA{0xff, 0xa5, 0x00, 0xff}},
	{"purple", color.RGBA{0x80, 0x00, 0x80, 0xff}},
	{"pink", color.RGBA{0xff, 0xc0, 0xcb, 0xff}},
}

// Entries returns a copy of the swatches in display order.
func Entries() []Entry {
	out := make([]Entry, len(swatches))
	copy(out, swatches)
	return out
}

// Index returns the swatch index of c, or -1.
func Index(c color.RGBA) int {
	for i, e := range swatches {
		if e.Color == c {
			return i
		}
	}
	return -1
}

// Hex formats c as #RRGGBB, or #RRGGBBAA when it is translucent.
func Hex(c color.RGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}

// Parse accepts a swatch name, a CSS colour name or a hex value in the
// #RGB, #RRGGBB or #RRGGBBAA forms.
func Parse(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, e := range swatches {
		if e.Name == spec {
			return e.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(spec, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
