package theme

import (
	"image/color"
	"reflect"
	"strings"
)

// Theme defines the colours of the window chrome around the drawing surface.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window area outside the surface
	Foreground color.RGBA // Labels

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA // Also marks the selected tool
	ButtonText            color.RGBA
	ButtonTextPress       color.RGBA
	ButtonBorder          color.RGBA
	SwatchSelected        color.RGBA

	// Status bar
	StatusBackground color.RGBA
	StatusText       color.RGBA

	// Text entry overlay
	TextEntryBackground color.RGBA
	TextEntryBorder     color.RGBA
	Caret               color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{243, 244, 246, 255},
		Foreground:            color.RGBA{31, 41, 55, 255},
		ToolbarBackground:     color.RGBA{255, 255, 255, 255},
		ButtonBackground:      color.RGBA{243, 244, 246, 255},
		ButtonBackgroundHover: color.RGBA{229, 231, 235, 255},
		ButtonBackgroundPress: color.RGBA{59, 130, 246, 255},
		ButtonText:            color.RGBA{55, 65, 81, 255},
		ButtonTextPress:       color.RGBA{255, 255, 255, 255},
		ButtonBorder:          color.RGBA{209, 213, 219, 255},
		SwatchSelected:        color.RGBA{31, 41, 55, 255},
		StatusBackground:      color.RGBA{255, 255, 255, 255},
		StatusText:            color.RGBA{75, 85, 99, 255},
		TextEntryBackground:   color.RGBA{255, 255, 255, 255},
		TextEntryBorder:       color.RGBA{59, 130, 246, 255},
		Caret:                 color.RGBA{31, 41, 55, 255},
	}
}

// Colors calls fn for every colour field in declaration order.
func (t *Theme) Colors(fn func(name string, c color.RGBA)) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	rgba := reflect.TypeOf(color.RGBA{})
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type != rgba {
			continue
		}
		fn(typ.Field(i).Name, val.Field(i).Interface().(color.RGBA))
	}
}

// Set assigns the colour field matching name case-insensitively. It reports
// false for unknown names.
func (t *Theme) Set(name string, c color.RGBA) bool {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type != reflect.TypeOf(color.RGBA{}) || !strings.EqualFold(f.Name, name) {
			continue
		}
		val.Field(i).Set(reflect.ValueOf(c))
		return true
	}
	return false
}
