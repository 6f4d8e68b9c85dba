package theme

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/example/whiteboard/internal/palette"
)

// Parse reads a theme definition from an io.Reader.
// The format is one "Key: colour" pair per line, where colour is anything
// palette.Parse accepts.
func Parse(r io.Reader) (*Theme, error) {
	t := Default() // Start with defaults
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if err := t.SetField(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}

	return t, scanner.Err()
}

// SetField applies one key/value pair. Name sets the theme name; unknown keys
// are ignored for forward compatibility.
func (t *Theme) SetField(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	col, err := palette.Parse(value)
	if err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	t.Set(key, col)
	return nil
}

// Format writes t in the form Parse reads.
func Format(w io.Writer, t *Theme) error {
	if _, err := fmt.Fprintf(w, "Name: %s\n", t.Name); err != nil {
		return err
	}
	var err error
	t.Colors(func(name string, c color.RGBA) {
		if err == nil {
			_, err = fmt.Fprintf(w, "%s: %s\n", name, palette.Hex(c))
		}
	})
	return err
}
