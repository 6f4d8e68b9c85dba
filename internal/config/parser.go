package config

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/history"
	"github.com/example/whiteboard/internal/palette"
	"github.com/example/whiteboard/internal/surface"
	"github.com/example/whiteboard/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Parse Key = Value or Key: Value
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.SetField(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "tools":
			err = setToolsField(&cfg.Tools, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "server":
			err = setServerField(&cfg.Server, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch key {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "log_level":
		cfg.LogLevel = value
	}
	return nil
}

func setToolsField(t *Tools, key, value string) error {
	switch key {
	case "tool":
		tool, err := engine.ParseTool(value)
		if err != nil {
			return err
		}
		t.Tool = tool
	case "color":
		c, err := palette.Parse(value)
		if err != nil {
			return err
		}
		t.Color = c
	case "stroke_width", "width":
		v, err := parseRange(key, value, engine.MinStrokeWidth, engine.MaxStrokeWidth)
		if err != nil {
			return err
		}
		t.StrokeWidth = v
	case "font_size":
		v, err := parseRange(key, value, engine.MinFontSize, engine.MaxFontSize)
		if err != nil {
			return err
		}
		t.FontSize = v
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var err error
	switch key {
	case "width":
		c.Width, err = parseIntRange(key, value, 1, surface.MaxDeviceSide)
	case "height":
		c.Height, err = parseIntRange(key, value, 1, surface.MaxDeviceSide)
	case "history":
		c.HistoryLimit, err = parseIntRange(key, value, 2, history.MaxLimit)
	case "scale":
		c.Scale, err = strconv.ParseFloat(value, 64)
		if err == nil && (c.Scale <= 0 || c.Scale > surface.MaxScale || math.IsNaN(c.Scale)) {
			err = fmt.Errorf("scale must be within (0,%d], got %s", surface.MaxScale, value)
		}
	case "background":
		c.Background, err = palette.Parse(value)
	case "resize":
		c.Resize, err = engine.ParseResizePolicy(value)
	case "legacy_preview":
		c.LegacyPreview, err = parseBool(key, value)
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setServerField(s *Server, key, value string) error {
	switch key {
	case "addr":
		s.Addr = value
	case "cors_origins":
		s.CORSOrigins = nil
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.CORSOrigins = append(s.CORSOrigins, o)
			}
		}
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseIntRange(key, value string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%s must be within [%d,%d], got %d", key, lo, hi, n)
	}
	return n, nil
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if v < lo || v > hi || math.IsNaN(v) {
		return 0, fmt.Errorf("%s must be within [%g,%g], got %g", key, lo, hi, v)
	}
	return v, nil
}
