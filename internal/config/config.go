package config

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/history"
	"github.com/example/whiteboard/internal/palette"
	"github.com/example/whiteboard/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Tools holds the tool selection the board starts with.
type Tools struct {
	Tool        engine.Tool
	Color       color.RGBA
	StrokeWidth float64
	FontSize    float64
}

// Canvas holds surface settings.
type Canvas struct {
	Width         int
	Height        int
	Scale         float64
	Background    color.RGBA
	Resize        engine.ResizePolicy
	HistoryLimit  int
	LegacyPreview bool
}

// Server holds settings for the HTTP board.
type Server struct {
	Addr        string
	CORSOrigins []string
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	LogLevel string
	Tools    Tools
	Canvas   Canvas
	Notify   Notify
	Server   Server
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	tc := engine.DefaultToolConfig()
	return &Config{
		Theme:    "", // Default to empty to allow fallback to Env/Default
		LogLevel: "info",
		Tools: Tools{
			Tool:        tc.Tool,
			Color:       tc.Color,
			StrokeWidth: tc.StrokeWidth,
			FontSize:    tc.FontSize,
		},
		Canvas: Canvas{
			Width:        1024,
			Height:       768,
			Scale:        1,
			Background:   engine.Background,
			Resize:       engine.ResizeDiscard,
			HistoryLimit: history.DefaultLimit,
		},
		Server: Server{Addr: ":8080"},
		Themes: make(map[string]*theme.Theme),
	}
}

// ToolConfig converts the tool defaults into an engine configuration.
func (c *Config) ToolConfig() engine.ToolConfig {
	return engine.ToolConfig{
		Tool:        c.Tools.Tool,
		Color:       c.Tools.Color,
		StrokeWidth: c.Tools.StrokeWidth,
		FontSize:    c.Tools.FontSize,
	}.Clamp()
}

// EngineOptions returns the engine options implied by the canvas section.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithScale(c.Canvas.Scale),
		engine.WithBackground(c.Canvas.Background),
		engine.WithHistoryLimit(c.Canvas.HistoryLimit),
		engine.WithResizePolicy(c.Canvas.Resize),
		engine.WithLegacyShapePreview(c.Canvas.LegacyPreview),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.LogLevel != "" {
		fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	}
	sb.WriteString("\n")

	sb.WriteString("[tools]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Tools.Tool)
	fmt.Fprintf(&sb, "color = %s\n", palette.Hex(c.Tools.Color))
	fmt.Fprintf(&sb, "stroke_width = %s\n", formatFloat(c.Tools.StrokeWidth))
	fmt.Fprintf(&sb, "font_size = %s\n", formatFloat(c.Tools.FontSize))
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "scale = %s\n", formatFloat(c.Canvas.Scale))
	fmt.Fprintf(&sb, "background = %s\n", palette.Hex(c.Canvas.Background))
	fmt.Fprintf(&sb, "resize = %s\n", c.Canvas.Resize)
	fmt.Fprintf(&sb, "history = %d\n", c.Canvas.HistoryLimit)
	fmt.Fprintf(&sb, "legacy_preview = %v\n", c.Canvas.LegacyPreview)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "addr = %s\n", c.Server.Addr)
	if len(c.Server.CORSOrigins) > 0 {
		fmt.Fprintf(&sb, "cors_origins = %s\n", strings.Join(c.Server.CORSOrigins, ","))
	}
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
