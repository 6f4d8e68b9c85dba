package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/palette"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvTheme      = "WHITEBOARD_THEME"
	EnvSaveDir    = "WHITEBOARD_SAVE_DIR"
	EnvLogLevel   = "WHITEBOARD_LOG_LEVEL"
	EnvColor      = "WHITEBOARD_COLOR"
	EnvResize     = "WHITEBOARD_RESIZE"
	EnvAddr       = "WHITEBOARD_ADDR"
	EnvNotifySave = "WHITEBOARD_NOTIFY_SAVE"
	EnvNotifyCopy = "WHITEBOARD_NOTIFY_COPY"
)

// LoadDotEnv loads variables from the given files, or .env in the working
// directory when none are given. Variables already set are kept. Missing
// files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load %s: %w", strings.Join(present, ","), err)
	}
	return nil
}

// ApplyEnv overlays environment variables onto cfg. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }
	if v := get(EnvTheme); v != "" {
		cfg.Theme = v
	}
	if v := get(EnvSaveDir); v != "" {
		cfg.SaveDir = v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := get(EnvColor); v != "" {
		c, err := palette.Parse(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvColor, err)
		}
		cfg.Tools.Color = c
	}
	if v := get(EnvResize); v != "" {
		p, err := engine.ParseResizePolicy(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvResize, err)
		}
		cfg.Canvas.Resize = p
	}
	if v := get(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	for key, dst := range map[string]*bool{EnvNotifySave: &cfg.Notify.Save, EnvNotifyCopy: &cfg.Notify.Copy} {
		v := get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}
