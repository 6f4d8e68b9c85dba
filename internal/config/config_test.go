package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/whiteboard/internal/engine"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/boards

[tools]
tool = rectangle
color = #FF00FF
stroke_width = 7
font_size = 24

[canvas]
width = 640
height = 480
scale = 2
background = #FAFAFA
resize = preserve
history = 30
legacy_preview = true

[notify]
save = true
copy = false

[server]
addr = 127.0.0.1:9000
cors_origins = http://a.example, http://b.example

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/boards" {
		t.Errorf("Expected save_dir '/tmp/boards', got '%s'", cfg.SaveDir)
	}

	wantTools := Tools{Tool: engine.Rectangle, Color: color.RGBA{255, 0, 255, 255}, StrokeWidth: 7, FontSize: 24}
	if cfg.Tools != wantTools {
		t.Errorf("Unexpected tools %+v", cfg.Tools)
	}
	c := cfg.Canvas
	if c.Width != 640 || c.Height != 480 || c.Scale != 2 || c.HistoryLimit != 30 || !c.LegacyPreview {
		t.Errorf("Unexpected canvas %+v", c)
	}
	if c.Resize != engine.ResizePreserve || c.Background != (color.RGBA{250, 250, 250, 255}) {
		t.Errorf("Unexpected canvas %+v", c)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy {
		t.Errorf("Unexpected notify %+v", cfg.Notify)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.example" {
		t.Errorf("Unexpected server %+v", cfg.Server)
	}

	theme, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if theme.Background.R != 0x11 || theme.Background.G != 0x11 || theme.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", theme.Background)
	}

	tc := cfg.ToolConfig()
	if tc.Tool != engine.Rectangle || tc.StrokeWidth != 7 {
		t.Errorf("Unexpected tool config %+v", tc)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.ToolConfig() != engine.DefaultToolConfig() {
		t.Errorf("Empty config should give default tools, got %+v", cfg.ToolConfig())
	}
	if cfg.Canvas.HistoryLimit != 20 || cfg.Canvas.Resize != engine.ResizeDiscard {
		t.Errorf("Unexpected canvas defaults %+v", cfg.Canvas)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"tool", "[tools]\ntool = spray\n", "unknown tool"},
		{"width range", "[tools]\nstroke_width = 25\n", "stroke_width"},
		{"font range", "[tools]\nfont_size = 4\n", "font_size"},
		{"color", "[tools]\ncolor = blurple\n", "invalid color"},
		{"canvas width", "[canvas]\nwidth = -1\n", "width"},
		{"history", "[canvas]\nhistory = 1\n", "history"},
		{"history cap", "[canvas]\nhistory = 1000000000\n", "history must be within [2,100]"},
		{"canvas too wide", "[canvas]\nwidth = 100000\n", "width must be within"},
		{"scale cap", "[canvas]\nscale = 1e300\n", "scale must be within"},
		{"scale nan", "[canvas]\nscale = NaN\n", "scale must be within"},
		{"resize", "[canvas]\nresize = stretch\n", "resize policy"},
		{"notify", "[notify]\nsave = maybe\n", "invalid boolean"},
		{"theme", "[theme.x]\nBackground = #12\n", "invalid color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/boards
log_level = debug

[tools]
tool = text
color = orange
font_size = 32

[canvas]
width = 800
height = 600
resize = preserve

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	// 4. Compare relevant fields
	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.LogLevel != cfg2.LogLevel {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Tools != cfg2.Tools {
		t.Errorf("Tools mismatch: %+v vs %+v", cfg.Tools, cfg2.Tools)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	// Check theme persistence
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvTheme:      "dark",
		EnvColor:      "blue",
		EnvResize:     "preserve",
		EnvNotifyCopy: "true",
		EnvAddr:       ":9999",
	}
	cfg := New()
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Theme != "dark" || cfg.Tools.Color != (color.RGBA{0, 0, 255, 255}) || cfg.Canvas.Resize != engine.ResizePreserve {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if !cfg.Notify.Copy || cfg.Notify.Save || cfg.Server.Addr != ":9999" {
		t.Errorf("Unexpected notify/server %+v %+v", cfg.Notify, cfg.Server)
	}
	env[EnvNotifySave] = "sometimes"
	if err := ApplyEnv(cfg, func(k string) string { return env[k] }); err == nil {
		t.Fatalf("expected error for invalid boolean")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("WHITEBOARD_TEST_DOTENV=from-file\nWHITEBOARD_TEST_KEEP=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WHITEBOARD_TEST_KEEP", "from-env")
	t.Setenv("WHITEBOARD_TEST_DOTENV", "")
	os.Unsetenv("WHITEBOARD_TEST_DOTENV")
	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("WHITEBOARD_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("WHITEBOARD_TEST_KEEP"); got != "from-env" {
		t.Errorf("existing variables must win, got %q", got)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.rc")
	l := NewLoader("test", path)
	cfg := New()
	cfg.Theme = "dark"
	cfg.Tools.Tool = engine.Circle
	written, err := l.Save(cfg)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if written != path {
		t.Fatalf("saved to %s, want %s", written, path)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "dark" || loaded.Tools.Tool != engine.Circle {
		t.Fatalf("unexpected loaded config %+v", loaded)
	}
}

func TestLoaderCandidates(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	override := filepath.Join(t.TempDir(), "custom.rc")

	l := NewLoader("1.0.0", override)
	paths := l.Candidates()
	if len(paths) != 3 || paths[0] != override {
		t.Fatalf("unexpected candidates %v", paths)
	}
	if got := l.GetConfigPath(); got != "" {
		t.Fatalf("nothing exists yet, got %q", got)
	}

	dir, err := userDir()
	if err != nil || !strings.HasPrefix(dir, home) {
		t.Skipf("user config dir %q does not follow XDG_CONFIG_HOME", dir)
	}
	user := filepath.Join(dir, "whiteboard.rc")
	if err := os.MkdirAll(filepath.Dir(user), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(user, []byte("[tools]\ntool = line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.GetConfigPath(); got != user {
		t.Fatalf("GetConfigPath = %q, want %q", got, user)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.Tool != engine.Line {
		t.Fatalf("tool = %v, want line", cfg.Tools.Tool)
	}
}
