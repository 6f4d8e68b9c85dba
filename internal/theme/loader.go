package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "whiteboard", "themes"),
		SystemDir: "/usr/share/whiteboard/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. A file path that exists.
// 2. Embedded themes.
// 3. ConfigDir.
// 4. SystemDir.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}

	// 1. File path
	if _, err := os.Stat(name); err == nil {
		return parseFile(name)
	}

	// Normalize name (ensure .theme extension for lookup if missing)
	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	// 2. Embedded
	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	// 3. Config Dir
	if l.ConfigDir != "" {
		if path := filepath.Join(l.ConfigDir, filename); exists(path) {
			return parseFile(path)
		}
	}

	// 4. System Dir
	if l.SystemDir != "" {
		if path := filepath.Join(l.SystemDir, filename); exists(path) {
			return parseFile(path)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

// Names lists the embedded theme names.
func Names() []string {
	entries, err := EmbeddedThemes.ReadDir("defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".theme"))
	}
	return names
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

// Resolve prefers a theme defined in configuration over Load.
func (l *Loader) Resolve(name string, custom map[string]*Theme) (*Theme, error) {
	if t, ok := custom[name]; ok && t != nil {
		return t, nil
	}
	return l.Load(name)
}
