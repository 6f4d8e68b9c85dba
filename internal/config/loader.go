package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Loader finds, reads and writes the configuration file.
type Loader struct {
	Version      string // "dev" also searches the working directory
	OverridePath string // Takes precedence over every other location
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Candidates lists the paths searched for a configuration file, most
// preferred first.
func (l *Loader) Candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, ".whiteboardrc"))
		}
	}
	if dir, err := userDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.rc"), filepath.Join(dir, "whiteboard.rc"))
	}
	return paths
}

// GetConfigPath returns the first existing candidate, or "" when none
// exists.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.Candidates() {
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the configuration file, or returns defaults when there is none.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		logrus.Debug("no config file, using defaults")
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	logrus.WithField("path", path).Debug("config loaded")
	return cfg, nil
}

// Save writes cfg to OverridePath, or to the user configuration directory,
// creating the directory as needed. It returns the path written.
func (l *Loader) Save(cfg *Config) (string, error) {
	path := l.OverridePath
	if path == "" {
		dir, err := userDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.rc")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

// userDir is ~/.config/whiteboard, honouring XDG_CONFIG_HOME.
func userDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "whiteboard"), nil
}
