package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/example/whiteboard/internal/config"
	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/theme"
	"github.com/sirupsen/logrus"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	saveAlerts  bool
	copyAlerts  bool
	themeName   string
	logLevel    string
	saveDir     string
	activeTheme *theme.Theme

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:     program,
		notifier:    r.notifier,
		config:      r.config,
		saveAlerts:  r.saveAlerts,
		copyAlerts:  r.copyAlerts,
		themeName:   r.themeName,
		logLevel:    r.logLevel,
		saveDir:     r.saveDir,
		activeTheme: r.activeTheme,
		stdin:       r.stdin,
		stdout:      r.stdout,
		stderr:      r.stderr,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Warn("failed to load .env")
	}
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		logrus.WithError(err).Warn("failed to load config")
		cfg = config.New()
	}
	if err := config.ApplyEnv(cfg, os.Getenv); err != nil {
		logrus.WithError(err).Warn("ignoring invalid environment")
	}
	return newRootWith(cfg, notify.New(notify.LoadPreferences(os.Getenv)))
}

func newRootWith(cfg *config.Config, n *notify.Notifier) *root {
	r := &root{
		fs:       flag.NewFlagSet("whiteboard", flag.ExitOnError),
		program:  "whiteboard",
		notifier: n,
		config:   cfg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving the board")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying the board to the clipboard")
	r.fs.StringVar(&r.themeName, "theme", cfg.Theme, "color theme for the window chrome: a name ("+strings.Join(append([]string{"default"}, theme.Names()...), ", ")+") or a .theme file")
	r.fs.StringVar(&r.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	r.fs.StringVar(&r.saveDir, "save-dir", cfg.SaveDir, "directory for boards saved without an explicit path")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.logLevel != "" {
		lvl, err := logrus.ParseLevel(r.logLevel)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		logrus.SetLevel(lvl)
	}

	t, err := theme.NewLoader().Resolve(r.themeName, r.config.Themes)
	if err != nil {
		if r.themeName != "" && r.themeName != "default" {
			logrus.WithError(err).WithField("theme", r.themeName).Warn("failed to load theme, using default")
		}
		t = theme.Default()
	}
	r.activeTheme = t

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "open":
		cmd, err = parseOpenCmd(subArgs, r)
	case "replay":
		cmd, err = parseReplayCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "colors":
		cmd, err = parseColorsCmd(subArgs, r)
	case "tools":
		cmd, err = parseToolsCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd, err = parseVersionCmd(subArgs, r)
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine builds an engine from the configured canvas and tool defaults.
// Zero dimensions fall back to the configured canvas size.
func (r *root) newEngine(width, height int) *engine.Engine {
	cfg := r.cfg()
	if width <= 0 {
		width = cfg.Canvas.Width
	}
	if height <= 0 {
		height = cfg.Canvas.Height
	}
	opts := append(cfg.EngineOptions(),
		engine.WithSettings(engine.NewSettings(cfg.ToolConfig())),
		engine.WithLogger(logrus.WithField("component", "engine")),
	)
	return engine.New(width, height, opts...)
}

func (r *root) exporter() *export.Exporter {
	dir := r.saveDir
	if dir == "" {
		dir = r.cfg().SaveDir
	}
	return &export.Exporter{SaveDir: dir, Notifier: r.notifier}
}

func (r *root) cfg() *config.Config {
	if r.config == nil {
		r.config = config.New()
	}
	return r.config
}

// canvasFlags registers the size flags shared by every command that builds
// a board.
func (r *root) canvasFlags(fs *flag.FlagSet, width, height *int) {
	cfg := r.cfg()
	fs.IntVar(width, "width", cfg.Canvas.Width, "board width in logical pixels")
	fs.IntVar(height, "height", cfg.Canvas.Height, "board height in logical pixels")
}
