package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/whiteboard/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(out *[]sent) SendFunc {
	return func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		*out = append(*out, s)
		return nil
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		EnvTitle:    "Board",
		EnvCopyText: "Board %s copied",
	}
	prefs := LoadPreferences(func(k string) string { return env[k] })
	if prefs.Title != "Board" {
		t.Fatalf("title = %q", prefs.Title)
	}
	if got := prefs.Events[EventCopy].Template; got != "Board %s copied" {
		t.Fatalf("copy template = %q", got)
	}
	if got := prefs.Events[EventSave].Template; got != "Saved %s" {
		t.Fatalf("save template = %q", got)
	}
}

func TestDisabledEventsAreSilent(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Save("board.png")
	n.Copy("", nil)
	if len(got) != 0 {
		t.Fatalf("expected no notifications, got %d", len(got))
	}

	var nilNotifier *Notifier
	nilNotifier.Save("x")
	nilNotifier.Copy("x", nil)
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventSave, true)
	n.Save(path)
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].title != platform.AppName {
		t.Fatalf("title = %q", got[0].title)
	}
	if got[0].body != "Saved "+path {
		t.Fatalf("body = %q", got[0].body)
	}
	if got[0].opts.IconPath != path {
		t.Fatalf("icon = %q, want %q", got[0].opts.IconPath, path)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	var got []sent
	n := New(DefaultPreferences()).WithSender(recorder(&got))
	n.Enable(EventCopy, true)
	n.Copy("", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(got))
	}
	if got[0].body != "Copied board to clipboard" {
		t.Fatalf("body = %q", got[0].body)
	}
	if !got[0].iconExisted {
		t.Fatalf("preview should exist while sending")
	}
	if _, err := os.Stat(got[0].opts.IconPath); !os.IsNotExist(err) {
		t.Fatalf("preview should be removed after sending, stat err = %v", err)
	}
}

func TestSendErrorIsNotFatal(t *testing.T) {
	calls := 0
	n := New(DefaultPreferences()).WithSender(func(string, string, platform.Options) error {
		calls++
		return errors.New("no bus")
	})
	n.Enable(EventCopy, true)
	n.Copy("board", nil)
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}
