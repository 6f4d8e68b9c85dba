package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/whiteboard/internal/surface"
	"github.com/sirupsen/logrus"
)

// TextSession is text being typed but not yet drawn.
type TextSession struct {
	At   surface.Point
	Text string
}

// beginText opens a text entry at p, committing any entry already open.
func (e *Engine) beginText(p surface.Point) (bool, error) {
	if e.text != nil {
		if _, err := e.CommitText(); err != nil {
			return false, err
		}
	}
	e.text = &TextSession{At: p}
	e.log.WithField("at", p).Debug("text entry started")
	return true, nil
}

// PendingText returns the open text entry.
func (e *Engine) PendingText() (TextSession, bool) {
	if e.text == nil {
		return TextSession{}, false
	}
	return *e.text, true
}

// SetText replaces the pending text.
func (e *Engine) SetText(s string) bool {
	if e.text == nil {
		return false
	}
	e.text.Text = s
	return true
}

// InsertText appends s to the pending text.
func (e *Engine) InsertText(s string) bool {
	if e.text == nil || s == "" {
		return false
	}
	e.text.Text += s
	return true
}

// Backspace removes the last character of the pending text.
func (e *Engine) Backspace() bool {
	if e.text == nil || e.text.Text == "" {
		return false
	}
	_, n := utf8.DecodeLastRuneInString(e.text.Text)
	e.text.Text = e.text.Text[:len(e.text.Text)-n]
	return true
}

// CommitText draws the pending text at its insertion point with the current
// colour and font size, then checkpoints. Blank text is dropped without a
// checkpoint. It reports whether anything was drawn.
func (e *Engine) CommitText() (bool, error) {
	ts := e.text
	if ts == nil {
		return false, nil
	}
	e.text = nil
	if strings.TrimSpace(ts.Text) == "" {
		e.log.Debug(ErrEmptyText)
		return false, nil
	}
	cfg := e.settings.Load()
	if err := e.surf.DrawText(ts.Text, ts.At, cfg.FontSize, cfg.Color); err != nil {
		return false, fmt.Errorf("commit text: %w", err)
	}
	e.hist.Checkpoint(false)
	e.log.WithFields(logrus.Fields{"at": ts.At, "length": len(ts.Text)}).Debug("text committed")
	return true, nil
}

// CancelText discards the pending text.
func (e *Engine) CancelText() bool {
	if e.text == nil {
		return false
	}
	e.text = nil
	e.log.Debug("text entry cancelled")
	return true
}
