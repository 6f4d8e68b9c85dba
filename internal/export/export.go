// Package export delivers board snapshots to files and the clipboard.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/example/whiteboard/internal/clipboard"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/surface"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// DefaultName is the file written when no save directory is configured.
const DefaultName = "whiteboard.png"

var errNoSnapshot = errors.New("no snapshot to export")

// EncodePNG writes snap as PNG.
func EncodePNG(w io.Writer, snap *surface.Snapshot) error {
	if snap == nil {
		return errNoSnapshot
	}
	return png.Encode(w, snap.Image())
}

// SavePNG writes snap to path, creating parent directories as needed.
func SavePNG(path string, snap *surface.Snapshot) (err error) {
	if snap == nil {
		return errNoSnapshot
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := EncodePNG(out, snap); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// DefaultPath names a new export. With no save directory it is DefaultName
// in the working directory; otherwise a unique name inside saveDir.
func DefaultPath(saveDir string) string {
	if saveDir == "" {
		return DefaultName
	}
	return filepath.Join(saveDir, "whiteboard-"+ulid.Make().String()+".png")
}

// Exporter saves and copies snapshots and raises notifications for both.
type Exporter struct {
	SaveDir  string
	Notifier *notify.Notifier
	// WriteClipboard publishes an image. Nil uses the system clipboard.
	WriteClipboard func(image.Image) error
}

// Save writes snap to path, or to DefaultPath when path is empty, and
// returns the path written.
func (x *Exporter) Save(snap *surface.Snapshot, path string) (string, error) {
	if path == "" {
		path = DefaultPath(x.SaveDir)
	}
	if err := SavePNG(path, snap); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	logrus.WithField("path", path).Info("board saved")
	x.Notifier.Save(path)
	return path, nil
}

// Copy places snap on the clipboard.
func (x *Exporter) Copy(snap *surface.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("copy: %w", errNoSnapshot)
	}
	write := x.WriteClipboard
	if write == nil {
		write = clipboard.WriteImage
	}
	img := snap.Image()
	if err := write(img); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	logrus.Info("board copied to clipboard")
	x.Notifier.Copy("board", img)
	return nil
}
