//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"image"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if !hasDisplay() {
		return errNoDisplay
	}
	initOnce.Do(func() { initErr = clipboard.Init() })
	if initErr != nil {
		return initErr
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	replaced := clipboard.Write(clipboard.FmtImage, data)
	go func() {
		<-replaced
		logrus.WithField("component", "clipboard").Debug("board image replaced on clipboard")
	}()
	return nil
}
