//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import (
	"errors"
	"image"
)

var errUnsupported = errors.New("copying the board is not supported on this platform")

// WriteImage always fails here.
func WriteImage(image.Image) error {
	return errUnsupported
}
