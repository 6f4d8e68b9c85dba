package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrSnapshotMismatch is returned when a snapshot cannot be applied to a
// surface.
var ErrSnapshotMismatch = errors.New("snapshot does not fit surface")

// Snapshot is an immutable copy of a surface's pixels.
type Snapshot struct {
	width, height int
	scale         float64
	background    color.RGBA
	pix           []byte
	stride        int
	bounds        image.Rectangle
}

// Snapshot captures the current pixels.
func (s *Surface) Snapshot() *Snapshot {
	pix := make([]byte, len(s.ink.Pix))
	copy(pix, s.ink.Pix)
	return &Snapshot{
		width:      s.width,
		height:     s.height,
		scale:      s.scale,
		background: s.background,
		pix:        pix,
		stride:     s.ink.Stride,
		bounds:     s.ink.Bounds(),
	}
}

// Restore replaces the surface pixels with snap. On error the surface is
// unchanged.
func (s *Surface) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrSnapshotMismatch)
	}
	if snap.bounds != s.ink.Bounds() || len(snap.pix) != len(s.ink.Pix) {
		return fmt.Errorf("%w: snapshot %v, surface %v", ErrSnapshotMismatch, snap.bounds.Size(), s.ink.Bounds().Size())
	}
	copy(s.ink.Pix, snap.pix)
	s.background = snap.background
	return nil
}

// Size reports the logical dimensions the snapshot was taken at.
func (p *Snapshot) Size() (width, height int) {
	return p.width, p.height
}

// Bounds returns the device pixel bounds of the snapshot.
func (p *Snapshot) Bounds() image.Rectangle {
	return p.bounds
}

// Image composites the snapshot into a new opaque image.
func (p *Snapshot) Image() *image.RGBA {
	ink := &image.RGBA{Pix: p.pix, Stride: p.stride, Rect: p.bounds}
	return composite(ink, p.background)
}
