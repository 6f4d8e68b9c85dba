//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"image"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/sirupsen/logrus"
)

var (
	ownerOnce sync.Once
	ownerErr  error
	owner     *selectionOwner
)

func ensureOwner() error {
	if !hasDisplay() {
		return errNoDisplay
	}
	ownerOnce.Do(func() { owner, ownerErr = newSelectionOwner() })
	return ownerErr
}

// WriteImage claims the X11 CLIPBOARD selection and serves img to paste
// requests as image/png. Encoding happens on the first request.
func WriteImage(img image.Image) error {
	if err := ensureOwner(); err != nil {
		return err
	}
	return owner.offer(img)
}

// board is one copied image and its lazily encoded PNG.
type board struct {
	img     image.Image
	once    sync.Once
	encoded []byte
	err     error
}

func (b *board) png() ([]byte, error) {
	b.once.Do(func() { b.encoded, b.err = encodePNG(b.img) })
	return b.encoded, b.err
}

// selectionOwner is an unmapped window holding the CLIPBOARD selection.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  struct{ clipboard, targets, png xproto.Atom }
	log    *logrus.Entry

	mu      sync.Mutex
	current *board
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, log: logrus.WithField("component", "clipboard")}
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD": &o.atoms.clipboard,
		"TARGETS":   &o.atoms.targets,
		"image/png": &o.atoms.png,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			xproto.DestroyWindow(conn, window)
			conn.Close()
			return nil, err
		}
		*dst = reply.Atom
	}
	go o.run()
	return o, nil
}

func (o *selectionOwner) offer(img image.Image) error {
	o.mu.Lock()
	o.current = &board{img: img}
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) run() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			o.log.WithError(err).Debug("x11 connection closed")
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.current = nil
			o.mu.Unlock()
		}
	}
}

// answer stores the requested target on the requestor's property and tells
// it the result. An unsupported target is refused with property None.
func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	o.mu.Lock()
	b := o.current
	o.mu.Unlock()

	put := func(typ xproto.Atom, format byte, n int, data []byte) {
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, prop, typ, format, uint32(n), data)
	}
	switch {
	case b == nil:
		prop = xproto.AtomNone
	case e.Target == o.atoms.targets:
		targets := []xproto.Atom{o.atoms.targets, o.atoms.png}
		buf := make([]byte, 4*len(targets))
		for i, a := range targets {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		put(xproto.AtomAtom, 32, len(targets), buf)
	case e.Target == o.atoms.png:
		data, err := b.png()
		if err != nil {
			o.log.WithError(err).Warn("encode clipboard image")
			prop = xproto.AtomNone
			break
		}
		put(o.atoms.png, 8, len(data), data)
	default:
		prop = xproto.AtomNone
	}

	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}
