package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/example/whiteboard/internal/coords"
	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/palette"
	"github.com/go-chi/render"
)

var errBadRequest = errors.New("bad request")

type (
	// Result is returned by every state-changing endpoint.
	Result struct {
		Changed bool          `json:"changed"`
		Status  engine.Status `json:"status"`
	}

	// ErrorResponse describes a failed request.
	ErrorResponse struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id,omitempty"`
	}

	// ConfigRequest updates the tool configuration. Omitted fields keep
	// their current value.
	ConfigRequest struct {
		Tool        *string  `json:"tool"`
		Color       *string  `json:"color"`
		StrokeWidth *float64 `json:"width"`
		FontSize    *float64 `json:"font"`
	}

	// Contact is one touch point in client coordinates.
	Contact struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	// EventRequest is one pointer or touch event.
	EventRequest struct {
		Kind     string    `json:"kind"`
		Touch    bool      `json:"touch"`
		X        float64   `json:"x"`
		Y        float64   `json:"y"`
		Contacts []Contact `json:"contacts"`
	}

	// EventsRequest carries a batch of events applied in order.
	EventsRequest struct {
		Events []EventRequest `json:"events"`
	}

	// TextRequest edits the pending text. Backspace runs before Text is
	// appended; Replace swaps the whole pending text for Text.
	TextRequest struct {
		Text      string `json:"text"`
		Replace   bool   `json:"replace"`
		Backspace int    `json:"backspace"`
	}

	// ResizeRequest changes the logical board size.
	ResizeRequest struct {
		Width  int     `json:"width"`
		Height int     `json:"height"`
		Scale  float64 `json:"scale"`
	}
)

func (e EventRequest) event() (coords.Event, error) {
	kind, err := coords.ParseKind(e.Kind)
	if err != nil {
		return coords.Event{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if !e.Touch {
		return coords.Pointer(kind, e.X, e.Y), nil
	}
	contacts := make([]coords.Contact, len(e.Contacts))
	for i, c := range e.Contacts {
		contacts[i] = coords.Contact{X: c.X, Y: c.Y}
	}
	return coords.Touch(kind, contacts...), nil
}

func decode(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var st engine.Status
	s.locked(func(e *engine.Engine) { st = e.Status() })
	render.JSON(w, r, st)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		before := e.Settings().Load()
		cfg := before
		if req.Tool != nil {
			t, err := engine.ParseTool(*req.Tool)
			if err != nil {
				return false, err
			}
			cfg.Tool = t
		}
		if req.Color != nil {
			c, err := palette.Parse(*req.Color)
			if err != nil {
				return false, fmt.Errorf("%w: %v", errBadRequest, err)
			}
			cfg.Color = c
		}
		if req.StrokeWidth != nil {
			cfg.StrokeWidth = *req.StrokeWidth
		}
		if req.FontSize != nil {
			cfg.FontSize = *req.FontSize
		}
		if err := e.Configure(cfg); err != nil {
			return false, err
		}
		return cfg != before, nil
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var req EventsRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	events := make([]coords.Event, len(req.Events))
	for i, er := range req.Events {
		ev, err := er.event()
		if err != nil {
			s.fail(w, r, fmt.Errorf("event %d: %w", i, err))
			return
		}
		events[i] = ev
	}
	mustMap := strict(r)
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		changed := false
		for i, ev := range events {
			if mustMap && !ev.Finalizes() {
				if _, ok := coords.Map(ev, e.Bounds()); !ok {
					return changed, fmt.Errorf("event %d: %w", i, engine.ErrInvalidInput)
				}
			}
			ok, err := e.Handle(ev)
			if err != nil {
				return changed, fmt.Errorf("event %d: %w", i, err)
			}
			changed = changed || ok
		}
		return changed, nil
	})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		if _, open := e.PendingText(); !open {
			return false, fmt.Errorf("%w: no text entry open", engine.ErrInvalidInput)
		}
		if req.Replace {
			return e.SetText(req.Text), nil
		}
		changed := false
		for i := 0; i < req.Backspace; i++ {
			if !e.Backspace() {
				break
			}
			changed = true
		}
		return e.InsertText(req.Text) || changed, nil
	})
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	reportEmpty := strict(r)
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		ok, err := e.CommitText()
		if err == nil && !ok && reportEmpty {
			err = engine.ErrEmptyText
		}
		return ok, err
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		return e.CancelText(), nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*engine.Engine).Undo)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.history(w, r, (*engine.Engine).Redo)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request, op func(*engine.Engine) (bool, error)) {
	reportUnderflow := strict(r)
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		ok, err := op(e)
		if err == nil && !ok && reportUnderflow {
			err = engine.ErrHistoryUnderflow
		}
		return ok, err
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		e.Clear()
		return true, nil
	})
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.do(w, r, func(e *engine.Engine) (bool, error) {
		return e.Resize(req.Width, req.Height, req.Scale)
	})
}
