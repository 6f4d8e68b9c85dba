// Package httpapi exposes one board over HTTP so it can be driven without a
// window.
package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/surface"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the identifier assigned to each request.
const RequestIDHeader = "X-Request-Id"

type ctxKey struct{}

// Server serializes requests onto a single engine.
type Server struct {
	mu  sync.Mutex
	eng *engine.Engine
	log *logrus.Entry
}

// New wraps eng. The engine must not be used elsewhere while the server runs.
func New(eng *engine.Engine) *Server {
	return &Server{eng: eng, log: logrus.WithField("component", "httpapi")}
}

// Router returns the HTTP handler. With no origins, browsers on localhost
// are allowed.
func (s *Server) Router(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(origins)))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Put("/config", s.handleConfig)
		r.Post("/events", s.handleEvents)
		r.Route("/text", func(r chi.Router) {
			r.Post("/", s.handleText)
			r.Post("/commit", s.handleCommit)
			r.Post("/cancel", s.handleCancel)
		})
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
		r.Post("/clear", s.handleClear)
		r.Post("/resize", s.handleResize)
		r.Get("/canvas.png", s.handleCanvas)
	})
	return r
}

func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
		return opts
	}
	opts.AllowOriginFunc = func(r *http.Request, origin string) bool {
		parsed, err := url.Parse(origin)
		if err != nil {
			return false
		}
		switch parsed.Scheme {
		case "http", "https":
			switch parsed.Hostname() {
			case "localhost", "127.0.0.1", "::1":
				return true
			}
		}
		return false
	}
	return opts
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ulid.Make().String()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// locked runs fn with the engine lock held. The lock is released even when
// fn panics, so a recovered request cannot wedge the server.
func (s *Server) locked(fn func(e *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.eng)
}

// do runs fn with the engine lock held and renders the outcome.
func (s *Server) do(w http.ResponseWriter, r *http.Request, fn func(e *engine.Engine) (bool, error)) {
	var (
		changed bool
		err     error
		st      engine.Status
	)
	s.locked(func(e *engine.Engine) {
		changed, err = fn(e)
		st = e.Status()
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, Result{Changed: changed, Status: st})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	entry := s.log.WithFields(logrus.Fields{
		"request_id": requestIDFrom(r.Context()),
		"path":       r.URL.Path,
		"status":     code,
	}).WithError(err)
	if code >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	render.Status(r, code)
	render.JSON(w, r, ErrorResponse{Error: err.Error(), RequestID: requestIDFrom(r.Context())})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrHistoryUnderflow), errors.Is(err, engine.ErrEmptyText):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// strict reports whether the caller asked for no-ops to be reported as
// conflicts.
func strict(r *http.Request) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get("strict"))
	return err == nil && v
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	var snap *surface.Snapshot
	s.locked(func(e *engine.Engine) { snap = e.ExportSnapshot() })
	var buf bytes.Buffer
	if err := export.EncodePNG(&buf, snap); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Debug("write canvas")
	}
}
