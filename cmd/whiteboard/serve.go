package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/example/whiteboard/internal/httpapi"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// serveCmd exposes a board over HTTP.
type serveCmd struct {
	*root
	fs      *flag.FlagSet
	width   int
	height  int
	addr    string
	origins string
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r.subcommand("serve"), fs: fs}
	fs.Usage = usageFunc(s)
	cfg := r.cfg()
	r.canvasFlags(fs, &s.width, &s.height)
	fs.StringVar(&s.addr, "addr", cfg.Server.Addr, "listen address")
	fs.StringVar(&s.origins, "cors", strings.Join(cfg.Server.CORSOrigins, ","), "comma separated origins allowed by CORS (default: localhost)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *serveCmd) originList() []string {
	var out []string
	for _, o := range strings.Split(s.origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (s *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx)
}

func (s *serveCmd) serve(ctx context.Context) error {
	eng := s.newEngine(s.width, s.height)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           httpapi.New(eng).Router(s.originList()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.addr).Info("serving board")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", s.addr, err)
	case <-ctx.Done():
	}
	logrus.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
