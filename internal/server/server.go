// Package server exposes the font nodes over HTTP so that a node graph host
// can list and invoke them.
//
// Routes:
//
//	GET  /healthz                 liveness and build info
//	GET  /fonts                   family names offered by the catalog
//	GET  /nodes                   all node definitions
//	GET  /nodes/{name}            one node definition
//	POST /nodes/{name}/invoke     run a node; body is {"params": {...}}
//	GET  /stats                   event counters, when configured with [WithStats]
//
// An invocation returns the IMAGE and MASK tensors as JSON. Clients that
// send "Accept: image/png" receive the captured PNG instead.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/observability"
	"github.com/ru4ls/ComfyUI-Google-Fonts/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server serves node definitions and invocations.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router

	// sem bounds the number of concurrent browser sessions.
	sem chan struct{}

	stats *observability.Counters
}

// Option configures a [Server].
type Option func(*Server)

// WithMaxConcurrent limits simultaneous invocations. The default is the
// number of CPUs.
func WithMaxConcurrent(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

// WithStats serves the snapshot of c on GET /stats.
func WithStats(c *observability.Counters) Option {
	return func(s *Server) { s.stats = c }
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner: runner,
		logger: logger,
		sem:    make(chan struct{}, runtime.NumCPU()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/fonts", s.handleFonts)
	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", s.handleListNodes)
		r.Get("/{name}", s.handleGetNode)
		r.Post("/{name}/invoke", s.handleInvoke)
	})
	if s.stats != nil {
		r.Get("/stats", s.handleStats)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting node host", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down node host")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) release() { <-s.sem }
