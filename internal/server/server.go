// Package server exposes a Store over HTTP: a JSON API under /api/v1, a
// websocket event feed, Prometheus metrics and a health check.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/ainotes/pkg/core"
)

// Config tunes a Server. The zero value is usable.
type Config struct {
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe. Default 10s.
	ShutdownTimeout time.Duration

	// PingInterval is how often websocket clients are pinged. Default 30s.
	PingInterval time.Duration
}

// Server serves a core.Store over HTTP.
type Server struct {
	store    *core.Store
	router   *mux.Router
	logger   *slog.Logger
	metrics  *Metrics
	validate *validator.Validate
	upgrader websocket.Upgrader
	config   Config
}

// New builds the router for store.
func New(store *core.Store, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}

	s := &Server{
		store:    store,
		router:   mux.NewRouter(),
		logger:   cfg.Logger,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		config: cfg,
	}
	s.metrics = newMetrics(func() float64 { return float64(len(store.Notes())) })
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.instrument)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/notes", s.listNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.createNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", s.getNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", s.updateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", s.deleteNote).Methods(http.MethodDelete)
	api.HandleFunc("/notes/{id}/summary", s.summarizeNote).Methods(http.MethodPost)
	api.HandleFunc("/theme", s.getTheme).Methods(http.MethodGet)
	api.HandleFunc("/theme", s.setTheme).Methods(http.MethodPut)
	api.HandleFunc("/stats", s.stats).Methods(http.MethodGet)
	api.HandleFunc("/state/error", s.getError).Methods(http.MethodGet)
	api.HandleFunc("/state/error", s.clearError).Methods(http.MethodDelete)

	r.HandleFunc("/ws", s.events).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the collectors backing /metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
