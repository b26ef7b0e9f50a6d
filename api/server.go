// Package api exposes the content engine over HTTP.
//
// Information Hiding:
// - Route table and method patterns hidden behind Handler
// - SSE response setup delegated to the stream package
// - Listener lifecycle and graceful shutdown hidden in Start

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/nexus/agent"
	"github.com/richinex/nexus/features"
	"github.com/richinex/nexus/internal/observability"
	"github.com/richinex/nexus/storage"
	"github.com/richinex/nexus/stream"
)

const shutdownTimeout = 5 * time.Second

// Orchestrator starts orchestration sessions. *agent.Orchestrator
// satisfies it.
type Orchestrator interface {
	Run(ctx context.Context, req agent.Request) <-chan stream.Event
}

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	DefaultModel string
	Heartbeat    time.Duration
	Metrics      bool
}

// Server serves the JSON routes and the orchestration stream.
type Server struct {
	config       Config
	orchestrator Orchestrator
	store        storage.ClientStore
	catalog      *features.Catalog
	logger       zerolog.Logger
}

// NewServer creates a server over its collaborators.
func NewServer(config Config, orchestrator Orchestrator, store storage.ClientStore, catalog *features.Catalog) *Server {
	return &Server{
		config:       config,
		orchestrator: orchestrator,
		store:        store,
		catalog:      catalog,
		logger:       zerolog.Nop(),
	}
}

// WithLogger sets the logger used for request diagnostics.
func (s *Server) WithLogger(logger zerolog.Logger) *Server {
	s.logger = logger
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/orchestrate", s.handleOrchestrate)
	mux.HandleFunc("GET /api/features", s.handleListFeatures)
	mux.HandleFunc("GET /api/models", s.handleListModels)

	mux.HandleFunc("GET /api/clients", s.handleListClients)
	mux.HandleFunc("POST /api/clients", s.handleCreateClient)
	mux.HandleFunc("GET /api/clients/{id}", s.handleGetClient)
	mux.HandleFunc("PUT /api/clients/{id}", s.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", s.handleDeleteClient)

	mux.HandleFunc("GET /api/clients/{id}/files", s.handleListFiles)
	mux.HandleFunc("POST /api/clients/{id}/files", s.handleUploadFiles)
	mux.HandleFunc("DELETE /api/clients/{id}/files", s.handleDeleteFile)

	mux.HandleFunc("GET /api/clients/{id}/outputs", s.handleListOutputs)
	mux.HandleFunc("POST /api/clients/{id}/outputs", s.handleSaveOutput)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.config.Metrics {
		mux.Handle("GET /metrics", observability.Handler())
	}

	return s.logRequests(mux)
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("graceful shutdown incomplete")
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
