// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jatinkmr/ai-candidate-analysis/internal/document"
	"github.com/jatinkmr/ai-candidate-analysis/internal/pipeline"
)

const (
	defaultShutdownTimeout = 30 * time.Second

	// Request bodies are capped a little above the document limit so the
	// size check can report the measured byte count instead of a blunt
	// body-too-large failure.
	maxRequestBody = document.MaxUploadSize + 1<<20
)

// Runner executes one analysis request. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req *pipeline.Request) (*pipeline.Report, error)
}

// Server is the HTTP front of the analysis service.
type Server struct {
	runner Runner
	logger *zap.Logger

	httpServer *http.Server
}

func New(runner Runner, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		runner: runner,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleWelcome)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.withLogging(mux),

		ReadTimeout: 30 * time.Second,
		// Analysis runs include two model calls; writes stay open for
		// the whole run.
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler, used directly in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return <-errCh
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
