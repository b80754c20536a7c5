// Package debug hosts an optional local HTTP listener with health and
// metrics endpoints while a conversation runs. It is off unless debug.addr
// is configured.
package debug

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/palmlink/palmlink/internal/config"
	"github.com/palmlink/palmlink/internal/observability"
)

// Server serves /health and /metrics on the configured local address.
type Server struct {
	cfg     config.DebugConfig
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewServer constructs a debug listener instance.
func NewServer(cfg config.DebugConfig, logger *zap.Logger, metrics *observability.Metrics) *Server {
	return &Server{cfg: cfg, logger: logger, metrics: metrics}
}

// Run starts the listener and blocks until context cancellation or fatal
// error. Returns immediately when no address is configured.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/metrics", s.metricsHandler)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting debug listener", zap.String("addr", s.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("debug listener failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("debug listener shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.MetricsEnabled || s.metrics == nil {
		http.NotFound(w, r)
		return
	}

	promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
