// Package server provides the HTTP server of the FAIRsharing proxy: route
// setup, middleware chain, and graceful lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ds-wizard/fairsharing-proxy/pkg/config"
	"github.com/ds-wizard/fairsharing-proxy/pkg/proxy"
	"github.com/ds-wizard/fairsharing-proxy/pkg/proxy/middleware"
	"github.com/ds-wizard/fairsharing-proxy/pkg/telemetry/metrics"
)

// Notice is the usage notice served with the build info on the root
// endpoint.
const Notice = "This service can be used only for integration with DSW. " +
	"Any other use is strictly prohibited. All the data reachable through " +
	"the proxy fall under the FAIRsharing license available at " +
	"https://fairsharing.org/licence."

// Info describes the running build, served on the root endpoint.
type Info struct {
	Name           string `json:"name"`
	PackageVersion string `json:"packageVersion,omitempty"`
	Notice         string `json:"notice"`
	Version        string `json:"version"`
	BuiltAt        string `json:"builtAt,omitempty"`
}

// Server is the HTTP server of the proxy.
type Server struct {
	config       *config.ServerConfig
	metricsCfg   *config.MetricsConfig
	core         *proxy.Core
	collector    *metrics.Collector
	info         Info
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server around the search core. The collector may be
// nil, which disables the metrics endpoint regardless of configuration.
func NewServer(cfg *config.ServerConfig, metricsCfg *config.MetricsConfig, core *proxy.Core, collector *metrics.Collector, info Info) *Server {
	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		core:         core,
		collector:    collector,
		info:         info,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting proxy server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("proxy server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/legacy/search", s.handleLegacySearch)
	mux.HandleFunc("/health", s.handleHealth)

	if s.collector != nil && s.metricsCfg != nil && s.metricsCfg.Enabled {
		mux.Handle(s.metricsCfg.Path, s.collector.Handler())
	}

	var handler http.Handler = mux
	handler = middleware.RequestID(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Recovery(handler)

	return handler
}
