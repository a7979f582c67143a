// Package server runs the form283 HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/btlforms/form283/internal/api"
	"github.com/btlforms/form283/internal/config"
	"github.com/btlforms/form283/internal/extract"
	"github.com/btlforms/form283/internal/ocr"
	"github.com/btlforms/form283/internal/report"
	"github.com/btlforms/form283/internal/server/endpoints"
	"github.com/btlforms/form283/internal/svcctx"
)

// Server is the main form283 HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu       sync.RWMutex
	services *svcctx.Services
	running  bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ConfigManager == nil {
		return nil, fmt.Errorf("config manager is required")
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	s.services = buildServices(cfg.ConfigManager, cfg.Logger)

	// Rebuild providers and scoring weights when the config file changes.
	cfg.ConfigManager.OnChange(func(c *config.Config) {
		s.mu.Lock()
		s.services = buildServices(cfg.ConfigManager, cfg.Logger)
		s.mu.Unlock()
		cfg.Logger.Info("services reloaded from config")
	})

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireProviders)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // pipeline requests wait on OCR + LLM
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// buildServices constructs the service set from the current configuration.
// Providers stay nil when disabled; the provider middleware turns that into
// a 503 for pipeline routes while validation stays available.
func buildServices(mgr *config.Manager, logger *slog.Logger) *svcctx.Services {
	cfg := mgr.Get()

	services := &svcctx.Services{
		Builder:       report.NewBuilder(cfg.Scoring, logger),
		ConfigManager: mgr,
		Logger:        logger,
	}

	if cfg.OCR.Enabled {
		services.OCR = ocr.NewAzureDIClient(ocr.AzureDIConfig{
			Endpoint:  cfg.OCR.Endpoint,
			APIKey:    config.ResolveEnvVars(cfg.OCR.APIKey),
			Model:     cfg.OCR.Model,
			RateLimit: cfg.OCR.RateLimit,
		})
	}
	if cfg.LLM.Enabled {
		services.Extractor = extract.New(extract.Config{
			APIKey:      config.ResolveEnvVars(cfg.LLM.APIKey),
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxRetries:  cfg.LLM.MaxRetries,
		})
	}

	return services
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully assembled HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// currentServices returns the live service set.
func (s *Server) currentServices() *svcctx.Services {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.currentServices())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireProviders is middleware for routes that need the OCR and extraction
// providers. Returns 503 Service Unavailable when either is not configured.
func (s *Server) requireProviders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := s.currentServices()
		if services.OCR == nil || services.Extractor == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"OCR and LLM providers not configured"}`))
			return
		}
		next(w, r)
	}
}
