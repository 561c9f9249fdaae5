package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/vidarr/internal/api/handlers"
	"github.com/amaumene/vidarr/internal/api/middleware"
	"github.com/amaumene/vidarr/internal/config"
	"github.com/amaumene/vidarr/internal/controllers"
	"github.com/amaumene/vidarr/internal/metrics"
	"github.com/amaumene/vidarr/internal/ws"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	searches  *controllers.SearchController
	queueCtrl *controllers.QueueController
	hub       *ws.Hub
	metrics   *metrics.Metrics
	checks    map[string]handlers.HealthCheck
	started   time.Time
	logger    *logrus.Logger
}

// NewServer creates a new HTTP server. m may be nil, in which case /metrics is not served.
func NewServer(
	cfg *config.Config,
	searches *controllers.SearchController,
	queueCtrl *controllers.QueueController,
	hub *ws.Hub,
	m *metrics.Metrics,
	checks map[string]handlers.HealthCheck,
	logger *logrus.Logger,
) *Server {
	s := &Server{
		searches:  searches,
		queueCtrl: queueCtrl,
		hub:       hub,
		metrics:   m,
		checks:    checks,
		started:   time.Now(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     middleware.Logging(mux, logger),
		ReadTimeout: 15 * time.Second,
		// A search waits for the inspection to finish
		WriteTimeout: cfg.InspectTimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Health check
	healthHandler := handlers.NewHealthHandler(s.checks, s.logger)
	mux.HandleFunc("/health", healthHandler.ServeHTTP)

	// Status endpoint
	statusHandler := handlers.NewStatusHandler(s, s.started, s.logger)
	mux.HandleFunc("/status", statusHandler.ServeHTTP)

	// Search
	searchHandler := handlers.NewSearchHandler(s.searches, s.logger)
	mux.HandleFunc("POST /api/search", searchHandler.Search)
	mux.HandleFunc("GET /api/search/{id}/options", searchHandler.Options)

	// Queue
	queueHandler := handlers.NewQueueHandler(s.queueCtrl, s.logger)
	mux.HandleFunc("POST /api/queue", queueHandler.Enqueue)
	mux.HandleFunc("GET /api/queue", queueHandler.List)
	mux.HandleFunc("DELETE /api/queue", queueHandler.Remove)
	if s.hub != nil {
		mux.HandleFunc("GET /api/queue/events", s.hub.HandleWS)
	}

	// Download worker callback
	webhookHandler := handlers.NewWebhookHandler(s.queueCtrl, s.logger)
	mux.HandleFunc("/api/webhook/complete", webhookHandler.ServeHTTP)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler returns the routed handler, including middleware
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// QueueLength implements handlers.StatusSource
func (s *Server) QueueLength() int {
	return s.queueCtrl.Len()
}

// ActiveSearches implements handlers.StatusSource
func (s *Server) ActiveSearches() int {
	return s.searches.ActiveSessions()
}

// WebsocketClients implements handlers.StatusSource
func (s *Server) WebsocketClients() int {
	if s.hub == nil {
		return 0
	}
	return s.hub.Clients()
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
