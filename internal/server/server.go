package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/GabrielKeuer/boligretning-webhooks/internal/telemetry"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/platform"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/recon"
	"github.com/GabrielKeuer/boligretning-webhooks/pkg/supplier"
)

// Server is the HTTP server for the fulfillment service.
type Server struct {
	config     Config
	reconciler *recon.Reconciler
	suppliers  *supplier.Registry
	platform   platform.Client
	resolver   *recon.Resolver
	notifier   recon.Notifier
	logger     *otelzap.Logger
	metrics    *telemetry.Metrics
}

// Config holds server configuration.
type Config struct {
	Port          int
	WebhookSecret string
	CronSecret    string
	CompanyPhone  string
	WindowDays    int

	// SupplierVendors maps each registered supplier to the vendor names
	// it ships for. Webhook intake routes line items by this table.
	SupplierVendors map[string][]string
}

// New creates a new server instance.
func New(cfg Config, reconciler *recon.Reconciler, suppliers *supplier.Registry, client platform.Client, resolver *recon.Resolver, notifier recon.Notifier, logger *otelzap.Logger) *Server {
	return &Server{
		config:     cfg,
		reconciler: reconciler,
		suppliers:  suppliers,
		platform:   client,
		resolver:   resolver,
		notifier:   notifier,
		logger:     logger,
		metrics:    telemetry.NewMetrics(),
	}
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // sync runs inline and can take a while
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.config.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler returns the full route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("GET /metrics", s.metrics.Handler())

	// Shopify order webhooks, routed per supplier
	mux.HandleFunc("POST /webhooks/{supplier}/orders", s.handleOrderWebhook)

	// Reconciliation triggers for the cron scheduler
	mux.HandleFunc("POST /sync", s.handleSync)
	mux.HandleFunc("POST /sync/{supplier}", s.handleSync)

	// Manual resubmission of a supplier order
	mux.HandleFunc("POST /retry", s.handleRetry)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}
