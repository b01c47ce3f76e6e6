package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"solsight/internal/api/handlers"
	"solsight/internal/api/health"
	"solsight/internal/api/middleware"
	"solsight/internal/metrics"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

// ServerConfig contains configuration for HTTP server
type ServerConfig struct {
	Port         int
	ServiceName  string
	Version      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Gate    middleware.Gate // nil admits everything
	Tracker errors.Tracker  // optional, receives recovered panics
}

// Routes holds the handlers mounted by the server
type Routes struct {
	Address     *handlers.Address
	Token       *handlers.Token
	Wallet      *handlers.Wallet
	Transaction *handlers.Transaction
	Market      *handlers.Market
	Health      *health.Handler
}

// Server wraps HTTP server with lifecycle management
type Server struct {
	cfg        ServerConfig
	routes     Routes
	router     *mux.Router
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer creates and configures HTTP server with all routes
func NewServer(cfg ServerConfig, routes Routes, log *logger.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		routes: routes,
		router: mux.NewRouter(),
		log:    log.With("component", "http"),
	}
	s.setupRoutes()

	port := 8080
	if cfg.Port > 0 {
		port = cfg.Port
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  orDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:  orDefault(cfg.IdleTimeout, 60*time.Second),
	}

	s.log.Infof("HTTP server configured on port %d", port)
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(
		middleware.RequestID,
		middleware.NewRecover(s.log, s.cfg.Tracker).Handler,
		middleware.NewLogging(s.log).Handler,
	)
	s.router.NotFoundHandler = http.HandlerFunc(notFound)

	// Health check endpoints (Kubernetes probes)
	if h := s.routes.Health; h != nil {
		s.router.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
		s.router.HandleFunc("/ready", h.HandleReadiness).Methods(http.MethodGet)
		s.router.HandleFunc("/live", h.HandleLiveness).Methods(http.MethodGet)
	}

	// Prometheus metrics endpoint
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.handleInfo).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.NewGate(s.cfg.Gate, s.log).Handler)

	if h := s.routes.Address; h != nil {
		api.HandleFunc("/address/classify", h.Classify).Methods(http.MethodGet)
	}

	if h := s.routes.Token; h != nil {
		api.HandleFunc("/token/analysis", h.Analysis).Methods(http.MethodGet)
		api.HandleFunc("/token/pairs", h.Pairs).Methods(http.MethodGet)
		api.HandleFunc("/token/decentralization", h.Decentralization).Methods(http.MethodGet)
		api.HandleFunc("/token/dex-verification", h.DexVerification).Methods(http.MethodGet)
		api.HandleFunc("/token/dexscreener", h.DexVerification).Methods(http.MethodGet)
		api.HandleFunc("/token/rugcheck", h.RugCheck).Methods(http.MethodGet)
	}

	if h := s.routes.Wallet; h != nil {
		api.HandleFunc("/wallet/analysis", h.Risk).Methods(http.MethodGet)
		api.HandleFunc("/wallet/sanctioned", h.Sanctioned).Methods(http.MethodGet)
		api.HandleFunc("/wallet/pnl", h.PNL).Methods(http.MethodGet)
		api.HandleFunc("/wallet/tokens", h.Tokens).Methods(http.MethodGet)
		api.HandleFunc("/wallet/transactions", h.Transactions).Methods(http.MethodGet)
		api.HandleFunc("/wallet/transaction-flow", h.Flow).Methods(http.MethodGet)
		api.HandleFunc("/wallet/overview", h.Overview).Methods(http.MethodGet)
	}

	if h := s.routes.Transaction; h != nil {
		api.HandleFunc("/transaction/details", h.Details).Methods(http.MethodGet)
	}

	if h := s.routes.Market; h != nil {
		api.HandleFunc("/solana/chaininfo", h.ChainInfo).Methods(http.MethodGet)
		api.HandleFunc("/solana/mindshare", h.Mindshare).Methods(http.MethodGet)
		api.HandleFunc("/dex/metrics", h.DexMetrics).Methods(http.MethodGet)
	}
}

// Router exposes the route table for tests
func (s *Server) Router() *mux.Router {
	return s.router
}

// handleInfo serves service info on the root path
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"service": s.cfg.ServiceName,
		"version": s.cfg.Version,
		"status":  "running",
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
}

// Start begins listening for HTTP requests
// Blocks until server is stopped or encounters an error
func (s *Server) Start() error {
	s.log.Infof("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "http server failed")
	}

	return nil
}

// Shutdown gracefully stops the HTTP server
// Waits for active connections to complete within timeout
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Stopping HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "http server shutdown failed")
	}

	s.log.Info("✓ HTTP server stopped")
	return nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
