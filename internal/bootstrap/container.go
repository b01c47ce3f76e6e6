package bootstrap

import (
	"context"
	"sync"

	"solsight/internal/adapters/cache"
	"solsight/internal/adapters/config"
	"solsight/internal/adapters/gateway/bubblemaps"
	"solsight/internal/adapters/gateway/checkdex"
	"solsight/internal/adapters/gateway/dexscreener"
	"solsight/internal/adapters/gateway/messari"
	"solsight/internal/adapters/gateway/rugcheck"
	"solsight/internal/adapters/gateway/solscan"
	"solsight/internal/adapters/gateway/vybe"
	"solsight/internal/adapters/gateway/webacy"
	"solsight/internal/adapters/ratelimit"
	redisclient "solsight/internal/adapters/redis"
	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/api"
	"solsight/internal/api/health"
	"solsight/internal/services/analysis"
	"solsight/internal/services/classifier"
	marketsvc "solsight/internal/services/market"
	txsvc "solsight/internal/services/transaction"
	walletsvc "solsight/internal/services/wallet"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure
	Solana *solanarpc.Client
	Redis  *redisclient.Client // nil unless the response cache is enabled

	// External Adapters
	Adapters *Adapters

	// Use cases
	Services *Services

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Adapters groups third-party API clients
type Adapters struct {
	Limiters *ratelimit.Registry
	Cache    *cache.ResponseCache

	CheckDex    *checkdex.Client
	Bubblemaps  *bubblemaps.Client
	DexScreener *dexscreener.Client
	RugCheck    *rugcheck.Client
	Webacy      *webacy.Client
	Vybe        *vybe.Client
	Solscan     *solscan.Client
	Messari     *messari.Client
}

// Services groups all use-case services
type Services struct {
	Classifier  *classifier.Service
	Analysis    *analysis.Service
	Wallet      *walletsvc.Service
	Transaction *txsvc.Service
	Market      *marketsvc.Service
}

// Application groups application layer components
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
}

// Start starts the HTTP server in the background
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}

// GetMetrics returns metrics for observability
func (c *Container) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"cache_enabled": c.Adapters.Cache.Enabled(),
		"cache":         c.Adapters.Cache.Stats(),
	}
}
