package bootstrap

import (
	"solsight/internal/adapters/cache"
	"solsight/internal/adapters/config"
	errnoop "solsight/internal/adapters/errors/noop"
	"solsight/internal/adapters/errors/sentry"
	"solsight/internal/adapters/gateway"
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
	"solsight/internal/adapters/retry"
	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/api"
	"solsight/internal/api/handlers"
	"solsight/internal/api/health"
	"solsight/internal/api/middleware"
	"solsight/internal/metrics"
	"solsight/internal/services/analysis"
	"solsight/internal/services/classifier"
	marketsvc "solsight/internal/services/market"
	txsvc "solsight/internal/services/transaction"
	walletsvc "solsight/internal/services/wallet"
	"solsight/pkg/auth"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

// Upstream credential headers
const (
	headerWebacyKey  = "x-api-key"
	headerVybeKey    = "X-API-KEY"
	headerSolscanKey = "token"
	headerMessariKey = "X-MESSARI-API-KEY"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure initializes metrics, the Solana RPC client and,
// when caching is enabled, Redis
func (c *Container) MustInitInfrastructure() {
	metrics.Init()

	c.Solana = provideSolanaClient(c.Config.Solana, c.Log)
	c.Log.Infow("✓ Solana RPC client ready",
		"max_retries", c.Config.Solana.MaxRetries,
		"initial_delay", c.Config.Solana.InitialRetryDelay,
	)

	if !c.Config.Cache.Enabled {
		c.Log.Info("Response cache disabled, skipping Redis")
		return
	}

	c.Log.Info("Connecting to Redis...")
	client, err := redisclient.NewClient(c.Config.Redis)
	if err != nil {
		// the cache is an optimisation, serve without it
		c.Log.Warnw("Redis unavailable, response cache disabled", "addr", c.Config.Redis.Addr(), "error", err)
		return
	}
	c.Redis = client

	if err := metrics.RegisterPoolCollector(client.Client()); err != nil {
		c.Log.Warnw("Failed to register Redis pool metrics", "error", err)
	}
	c.Log.Info("✓ Redis connected")
}

// ========================================
// Phase 3: External Adapters
// ========================================

// MustInitAdapters builds the third-party API clients and the response cache
func (c *Container) MustInitAdapters() {
	up := c.Config.Upstream
	c.Adapters.Limiters = ratelimit.NewRegistry(up.RequestsPerMinute)

	c.Adapters.CheckDex = checkdex.New(c.provideGatewayClient("checkdex", up.CheckDexURL))
	c.Adapters.Bubblemaps = bubblemaps.New(c.provideGatewayClient("bubblemaps", up.BubblemapsURL))
	c.Adapters.DexScreener = dexscreener.New(c.provideGatewayClient("dexscreener", up.DexScreenerURL))
	c.Adapters.RugCheck = rugcheck.New(c.provideGatewayClient("rugcheck", up.RugCheckURL))
	c.Adapters.Webacy = webacy.New(c.provideGatewayClient("webacy", up.WebacyURL,
		gateway.WithHeader(headerWebacyKey, up.WebacyAPIKey)))
	c.Adapters.Vybe = vybe.New(c.provideGatewayClient("vybe", up.VybeURL,
		gateway.WithHeader(headerVybeKey, up.VybeAPIKey)))
	c.Adapters.Solscan = solscan.New(c.provideGatewayClient("solscan", up.SolscanURL,
		gateway.WithHeader(headerSolscanKey, up.SolscanAPIToken)), up.ChainInfoTimeout)
	c.Adapters.Messari = messari.New(c.provideGatewayClient("messari", up.MessariURL,
		gateway.WithHeader(headerMessariKey, up.MessariAPIKey)), up.MindshareAssetID)

	c.Adapters.Cache = provideResponseCache(c.Config.Cache, c.Redis, c.Log)

	c.Log.Infow("✓ Upstream clients initialized",
		"requests_per_minute", up.RequestsPerMinute,
		"timeout", up.HTTPTimeout,
		"cache_enabled", c.Adapters.Cache.Enabled(),
	)
}

// ========================================
// Phase 4: Services
// ========================================

// MustInitServices wires the use-case services
func (c *Container) MustInitServices() {
	c.Services.Classifier = classifier.NewService(c.Solana, c.Log)
	c.Services.Analysis = analysis.NewService(
		c.Adapters.CheckDex,
		c.Adapters.Bubblemaps,
		c.Adapters.DexScreener,
		c.Log,
	)
	c.Services.Wallet = walletsvc.NewService(
		c.Solana,
		c.Adapters.Webacy,
		c.Adapters.Vybe,
		c.Adapters.Cache,
		c.Log,
	)
	c.Services.Transaction = txsvc.NewService(c.Solana, c.Log)
	c.Services.Market = marketsvc.NewService(
		c.Adapters.Solscan,
		c.Adapters.Messari,
		c.Adapters.Cache,
		c.Log,
	)

	c.Log.Info("✓ Services initialized")
}

// ========================================
// Phase 5: Application Layer
// ========================================

// MustInitApplication builds the handlers and the HTTP server
func (c *Container) MustInitApplication() {
	checks := []health.Check{{Name: "solana_rpc", Checker: c.Solana}}
	if c.Redis != nil {
		checks = append(checks, health.Check{Name: "redis", Checker: c.Redis})
	}
	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version, checks...)

	routes := api.Routes{
		Address: handlers.NewAddress(c.Services.Classifier, c.Log),
		Token: handlers.NewToken(c.Services.Analysis, handlers.TokenSources{
			Pairs:            c.Adapters.CheckDex,
			Decentralization: c.Adapters.Bubblemaps,
			DexPaid:          c.Adapters.DexScreener,
			RugCheck:         c.Adapters.RugCheck,
		}, c.Log),
		Wallet:      handlers.NewWallet(c.Services.Wallet, c.Log),
		Transaction: handlers.NewTransaction(c.Services.Transaction, c.Log),
		Market:      handlers.NewMarket(c.Services.Market, c.Log),
		Health:      c.Application.HealthHandler,
	}

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Port:         c.Config.HTTP.Port,
		ServiceName:  c.Config.App.Name,
		Version:      c.Config.App.Version,
		ReadTimeout:  c.Config.HTTP.ReadTimeout,
		WriteTimeout: c.Config.HTTP.WriteTimeout,
		IdleTimeout:  c.Config.HTTP.IdleTimeout,
		Gate:         provideGate(c.Config.Auth, c.Log),
		Tracker:      c.ErrorTracker,
	}, routes, c.Log)

	c.Log.Info("✓ HTTP server initialized")
}

// ========================================
// Providers
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

// provideGate returns a session gate when a secret is configured
func provideGate(cfg config.AuthConfig, log *logger.Logger) middleware.Gate {
	if cfg.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET not set, API routes are open")
		return middleware.AllowAll{}
	}
	log.Infow("✓ Session gate enabled", "issuer", cfg.Issuer)
	return middleware.NewBearerGate(auth.NewJWTService(cfg.JWTSecret, cfg.Issuer, 0))
}

func provideSolanaClient(cfg config.SolanaConfig, log *logger.Logger) *solanarpc.Client {
	return solanarpc.NewClient(cfg.RPCEndpoint, retry.Config{
		MaxRetries:   cfg.MaxRetries,
		InitialDelay: cfg.InitialRetryDelay,
		Multiplier:   2.0,
	}, log)
}

// provideGatewayClient builds a throttled client for one upstream
func (c *Container) provideGatewayClient(service, baseURL string, opts ...gateway.Option) *gateway.Client {
	base := []gateway.Option{
		gateway.WithTimeout(c.Config.Upstream.HTTPTimeout),
		gateway.WithLimiter(c.Adapters.Limiters.For(service)),
	}
	return gateway.NewClient(service, baseURL, c.Log, append(base, opts...)...)
}

// provideResponseCache returns a cache backed by Redis, or a pass-through
// cache when Redis is absent
func provideResponseCache(cfg config.CacheConfig, redis *redisclient.Client, log *logger.Logger) *cache.ResponseCache {
	if redis == nil {
		cfg.Enabled = false
		return cache.New(cfg, nil, log)
	}
	return cache.New(cfg, redis, log)
}
