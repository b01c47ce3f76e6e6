package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"solsight/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Solana        SolanaConfig
	Upstream      UpstreamConfig
	Cache         CacheConfig
	Redis         RedisConfig
	Auth          AuthConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"solsight"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Port         int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
}

// SolanaConfig configures the RPC access layer.
// The backoff before retry n is InitialRetryDelay * 2^n.
type SolanaConfig struct {
	RPCEndpoint       string        `envconfig:"SOLANA_RPC_ENDPOINT" required:"true"`
	MaxRetries        int           `envconfig:"RPC_MAX_RETRIES" default:"3"`
	InitialRetryDelay time.Duration `envconfig:"RPC_INITIAL_RETRY_DELAY" default:"1s"`
}

// UpstreamConfig holds third-party endpoints and credentials.
// API keys have no defaults: a missing key fails start-up.
type UpstreamConfig struct {
	CheckDexURL      string `envconfig:"CHECKDEX_URL" default:"https://www.checkdex.xyz/api/getPairs"`
	BubblemapsURL    string `envconfig:"BUBBLEMAPS_URL" default:"https://api-legacy.bubblemaps.io/map-metadata"`
	DexScreenerURL   string `envconfig:"DEXSCREENER_URL" default:"https://api.dexscreener.com/orders/v1/solana"`
	RugCheckURL      string `envconfig:"RUGCHECK_URL" default:"https://api.rugcheck.xyz/v1/tokens"`
	WebacyURL        string `envconfig:"WEBACY_URL" default:"https://api.webacy.com/addresses"`
	WebacyAPIKey     string `envconfig:"WEBACY_API_KEY" required:"true"`
	VybeURL          string `envconfig:"VYBE_URL" default:"https://api.vybenetwork.xyz"`
	VybeAPIKey       string `envconfig:"VYBE_API_KEY" required:"true"`
	SolscanURL       string `envconfig:"SOLSCAN_URL" default:"https://public-api.solscan.io"`
	SolscanAPIToken  string `envconfig:"SOLSCAN_API_TOKEN" required:"true"`
	MessariURL       string `envconfig:"MESSARI_URL" default:"https://api.messari.io"`
	MessariAPIKey    string `envconfig:"MESSARI_API_KEY" required:"true"`
	MindshareAssetID string `envconfig:"MESSARI_MINDSHARE_ASSET_ID" default:"b3d5d66c-26a2-404c-9325-91dc714a722b"`

	HTTPTimeout       time.Duration `envconfig:"UPSTREAM_HTTP_TIMEOUT" default:"15s"`
	ChainInfoTimeout  time.Duration `envconfig:"CHAIN_INFO_TIMEOUT" default:"5s"`
	RequestsPerMinute int           `envconfig:"UPSTREAM_REQUESTS_PER_MINUTE" default:"120"`
}

// CacheConfig controls the optional response cache for slow-moving upstream data
// (wallet PNL, mindshare, DEX metrics). Token analysis is never cached.
type CacheConfig struct {
	Enabled bool          `envconfig:"CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	Prefix  string        `envconfig:"CACHE_PREFIX" default:"solsight"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig enables session checks on /api routes. A blank secret admits everyone.
type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	Issuer    string `envconfig:"AUTH_JWT_ISSUER"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot express with tags
func (c *Config) Validate() error {
	if err := validateURL("SOLANA_RPC_ENDPOINT", c.Solana.RPCEndpoint); err != nil {
		return err
	}

	endpoints := map[string]string{
		"CHECKDEX_URL":    c.Upstream.CheckDexURL,
		"BUBBLEMAPS_URL":  c.Upstream.BubblemapsURL,
		"DEXSCREENER_URL": c.Upstream.DexScreenerURL,
		"RUGCHECK_URL":    c.Upstream.RugCheckURL,
		"WEBACY_URL":      c.Upstream.WebacyURL,
		"VYBE_URL":        c.Upstream.VybeURL,
		"SOLSCAN_URL":     c.Upstream.SolscanURL,
		"MESSARI_URL":     c.Upstream.MessariURL,
	}
	for name, value := range endpoints {
		if err := validateURL(name, value); err != nil {
			return err
		}
	}

	secrets := map[string]string{
		"WEBACY_API_KEY":    c.Upstream.WebacyAPIKey,
		"VYBE_API_KEY":      c.Upstream.VybeAPIKey,
		"SOLSCAN_API_TOKEN": c.Upstream.SolscanAPIToken,
		"MESSARI_API_KEY":   c.Upstream.MessariAPIKey,
	}
	for name, value := range secrets {
		if strings.TrimSpace(value) == "" {
			return errors.NewValidationError(name, "must not be blank", "")
		}
	}

	if c.Solana.MaxRetries < 0 {
		return errors.NewValidationError("RPC_MAX_RETRIES", "must not be negative", c.Solana.MaxRetries)
	}
	if c.Solana.InitialRetryDelay <= 0 {
		return errors.NewValidationError("RPC_INITIAL_RETRY_DELAY", "must be positive", c.Solana.InitialRetryDelay)
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return errors.NewValidationError("AUTH_JWT_SECRET", "must be at least 32 characters", "")
	}
	if c.Upstream.RequestsPerMinute <= 0 {
		return errors.NewValidationError("UPSTREAM_REQUESTS_PER_MINUTE", "must be positive", c.Upstream.RequestsPerMinute)
	}

	return nil
}

func validateURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewValidationError(name, "must be an absolute http(s) URL", raw)
	}
	return nil
}
