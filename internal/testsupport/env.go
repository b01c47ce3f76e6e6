package testsupport

import (
	"fmt"
	"os"
	"testing"

	"solsight/internal/adapters/config"
)

// LoadRedisConfigFromEnv reads the Redis section for integration tests.
// Tests are skipped when REDIS_HOST is not set.
func LoadRedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("integration environment missing, set REDIS_HOST to run")
	}

	return config.RedisConfig{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     intValue("REDIS_PORT", 6379),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       intValue("REDIS_DB", 0),
	}
}

// SetRequiredEnv sets every variable config.Load refuses to start without
func SetRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("SOLANA_RPC_ENDPOINT", "https://rpc.test.local")
	t.Setenv("WEBACY_API_KEY", "test-webacy-key")
	t.Setenv("VYBE_API_KEY", "test-vybe-key")
	t.Setenv("SOLSCAN_API_TOKEN", "test-solscan-token")
	t.Setenv("MESSARI_API_KEY", "test-messari-key")
}

func intValue(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		_, err := fmt.Sscanf(val, "%d", &parsed)
		if err == nil {
			return parsed
		}
	}

	return fallback
}
