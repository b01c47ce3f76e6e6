package bootstrap

import (
	"context"
	"sync"
	"time"

	redisclient "solsight/internal/adapters/redis"
	"solsight/internal/api"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

// Lifecycle manages graceful startup and shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
	httpTimeout     time.Duration
	drainTimeout    time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 30 * time.Second,
		httpTimeout:     15 * time.Second,
		drainTimeout:    5 * time.Second,
	}
}

// Shutdown performs coordinated cleanup of all components in order:
// 1. No new requests accepted, in-flight ones drained
// 2. Server goroutines finished
// 3. Errors and logs flushed
// 4. Redis closed last (in-flight handlers may still read the cache)
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	httpServer *api.Server,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	// ========================================
	// Step 1: Stop HTTP Server
	// ========================================
	log.Info("[1/5] Stopping HTTP server...")
	if httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, l.httpTimeout)
		if err := httpServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		}
		httpCancel()
	}

	// ========================================
	// Step 2: Wait for server goroutines
	// ========================================
	log.Info("[2/5] Waiting for goroutines...")
	l.waitForGoroutines(wg, l.drainTimeout, log)

	// ========================================
	// Step 3: Flush Error Tracker
	// ========================================
	log.Info("[3/5] Flushing error tracker...")
	l.flushErrorTracker(shutdownCtx, errorTracker, log)

	// ========================================
	// Step 4: Sync Logs
	// ========================================
	log.Info("[4/5] Syncing logs...")
	if err := logger.Sync(); err != nil {
		log.Warn("Log sync completed with warnings")
	} else {
		log.Info("✓ Logs synced")
	}

	// ========================================
	// Step 5: Close Redis
	// ========================================
	log.Info("[5/5] Closing Redis...")
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorw("Redis close failed", "error", err)
		} else {
			log.Info("✓ Redis closed")
		}
	}

	log.Info("✅ Graceful shutdown complete")
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	if wg == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("✓ All goroutines finished")
	case <-time.After(timeout):
		log.Warnw("⚠ Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes the error tracker (Sentry, etc.)
func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	} else {
		log.Info("✓ Error tracker flushed")
	}
}
