package main

import (
	"os"
	"os/signal"
	"syscall"

	"solsight/internal/bootstrap"
	"solsight/pkg/logger"
)

func main() {
	c := bootstrap.NewContainer()
	c.MustInit()
	defer logger.Sync()

	if err := c.Start(); err != nil {
		c.Log.Fatalf("Failed to start: %v", err)
	}

	waitForShutdown(c)
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// shuts everything down
func waitForShutdown(c *bootstrap.Container) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		c.Log.Infow("Shutdown signal received", "signal", sig.String())
	case <-c.Context.Done():
		c.Log.Warn("Context cancelled, shutting down")
	}

	c.Shutdown()
}
