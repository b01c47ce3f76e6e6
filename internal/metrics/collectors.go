package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// PoolStatsSource exposes connection pool counters
type PoolStatsSource interface {
	PoolStats() *redis.PoolStats
}

// PoolCollector exports Redis connection pool statistics
type PoolCollector struct {
	source PoolStatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

// NewPoolCollector creates a collector reading from source
func NewPoolCollector(source PoolStatsSource) *PoolCollector {
	return &PoolCollector{
		source: source,

		hits: prometheus.NewDesc(
			"solsight_redis_pool_hits_total",
			"Times a free connection was found in the pool",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			"solsight_redis_pool_misses_total",
			"Times a free connection was not found in the pool",
			nil, nil,
		),
		timeouts: prometheus.NewDesc(
			"solsight_redis_pool_timeouts_total",
			"Times a wait for a connection timed out",
			nil, nil,
		),
		totalConns: prometheus.NewDesc(
			"solsight_redis_pool_connections",
			"Connections currently in the pool",
			nil, nil,
		),
		idleConns: prometheus.NewDesc(
			"solsight_redis_pool_idle_connections",
			"Idle connections in the pool",
			nil, nil,
		),
		staleConns: prometheus.NewDesc(
			"solsight_redis_pool_stale_connections_total",
			"Stale connections removed from the pool",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

// Collect implements prometheus.Collector
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.PoolStats()
	if stats == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(stats.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.CounterValue, float64(stats.StaleConns))
}

// RegisterPoolCollector registers a pool collector for source
func RegisterPoolCollector(source PoolStatsSource) error {
	return prometheus.Register(NewPoolCollector(source))
}
