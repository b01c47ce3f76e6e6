package market

import (
	"context"
	"encoding/json"

	"solsight/internal/adapters/cache"
	"solsight/internal/domain/market"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

// Service serves cluster-wide market information
type Service struct {
	chain   market.ChainInfoSource
	signals market.SignalSource
	cache   *cache.ResponseCache
	log     *logger.Logger
}

// NewService creates the market service. cache may be nil.
func NewService(chain market.ChainInfoSource, signals market.SignalSource, cache *cache.ResponseCache, log *logger.Logger) *Service {
	return &Service{
		chain:   chain,
		signals: signals,
		cache:   cache,
		log:     log.With("service", "market"),
	}
}

// GetChainInfo always returns a response; on failure Success is false and
// Data is zero-filled
func (s *Service) GetChainInfo(ctx context.Context) market.ChainInfoResponse {
	res := s.chain.GetChainInfo(ctx)
	if res.IsOK() {
		return market.ChainInfoResponse{Success: true, Data: res.Value}
	}

	msg := res.Message
	if res.Soft != nil {
		msg = res.Soft.Error
	}
	s.log.FromContext(ctx).Warnw("Chain info unavailable", "error", msg, "status", res.Status)

	return market.ChainInfoResponse{Success: false, Error: msg}
}

// GetMindshare returns the social mindshare signal for SOL
func (s *Service) GetMindshare(ctx context.Context) upstream.Result[json.RawMessage] {
	return cache.Remember(ctx, s.cache, "mindshare", []string{"sol"}, s.signals.GetMindshare)
}

// GetDexMetrics returns top decentralized exchange metrics
func (s *Service) GetDexMetrics(ctx context.Context) upstream.Result[json.RawMessage] {
	return cache.Remember(ctx, s.cache, "dex_metrics", []string{"top"}, s.signals.GetDexMetrics)
}
