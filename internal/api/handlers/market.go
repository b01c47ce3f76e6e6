package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"solsight/internal/domain/market"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

// MarketService exposes chain-wide metrics
type MarketService interface {
	GetChainInfo(ctx context.Context) market.ChainInfoResponse
	GetMindshare(ctx context.Context) upstream.Result[json.RawMessage]
	GetDexMetrics(ctx context.Context) upstream.Result[json.RawMessage]
}

// Market serves chain and market routes
type Market struct {
	svc MarketService
	log *logger.Logger
}

// NewMarket creates the market handler
func NewMarket(svc MarketService, log *logger.Logger) *Market {
	return &Market{svc: svc, log: log.With("handler", "market")}
}

// ChainInfo handles GET /api/solana/chaininfo
func (h *Market) ChainInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetChainInfo(r.Context()))
}

// Mindshare handles GET /api/solana/mindshare
func (h *Market) Mindshare(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.svc.GetMindshare(r.Context()))
}

// DexMetrics handles GET /api/dex/metrics
func (h *Market) DexMetrics(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.svc.GetDexMetrics(r.Context()))
}
