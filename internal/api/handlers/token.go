package handlers

import (
	"context"
	"net/http"

	"solsight/internal/domain/token"
	"solsight/pkg/logger"
)

const tokenAddressRequired = "Token address is required"

// Analyzer builds the combined token analysis
type Analyzer interface {
	Analyze(ctx context.Context, address string) (*token.AnalysisResponse, error)
}

// TokenSources are the per-source token lookups exposed directly
type TokenSources struct {
	Pairs            token.PairsSource
	Decentralization token.DecentralizationSource
	DexPaid          token.DexPaidSource
	RugCheck         token.RugCheckSource
}

// Token serves token routes
type Token struct {
	analyzer Analyzer
	sources  TokenSources
	log      *logger.Logger
}

// NewToken creates the token handler
func NewToken(analyzer Analyzer, sources TokenSources, log *logger.Logger) *Token {
	return &Token{
		analyzer: analyzer,
		sources:  sources,
		log:      log.With("handler", "token"),
	}
}

// Analysis handles GET /api/token/analysis?address=
func (h *Token) Analysis(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", tokenAddressRequired)
	if !ok {
		return
	}

	resp, err := h.analyzer.Analyze(r.Context(), addr)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Pairs handles GET /api/token/pairs?address=
func (h *Token) Pairs(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", tokenAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.sources.Pairs.GetPairs(r.Context(), addr))
}

// Decentralization handles GET /api/token/decentralization?address=
func (h *Token) Decentralization(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", tokenAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.sources.Decentralization.GetDecentralization(r.Context(), addr))
}

// DexVerification handles GET /api/token/dex-verification?address=
func (h *Token) DexVerification(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", tokenAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.sources.DexPaid.GetDexPaidStatus(r.Context(), addr))
}

// RugCheck handles GET /api/token/rugcheck?address=
func (h *Token) RugCheck(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", tokenAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.sources.RugCheck.GetReport(r.Context(), addr))
}
