package analysis

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"solsight/internal/domain/token"
	"solsight/internal/metrics"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/reqctx"
	"solsight/pkg/upstream"
)

// pairsService names the load-bearing source in upstream errors
const pairsService = "checkdex"

// Service aggregates pairs, decentralization and DEX paid status into one
// token analysis. Pairs are load-bearing; the other two are best effort.
type Service struct {
	pairs            token.PairsSource
	decentralization token.DecentralizationSource
	dexPaid          token.DexPaidSource
	log              *logger.Logger
}

// NewService creates the token analysis aggregator
func NewService(
	pairs token.PairsSource,
	decentralization token.DecentralizationSource,
	dexPaid token.DexPaidSource,
	log *logger.Logger,
) *Service {
	return &Service{
		pairs:            pairs,
		decentralization: decentralization,
		dexPaid:          dexPaid,
		log:              log.With("service", "token_analysis"),
	}
}

// Analyze fetches all three sources concurrently and derives analytics from
// the pair list. Only a failed pairs fetch is returned as an error, as an
// *errors.UpstreamError carrying the upstream status.
func (s *Service) Analyze(ctx context.Context, address string) (resp *token.AnalysisResponse, err error) {
	start := time.Now()
	defer func() { metrics.RecordAnalysis(time.Since(start), err) }()

	if address == "" {
		return nil, errors.NewValidationError("address", "Token address is required", address)
	}

	var (
		pairsRes   upstream.Result[token.PairsPage]
		decentRes  upstream.Result[token.Decentralization]
		dexPaidRes upstream.Result[token.DexPaidStatus]
	)

	// Supplementary lookups are internal calls and skip the API gate
	internal := reqctx.WithBypass(ctx)

	// Every source folds its failures into the result, so no goroutine
	// returns an error and none cancels its siblings.
	var g errgroup.Group
	g.Go(func() error {
		pairsRes = s.pairs.GetPairs(ctx, address)
		return nil
	})
	g.Go(func() error {
		decentRes = s.decentralization.GetDecentralization(internal, address)
		return nil
	})
	g.Go(func() error {
		dexPaidRes = s.dexPaid.GetDexPaidStatus(internal, address)
		return nil
	})
	_ = g.Wait()

	log := s.log.FromContext(ctx)

	if !pairsRes.IsOK() {
		log.Warnw("Token analysis failed",
			"address", address,
			"status", pairsRes.Status,
			"message", pairsRes.Message,
		)
		if e := pairsRes.Err(pairsService); e != nil {
			return nil, e
		}
		return nil, errors.NewUpstreamError(pairsService, pairsRes.Status, pairsRes.Message, nil)
	}

	page := pairsRes.Value
	pairs := page.Pairs
	if pairs == nil {
		pairs = []token.Pair{}
	}

	resp = &token.AnalysisResponse{
		TokenInfo:        ExtractTokenInfo(pairs, address),
		Pairs:            pairs,
		Analytics:        DeriveAnalytics(pairs),
		Decentralization: decentRes.Payload(),
		DexVerification:  dexPaidRes.Payload(),
		PageSize:         page.PageSize,
		Page:             page.Page,
		Cursor:           page.Cursor,
	}

	log.Infow("Token analysis complete",
		"address", address,
		"pairs", len(pairs),
		"liquidity_usd", humanize.Commaf(resp.Analytics.TotalLiquidity),
		"volume_24h_usd", humanize.Commaf(resp.Analytics.TotalVolume),
		"risk_score", resp.Analytics.RiskScore,
		"decentralization", decentRes.Kind.String(),
		"dex_paid", dexPaidRes.Kind.String(),
		"duration", time.Since(start),
	)

	return resp, nil
}
