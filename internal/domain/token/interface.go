package token

import (
	"context"
	"encoding/json"

	"solsight/pkg/upstream"
)

// PairsSource lists DEX pairs for a token. It is the load-bearing source of
// an analysis: a Hard result aborts the request.
type PairsSource interface {
	GetPairs(ctx context.Context, address string) upstream.Result[PairsPage]
}

// DecentralizationSource fetches holder-map metadata
type DecentralizationSource interface {
	GetDecentralization(ctx context.Context, address string) upstream.Result[Decentralization]
}

// DexPaidSource fetches DEX paid-listing status
type DexPaidSource interface {
	GetDexPaidStatus(ctx context.Context, address string) upstream.Result[DexPaidStatus]
}

// RugCheckSource fetches a rug-check report, passed through as received
type RugCheckSource interface {
	GetReport(ctx context.Context, address string) upstream.Result[json.RawMessage]
}
