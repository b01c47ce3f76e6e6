package wallet

import (
	"context"
	"encoding/json"

	"solsight/pkg/upstream"
)

// RiskSource scores wallets and screens them against sanctions lists
type RiskSource interface {
	GetRisk(ctx context.Context, address string) upstream.Result[json.RawMessage]
	GetSanctioned(ctx context.Context, address string) upstream.Result[json.RawMessage]
}

// PNLSource reports realised and unrealised trading PNL of a wallet
type PNLSource interface {
	GetPNL(ctx context.Context, address, resolution string) upstream.Result[json.RawMessage]
}
