package market

import (
	"context"
	"encoding/json"

	"solsight/pkg/upstream"
)

// ChainInfoSource reports cluster-wide chain statistics
type ChainInfoSource interface {
	GetChainInfo(ctx context.Context) upstream.Result[ChainInfo]
}

// SignalSource reports social mindshare and DEX market metrics
type SignalSource interface {
	GetMindshare(ctx context.Context) upstream.Result[json.RawMessage]
	GetDexMetrics(ctx context.Context) upstream.Result[json.RawMessage]
}
