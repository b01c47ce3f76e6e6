package wallet

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"solsight/internal/adapters/cache"
	"solsight/internal/domain/wallet"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

// DefaultPNLResolution is used when the caller does not pick one
const DefaultPNLResolution = "7d"

// RPC is the part of the Solana access layer wallet lookups need
type RPC interface {
	GetParsedTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey) (*rpc.GetTokenAccountsResult, error)
	GetSignaturesForAddress(ctx context.Context, account solana.PublicKey, limit int) ([]*rpc.TransactionSignature, error)
	GetParsedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetParsedTransactionResult, error)
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
}

// Service answers wallet questions from the chain and from external risk
// and PNL providers
type Service struct {
	rpc   RPC
	risk  wallet.RiskSource
	pnl   wallet.PNLSource
	cache *cache.ResponseCache
	log   *logger.Logger
	now   func() time.Time
}

// NewService creates the wallet service. cache may be nil.
func NewService(
	rpc RPC,
	risk wallet.RiskSource,
	pnl wallet.PNLSource,
	cache *cache.ResponseCache,
	log *logger.Logger,
) *Service {
	return &Service{
		rpc:   rpc,
		risk:  risk,
		pnl:   pnl,
		cache: cache,
		log:   log.With("service", "wallet"),
		now:   time.Now,
	}
}

// GetRisk returns the external risk report for address
func (s *Service) GetRisk(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	return s.risk.GetRisk(ctx, address)
}

// GetSanctioned returns the external sanctions screening for address
func (s *Service) GetSanctioned(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	return s.risk.GetSanctioned(ctx, address)
}

// GetPNL returns trading PNL for address over resolution. Successful
// reports are cached.
func (s *Service) GetPNL(ctx context.Context, address, resolution string) upstream.Result[json.RawMessage] {
	if resolution == "" {
		resolution = DefaultPNLResolution
	}

	return cache.Remember(ctx, s.cache, "pnl", []string{address, resolution},
		func(ctx context.Context) upstream.Result[json.RawMessage] {
			return s.pnl.GetPNL(ctx, address, resolution)
		},
	)
}

// parseAddress turns a user-supplied wallet address into a public key
func parseAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, errors.NewValidationError("address", "Invalid Solana address format", address)
	}
	return pk, nil
}
