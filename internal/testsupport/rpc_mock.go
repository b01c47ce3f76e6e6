package testsupport

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
)

// MockRPC is a testify mock of the Solana JSON-RPC methods the service calls
type MockRPC struct {
	mock.Mock
}

func (m *MockRPC) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetAccountInfoResult), args.Error(1)
}

func (m *MockRPC) GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	args := m.Called(ctx, owner, conf, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetTokenAccountsResult), args.Error(1)
}

func (m *MockRPC) GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenLargestAccountsResult, error) {
	args := m.Called(ctx, mint, commitment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetTokenLargestAccountsResult), args.Error(1)
}

func (m *MockRPC) GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error) {
	args := m.Called(ctx, account, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rpc.TransactionSignature), args.Error(1)
}

func (m *MockRPC) GetParsedTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetParsedTransactionOpts) (*rpc.GetParsedTransactionResult, error) {
	args := m.Called(ctx, sig, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetParsedTransactionResult), args.Error(1)
}

func (m *MockRPC) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	args := m.Called(ctx, account, commitment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetBalanceResult), args.Error(1)
}

func (m *MockRPC) GetHealth(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
