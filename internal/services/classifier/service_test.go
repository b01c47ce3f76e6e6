package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"solsight/internal/domain/address"
	"solsight/internal/testsupport"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

type mockRPC struct {
	mock.Mock
}

func (m *mockRPC) GetParsedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetParsedTransactionResult, error) {
	args := m.Called(ctx, sig)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetParsedTransactionResult), args.Error(1)
}

func (m *mockRPC) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetAccountInfoResult), args.Error(1)
}

func (m *mockRPC) GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey) (*rpc.GetTokenLargestAccountsResult, error) {
	args := m.Called(ctx, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.GetTokenLargestAccountsResult), args.Error(1)
}

func accountOwnedBy(owner solana.PublicKey) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{Value: &rpc.Account{Owner: owner}}
}

func newService(m *mockRPC) *Service {
	return NewService(m, logger.NewNop())
}

func TestClassify_Empty(t *testing.T) {
	m := &mockRPC{}
	s := newService(m)

	for _, input := range []string{"", "   ", "\t\n"} {
		res := s.Classify(context.Background(), input)
		assert.Equal(t, address.Invalid("Address cannot be empty"), res)
	}
	m.AssertExpectations(t)
}

func TestClassify_EthereumAddress(t *testing.T) {
	m := &mockRPC{}
	res := newService(m).Classify(context.Background(), "0x1234567890123456789012345678901234567890")

	assert.False(t, res.IsValid)
	assert.Equal(t, address.KindInvalid, res.Kind)
	assert.Contains(t, res.Error, "Ethereum addresses are not supported")
	m.AssertNotCalled(t, "GetAccountInfo", mock.Anything, mock.Anything)
}

func TestClassify_SignatureFound(t *testing.T) {
	m := &mockRPC{}
	sig := testsupport.NewSignature()
	m.On("GetParsedTransaction", mock.Anything, sig).
		Return(&rpc.GetParsedTransactionResult{Slot: 42, Transaction: &rpc.ParsedTransaction{}}, nil)

	res := newService(m).Classify(context.Background(), sig.String())

	assert.Equal(t, address.Valid(address.KindTransaction), res)
	m.AssertExpectations(t)
}

func TestClassify_SignatureNeverFallsThroughToAccountChecks(t *testing.T) {
	cases := map[string]func(m *mockRPC, sig solana.Signature){
		"not found": func(m *mockRPC, sig solana.Signature) {
			m.On("GetParsedTransaction", mock.Anything, sig).Return(nil, rpc.ErrNotFound)
		},
		"null result": func(m *mockRPC, sig solana.Signature) {
			m.On("GetParsedTransaction", mock.Anything, sig).Return(nil, nil)
		},
		"rpc failure": func(m *mockRPC, sig solana.Signature) {
			m.On("GetParsedTransaction", mock.Anything, sig).Return(nil, errors.New("connection refused"))
		},
	}

	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			m := &mockRPC{}
			sig := testsupport.NewSignature()
			setup(m, sig)

			res := newService(m).Classify(context.Background(), sig.String())

			assert.Equal(t, address.Invalid("Transaction signature not found on-chain"), res)
			m.AssertNotCalled(t, "GetAccountInfo", mock.Anything, mock.Anything)
			m.AssertNotCalled(t, "GetTokenLargestAccounts", mock.Anything, mock.Anything)
		})
	}
}

func TestClassify_UndecodableSignatureShape(t *testing.T) {
	m := &mockRPC{}
	// Valid base58 alphabet and length, but decodes to more than 64 bytes
	input := strings.Repeat("z", 120)

	res := newService(m).Classify(context.Background(), input)

	assert.Equal(t, address.KindInvalid, res.Kind)
	assert.Equal(t, "Transaction signature not found on-chain", res.Error)
	m.AssertNotCalled(t, "GetParsedTransaction", mock.Anything, mock.Anything)
}

func TestClassify_InvalidFormat(t *testing.T) {
	m := &mockRPC{}
	for _, input := range []string{"not-an-address", "0OIl", "abc"} {
		res := newService(m).Classify(context.Background(), input)
		assert.Equal(t, address.Invalid("Invalid Solana address format"), res, input)
	}
	m.AssertNotCalled(t, "GetAccountInfo", mock.Anything, mock.Anything)
}

func TestClassify_MissingAccountIsWallet(t *testing.T) {
	m := &mockRPC{}
	pk := testsupport.NewPublicKey()
	m.On("GetAccountInfo", mock.Anything, pk).Return(nil, rpc.ErrNotFound)

	res := newService(m).Classify(context.Background(), "  "+pk.String()+" ")

	assert.Equal(t, address.Valid(address.KindWallet), res)
	m.AssertNotCalled(t, "GetTokenLargestAccounts", mock.Anything, mock.Anything)
}

func TestClassify_TokenProgramOwnerIsToken(t *testing.T) {
	m := &mockRPC{}
	pk := testsupport.NewPublicKey()
	m.On("GetAccountInfo", mock.Anything, pk).Return(accountOwnedBy(solana.TokenProgramID), nil)

	res := newService(m).Classify(context.Background(), pk.String())

	assert.Equal(t, address.Valid(address.KindToken), res)
	m.AssertNotCalled(t, "GetTokenLargestAccounts", mock.Anything, mock.Anything)
}

func TestClassify_LargestAccountsProbe(t *testing.T) {
	holder := testsupport.NewPublicKey()

	cases := []struct {
		name   string
		result *rpc.GetTokenLargestAccountsResult
		err    error
		want   address.Kind
	}{
		{
			name:   "holders found",
			result: &rpc.GetTokenLargestAccountsResult{Value: []*rpc.TokenLargestAccountsResult{{Address: holder}}},
			want:   address.KindToken,
		},
		{
			name:   "no holders",
			result: &rpc.GetTokenLargestAccountsResult{},
			want:   address.KindWallet,
		},
		{
			name: "not a mint",
			err:  &errors.UpstreamError{Service: "solana", Status: 500, Message: "Invalid param: not a Token mint"},
			want: address.KindWallet,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &mockRPC{}
			pk := testsupport.NewPublicKey()
			m.On("GetAccountInfo", mock.Anything, pk).Return(accountOwnedBy(solana.SystemProgramID), nil)
			if tc.err != nil {
				m.On("GetTokenLargestAccounts", mock.Anything, pk).Return(nil, tc.err)
			} else {
				m.On("GetTokenLargestAccounts", mock.Anything, pk).Return(tc.result, nil)
			}

			res := newService(m).Classify(context.Background(), pk.String())

			assert.True(t, res.IsValid)
			assert.Equal(t, tc.want, res.Kind)
			assert.Empty(t, res.Error)
			m.AssertExpectations(t)
		})
	}
}

func TestClassify_UnexpectedErrorBecomesInvalid(t *testing.T) {
	m := &mockRPC{}
	pk := testsupport.NewPublicKey()
	rateLimited := &errors.RateLimitError{Op: "getAccountInfo", Attempts: 4, Err: errors.New("429 Too Many Requests")}
	m.On("GetAccountInfo", mock.Anything, pk).Return(nil, rateLimited)

	res := newService(m).Classify(context.Background(), pk.String())

	assert.False(t, res.IsValid)
	assert.Equal(t, address.KindInvalid, res.Kind)
	assert.Equal(t, "The Solana network is currently busy. Please try again in a moment.", res.Error)
	assert.NotContains(t, res.Error, "429")
}

func TestClassify_UnexpectedErrorIsDescribed(t *testing.T) {
	m := &mockRPC{}
	pk := testsupport.NewPublicKey()
	m.On("GetAccountInfo", mock.Anything, pk).Return(nil, errors.New("dial tcp: connection refused"))

	res := newService(m).Classify(context.Background(), pk.String())

	assert.False(t, res.IsValid)
	assert.Equal(t, address.KindInvalid, res.Kind)
	assert.Equal(t, "Unable to connect to Solana network. Please check your internet connection.", res.Error)
}

func TestClassify_NeverReturnsValidWithError(t *testing.T) {
	m := &mockRPC{}
	m.On("GetAccountInfo", mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
	m.On("GetParsedTransaction", mock.Anything, mock.Anything).Return(nil, rpc.ErrNotFound)
	s := newService(m)

	inputs := []string{
		"",
		"0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		testsupport.NewPublicKey().String(),
		testsupport.NewSignature().String(),
		"hello world",
	}
	for _, input := range inputs {
		res := s.Classify(context.Background(), input)
		if res.IsValid {
			assert.NotEqual(t, address.KindInvalid, res.Kind)
			assert.Empty(t, res.Error)
		} else {
			assert.Equal(t, address.KindInvalid, res.Kind)
			assert.NotEmpty(t, res.Error)
		}
	}
}
