package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"solsight/internal/adapters/cache"
	"solsight/internal/adapters/config"
	"solsight/internal/adapters/retry"
	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/wallet"
	"solsight/internal/testsupport"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

type mockRiskSource struct {
	mock.Mock
}

func (m *mockRiskSource) GetRisk(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	return m.Called(ctx, address).Get(0).(upstream.Result[json.RawMessage])
}

func (m *mockRiskSource) GetSanctioned(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	return m.Called(ctx, address).Get(0).(upstream.Result[json.RawMessage])
}

type mockPNLSource struct {
	mock.Mock
}

func (m *mockPNLSource) GetPNL(ctx context.Context, address, resolution string) upstream.Result[json.RawMessage] {
	return m.Called(ctx, address, resolution).Get(0).(upstream.Result[json.RawMessage])
}

type fixture struct {
	rpc  *testsupport.MockRPC
	risk *mockRiskSource
	pnl  *mockPNLSource
	svc  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	m := new(testsupport.MockRPC)
	noSleep := retry.WithSleeper(func(context.Context, time.Duration) error { return nil })
	client := solanarpc.NewClientWithRPC(m, retry.DefaultConfig(), logger.NewNop(), noSleep)

	f := &fixture{rpc: m, risk: new(mockRiskSource), pnl: new(mockPNLSource)}
	f.svc = NewService(client, f.risk, f.pnl, nil, logger.NewNop())
	return f
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func signatureEntry(sig solana.Signature, blockTime int64, failed bool) string {
	errField := "null"
	if failed {
		errField = `{"InstructionError":[0,"Custom"]}`
	}
	return fmt.Sprintf(`{"signature":%q,"slot":100,"blockTime":%d,"err":%s}`, sig.String(), blockTime, errField)
}

func parsedTransaction(sig solana.Signature, blockTime int64, failed bool, logs []string, instructions string) string {
	errField := "null"
	if failed {
		errField = `{"InstructionError":[0,"Custom"]}`
	}
	logJSON, _ := json.Marshal(logs)
	return fmt.Sprintf(`{
		"slot": 100,
		"blockTime": %d,
		"transaction": {
			"signatures": [%q],
			"message": {"accountKeys": [], "instructions": %s}
		},
		"meta": {"err": %s, "fee": 5000, "logMessages": %s}
	}`, blockTime, sig.String(), instructions, errField, logJSON)
}

func transferInstructionJSON(source, destination string, lamports uint64) string {
	return fmt.Sprintf(`{
		"program": "system",
		"programId": "11111111111111111111111111111111",
		"parsed": {"type": "transfer", "info": {"source": %q, "destination": %q, "lamports": %d}}
	}`, source, destination, lamports)
}

func TestGetHoldings_FiltersEmptyBalances(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	full := testsupport.NewPublicKey()
	empty := testsupport.NewPublicKey()
	mint := testsupport.NewPublicKey()

	accounts := decode[*rpc.GetTokenAccountsResult](t, fmt.Sprintf(`{
		"context": {"slot": 1},
		"value": [
			{"pubkey": %q, "account": {"lamports": 2039280, "owner": %q, "executable": false, "rentEpoch": 0,
				"data": {"program": "spl-token", "space": 165, "parsed": {"type": "account", "info": {
					"mint": %q, "owner": %q, "tokenAmount": {"amount": "1500000", "decimals": 6, "uiAmount": 1.5, "uiAmountString": "1.5"}}}}}},
			{"pubkey": %q, "account": {"lamports": 2039280, "owner": %q, "executable": false, "rentEpoch": 0,
				"data": {"program": "spl-token", "space": 165, "parsed": {"type": "account", "info": {
					"mint": %q, "owner": %q, "tokenAmount": {"amount": "0", "decimals": 9, "uiAmount": 0, "uiAmountString": "0"}}}}}}
		]
	}`, full, solana.TokenProgramID, mint, owner, empty, solana.TokenProgramID, mint, owner))

	f.rpc.On("GetTokenAccountsByOwner", mock.Anything, owner, mock.Anything, mock.Anything).Return(accounts, nil)

	holdings, err := f.svc.GetHoldings(context.Background(), owner.String())
	require.NoError(t, err)

	assert.Equal(t, owner.String(), holdings.Address)
	require.Len(t, holdings.Tokens, 1)
	assert.Equal(t, wallet.TokenHolding{
		TokenAccount: full.String(),
		Mint:         mint.String(),
		Amount:       1.5,
		Decimals:     6,
	}, holdings.Tokens[0])
}

func TestGetHoldings_InvalidAddress(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetHoldings(context.Background(), "not-a-key")

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err))
	f.rpc.AssertNotCalled(t, "GetTokenAccountsByOwner", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetHoldings_RPCFailure(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	f.rpc.On("GetTokenAccountsByOwner", mock.Anything, owner, mock.Anything, mock.Anything).
		Return(nil, &jsonrpc.RPCError{Code: 429, Message: "Too many requests"})

	_, err := f.svc.GetHoldings(context.Background(), owner.String())

	var upErr *errors.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
	assert.Equal(t, "Failed to fetch wallet tokens", upErr.Message)
	f.rpc.AssertNumberOfCalls(t, "GetTokenAccountsByOwner", 4)
}

func TestGetTransactions_Summaries(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	swap := testsupport.NewSignature()
	failed := testsupport.NewSignature()
	gone := testsupport.NewSignature()

	sigs := decode[[]*rpc.TransactionSignature](t, "["+
		signatureEntry(swap, 1700000000, false)+","+
		signatureEntry(failed, 1700000100, true)+","+
		signatureEntry(gone, 1700000200, false)+"]")

	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.MatchedBy(func(o *rpc.GetSignaturesForAddressOpts) bool {
		return o.Limit != nil && *o.Limit == DefaultTransactionLimit
	})).Return(sigs, nil)
	f.rpc.On("GetParsedTransaction", mock.Anything, swap, mock.Anything).
		Return(decode[*rpc.GetParsedTransactionResult](t, parsedTransaction(swap, 1700000000, false,
			[]string{"Program JUP6 invoke [1]", "Program log: Instruction: Swap"}, "[]")), nil)
	f.rpc.On("GetParsedTransaction", mock.Anything, failed, mock.Anything).
		Return(decode[*rpc.GetParsedTransactionResult](t, parsedTransaction(failed, 1700000100, true, nil, "[]")), nil)
	f.rpc.On("GetParsedTransaction", mock.Anything, gone, mock.Anything).Return(nil, rpc.ErrNotFound)

	out, err := f.svc.GetTransactions(context.Background(), owner.String(), 0)
	require.NoError(t, err)

	require.Len(t, out.Transactions, 2)

	first := out.Transactions[0]
	assert.Equal(t, swap.String(), first.Signature)
	require.NotNil(t, first.Timestamp)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", *first.Timestamp)
	assert.Equal(t, wallet.StatusSuccess, first.Status)
	assert.Equal(t, wallet.TypeSwap, first.Type)
	assert.Equal(t, 0.000005, first.Fee)
	assert.Nil(t, first.Amount)
	assert.Equal(t, "SOL", first.Symbol)

	second := out.Transactions[1]
	assert.Equal(t, wallet.StatusFailed, second.Status)
	assert.Equal(t, wallet.TypeUnknown, second.Type)
}

func TestGetTransactions_FetchFailure(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	sig := testsupport.NewSignature()

	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.Anything).
		Return(decode[[]*rpc.TransactionSignature](t, "["+signatureEntry(sig, 1700000000, false)+"]"), nil)
	f.rpc.On("GetParsedTransaction", mock.Anything, sig, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := f.svc.GetTransactions(context.Background(), owner.String(), 3)

	var upErr *errors.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.Status)
	assert.Equal(t, "Failed to fetch wallet transactions", upErr.Message)
}

func TestClassifyLogs(t *testing.T) {
	cases := map[string]struct {
		logs []string
		want string
	}{
		"none":           {nil, wallet.TypeUnknown},
		"transfer":       {[]string{"Program log: Instruction: Transfer"}, wallet.TypeTransfer},
		"transfer first": {[]string{"Instruction: Swap", "Instruction: Transfer"}, wallet.TypeTransfer},
		"stake":          {[]string{"Program Stake11111111111111111111111111111111111 invoke [1]"}, wallet.TypeStake},
		"create":         {[]string{"Program log: CreateAccount"}, wallet.TypeAccountCreation},
		"close":          {[]string{"Program log: Instruction: CloseAccount"}, wallet.TypeAccountClose},
		"other":          {[]string{"Program ComputeBudget invoke [1]"}, wallet.TypeUnknown},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyLogs(tc.logs))
		})
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 5, clampLimit(0, 5))
	assert.Equal(t, 5, clampLimit(-2, 5))
	assert.Equal(t, 7, clampLimit(7, 5))
	assert.Equal(t, MaxTransactionLimit, clampLimit(10_000, 5))
}

func TestGetFlow_BuildsTransferGraph(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(1700100000, 0).UTC()
	f.svc.now = func() time.Time { return now }

	center := testsupport.NewPublicKey().String()
	peer := testsupport.NewPublicKey().String()
	dust := testsupport.NewPublicKey().String()
	owner := solana.MustPublicKeyFromBase58(center)

	recent := testsupport.NewSignature()
	failed := testsupport.NewSignature()
	old := testsupport.NewSignature()

	sigs := decode[[]*rpc.TransactionSignature](t, "["+
		signatureEntry(recent, now.Add(-time.Hour).Unix(), false)+","+
		signatureEntry(failed, now.Add(-2*time.Hour).Unix(), true)+","+
		signatureEntry(old, now.Add(-40*24*time.Hour).Unix(), false)+"]")

	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.MatchedBy(func(o *rpc.GetSignaturesForAddressOpts) bool {
		return *o.Limit == DefaultFlowLimit
	})).Return(sigs, nil)

	instructions := "[" +
		transferInstructionJSON(center, peer, 2_500_000_000) + "," +
		transferInstructionJSON(peer, center, 500_000_000) + "," +
		transferInstructionJSON(center, dust, 1000) + "," +
		`{"programId": "ComputeBudget111111111111111111111111111111", "data": "3DdGGhkhJbjm"}` + "]"
	f.rpc.On("GetParsedTransaction", mock.Anything, recent, mock.Anything).
		Return(decode[*rpc.GetParsedTransactionResult](t, parsedTransaction(recent, now.Add(-time.Hour).Unix(), false, nil, instructions)), nil)
	f.rpc.On("GetParsedTransaction", mock.Anything, failed, mock.Anything).
		Return(decode[*rpc.GetParsedTransactionResult](t, parsedTransaction(failed, now.Add(-2*time.Hour).Unix(), true, nil,
			"["+transferInstructionJSON(center, peer, 9_000_000_000)+"]")), nil)

	flow, err := f.svc.GetFlow(context.Background(), center, wallet.FlowQuery{MinAmount: 0.01})
	require.NoError(t, err)

	assert.Equal(t, now.Add(-DefaultFlowWindow), flow.DateRange.Start)
	assert.Equal(t, now, flow.DateRange.End)

	require.Len(t, flow.Nodes, 2)
	assert.Equal(t, center, flow.Nodes[0].ID)
	assert.Equal(t, center[:4]+"..."+center[len(center)-4:], flow.Nodes[0].Label)
	assert.Equal(t, 2, flow.Nodes[0].Transactions)
	assert.InDelta(t, 3.0, flow.Nodes[0].Volume, 1e-9)
	assert.Equal(t, peer, flow.Nodes[1].ID)

	require.Len(t, flow.Edges, 2)
	assert.Equal(t, wallet.FlowEdge{
		Source:    center,
		Target:    peer,
		Amount:    2.5,
		Signature: recent.String(),
		Timestamp: flow.Edges[0].Timestamp,
		Type:      wallet.TypeTransfer,
	}, flow.Edges[0])
	require.NotNil(t, flow.Edges[0].Timestamp)
	assert.Equal(t, now.Add(-time.Hour), *flow.Edges[0].Timestamp)

	f.rpc.AssertNotCalled(t, "GetParsedTransaction", mock.Anything, old, mock.Anything)
}

func TestGetFlow_DescribesRPCFailure(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	_, err := f.svc.GetFlow(context.Background(), owner.String(), wallet.FlowQuery{})

	var upErr *errors.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "Unable to connect to Solana network. Please check your internet connection.", upErr.Message)
}

func TestToLamports(t *testing.T) {
	for _, v := range []any{float64(42), json.Number("42"), uint64(42), int64(42), 42, "42"} {
		got, ok := toLamports(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, uint64(42), got)
	}

	for _, v := range []any{nil, -1.0, json.Number("1.5"), "abc", true} {
		_, ok := toLamports(v)
		assert.False(t, ok, "%v", v)
	}
}

func TestGetOverview_CombinesSources(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	addr := owner.String()

	f.risk.On("GetRisk", mock.Anything, addr).Return(upstream.OK(json.RawMessage(`{"overallRisk":33}`)))
	f.risk.On("GetSanctioned", mock.Anything, addr).
		Return(upstream.Soft[json.RawMessage](upstream.SoftError{Error: "Failed to check sanctioned status", Status: 503}))
	f.rpc.On("GetBalance", mock.Anything, owner, rpc.CommitmentConfirmed).
		Return(&rpc.GetBalanceResult{Value: 1_250_000_000}, nil)

	a, b := testsupport.NewSignature(), testsupport.NewSignature()
	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.Anything).
		Return(decode[[]*rpc.TransactionSignature](t, "["+
			signatureEntry(a, 1700000500, false)+","+
			signatureEntry(b, 1700000000, true)+"]"), nil)

	out, err := f.svc.GetOverview(context.Background(), addr)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_250_000_000), out.Lamports)
	assert.Equal(t, 1.25, out.SOLBalance)
	assert.Equal(t, 2, out.RecentTransactions)
	assert.Equal(t, 1, out.FailedTransactions)
	require.NotNil(t, out.LastActivity)
	assert.Equal(t, time.Unix(1700000500, 0).UTC(), *out.LastActivity)
	assert.Empty(t, out.BalanceError)

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"risk":{"overallRisk":33}`)
	assert.Contains(t, string(body), `"sanction":{"error":"Failed to check sanctioned status","status":503}`)
}

func TestGetOverview_RPCFailuresAreEmbedded(t *testing.T) {
	f := newFixture(t)
	owner := testsupport.NewPublicKey()
	addr := owner.String()

	f.risk.On("GetRisk", mock.Anything, addr).Return(upstream.OK(json.RawMessage(`{}`)))
	f.risk.On("GetSanctioned", mock.Anything, addr).Return(upstream.OK(json.RawMessage(`{"is_sanctioned":false}`)))
	f.rpc.On("GetBalance", mock.Anything, owner, mock.Anything).Return(nil, errors.New("context deadline exceeded"))
	f.rpc.On("GetSignaturesForAddressWithOpts", mock.Anything, owner, mock.Anything).
		Return(nil, &jsonrpc.RPCError{Code: 429, Message: "Too many requests"})

	out, err := f.svc.GetOverview(context.Background(), addr)
	require.NoError(t, err)

	assert.Contains(t, out.BalanceError, "timed out")
	assert.Equal(t, "The Solana network is currently busy. Please try again in a moment.", out.ActivityError)
	assert.Zero(t, out.RecentTransactions)
	assert.Nil(t, out.LastActivity)
}

func TestGetPNL_CachesSuccessfulReports(t *testing.T) {
	f := newFixture(t)
	store := &mapStore{data: map[string][]byte{}}
	f.svc.cache = cache.New(config.CacheConfig{Enabled: true, TTL: time.Hour}, store, logger.NewNop())

	f.pnl.On("GetPNL", mock.Anything, "w1", DefaultPNLResolution).
		Return(upstream.OK(json.RawMessage(`{"summary":{"realizedPnlUsd":10}}`))).Once()

	first := f.svc.GetPNL(context.Background(), "w1", "")
	second := f.svc.GetPNL(context.Background(), "w1", "7d")

	require.True(t, first.IsOK())
	require.True(t, second.IsOK())
	assert.JSONEq(t, string(first.Value), string(second.Value))
	f.pnl.AssertNumberOfCalls(t, "GetPNL", 1)
}

func TestGetPNL_NotFoundIsHard(t *testing.T) {
	f := newFixture(t)
	f.pnl.On("GetPNL", mock.Anything, "w1", "30d").
		Return(upstream.Hard[json.RawMessage](http.StatusNotFound, "No PNL data found for this wallet"))

	res := f.svc.GetPNL(context.Background(), "w1", "30d")

	assert.Equal(t, upstream.KindHard, res.Kind)
	assert.Equal(t, http.StatusNotFound, res.Status)
}

type mapStore struct {
	data map[string][]byte
}

func (s *mapStore) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (s *mapStore) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	s.data[key] = raw
	return err
}
