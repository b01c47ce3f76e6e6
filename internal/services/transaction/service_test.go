package transaction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"solsight/internal/adapters/retry"
	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/transaction"
	"solsight/internal/testsupport"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

func newService(t *testing.T) (*Service, *testsupport.MockRPC) {
	t.Helper()
	m := new(testsupport.MockRPC)
	client := solanarpc.NewClientWithRPC(m, retry.DefaultConfig(), logger.NewNop())
	return NewService(client, logger.NewNop()), m
}

func fixture(t *testing.T, sig solana.Signature, payer, dest solana.PublicKey, meta string) *rpc.GetParsedTransactionResult {
	t.Helper()
	raw := fmt.Sprintf(`{
		"slot": 250000000,
		"blockTime": 1700000000,
		"transaction": {
			"signatures": [%q],
			"message": {
				"accountKeys": [
					{"pubkey": %q, "signer": true, "writable": true, "source": "transaction"},
					{"pubkey": %q, "signer": false, "writable": true, "source": "transaction"},
					{"pubkey": "11111111111111111111111111111111", "signer": false, "writable": false, "source": "transaction"}
				],
				"instructions": [
					{"program": "system", "programId": "11111111111111111111111111111111",
					 "parsed": {"type": "transfer", "info": {"source": %q, "destination": %q, "lamports": 1000000}}},
					{"programId": "ComputeBudget111111111111111111111111111111", "accounts": [], "data": "3DdGGhkhJbjm"}
				]
			}
		},
		"meta": %s
	}`, sig, payer, dest, payer, dest, meta)

	var out rpc.GetParsedTransactionResult
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return &out
}

func TestGetDetails_Formats(t *testing.T) {
	s, m := newService(t)
	sig := testsupport.NewSignature()
	payer, dest := testsupport.NewPublicKey(), testsupport.NewPublicKey()

	tx := fixture(t, sig, payer, dest, `{"err": null, "fee": 5000, "logMessages": ["Program 11111111111111111111111111111111 invoke [1]", "Program 11111111111111111111111111111111 success"]}`)
	m.On("GetParsedTransaction", mock.Anything, sig, mock.Anything).Return(tx, nil)

	d, err := s.GetDetails(context.Background(), sig.String())
	require.NoError(t, err)

	assert.Equal(t, sig.String(), d.Signature)
	require.NotNil(t, d.BlockTime)
	assert.Equal(t, time.Unix(1700000000, 0).UTC().Format(isoTimeFormat), *d.BlockTime)
	assert.Equal(t, transaction.StatusSuccess, d.Status)
	require.NotNil(t, d.Fee)
	assert.Equal(t, 0.000005, *d.Fee)
	assert.Equal(t, uint64(250000000), d.Slot)
	assert.Nil(t, d.Error)
	assert.Len(t, d.Logs, 2)

	require.Len(t, d.Accounts, 3)
	assert.Equal(t, transaction.Account{Pubkey: payer.String(), Signer: true, Writable: true}, d.Accounts[0])
	assert.Equal(t, transaction.Account{Pubkey: "11111111111111111111111111111111"}, d.Accounts[2])

	require.Len(t, d.Instructions, 2)
	transfer := d.Instructions[0]
	assert.Equal(t, "11111111111111111111111111111111", transfer.ProgramID)
	assert.Equal(t, "transfer", transfer.Type)
	info, ok := transfer.Info.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, payer.String(), info["source"])
	assert.Nil(t, transfer.Data)

	binary := d.Instructions[1]
	assert.Equal(t, transaction.TypeBinary, binary.Type)
	require.NotNil(t, binary.Data)
	assert.Equal(t, "3DdGGhkhJbjm", *binary.Data)
	assert.Nil(t, binary.Info)
}

func TestGetDetails_FailedTransaction(t *testing.T) {
	s, m := newService(t)
	sig := testsupport.NewSignature()

	tx := fixture(t, sig, testsupport.NewPublicKey(), testsupport.NewPublicKey(),
		`{"err": {"InstructionError": [0, {"Custom": 1}]}, "fee": 0, "logMessages": null}`)
	m.On("GetParsedTransaction", mock.Anything, sig, mock.Anything).Return(tx, nil)

	d, err := s.GetDetails(context.Background(), sig.String())
	require.NoError(t, err)

	assert.Equal(t, transaction.StatusFailed, d.Status)
	require.NotNil(t, d.Error)
	assert.JSONEq(t, `{"InstructionError":[0,{"Custom":1}]}`, *d.Error)
	assert.Nil(t, d.Fee)
	assert.NotNil(t, d.Logs)
	assert.Empty(t, d.Logs)

	body, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"fee":null`)
	assert.Contains(t, string(body), `"logs":[]`)
}

func TestGetDetails_NotFound(t *testing.T) {
	for name, result := range map[string][]any{
		"rpc not found": {nil, rpc.ErrNotFound},
		"null result":   {nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			s, m := newService(t)
			sig := testsupport.NewSignature()
			m.On("GetParsedTransaction", mock.Anything, sig, mock.Anything).Return(result...)

			_, err := s.GetDetails(context.Background(), sig.String())

			require.Error(t, err)
			assert.Equal(t, http.StatusNotFound, errors.StatusOf(err))
			assert.ErrorIs(t, err, errors.ErrNotFound)

			var upErr *errors.UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, "Transaction not found", upErr.Message)
		})
	}
}

func TestGetDetails_InvalidSignature(t *testing.T) {
	s, m := newService(t)

	_, err := s.GetDetails(context.Background(), "not-a-signature")

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, errors.StatusOf(err))
	m.AssertNotCalled(t, "GetParsedTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDetails_RPCError(t *testing.T) {
	s, m := newService(t)
	sig := testsupport.NewSignature()
	m.On("GetParsedTransaction", mock.Anything, sig, mock.Anything).Return(nil, errors.New("dial tcp: i/o timeout"))

	_, err := s.GetDetails(context.Background(), sig.String())

	var upErr *errors.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusInternalServerError, upErr.Status)
	assert.Contains(t, upErr.Message, "timed out")
	m.AssertNumberOfCalls(t, "GetParsedTransaction", 1)
}
