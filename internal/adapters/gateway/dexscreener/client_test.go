package dexscreener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solsight/internal/adapters/gateway"
	"solsight/internal/domain/token"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

func newClient(t *testing.T, status int, contentType, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/v1/solana/mint", r.URL.Path)
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(gateway.NewClient("dexscreener", srv.URL+"/orders/v1/solana", logger.NewNop()))
}

func TestGetDexPaidStatus_Paid(t *testing.T) {
	c := newClient(t, http.StatusOK, "application/json",
		`[{"type":"tokenProfile","status":"approved","paymentTimestamp":1718000000000}]`)

	r := c.GetDexPaidStatus(context.Background(), "mint")

	require.True(t, r.IsOK())
	assert.True(t, r.Value.IsPaid)
	assert.Equal(t, token.MessagePaid, r.Value.Message)
	assert.NotEmpty(t, r.Value.Details)
}

func TestGetDexPaidStatus_OrdersWithoutPayment(t *testing.T) {
	c := newClient(t, http.StatusOK, "application/json", `[{"type":"tokenProfile","paymentTimestamp":null}]`)

	r := c.GetDexPaidStatus(context.Background(), "mint")

	require.True(t, r.IsOK())
	assert.False(t, r.Value.IsPaid)
	assert.Equal(t, token.MessageNotPaid, r.Value.Message)
}

func TestGetDexPaidStatus_EmptyArray(t *testing.T) {
	r := newClient(t, http.StatusOK, "application/json", `[]`).GetDexPaidStatus(context.Background(), "mint")

	require.True(t, r.IsOK())
	assert.False(t, r.Value.IsPaid)
	assert.Equal(t, token.MessageNotAvailable, r.Value.Message)
}

func TestGetDexPaidStatus_NotFoundMeansNotPaid(t *testing.T) {
	r := newClient(t, http.StatusNotFound, "application/json", `{}`).GetDexPaidStatus(context.Background(), "mint")

	require.True(t, r.IsOK())
	assert.False(t, r.Value.IsPaid)
	assert.Equal(t, token.MessageNoDexPayment, r.Value.Message)
	assert.Empty(t, r.Value.Error)
}

func TestGetDexPaidStatus_SoftFailureKeepsDefaults(t *testing.T) {
	r := newClient(t, http.StatusInternalServerError, "application/json", `{}`).GetDexPaidStatus(context.Background(), "mint")

	require.Equal(t, upstream.KindSoft, r.Kind)

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"isPaid": false,
		"message": "Information not available",
		"error": "Failed to fetch DexScreener data: Internal Server Error",
		"status": 500
	}`, string(body))
}

func TestGetDexPaidStatus_NonJSON(t *testing.T) {
	r := newClient(t, http.StatusOK, "text/plain", `ok`).GetDexPaidStatus(context.Background(), "mint")

	require.Equal(t, upstream.KindSoft, r.Kind)
	assert.Equal(t, "External API returned non-JSON response", r.Value.Error)
	assert.Equal(t, token.MessageNotAvailable, r.Value.Message)
}

func TestIsTruthy(t *testing.T) {
	assert.False(t, isTruthy(nil))
	assert.False(t, isTruthy(json.RawMessage(`null`)))
	assert.False(t, isTruthy(json.RawMessage(`0`)))
	assert.False(t, isTruthy(json.RawMessage(`""`)))
	assert.True(t, isTruthy(json.RawMessage(`1718000000000`)))
	assert.True(t, isTruthy(json.RawMessage(`"2024-06-10"`)))
}
