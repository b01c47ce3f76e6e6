package upstream

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solsight/pkg/errors"
)

type score struct {
	Status string `json:"status"`
	Score  int    `json:"score"`
}

type paid struct {
	IsPaid  bool   `json:"isPaid"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func TestResult_OKRendersValue(t *testing.T) {
	r := OK(score{Status: "OK", Score: 72})

	body, err := json.Marshal(r)
	require.NoError(t, err)

	assert.True(t, r.IsOK())
	assert.NoError(t, r.Err("bubblemaps"))
	assert.JSONEq(t, `{"status":"OK","score":72}`, string(body))
}

func TestResult_SoftRendersErrorObject(t *testing.T) {
	r := Soft[score](SoftError{Error: "Invalid response format", Status: http.StatusOK, ReceivedData: json.RawMessage(`{"foo":1}`)})

	body, err := json.Marshal(r)
	require.NoError(t, err)

	assert.False(t, r.IsOK())
	assert.NoError(t, r.Err("bubblemaps"), "soft failures never abort the caller")
	assert.JSONEq(t, `{"error":"Invalid response format","status":200,"receivedData":{"foo":1}}`, string(body))
}

func TestResult_SoftWithFallbackRendersFallback(t *testing.T) {
	r := SoftWithFallback(paid{Message: "Information not available", Error: "timeout"}, SoftError{Error: "timeout"})

	body, err := json.Marshal(r)
	require.NoError(t, err)

	assert.Equal(t, KindSoft, r.Kind)
	assert.JSONEq(t, `{"isPaid":false,"message":"Information not available","error":"timeout"}`, string(body))
}

func TestResult_HardCarriesStatus(t *testing.T) {
	r := Hard[[]score](http.StatusBadGateway, "Failed to fetch token data")

	err := r.Err("checkdex")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, errors.StatusOf(err))
	assert.ErrorIs(t, err, errors.ErrUpstream)

	assert.Equal(t, http.StatusInternalServerError, Hard[int](0, "boom").Status)
}

func TestTruncate(t *testing.T) {
	assert.Nil(t, Truncate(nil, 10))
	assert.JSONEq(t, `{"a":1}`, string(Truncate([]byte(`{"a":1}`), 100)))
	assert.Equal(t, `"<html>"`, string(Truncate([]byte("<html>"), 100)))
	assert.Equal(t, `"abc"`, string(Truncate([]byte("abcdef"), 3)))
}
