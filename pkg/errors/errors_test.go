package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"missing parameter", Wrap(ErrMissingParameter, "address"), http.StatusBadRequest},
		{"validation", NewValidationError("limit", "must be positive", -1), http.StatusBadRequest},
		{"not found", Wrapf(ErrNotFound, "tx %s", "abc"), http.StatusNotFound},
		{"upstream keeps its status", NewUpstreamError("checkdex", http.StatusBadGateway, "Bad Gateway", nil), http.StatusBadGateway},
		{"rate limited", &RateLimitError{Op: "getAccountInfo", Attempts: 4, Err: New("429")}, http.StatusTooManyRequests},
		{"unknown", New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestRateLimitError_UnwrapsLastError(t *testing.T) {
	last := fmt.Errorf("server responded with 429")
	err := Wrap(&RateLimitError{Op: "getSignaturesForAddress", Attempts: 4, Err: last}, "wallet")

	assert.ErrorIs(t, err, ErrRateLimitExceeded)
	assert.ErrorIs(t, err, last)
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestNewUpstreamError_DefaultsStatus(t *testing.T) {
	err := NewUpstreamError("vybe", 0, "request failed", New("dial tcp: refused"))

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode())
	assert.ErrorContains(t, err, "dial tcp")
	assert.False(t, Is(err, ErrUpstream))

	bare := NewUpstreamError("vybe", http.StatusTeapot, "teapot", nil)
	assert.True(t, Is(bare, ErrUpstream))
}
