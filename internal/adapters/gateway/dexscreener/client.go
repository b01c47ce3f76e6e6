package dexscreener

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/internal/domain/token"
	"solsight/pkg/upstream"
)

// Client checks whether a token paid for DEX listing features
type Client struct {
	api *gateway.Client
}

// New creates a paid-status client; api must be rooted at the Solana orders endpoint
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

type order struct {
	PaymentTimestamp json.RawMessage `json:"paymentTimestamp"`
}

// GetDexPaidStatus never fails hard. A 404 means the token has no paid orders.
func (c *Client) GetDexPaidStatus(ctx context.Context, address string) upstream.Result[token.DexPaidStatus] {
	start := time.Now()

	resp, err := c.api.Get(ctx, "/"+gateway.PathEscape(address), nil)
	if err != nil {
		return gateway.Observe(c.api, start, softStatus(gateway.TransportError("Failed to fetch or parse DexScreener API data", err)))
	}

	if resp.Status == http.StatusNotFound {
		return gateway.Observe(c.api, start, upstream.OK(token.DexPaidStatus{
			IsPaid:  false,
			Message: token.MessageNoDexPayment,
		}))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch DexScreener data"); soft != nil {
		return gateway.Observe(c.api, start, softStatus(*soft))
	}

	var orders []order
	if err := json.Unmarshal(resp.Body, &orders); err != nil || len(orders) == 0 {
		return gateway.Observe(c.api, start, upstream.OK(token.DexPaidStatus{
			IsPaid:  false,
			Message: token.MessageNotAvailable,
			Details: upstream.Truncate(resp.Body, 16384),
		}))
	}

	paid := false
	for _, o := range orders {
		if isTruthy(o.PaymentTimestamp) {
			paid = true
			break
		}
	}

	message := token.MessageNotPaid
	if paid {
		message = token.MessagePaid
	}

	return gateway.Observe(c.api, start, upstream.OK(token.DexPaidStatus{
		IsPaid:  paid,
		Message: message,
		Details: json.RawMessage(resp.Body),
	}))
}

// softStatus renders soft failures as a not-paid status carrying the error
func softStatus(e upstream.SoftError) upstream.Result[token.DexPaidStatus] {
	status := token.DexPaidStatus{
		IsPaid:  false,
		Message: token.MessageNotAvailable,
		Error:   e.Error,
		Status:  e.Status,
	}
	if e.Details != "" {
		details, _ := json.Marshal(e.Details)
		status.Details = details
	}
	return upstream.SoftWithFallback(status, e)
}

// isTruthy treats absent, null, false, 0 and "" as unset
func isTruthy(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}
