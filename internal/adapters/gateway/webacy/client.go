package webacy

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/pkg/upstream"
)

// Client scores wallets and screens them against sanctions lists.
// The api client must carry the x-api-key header.
type Client struct {
	api *gateway.Client
}

// New creates a wallet risk client; api must be rooted at the addresses endpoint
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// GetRisk returns the risk report for address. Failures are soft; a body
// without an overallRisk field is treated as malformed.
func (c *Client) GetRisk(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	start := time.Now()
	query := url.Values{"chain": {"sol"}, "show_low_risk": {"true"}}

	resp, err := c.api.Get(ctx, "/"+gateway.PathEscape(address), query)
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](
			gateway.TransportError("Failed to fetch wallet data", err)))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch wallet data"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](*soft))
	}

	var probe struct {
		OverallRisk *float64 `json:"overallRisk"`
	}
	if err := json.Unmarshal(resp.Body, &probe); err != nil || probe.OverallRisk == nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](upstream.SoftError{
			Error:        "External API returned unexpected data format",
			Status:       resp.Status,
			ReceivedData: upstream.Truncate(resp.Body, 4096),
		}))
	}

	return gateway.Observe(c.api, start, upstream.OK(json.RawMessage(resp.Body)))
}

// GetSanctioned returns the sanctions screening for address. Failures are soft.
func (c *Client) GetSanctioned(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	start := time.Now()

	resp, err := c.api.Get(ctx, "/sanctioned/"+gateway.PathEscape(address), url.Values{"chain": {"sol"}})
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](
			gateway.TransportError("Failed to check sanctioned status", err)))
	}

	if soft := gateway.CheckResponse(resp, "Failed to check sanctioned status"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](*soft))
	}

	if !json.Valid(resp.Body) {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](upstream.SoftError{
			Error:  "Failed to check sanctioned status",
			Status: resp.Status,
		}))
	}

	return gateway.Observe(c.api, start, upstream.OK(json.RawMessage(resp.Body)))
}
