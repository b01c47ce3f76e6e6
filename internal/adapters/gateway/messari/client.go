package messari

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/pkg/upstream"
)

// Client fetches social mindshare and DEX market metrics.
// The api client must carry the X-MESSARI-API-KEY header.
type Client struct {
	api     *gateway.Client
	assetID string
}

// New creates a Messari client reporting mindshare for assetID
func New(api *gateway.Client, assetID string) *Client {
	return &Client{api: api, assetID: assetID}
}

// GetMindshare returns the signal report of the configured asset. Failures are soft.
func (c *Client) GetMindshare(ctx context.Context) upstream.Result[json.RawMessage] {
	return c.fetch(ctx, "/signal/v0/assets/"+gateway.PathEscape(c.assetID), nil, "Failed to fetch Solana mindshare data")
}

// GetDexMetrics returns metrics of the top decentralized exchanges. Failures are soft.
func (c *Client) GetDexMetrics(ctx context.Context) upstream.Result[json.RawMessage] {
	query := url.Values{"type": {"decentralized"}, "typeRankCutoff": {"10"}}
	return c.fetch(ctx, "/metrics/v1/exchanges", query, "Failed to fetch DEX metrics")
}

func (c *Client) fetch(ctx context.Context, path string, query url.Values, failure string) upstream.Result[json.RawMessage] {
	start := time.Now()

	resp, err := c.api.Get(ctx, path, query)
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](gateway.TransportError(failure, err)))
	}

	if soft := gateway.CheckResponse(resp, failure); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](*soft))
	}

	if !json.Valid(resp.Body) {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](upstream.SoftError{Error: failure, Status: resp.Status}))
	}

	return gateway.Observe(c.api, start, upstream.OK(json.RawMessage(resp.Body)))
}
