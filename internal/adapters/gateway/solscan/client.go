package solscan

import (
	"context"
	"encoding/json"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/internal/domain/market"
	"solsight/pkg/upstream"
)

// Client fetches cluster statistics. The api client must carry the token header.
type Client struct {
	api     *gateway.Client
	timeout time.Duration
}

// New creates a chain info client. Each call is bounded by timeout
// independently of the caller's deadline.
func New(api *gateway.Client, timeout time.Duration) *Client {
	return &Client{api: api, timeout: timeout}
}

type chainInfoResponse struct {
	Data *market.ChainInfo `json:"data"`
}

// GetChainInfo never fails hard
func (c *Client) GetChainInfo(ctx context.Context) upstream.Result[market.ChainInfo] {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.api.Get(ctx, "/chaininfo", nil)
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[market.ChainInfo](
			gateway.TransportError("Failed to fetch Solana chain information", err)))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch chain info"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[market.ChainInfo](*soft))
	}

	var body chainInfoResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Data == nil {
		return gateway.Observe(c.api, start, upstream.Soft[market.ChainInfo](upstream.SoftError{
			Error:  "Invalid response format from Solscan API",
			Status: resp.Status,
		}))
	}

	return gateway.Observe(c.api, start, upstream.OK(*body.Data))
}
