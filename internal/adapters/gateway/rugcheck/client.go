package rugcheck

import (
	"context"
	"encoding/json"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/pkg/upstream"
)

// Client fetches rug-check reports
type Client struct {
	api *gateway.Client
}

// New creates a rug-check client; api must be rooted at the tokens endpoint
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// GetReport passes the report through unchanged. Failures are soft.
func (c *Client) GetReport(ctx context.Context, address string) upstream.Result[json.RawMessage] {
	start := time.Now()

	resp, err := c.api.Get(ctx, "/"+gateway.PathEscape(address)+"/report", nil)
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](
			gateway.TransportError("Failed to fetch or parse RugCheck API data", err)))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch RugCheck data"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](*soft))
	}

	if !json.Valid(resp.Body) {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](upstream.SoftError{
			Error:  "Failed to fetch or parse RugCheck API data",
			Status: resp.Status,
		}))
	}

	return gateway.Observe(c.api, start, upstream.OK(json.RawMessage(resp.Body)))
}
