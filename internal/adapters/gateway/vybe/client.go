package vybe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/pkg/upstream"
)

// DefaultResolution is the PNL window used when none is requested
const DefaultResolution = "7d"

// Client fetches wallet trading PNL. The api client must carry the X-API-KEY header.
type Client struct {
	api *gateway.Client
}

// New creates a PNL client; api must be rooted at the Vybe API base URL
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// GetPNL returns the PNL report of address over resolution. A 404 is hard
// (the wallet has no history); other failures are soft.
func (c *Client) GetPNL(ctx context.Context, address, resolution string) upstream.Result[json.RawMessage] {
	start := time.Now()
	if resolution == "" {
		resolution = DefaultResolution
	}

	resp, err := c.api.Get(ctx, "/account/pnl/"+gateway.PathEscape(address), url.Values{"resolution": {resolution}})
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](
			gateway.TransportError("Failed to fetch wallet PNL data", err)))
	}

	if resp.Status == http.StatusNotFound {
		return gateway.Observe(c.api, start, upstream.Hard[json.RawMessage](http.StatusNotFound, "No PNL data found for this wallet"))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch wallet PNL data"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](*soft))
	}

	if !json.Valid(resp.Body) {
		return gateway.Observe(c.api, start, upstream.Soft[json.RawMessage](upstream.SoftError{
			Error:  "Failed to fetch wallet PNL data",
			Status: resp.Status,
		}))
	}

	return gateway.Observe(c.api, start, upstream.OK(json.RawMessage(resp.Body)))
}
