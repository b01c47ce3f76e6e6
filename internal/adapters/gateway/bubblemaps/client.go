package bubblemaps

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/internal/domain/token"
	"solsight/pkg/upstream"
)

// Client fetches holder-map metadata
type Client struct {
	api *gateway.Client
}

// New creates a decentralization client; api must be rooted at map-metadata
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// GetDecentralization never fails hard. Anything other than a JSON body with
// status "OK" and a decentralisation_score key (null allowed) is a soft error.
// The full upstream body is kept on success.
func (c *Client) GetDecentralization(ctx context.Context, address string) upstream.Result[token.Decentralization] {
	start := time.Now()

	resp, err := c.api.Get(ctx, "", url.Values{"chain": {"sol"}, "token": {address}})
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[token.Decentralization](
			gateway.TransportError("Failed to fetch or parse external API data", err)))
	}

	if soft := gateway.CheckResponse(resp, "Failed to fetch decentralization data"); soft != nil {
		return gateway.Observe(c.api, start, upstream.Soft[token.Decentralization](*soft))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &fields); err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[token.Decentralization](
			gateway.TransportError("Failed to fetch or parse external API data", err)))
	}

	var data token.Decentralization
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return gateway.Observe(c.api, start, upstream.Soft[token.Decentralization](
			gateway.TransportError("Failed to fetch or parse external API data", err)))
	}

	_, hasScore := fields["decentralisation_score"]
	if data.Status != "OK" || !hasScore {
		return gateway.Observe(c.api, start, upstream.Soft[token.Decentralization](upstream.SoftError{
			Error:        "External API returned unexpected data format",
			ReceivedData: upstream.Truncate(resp.Body, 4096),
		}))
	}

	data.Raw = json.RawMessage(resp.Body)
	return gateway.Observe(c.api, start, upstream.OK(data))
}
