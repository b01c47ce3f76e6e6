package checkdex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"solsight/internal/adapters/gateway"
	"solsight/internal/domain/token"
	"solsight/pkg/upstream"
)

const failureMessage = "Failed to fetch token data"

// Client lists DEX pairs for a token
type Client struct {
	api *gateway.Client
}

// New creates a pairs client; api must be rooted at the getPairs endpoint
func New(api *gateway.Client) *Client {
	return &Client{api: api}
}

// GetPairs fetches every pair listing address. Any failure is hard.
func (c *Client) GetPairs(ctx context.Context, address string) upstream.Result[token.PairsPage] {
	start := time.Now()

	resp, err := c.api.Get(ctx, "", url.Values{"address": {address}})
	if err != nil {
		return gateway.Observe(c.api, start, upstream.Hard[token.PairsPage](http.StatusInternalServerError, failureMessage))
	}

	if !resp.OK() {
		return gateway.Observe(c.api, start, upstream.Hard[token.PairsPage](resp.Status, failureMessage+": "+resp.StatusText()))
	}

	var page token.PairsPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return gateway.Observe(c.api, start, upstream.Hard[token.PairsPage](http.StatusInternalServerError, failureMessage))
	}
	if page.Pairs == nil {
		page.Pairs = []token.Pair{}
	}

	return gateway.Observe(c.api, start, upstream.OK(page))
}
