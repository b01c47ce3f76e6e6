package solana

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"solsight/internal/adapters/retry"
	"solsight/internal/metrics"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

const healthOK = "ok"

// RPC is the subset of *rpc.Client used by the service
type RPC interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
	GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error)
	GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenLargestAccountsResult, error)
	GetSignaturesForAddressWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error)
	GetParsedTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetParsedTransactionOpts) (*rpc.GetParsedTransactionResult, error)
	GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetHealth(ctx context.Context) (string, error)
}

// Client is the RPC access layer. Read calls that Solana nodes commonly
// rate limit are retried with exponential backoff; everything else goes
// straight to the node.
type Client struct {
	rpc   RPC
	retry *retry.Middleware
	log   *logger.Logger
}

// NewClient creates a client for endpoint using the given retry policy
func NewClient(endpoint string, cfg retry.Config, log *logger.Logger) *Client {
	return NewClientWithRPC(rpc.New(endpoint), cfg, log)
}

// NewClientWithRPC wraps an existing RPC implementation
func NewClientWithRPC(r RPC, cfg retry.Config, log *logger.Logger, opts ...retry.Option) *Client {
	log = log.Component("solana_rpc")

	base := []retry.Option{
		retry.WithClassifier(IsRateLimited),
		retry.WithLogger(log),
		retry.WithObserver(func(op string, _ int, _ time.Duration, _ error) {
			metrics.RecordRPCRetry(op)
		}),
	}

	return &Client{
		rpc:   r,
		retry: retry.New(cfg, append(base, opts...)...),
		log:   log,
	}
}

// withRetry runs fn through the backoff policy and records the outcome
func withRetry[T any](ctx context.Context, c *Client, method string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := retry.Do(ctx, c.retry, method, fn)
	metrics.RecordRPCCall(method, time.Since(start), callStatus(err))
	return out, err
}

// direct runs fn once and records the outcome
func direct[T any](c *Client, method string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	metrics.RecordRPCCall(method, time.Since(start), callStatus(err))
	return out, err
}

func callStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrRateLimitExceeded) || IsRateLimited(err):
		return "rate_limited"
	default:
		return "error"
	}
}

// GetAccountInfo fetches an account. A missing account yields rpc.ErrNotFound.
func (c *Client) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return withRetry(ctx, c, "getAccountInfo", func() (*rpc.GetAccountInfoResult, error) {
		return c.rpc.GetAccountInfo(ctx, account)
	})
}

// GetTokenAccountsByOwner lists token accounts held by owner
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	return withRetry(ctx, c, "getTokenAccountsByOwner", func() (*rpc.GetTokenAccountsResult, error) {
		return c.rpc.GetTokenAccountsByOwner(ctx, owner, conf, opts)
	})
}

// GetParsedTokenAccountsByOwner lists SPL token accounts of owner with jsonParsed data
func (c *Client) GetParsedTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey) (*rpc.GetTokenAccountsResult, error) {
	programID := solana.TokenProgramID
	conf := &rpc.GetTokenAccountsConfig{ProgramId: &programID}
	opts := &rpc.GetTokenAccountsOpts{Encoding: solana.EncodingJSONParsed}

	return withRetry(ctx, c, "getParsedTokenAccountsByOwner", func() (*rpc.GetTokenAccountsResult, error) {
		return c.rpc.GetTokenAccountsByOwner(ctx, owner, conf, opts)
	})
}

// GetTokenLargestAccounts returns the largest holders of mint
func (c *Client) GetTokenLargestAccounts(ctx context.Context, mint solana.PublicKey) (*rpc.GetTokenLargestAccountsResult, error) {
	return withRetry(ctx, c, "getTokenLargestAccounts", func() (*rpc.GetTokenLargestAccountsResult, error) {
		return c.rpc.GetTokenLargestAccounts(ctx, mint, rpc.CommitmentConfirmed)
	})
}

// GetSignaturesForAddress returns up to limit recent signatures for account
func (c *Client) GetSignaturesForAddress(ctx context.Context, account solana.PublicKey, limit int) ([]*rpc.TransactionSignature, error) {
	opts := &rpc.GetSignaturesForAddressOpts{Limit: &limit}

	return withRetry(ctx, c, "getSignaturesForAddress", func() ([]*rpc.TransactionSignature, error) {
		return c.rpc.GetSignaturesForAddressWithOpts(ctx, account, opts)
	})
}

// GetParsedTransaction fetches a transaction with jsonParsed instructions.
// Not retried.
func (c *Client) GetParsedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetParsedTransactionResult, error) {
	version := uint64(0)
	opts := &rpc.GetParsedTransactionOpts{
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &version,
	}

	return direct(c, "getParsedTransaction", func() (*rpc.GetParsedTransactionResult, error) {
		return c.rpc.GetParsedTransaction(ctx, sig, opts)
	})
}

// GetBalance returns the lamport balance of account. Not retried.
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return direct(c, "getBalance", func() (uint64, error) {
		res, err := c.rpc.GetBalance(ctx, account, rpc.CommitmentConfirmed)
		if err != nil {
			return 0, err
		}
		return res.Value, nil
	})
}

// Health reports whether the node answers getHealth with "ok"
func (c *Client) Health(ctx context.Context) error {
	status, err := direct(c, "getHealth", func() (string, error) {
		return c.rpc.GetHealth(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "solana rpc health")
	}
	if status != healthOK {
		return errors.Wrapf(errors.ErrUnavailable, "solana rpc health: %s", status)
	}
	return nil
}

// IsRateLimited reports whether err is a 429 from the node, either as a
// JSON-RPC error code, an HTTP status, or a message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) && rpcErr != nil && rpcErr.Code == http.StatusTooManyRequests {
		return true
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr != nil && httpErr.Code == http.StatusTooManyRequests {
		return true
	}

	return retry.IsRateLimited(err)
}
