package wallet

import (
	"context"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/wallet"
	"solsight/pkg/errors"
)

const (
	DefaultTransactionLimit = 5
	MaxTransactionLimit     = 100

	// parallel getParsedTransaction calls per request
	fetchConcurrency = 5

	// ISOTimeFormat renders UTC timestamps with millisecond precision
	ISOTimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

// logTypes maps a log fragment to a transaction type, first match wins
var logTypes = []struct {
	fragment string
	kind     string
}{
	{"Transfer", wallet.TypeTransfer},
	{"Swap", wallet.TypeSwap},
	{"Stake", wallet.TypeStake},
	{"CreateAccount", wallet.TypeAccountCreation},
	{"CloseAccount", wallet.TypeAccountClose},
}

// GetTransactions summarises the most recent transactions of address
func (s *Service) GetTransactions(ctx context.Context, address string, limit int) (*wallet.Transactions, error) {
	pk, err := parseAddress(address)
	if err != nil {
		return nil, err
	}

	sigs, err := s.rpc.GetSignaturesForAddress(ctx, pk, clampLimit(limit, DefaultTransactionLimit))
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch signatures", "address", address, "error", err)
		return nil, solanarpc.Failure("Failed to fetch wallet transactions", err)
	}

	txs, err := s.fetchTransactions(ctx, sigs)
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch transactions", "address", address, "error", err)
		return nil, solanarpc.Failure("Failed to fetch wallet transactions", err)
	}

	out := &wallet.Transactions{Address: address, Transactions: make([]wallet.Transaction, 0, len(txs))}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, summarize(tx))
	}
	return out, nil
}

// fetchTransactions loads the parsed transactions behind sigs, keeping their
// order and dropping the ones the node no longer has
func (s *Service) fetchTransactions(ctx context.Context, sigs []*rpc.TransactionSignature) ([]*rpc.GetParsedTransactionResult, error) {
	results := make([]*rpc.GetParsedTransactionResult, len(sigs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for i, sig := range sigs {
		if sig == nil {
			continue
		}
		i, sig := i, sig
		g.Go(func() error {
			tx, err := s.rpc.GetParsedTransaction(gctx, sig.Signature)
			if errors.Is(err, rpc.ErrNotFound) {
				return nil
			}
			if err != nil {
				return errors.Wrapf(err, "get transaction %s", sig.Signature)
			}
			results[i] = tx
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, tx := range results {
		if tx != nil && tx.Transaction != nil {
			out = append(out, tx)
		}
	}
	return out, nil
}

func summarize(tx *rpc.GetParsedTransactionResult) wallet.Transaction {
	t := wallet.Transaction{
		Signature: firstSignature(tx),
		Timestamp: isoTime(tx.BlockTime),
		Status:    wallet.StatusSuccess,
		Type:      wallet.TypeUnknown,
		Symbol:    "SOL",
	}

	if tx.Meta != nil {
		if tx.Meta.Err != nil {
			t.Status = wallet.StatusFailed
		}
		t.Fee = solanarpc.LamportsToSOL(tx.Meta.Fee)
		t.Type = classifyLogs(tx.Meta.LogMessages)
	}
	return t
}

// classifyLogs infers a transaction type from its program logs
func classifyLogs(logs []string) string {
	if len(logs) == 0 {
		return wallet.TypeUnknown
	}

	joined := strings.Join(logs, " ")
	for _, lt := range logTypes {
		if strings.Contains(joined, lt.fragment) {
			return lt.kind
		}
	}
	return wallet.TypeUnknown
}

func firstSignature(tx *rpc.GetParsedTransactionResult) string {
	if tx.Transaction == nil || len(tx.Transaction.Signatures) == 0 {
		return ""
	}
	return tx.Transaction.Signatures[0].String()
}

func blockTime(bt *solana.UnixTimeSeconds) *time.Time {
	if bt == nil {
		return nil
	}
	t := time.Unix(int64(*bt), 0).UTC()
	return &t
}

func isoTime(bt *solana.UnixTimeSeconds) *string {
	t := blockTime(bt)
	if t == nil {
		return nil
	}
	s := t.Format(ISOTimeFormat)
	return &s
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	return min(limit, MaxTransactionLimit)
}
