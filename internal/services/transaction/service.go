package transaction

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	solanarpc "solsight/internal/adapters/solana"
	"solsight/internal/domain/transaction"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

const isoTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// RPC is the part of the Solana access layer transaction lookups need
type RPC interface {
	GetParsedTransaction(ctx context.Context, sig solana.Signature) (*rpc.GetParsedTransactionResult, error)
}

// Service formats confirmed transactions for display
type Service struct {
	rpc RPC
	log *logger.Logger
}

// NewService creates the transaction service
func NewService(rpc RPC, log *logger.Logger) *Service {
	return &Service{
		rpc: rpc,
		log: log.With("service", "transaction"),
	}
}

// GetDetails loads and formats the transaction behind signature. A
// transaction the node does not know yields a 404 upstream error.
func (s *Service) GetDetails(ctx context.Context, signature string) (*transaction.Details, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, errors.NewValidationError("signature", "Invalid transaction signature", signature)
	}

	tx, err := s.rpc.GetParsedTransaction(ctx, sig)
	if errors.Is(err, rpc.ErrNotFound) || (err == nil && (tx == nil || tx.Transaction == nil)) {
		return nil, errors.NewUpstreamError("solana", http.StatusNotFound, "Transaction not found", errors.ErrNotFound)
	}
	if err != nil {
		s.log.FromContext(ctx).Errorw("Failed to fetch transaction", "signature", signature, "error", err)
		return nil, solanarpc.Failure(solanarpc.Describe(err), err)
	}

	return format(signature, tx), nil
}

func format(signature string, tx *rpc.GetParsedTransactionResult) *transaction.Details {
	d := &transaction.Details{
		Signature:    signature,
		Status:       transaction.StatusSuccess,
		Slot:         tx.Slot,
		Accounts:     make([]transaction.Account, 0, len(tx.Transaction.Message.AccountKeys)),
		Instructions: make([]transaction.Instruction, 0, len(tx.Transaction.Message.Instructions)),
		Logs:         []string{},
	}

	if tx.BlockTime != nil {
		ts := time.Unix(int64(*tx.BlockTime), 0).UTC().Format(isoTimeFormat)
		d.BlockTime = &ts
	}

	if meta := tx.Meta; meta != nil {
		if meta.Err != nil {
			d.Status = transaction.StatusFailed
			if raw, err := json.Marshal(meta.Err); err == nil {
				msg := string(raw)
				d.Error = &msg
			}
		}
		if meta.Fee > 0 {
			fee := solanarpc.LamportsToSOL(meta.Fee)
			d.Fee = &fee
		}
		if meta.LogMessages != nil {
			d.Logs = meta.LogMessages
		}
	}

	for _, key := range tx.Transaction.Message.AccountKeys {
		d.Accounts = append(d.Accounts, transaction.Account{
			Pubkey:   key.PublicKey.String(),
			Signer:   key.Signer,
			Writable: key.Writable,
		})
	}

	for _, ix := range tx.Transaction.Message.Instructions {
		if ix == nil {
			continue
		}
		d.Instructions = append(d.Instructions, formatInstruction(ix))
	}

	return d
}

func formatInstruction(ix *rpc.ParsedInstruction) transaction.Instruction {
	out := transaction.Instruction{ProgramID: ix.ProgramId.String()}

	if ix.Parsed == nil {
		data := ix.Data.String()
		out.Type = transaction.TypeBinary
		out.Data = &data
		return out
	}

	out.Type = transaction.TypeUnknown
	out.Info = map[string]any{}
	if parsed, ok := solanarpc.ParseInstruction(ix); ok {
		out.Type = parsed.Type
		if parsed.Info != nil {
			out.Info = parsed.Info
		}
	}
	return out
}
