package handlers

import (
	"context"
	"net/http"

	"solsight/internal/domain/transaction"
	"solsight/pkg/logger"
)

// TransactionService looks up parsed transactions
type TransactionService interface {
	GetDetails(ctx context.Context, signature string) (*transaction.Details, error)
}

// Transaction serves transaction routes
type Transaction struct {
	svc TransactionService
	log *logger.Logger
}

// NewTransaction creates the transaction handler
func NewTransaction(svc TransactionService, log *logger.Logger) *Transaction {
	return &Transaction{svc: svc, log: log.With("handler", "transaction")}
}

// Details handles GET /api/transaction/details?signature=
func (h *Transaction) Details(w http.ResponseWriter, r *http.Request) {
	sig, ok := requireParam(w, r, "signature", "Transaction signature is required")
	if !ok {
		return
	}

	details, err := h.svc.GetDetails(r.Context(), sig)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
