package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"solsight/internal/domain/wallet"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

const walletAddressRequired = "Wallet address is required"

// WalletService is the wallet use-case surface
type WalletService interface {
	GetRisk(ctx context.Context, address string) upstream.Result[json.RawMessage]
	GetSanctioned(ctx context.Context, address string) upstream.Result[json.RawMessage]
	GetPNL(ctx context.Context, address, resolution string) upstream.Result[json.RawMessage]
	GetHoldings(ctx context.Context, address string) (*wallet.Holdings, error)
	GetTransactions(ctx context.Context, address string, limit int) (*wallet.Transactions, error)
	GetFlow(ctx context.Context, address string, q wallet.FlowQuery) (*wallet.Flow, error)
	GetOverview(ctx context.Context, address string) (*wallet.Overview, error)
}

// Wallet serves wallet routes
type Wallet struct {
	svc WalletService
	log *logger.Logger
}

// NewWallet creates the wallet handler
func NewWallet(svc WalletService, log *logger.Logger) *Wallet {
	return &Wallet{svc: svc, log: log.With("handler", "wallet")}
}

// Risk handles GET /api/wallet/analysis?address=
func (h *Wallet) Risk(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.svc.GetRisk(r.Context(), addr))
}

// Sanctioned handles GET /api/wallet/sanctioned?address=
func (h *Wallet) Sanctioned(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}
	writeResult(w, h.svc.GetSanctioned(r.Context(), addr))
}

// PNL handles GET /api/wallet/pnl?address=&resolution=
func (h *Wallet) PNL(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}
	resolution := strings.TrimSpace(r.URL.Query().Get("resolution"))
	writeResult(w, h.svc.GetPNL(r.Context(), addr, resolution))
}

// Tokens handles GET /api/wallet/tokens?address=
func (h *Wallet) Tokens(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}

	holdings, err := h.svc.GetHoldings(r.Context(), addr)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, holdings)
}

// Transactions handles GET /api/wallet/transactions?address=&limit=
func (h *Wallet) Transactions(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}

	txs, err := h.svc.GetTransactions(r.Context(), addr, limit)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// Flow handles GET /api/wallet/transaction-flow
func (h *Wallet) Flow(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}

	q, err := parseFlowQuery(r)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}

	flow, err := h.svc.GetFlow(r.Context(), addr, q)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, flow)
}

// Overview handles GET /api/wallet/overview?address=
func (h *Wallet) Overview(w http.ResponseWriter, r *http.Request) {
	addr, ok := requireParam(w, r, "address", walletAddressRequired)
	if !ok {
		return
	}

	overview, err := h.svc.GetOverview(r.Context(), addr)
	if err != nil {
		writeFailure(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func parseFlowQuery(r *http.Request) (wallet.FlowQuery, error) {
	var q wallet.FlowQuery
	var err error

	if q.Limit, err = intParam(r, "limit"); err != nil {
		return q, err
	}
	if q.Start, err = dateParam(r, "startDate"); err != nil {
		return q, err
	}
	if q.End, err = dateParam(r, "endDate"); err != nil {
		return q, err
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return q, errors.NewValidationError("endDate", "endDate must not be before startDate", r.URL.Query().Get("endDate"))
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("minAmount")); raw != "" {
		q.MinAmount, err = strconv.ParseFloat(raw, 64)
		if err != nil || q.MinAmount < 0 {
			return q, errors.NewValidationError("minAmount", "minAmount must be a non-negative number", raw)
		}
	}
	return q, nil
}

// intParam returns 0 when the parameter is absent
func intParam(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError(name, name+" must be a non-negative integer", raw)
	}
	return n, nil
}

// dateParam accepts RFC 3339 timestamps or plain dates
func dateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidationError(name, "Invalid "+name, raw)
}
