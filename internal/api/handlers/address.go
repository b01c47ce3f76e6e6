package handlers

import (
	"context"
	"net/http"

	"solsight/internal/domain/address"
	"solsight/pkg/logger"
)

// Classifier tells tokens, wallets and signatures apart
type Classifier interface {
	Classify(ctx context.Context, input string) address.Result
}

// Address serves classification requests
type Address struct {
	classifier Classifier
	log        *logger.Logger
}

// NewAddress creates the address handler
func NewAddress(classifier Classifier, log *logger.Logger) *Address {
	return &Address{classifier: classifier, log: log.With("handler", "address")}
}

// Classify handles GET /api/address/classify?address=
func (h *Address) Classify(w http.ResponseWriter, r *http.Request) {
	input, ok := requireParam(w, r, "address", "Address is required")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.classifier.Classify(r.Context(), input))
}
