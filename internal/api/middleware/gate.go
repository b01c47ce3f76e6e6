package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"solsight/pkg/auth"
	"solsight/pkg/logger"
	"solsight/pkg/reqctx"
)

// Gate decides whether an external request may reach the API
type Gate interface {
	Allow(r *http.Request) bool
}

// AllowAll admits every request
type AllowAll struct{}

// Allow implements Gate
func (AllowAll) Allow(*http.Request) bool { return true }

// GateMiddleware applies a Gate to API routes
type GateMiddleware struct {
	gate Gate
	log  *logger.Logger
}

// NewGate creates the gate middleware. A nil gate admits everything.
func NewGate(gate Gate, log *logger.Logger) *GateMiddleware {
	if gate == nil {
		gate = AllowAll{}
	}
	return &GateMiddleware{
		gate: gate,
		log:  log.With("middleware", "gate"),
	}
}

// Handler wraps next with the gate check. Only contexts marked in-process
// with reqctx.WithBypass skip it; request headers never do.
func (m *GateMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqctx.IsBypass(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		if !m.gate.Allow(r) {
			m.log.FromContext(r.Context()).Infow("Request rejected by gate", "path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TokenValidator verifies a session token
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// BearerGate admits requests carrying a valid session token
type BearerGate struct {
	validator TokenValidator
}

// NewBearerGate creates a gate backed by validator
func NewBearerGate(validator TokenValidator) *BearerGate {
	return &BearerGate{validator: validator}
}

// Allow implements Gate
func (g *BearerGate) Allow(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return false
	}
	_, err := g.validator.ValidateToken(strings.TrimSpace(token))
	return err == nil
}
