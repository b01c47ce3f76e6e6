package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/reqctx"
)

// Recover turns a panicking handler into a 500 and reports it
type Recover struct {
	log     *logger.Logger
	tracker errors.Tracker
}

// NewRecover creates a recover middleware. tracker may be nil.
func NewRecover(log *logger.Logger, tracker errors.Tracker) *Recover {
	return &Recover{
		log:     log.With("middleware", "recover"),
		tracker: tracker,
	}
}

// Handler wraps next with panic recovery
func (m *Recover) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			err := errors.Wrapf(errors.ErrInternal, "panic: %v", rec)
			m.log.FromContext(r.Context()).Errorw("Handler panicked",
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			if m.tracker != nil {
				m.tracker.CaptureError(r.Context(), err, map[string]string{
					"path":       r.URL.Path,
					"request_id": reqctx.RequestID(r.Context()),
				})
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		}()

		next.ServeHTTP(w, r)
	})
}
