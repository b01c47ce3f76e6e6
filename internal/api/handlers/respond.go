// Package handlers adapts the domain services to HTTP.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeResult renders an upstream outcome. Hard failures keep their status,
// soft ones are embedded in a 200.
func writeResult[T any](w http.ResponseWriter, res upstream.Result[T]) {
	if res.Kind == upstream.KindHard {
		writeError(w, res.Status, res.Message)
		return
	}
	writeJSON(w, http.StatusOK, res.Payload())
}

// writeFailure maps a service error to a status and a client-safe message
func writeFailure(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := errors.StatusOf(err)
	message := "Internal server error"

	var upErr *errors.UpstreamError
	var valErr *errors.ValidationError
	switch {
	case errors.As(err, &valErr):
		message = valErr.Message
	case errors.As(err, &upErr):
		message = upErr.Message
	case errors.Is(err, errors.ErrTimeout):
		message = "Request timed out"
	}

	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).Errorw("Request failed",
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	writeError(w, status, message)
}

// requireParam reads a trimmed query parameter and answers 400 when it is absent
func requireParam(w http.ResponseWriter, r *http.Request, name, message string) (string, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		writeError(w, http.StatusBadRequest, message)
		return "", false
	}
	return v, true
}
