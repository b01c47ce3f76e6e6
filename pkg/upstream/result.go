// Package upstream models the outcome of a call to a third-party API.
//
// A call either produced a usable payload (OK), failed in a way the caller
// may embed in its own response (Soft), or failed in a way that must abort
// the caller (Hard).
package upstream

import (
	"encoding/json"
	"net/http"

	"solsight/pkg/errors"
)

// Kind tags a Result
type Kind int

const (
	KindOK Kind = iota
	KindSoft
	KindHard
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindSoft:
		return "soft"
	case KindHard:
		return "hard"
	default:
		return "unknown"
	}
}

// SoftError is the embeddable error object returned in place of a payload
type SoftError struct {
	Error        string          `json:"error"`
	Status       int             `json:"status,omitempty"`
	Details      string          `json:"details,omitempty"`
	ReceivedData json.RawMessage `json:"receivedData,omitempty"`
}

// Result is the tagged outcome of one upstream call
type Result[T any] struct {
	Kind    Kind
	Value   T
	Soft    *SoftError
	Status  int
	Message string

	// set when Value carries a populated fallback for a soft failure
	fallback bool
}

// OK wraps a successful payload
func OK[T any](v T) Result[T] {
	return Result[T]{Kind: KindOK, Value: v, Status: http.StatusOK}
}

// Soft wraps an embeddable failure
func Soft[T any](e SoftError) Result[T] {
	return Result[T]{Kind: KindSoft, Soft: &e, Status: e.Status, Message: e.Error}
}

// SoftWithFallback wraps an embeddable failure whose rendered form is v
// (v is expected to carry the error fields itself)
func SoftWithFallback[T any](v T, e SoftError) Result[T] {
	r := Soft[T](e)
	r.Value = v
	r.fallback = true
	return r
}

// Hard wraps a failure that must abort the caller. A zero status means 500.
func Hard[T any](status int, message string) Result[T] {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Result[T]{Kind: KindHard, Status: status, Message: message}
}

// IsOK reports whether the call produced a payload
func (r Result[T]) IsOK() bool { return r.Kind == KindOK }

// Err returns nil for OK and Soft results and an *errors.UpstreamError for Hard ones
func (r Result[T]) Err(service string) error {
	if r.Kind != KindHard {
		return nil
	}
	return errors.NewUpstreamError(service, r.Status, r.Message, nil)
}

// Payload returns what should be embedded in a response for this result
func (r Result[T]) Payload() any {
	switch r.Kind {
	case KindOK:
		return r.Value
	case KindSoft:
		if r.fallback {
			return r.Value
		}
		return r.Soft
	default:
		return SoftError{Error: r.Message, Status: r.Status}
	}
}

// MarshalJSON renders the payload
func (r Result[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Payload())
}

// Truncate shortens raw upstream bodies before they are echoed back
func Truncate(body []byte, max int) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) && len(body) <= max {
		return json.RawMessage(body)
	}
	if len(body) > max {
		body = body[:max]
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
