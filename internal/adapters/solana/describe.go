package solana

import (
	"net/http"
	"strings"

	"solsight/pkg/errors"
)

// Describe turns an RPC failure into a message fit for end users
func Describe(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, errors.ErrRateLimitExceeded) || IsRateLimited(err) {
		return "The Solana network is currently busy. Please try again in a moment."
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "Connection to Solana network timed out. Please check your internet connection and try again."
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host"):
		return "Unable to connect to Solana network. Please check your internet connection."
	case strings.Contains(lower, "invalid public key") || strings.Contains(lower, "invalid base58"):
		return "Invalid Solana address format."
	}

	return "Solana error: " + msg
}

// Failure wraps a failed chain read as an upstream error carrying message.
// Rate limit exhaustion keeps its 429; everything else is a 500.
func Failure(message string, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, errors.ErrRateLimitExceeded) || IsRateLimited(err) {
		status = http.StatusTooManyRequests
	}
	return errors.NewUpstreamError("solana", status, message, err)
}
