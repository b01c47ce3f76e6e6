package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"solsight/pkg/errors"
)

// Limiter throttles outbound calls to one third-party API
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a new rate limiter
// requestsPerMinute: maximum number of requests allowed per minute
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	rps := float64(requestsPerMinute) / 60.0

	// Allow burst of 10% of per-minute limit
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Name returns the upstream the limiter belongs to
func (l *Limiter) Name() string {
	return l.name
}

// Wait blocks until the rate limiter allows the request
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "rate limiter %s", l.name)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Registry hands out one limiter per upstream, created on first use
type Registry struct {
	requestsPerMinute int
	limiters          map[string]*Limiter
	mu                sync.Mutex
}

// NewRegistry creates a registry whose limiters allow requestsPerMinute each
func NewRegistry(requestsPerMinute int) *Registry {
	return &Registry{
		requestsPerMinute: requestsPerMinute,
		limiters:          make(map[string]*Limiter),
	}
}

// For returns the limiter for the named upstream
func (r *Registry) For(name string) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.limiters[name]; ok {
		return l
	}

	l := NewLimiter(name, r.requestsPerMinute)
	r.limiters[name] = l
	return l
}
