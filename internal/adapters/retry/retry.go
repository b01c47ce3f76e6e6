package retry

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	"solsight/pkg/errors"
	"solsight/pkg/logger"
)

// Config contains retry configuration
type Config struct {
	MaxRetries   int           // additional attempts after the first one
	InitialDelay time.Duration // delay before the first retry
	MaxDelay     time.Duration // 0 disables the cap
	Multiplier   float64
}

// DefaultConfig returns the RPC policy: 3 retries, 1s, 2s, 4s
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: time.Second,
		Multiplier:   2.0,
	}
}

// Classifier decides whether an error is worth another attempt
type Classifier func(err error) bool

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes a Middleware
type Option func(*Middleware)

// WithClassifier replaces the default rate-limit classifier
func WithClassifier(c Classifier) Option {
	return func(m *Middleware) { m.retryable = c }
}

// WithSleeper replaces the timer-based wait, used by tests to record delays
func WithSleeper(s Sleeper) Option {
	return func(m *Middleware) { m.sleep = s }
}

// WithLogger sets the logger used for retry warnings
func WithLogger(log *logger.Logger) Option {
	return func(m *Middleware) { m.log = log }
}

// WithObserver registers a callback invoked before every retry
func WithObserver(fn func(op string, attempt int, delay time.Duration, err error)) Option {
	return func(m *Middleware) { m.observe = fn }
}

// Middleware retries rate-limited calls with exponential backoff
type Middleware struct {
	config    Config
	retryable Classifier
	sleep     Sleeper
	log       *logger.Logger
	observe   func(op string, attempt int, delay time.Duration, err error)
}

// New creates a new retry middleware
func New(config Config, opts ...Option) *Middleware {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}

	m := &Middleware{
		config:    config,
		retryable: IsRateLimited,
		sleep:     sleepContext,
		log:       logger.Get().Component("retry"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the effective configuration
func (m *Middleware) Config() Config {
	return m.config
}

// Do executes fn with retry logic
func (m *Middleware) Do(ctx context.Context, op string, fn func() error) error {
	_, err := Do(ctx, m, op, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// Do executes fn through m and returns its result. Non-retryable errors are
// returned unchanged; an exhausted budget yields *errors.RateLimitError wrapping
// the last error.
func Do[T any](ctx context.Context, m *Middleware, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= m.config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !m.retryable(err) {
			return zero, err
		}

		if attempt == m.config.MaxRetries {
			break
		}

		delay := m.Delay(attempt)
		m.log.Warnw("Server responded with 429, retrying",
			"op", op,
			"attempt", attempt+1,
			"max_retries", m.config.MaxRetries,
			"delay", delay,
			"error", err,
		)
		if m.observe != nil {
			m.observe(op, attempt+1, delay, err)
		}

		if err := m.sleep(ctx, delay); err != nil {
			return zero, errors.Wrap(err, "retry cancelled")
		}
	}

	return zero, &errors.RateLimitError{
		Op:       op,
		Attempts: m.config.MaxRetries + 1,
		Err:      lastErr,
	}
}

// Delay returns the backoff before retry number attempt (0-based)
func (m *Middleware) Delay(attempt int) time.Duration {
	delay := time.Duration(float64(m.config.InitialDelay) * math.Pow(m.config.Multiplier, float64(attempt)))

	if m.config.MaxDelay > 0 && delay > m.config.MaxDelay {
		delay = m.config.MaxDelay
	}

	return delay
}

// IsRateLimited reports whether err signals HTTP 429, either through a
// StatusCode() accessor or through its message.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr interface{ StatusCode() int }
	if errors.As(err, &httpErr) && httpErr.StatusCode() == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
