// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resilience shields outbound provider calls with a per-service
// circuit breaker and an exponential-backoff retry policy. One Wrapper is
// created per provider at process start; its counters are the only
// concurrency-sensitive state in the core.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/hanguk-labs/local-guide/pkg/types"
)

// ErrUnavailable is returned when the circuit is open and the call is
// rejected before reaching the network.
var ErrUnavailable = errors.New("service unavailable: circuit open")

// Defaults applied when the config leaves a field zero.
const (
	defaultFailureThreshold = 5
	defaultRecoveryTimeout  = 60 * time.Second
	defaultMaxRetries       = 3
	defaultBaseDelay        = 1 * time.Second
	defaultBackoffFactor    = 2.0
)

// Wrapper combines a circuit breaker with a retry policy for one provider.
// Retries run inside the breaker, so an exhausted retry sequence counts as
// a single breaker failure.
type Wrapper struct {
	name     string
	cfg      types.ResilienceConfig
	cb       *gobreaker.CircuitBreaker[any]
	failures atomic.Uint32
	log      zerolog.Logger
}

// New builds a Wrapper for the named provider. Zero config fields fall
// back to the package defaults.
func New(name string, cfg types.ResilienceConfig, log zerolog.Logger) *Wrapper {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = defaultRecoveryTimeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = defaultBackoffFactor
	}

	w := &Wrapper{name: name, cfg: cfg, log: log.With().Str("component", "resilience").Str("service", name).Logger()}

	w.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: name,
		// One probe call while half-open.
		MaxRequests: 1,
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			w.log.Warn().Str("from", stateName(from)).Str("to", stateName(to)).Msg("circuit state change")
		},
	})

	return w
}

// Do executes op through the breaker, retrying transient failures with
// exponential backoff (BaseDelay * BackoffFactor^attempt). While the
// circuit is open, Do fails fast with ErrUnavailable and op is never
// invoked. Backoff waits respect ctx cancellation.
func (w *Wrapper) Do(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	result, err := w.cb.Execute(func() (any, error) {
		return w.retry(ctx, op)
	})
	switch {
	case err == nil:
		w.failures.Store(0)
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		// Rejected without reaching op; not a new provider failure.
		return nil, fmt.Errorf("%s: %w", w.name, ErrUnavailable)
	default:
		w.failures.Add(1)
		return nil, err
	}
}

// retry runs op up to MaxRetries+1 times. The final error propagates to
// the breaker's failure accounting.
func (w *Wrapper) retry(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = w.cfg.BaseDelay
	bo.Multiplier = w.cfg.BackoffFactor
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.MaxInterval = 5 * time.Minute

	var result any
	attempt := 0
	operation := func() error {
		attempt++
		r, err := op(ctx)
		if err != nil {
			return err
		}
		result = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		w.log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("provider call failed, retrying")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(bo, w.cfg.MaxRetries), ctx), notify)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", w.name, err)
	}
	return result, nil
}

// Do executes a typed operation through the wrapper.
func Do[T any](ctx context.Context, w *Wrapper, op func(ctx context.Context) (T, error)) (T, error) {
	result, err := w.Do(ctx, func(ctx context.Context) (any, error) {
		return op(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Available reports whether calls are currently allowed through (the
// circuit is not open).
func (w *Wrapper) Available() bool {
	return w.cb.State() != gobreaker.StateOpen
}

// Status returns the observability contract for health endpoints.
func (w *Wrapper) Status() types.ServiceStatus {
	return types.ServiceStatus{
		Service:      w.name,
		State:        stateName(w.cb.State()),
		FailureCount: w.failures.Load(),
		Available:    w.Available(),
	}
}

// stateName maps breaker states onto the wire values used by the status
// contract.
func stateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
