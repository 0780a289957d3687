// Package resilience wraps calls to external APIs in a circuit breaker with
// exponential-backoff retries, and falls back to a degraded answer when the
// call cannot be made.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/redact"
	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned when the breaker is open and the call was not attempted.
var ErrUnavailable = errors.New("service temporarily unavailable")

// Call outcomes reported to the Observer.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Observer receives call and fallback events, typically for metrics.
type Observer interface {
	ObserveCall(service, outcome string)
	ObserveFallback(service string)
}

type nopObserver struct{}

func (nopObserver) ObserveCall(string, string) {}
func (nopObserver) ObserveFallback(string)     {}

// Settings configures a Guard.
type Settings struct {
	Name                 string
	FailureThreshold     uint32
	OpenTimeout          time.Duration
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
	MaxRetries           uint64
}

// Guard protects one external service.
type Guard struct {
	settings Settings
	cb       *gobreaker.CircuitBreaker
	logger   *slog.Logger
	observer Observer
}

// NewGuard builds a guard. A nil observer discards events.
func NewGuard(s Settings, l *slog.Logger, obs Observer) *Guard {
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.RetryInitialInterval <= 0 {
		s.RetryInitialInterval = 200 * time.Millisecond
	}
	if s.RetryMaxElapsed <= 0 {
		s.RetryMaxElapsed = 10 * time.Second
	}
	if l == nil {
		l = slog.Default()
	}
	if obs == nil {
		obs = nopObserver{}
	}

	g := &Guard{
		settings: s,
		logger:   l.With(slog.String("service", s.Name)),
		observer: obs,
	}
	g.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.As(err, new(*requestError))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	return g
}

func (g *Guard) state() gobreaker.State {
	return g.cb.State()
}

// Permanent marks an error that retrying cannot fix, such as a 4xx response.
// Permanent errors are not retried and do not count towards opening the
// breaker.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// requestError carries a permanent failure through the breaker, which
// otherwise only sees the error backoff unwrapped.
type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func (g *Guard) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.settings.RetryInitialInterval
	bo.MaxElapsedTime = g.settings.RetryMaxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(bo, g.settings.MaxRetries), ctx)
}

// Do runs op through the breaker, retrying transient failures.
func Do[T any](ctx context.Context, g *Guard, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	res, err := g.cb.Execute(func() (interface{}, error) {
		var permanent bool
		v, err := backoff.RetryWithData(func() (T, error) {
			v, err := op(ctx)
			var pe *backoff.PermanentError
			permanent = errors.As(err, &pe)
			return v, err
		}, g.newBackOff(ctx))
		if err != nil && permanent {
			return v, &requestError{err: err}
		}
		return v, err
	})

	var reqErr *requestError
	if errors.As(err, &reqErr) {
		err = reqErr.err
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		g.observer.ObserveCall(g.settings.Name, OutcomeRejected)
		return zero, fmt.Errorf("%s: %w", g.settings.Name, ErrUnavailable)
	case err != nil:
		g.observer.ObserveCall(g.settings.Name, OutcomeFailure)
		return zero, err
	}

	g.observer.ObserveCall(g.settings.Name, OutcomeSuccess)
	v, _ := res.(T)
	return v, nil
}

// WithFallback runs op through Do. On failure the error is logged and
// fallback supplies the result; the returned bool reports whether it did.
func WithFallback[T any](
	ctx context.Context,
	g *Guard,
	op func(ctx context.Context) (T, error),
	fallback func(err error) T,
) (T, bool) {
	res, err := Do(ctx, g, op)
	if err == nil {
		return res, false
	}

	logger.FromContextOrDefault(ctx, g.logger).Warn("external call failed, using fallback",
		slog.String("service", g.settings.Name),
		slog.String("error", redact.Error(err)))
	g.observer.ObserveFallback(g.settings.Name)
	return fallback(err), true
}
