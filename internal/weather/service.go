// Package weather serves current conditions and forecasts with farming
// advisories, cached per location.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrinathi/agrinathi-api/internal/domain"
	"github.com/agrinathi/agrinathi-api/internal/platform/logger"
	"github.com/agrinathi/agrinathi-api/internal/redact"
	"github.com/agrinathi/agrinathi-api/internal/resilience"
)

// ErrUnavailable is returned when weather cannot be fetched and nothing is cached.
var ErrUnavailable = errors.New("weather data unavailable")

// DefaultTTL is how long fetched weather is served from cache.
const DefaultTTL = 30 * time.Minute

// staleTTL bounds how old a last-known value may be when served after a failed fetch.
const staleTTL = 24 * time.Hour

// Provider fetches live weather.
type Provider interface {
	Current(ctx context.Context, loc domain.Location) (*domain.WeatherData, error)
	Forecast(ctx context.Context, loc domain.Location) ([]domain.DailyForecast, error)
}

// Cache stores serialized weather.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CacheObserver counts cache lookups.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type nopObserver struct{}

func (nopObserver) CacheHit()  {}
func (nopObserver) CacheMiss() {}

// Service is the weather use case.
type Service struct {
	provider Provider
	cache    Cache
	guard    *resilience.Guard
	ttl      time.Duration
	observer CacheObserver
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables caching. Without it every call is a live fetch.
func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithObserver reports cache hits and misses.
func WithObserver(o CacheObserver) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService creates a Service fetching through guard.
func NewService(p Provider, guard *resilience.Guard, l *slog.Logger, opts ...Option) *Service {
	if l == nil {
		l = slog.Default()
	}
	s := &Service{
		provider: p,
		guard:    guard,
		ttl:      DefaultTTL,
		observer: nopObserver{},
		logger:   l.With(slog.String("component", "weather")),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Current returns current conditions at loc.
func (s *Service) Current(ctx context.Context, loc domain.Location) (*domain.WeatherData, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	var out domain.WeatherData
	err := s.cached(ctx, "current:"+loc.Key(), &out, func(ctx context.Context) (any, error) {
		w, err := resilience.Do(ctx, s.guard, func(ctx context.Context) (*domain.WeatherData, error) {
			return s.provider.Current(ctx, loc)
		})
		if err != nil {
			return nil, err
		}
		if loc.Name != "" {
			w.Location.Name = loc.Name
		}
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast returns daily forecasts for loc with advisories and ET0.
func (s *Service) Forecast(ctx context.Context, loc domain.Location) (*domain.Forecast, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	var out domain.Forecast
	err := s.cached(ctx, "forecast:"+loc.Key(), &out, func(ctx context.Context) (any, error) {
		days, err := resilience.Do(ctx, s.guard, func(ctx context.Context) ([]domain.DailyForecast, error) {
			return s.provider.Forecast(ctx, loc)
		})
		if err != nil {
			return nil, err
		}
		for i := range days {
			days[i].ET0 = HargreavesET0(days[i].TempMin, days[i].TempMax, loc.Latitude, days[i].Date)
		}
		return &domain.Forecast{
			Location:   loc,
			Days:       days,
			Advisories: Advisories(days),
			FetchedAt:  s.now().UTC(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// cached decodes key into out, or calls fetch, stores the result under
// key and a long-lived stale copy, and decodes it into out. When fetch
// fails the stale copy is served if one exists.
func (s *Service) cached(
	ctx context.Context,
	key string,
	out any,
	fetch func(ctx context.Context) (any, error),
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if raw, ok := s.read(ctx, key); ok {
		if err := json.Unmarshal(raw, out); err == nil {
			s.observer.CacheHit()
			return nil
		}
		log.Warn("discarding undecodable cached weather", slog.String("key", key))
	}
	s.observer.CacheMiss()

	v, err := fetch(ctx)
	if err != nil {
		if raw, ok := s.read(ctx, "stale:"+key); ok && json.Unmarshal(raw, out) == nil {
			log.Warn("weather fetch failed, serving last known value",
				slog.String("key", key),
				slog.String("error", redact.Error(err)))
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode weather: %w", err)
	}
	s.write(ctx, key, raw, s.ttl)
	s.write(ctx, "stale:"+key, raw, staleTTL)
	return json.Unmarshal(raw, out)
}

func (s *Service) read(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("weather cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, false
	}
	return raw, ok
}

func (s *Service) write(ctx context.Context, key string, raw []byte, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, ttl); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("weather cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
