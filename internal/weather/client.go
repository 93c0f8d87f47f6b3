// Package weather is the client for the upstream WeatherAPI.com service.
// Lookups are read through a cache, concurrent misses for the same key are
// coalesced, and transient upstream failures are retried behind a circuit breaker.
package weather

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/cache"
	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Operation names used in cache keys, logs and metrics
const (
	OpCurrent  = "current"
	OpForecast = "forecast"
	OpSearch   = "search"
)

const (
	defaultLanguage = "en"
	defaultUnits    = "metric"
	minForecastDays = 1
	maxForecastDays = 7
)

// Client fetches weather data from the upstream provider
type Client struct {
	cfg     config.WeatherConfig
	http    *http.Client
	cache   cache.Cache
	metrics metrics.Recorder
	logger  *zap.Logger
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(rec metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = rec
	}
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(cfg config.WeatherConfig, store cache.Cache, logger *zap.Logger, opts ...Option) *Client {
	if cfg.RetryTimes < 1 {
		cfg.RetryTimes = 1
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   store,
		metrics: metrics.Nop{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = c.newBreaker()
	return c
}

// CurrentWeather returns current conditions for city
func (c *Client) CurrentWeather(ctx context.Context, city string, opts model.WeatherOptions) (*model.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, model.NewValidationError("city", "is required")
	}
	effective := withDefaults(opts)
	key := cacheKey(OpCurrent, map[string]any{"city": city, "options": effective.Map()})

	return fetch(ctx, c, OpCurrent, key, c.cfg.CacheTTL, func(ctx context.Context) (*model.WeatherSnapshot, error) {
		params := url.Values{}
		params.Set("q", city)
		params.Set("lang", effective.Language)
		params.Set("units", effective.Units)

		body, err := c.get(ctx, OpCurrent, "/current.json", params)
		if err != nil {
			return nil, err
		}
		snap, err := parseCurrent(body)
		if err != nil {
			return nil, c.parseFailure(OpCurrent, err)
		}
		snap.RequestOptions = effective.Map()
		return snap, nil
	})
}

// Forecast returns a daily forecast for city. days must be within [1, 7].
func (c *Client) Forecast(ctx context.Context, city string, days int, opts model.WeatherOptions) ([]model.ForecastDay, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, model.NewValidationError("city", "is required")
	}
	if days < minForecastDays || days > maxForecastDays {
		return nil, model.NewValidationError("days", fmt.Sprintf("must be between %d and %d", minForecastDays, maxForecastDays))
	}
	effective := withDefaults(opts)
	key := cacheKey(OpForecast, map[string]any{"city": city, "days": days, "options": effective.Map()})

	return fetch(ctx, c, OpForecast, key, c.cfg.CacheTTL, func(ctx context.Context) ([]model.ForecastDay, error) {
		params := url.Values{}
		params.Set("q", city)
		params.Set("days", strconv.Itoa(days))
		params.Set("lang", effective.Language)
		params.Set("units", effective.Units)

		body, err := c.get(ctx, OpForecast, "/forecast.json", params)
		if err != nil {
			return nil, err
		}
		forecast, err := parseForecast(body)
		if err != nil {
			return nil, c.parseFailure(OpForecast, err)
		}
		return forecast, nil
	})
}

// SearchCity returns cities matching query
func (c *Client) SearchCity(ctx context.Context, query string) ([]model.CitySearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.NewValidationError("q", "is required")
	}
	key := cacheKey(OpSearch, map[string]any{"query": query})

	return fetch(ctx, c, OpSearch, key, c.cfg.SearchCacheTTL, func(ctx context.Context) ([]model.CitySearchResult, error) {
		params := url.Values{}
		params.Set("q", query)

		body, err := c.get(ctx, OpSearch, "/search.json", params)
		if err != nil {
			return nil, err
		}
		results, err := parseSearch(body)
		if err != nil {
			return nil, c.parseFailure(OpSearch, err)
		}
		return results, nil
	})
}

// fetch reads key through the cache and calls load on a miss. Concurrent
// misses for one key share a single load.
func fetch[T any](ctx context.Context, c *Client, op, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if cached, ok := cacheGet[T](ctx, c, op, key); ok {
		return cached, nil
	}

	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		result, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.cacheSet(ctx, op, key, result, ttl)
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		c.logger.Debug("Coalesced weather lookup", zap.String("op", op), zap.String("key", key))
	}
	return v.(T), nil
}

func cacheGet[T any](ctx context.Context, c *Client, op, key string) (T, bool) {
	var zero T
	if !c.cacheEnabled() {
		return zero, false
	}

	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Weather cache read failed", zap.String("op", op), zap.Error(err))
		c.metrics.RecordCacheMiss(op)
		return zero, false
	}
	if !found {
		c.metrics.RecordCacheMiss(op)
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.logger.Warn("Discarding unreadable cache entry", zap.String("op", op), zap.Error(err))
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn("Weather cache delete failed", zap.String("op", op), zap.Error(err))
		}
		c.metrics.RecordCacheMiss(op)
		return zero, false
	}
	c.metrics.RecordCacheHit(op)
	return v, true
}

func (c *Client) cacheSet(ctx context.Context, op, key string, v any, ttl time.Duration) {
	if !c.cacheEnabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode weather cache entry", zap.String("op", op), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, raw, ttl); err != nil {
		c.logger.Warn("Weather cache write failed", zap.String("op", op), zap.Error(err))
	}
}

func (c *Client) cacheEnabled() bool {
	return c.cfg.CacheEnabled && c.cache != nil
}

func (c *Client) parseFailure(op string, err error) error {
	c.metrics.RecordProviderRequest(op, metrics.OutcomeParseError)
	c.logger.Error("Unreadable weather provider response", zap.String("op", op), zap.Error(err))
	return &model.ProviderError{
		StatusCode: http.StatusBadGateway,
		Code:       model.ProviderParseErrorCode,
		Message:    "invalid response from weather provider",
	}
}

// cacheKey hashes the canonical JSON of parts. encoding/json sorts map keys.
func cacheKey(op string, parts map[string]any) string {
	raw, _ := json.Marshal(parts)
	sum := sha256.Sum256(append([]byte(op+":"), raw...))
	return "weather:" + op + ":" + hex.EncodeToString(sum[:])
}

func withDefaults(opts model.WeatherOptions) model.WeatherOptions {
	if opts.Language == "" {
		opts.Language = defaultLanguage
	}
	if opts.Units == "" {
		opts.Units = defaultUnits
	}
	return opts
}
