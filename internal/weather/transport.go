package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const maxResponseBytes = 4 << 20

func (c *Client) newBreaker() *gobreaker.CircuitBreaker {
	threshold := c.cfg.BreakerThreshold
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 1,
		Timeout:     c.cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return threshold > 0 && counts.ConsecutiveFailures >= uint32(threshold)
		},
		// Only transient failures say anything about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || !retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Weather provider circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// get performs the request with up to RetryTimes attempts. Transport failures
// and 5xx responses are retried after RetrySleep; anything else returns at once.
func (c *Client) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	params.Set("key", c.cfg.APIKey)
	u := c.cfg.BaseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryTimes; attempt++ {
		if attempt > 1 {
			c.metrics.RecordProviderRetry(op)
			if err := sleep(ctx, c.cfg.RetrySleep); err != nil {
				return nil, transportError(err)
			}
		}

		body, err := c.attempt(ctx, op, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			break
		}
		c.logger.Warn("Weather provider attempt failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.RetryTimes),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, op, u string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, op, u)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.metrics.RecordProviderRequest(op, metrics.OutcomeBreakerOpen)
		return nil, &model.ProviderError{
			StatusCode: http.StatusServiceUnavailable,
			Code:       model.ProviderUnavailable,
			Message:    "weather provider unavailable",
		}
	}
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, op, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.RecordProviderLatency(op, time.Since(start))
	if err != nil {
		c.metrics.RecordProviderRequest(op, metrics.OutcomeTransport)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.RecordProviderRequest(op, metrics.OutcomeTransport)
		return nil, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome := metrics.OutcomeClientError
		if resp.StatusCode >= 500 {
			outcome = metrics.OutcomeServerError
		}
		c.metrics.RecordProviderRequest(op, outcome)
		return nil, &model.ProviderError{
			StatusCode: resp.StatusCode,
			Code:       model.ProviderErrorCode,
			Message:    upstreamMessage(body),
		}
	}

	c.metrics.RecordProviderRequest(op, metrics.OutcomeSuccess)
	return body, nil
}

// retryable reports whether err is a transport failure or upstream 5xx
func retryable(err error) bool {
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.StatusCode >= 500 && pe.Code == model.ProviderErrorCode
}

func transportError(err error) *model.ProviderError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &model.ProviderError{
			StatusCode: http.StatusGatewayTimeout,
			Code:       model.ProviderErrorCode,
			Message:    "weather provider timed out",
		}
	}
	return &model.ProviderError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       model.ProviderErrorCode,
		Message:    fmt.Sprintf("weather provider unreachable: %v", err),
	}
}

// upstreamMessage extracts error.message from a WeatherAPI error body
func upstreamMessage(body []byte) string {
	var payload struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return "Weather API error"
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
