package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"github.com/alexivanou/weather-favorites-api/internal/service"
	"github.com/alexivanou/weather-favorites-api/internal/weather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// hangingWeatherRouter serves the real stack against an upstream that never answers
func hangingWeatherRouter(t *testing.T, wcfg config.WeatherConfig) http.Handler {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(upstream.Close)

	wcfg.BaseURL = upstream.URL
	client := weather.NewClient(wcfg, nil, zap.NewNop())
	svc := service.NewService(client, &repository.Container{}, 15, metrics.Nop{}, zap.NewNop())

	return NewRouter(Dependencies{
		Service: svc,
		Users:   staticUsers{token: testToken, user: testUser},
		Locale:  config.LocaleConfig{Supported: []string{"en"}, Fallback: "en"},
		Logger:  zap.NewNop(),
	})
}

func startServer(t *testing.T, srv *http.Server) string {
	ts := httptest.NewUnstartedServer(srv.Handler)
	ts.Config = srv
	ts.Start()
	t.Cleanup(ts.Close)
	return ts.URL
}

func TestNewServer_ReportsExhaustedProviderCall(t *testing.T) {
	wcfg := config.WeatherConfig{
		APIKey:         "test-key",
		Timeout:        50 * time.Millisecond,
		RetryTimes:     3,
		RetrySleep:     10 * time.Millisecond,
		BreakerTimeout: time.Minute,
	}
	router := hangingWeatherRouter(t, wcfg)
	httpClient := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}

	t.Run("write timeout covers the provider budget", func(t *testing.T) {
		srv := NewServer(config.ServerConfig{WriteTimeout: config.MinWriteTimeout(wcfg)}, router)
		assert.Greater(t, srv.WriteTimeout, wcfg.RequestBudget())
		url := startServer(t, srv)

		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url+"/api/v1/weather/current?city=London", nil)
		require.NoError(t, err)
		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
		var body errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, model.ProviderErrorCode, body.Error.Code)
	})

	t.Run("shorter write timeout drops the connection", func(t *testing.T) {
		srv := NewServer(config.ServerConfig{WriteTimeout: wcfg.Timeout}, router)
		url := startServer(t, srv)

		resp, err := httpClient.Get(url + "/api/v1/weather/current?city=London")
		if err == nil {
			_, err = io.ReadAll(resp.Body)
			resp.Body.Close()
		}
		assert.Error(t, err)
	})
}
