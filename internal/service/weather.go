package service

import (
	"context"

	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/model"
	"go.uber.org/zap"
)

const defaultForecastDays = 3

// WeatherService runs weather lookups and records them for signed-in users
type WeatherService struct {
	provider WeatherProvider
	history  HistoryRecorder
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewWeatherService creates a WeatherService. A nil recorder disables metrics.
func NewWeatherService(provider WeatherProvider, history HistoryRecorder, rec metrics.Recorder, logger *zap.Logger) *WeatherService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &WeatherService{
		provider: provider,
		history:  history,
		metrics:  rec,
		logger:   logger,
	}
}

// CurrentWeather looks up city and, when userID is set, records the lookup.
// Recording is best effort and never fails the lookup.
func (s *WeatherService) CurrentWeather(ctx context.Context, userID *int64, city string, opts model.WeatherOptions) (*model.WeatherSnapshot, error) {
	snap, err := s.provider.CurrentWeather(ctx, city, opts)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		if _, err := s.history.Record(ctx, *userID, snap); err != nil {
			s.metrics.RecordHistoryWriteFailure()
			s.logger.Error("Failed to record weather history",
				zap.Int64("user_id", *userID),
				zap.String("city", snap.City),
				zap.Error(err),
			)
		}
	}

	return snap, nil
}

// Forecast returns a daily forecast. Zero days means the default of three.
func (s *WeatherService) Forecast(ctx context.Context, city string, days int, opts model.WeatherOptions) ([]model.ForecastDay, error) {
	if days == 0 {
		days = defaultForecastDays
	}
	return s.provider.Forecast(ctx, city, days, opts)
}

// SearchCity returns cities matching query
func (s *WeatherService) SearchCity(ctx context.Context, query string) ([]model.CitySearchResult, error) {
	return s.provider.SearchCity(ctx, query)
}
