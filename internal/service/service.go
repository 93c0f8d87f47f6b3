package service

import (
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/repository"
	"go.uber.org/zap"
)

// Service provides business logic for the API
type Service struct {
	*WeatherService
	*HistoryService
	*FavoriteService
	*UserService
}

// NewService wires the weather, history, favorite and profile services
func NewService(
	provider WeatherProvider,
	repos *repository.Container,
	perPage int,
	rec metrics.Recorder,
	logger *zap.Logger,
) *Service {
	history := NewHistoryService(repos.History, perPage)
	return &Service{
		WeatherService:  NewWeatherService(provider, history, rec, logger),
		HistoryService:  history,
		FavoriteService: NewFavoriteService(repos.Favorite),
		UserService:     NewUserService(repos.User),
	}
}
