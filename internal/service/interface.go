package service

import (
	"context"

	"github.com/alexivanou/weather-favorites-api/internal/model"
)

// WeatherProvider is the upstream weather lookup used by WeatherService
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, city string, opts model.WeatherOptions) (*model.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string, days int, opts model.WeatherOptions) ([]model.ForecastDay, error)
	SearchCity(ctx context.Context, query string) ([]model.CitySearchResult, error)
}

// HistoryRecorder persists a lookup for a user
type HistoryRecorder interface {
	Record(ctx context.Context, userID int64, snap *model.WeatherSnapshot) (*model.HistoryRecord, error)
}

// WeatherAPI defines weather operations exposed to handlers
type WeatherAPI interface {
	CurrentWeather(ctx context.Context, userID *int64, city string, opts model.WeatherOptions) (*model.WeatherSnapshot, error)
	Forecast(ctx context.Context, city string, days int, opts model.WeatherOptions) ([]model.ForecastDay, error)
	SearchCity(ctx context.Context, query string) ([]model.CitySearchResult, error)
}

// HistoryAPI defines history operations exposed to handlers
type HistoryAPI interface {
	List(ctx context.Context, userID int64, filter model.HistoryFilter) (*model.HistoryPage, error)
	Clear(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, historyID int64) (bool, error)
	MostSearchedCities(ctx context.Context, userID int64, limit int) ([]model.CitySearchCount, error)
	RecentSearches(ctx context.Context, userID int64, limit int) ([]model.HistoryRecord, error)
}

// FavoriteAPI defines favorite operations exposed to handlers
type FavoriteAPI interface {
	ListFavorites(ctx context.Context, userID int64) ([]model.Favorite, error)
	AddFavorite(ctx context.Context, userID int64, in model.NewFavorite) (*model.Favorite, error)
	UpdateFavorite(ctx context.Context, userID, favoriteID int64, in model.FavoriteUpdate) (*model.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, favoriteID int64) error
	SetDefaultFavorite(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error)
	GetDefaultFavorite(ctx context.Context, userID int64) (*model.Favorite, error)
	IsCityFavorite(ctx context.Context, userID int64, city string) (bool, error)
}

// ProfileAPI defines profile operations exposed to handlers
type ProfileAPI interface {
	GetProfile(ctx context.Context, userID int64) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, in model.ProfileUpdate) (*model.User, error)
}

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	WeatherAPI
	HistoryAPI
	FavoriteAPI
	ProfileAPI
}
