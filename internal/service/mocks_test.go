package service

import (
	"context"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockFavoriteRepository implements repository.FavoriteRepository interface
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID int64) ([]model.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) GetByID(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	args := m.Called(ctx, userID, favoriteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) GetDefault(ctx context.Context, userID int64) (*model.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) ExistsByCity(ctx context.Context, userID int64, city string) (bool, error) {
	args := m.Called(ctx, userID, city)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID int64, favorite model.NewFavorite) (*model.Favorite, error) {
	args := m.Called(ctx, userID, favorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Update(ctx context.Context, userID, favoriteID int64, favorite model.FavoriteUpdate) (*model.Favorite, error) {
	args := m.Called(ctx, userID, favoriteID, favorite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, favoriteID int64) error {
	args := m.Called(ctx, userID, favoriteID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) TransferDefault(ctx context.Context, userID, favoriteID int64) (*model.Favorite, error) {
	args := m.Called(ctx, userID, favoriteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

// MockUserRepository implements repository.UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, profile model.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, id, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockHistoryRepository implements repository.HistoryRepository interface
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, record *model.HistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) List(ctx context.Context, userID int64, filter model.HistoryFilter) ([]model.HistoryRecord, int, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.HistoryRecord), args.Int(1), args.Error(2)
}

func (m *MockHistoryRepository) Recent(ctx context.Context, userID int64, limit int) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}

func (m *MockHistoryRepository) MostSearchedCities(ctx context.Context, userID int64, limit int) ([]model.CitySearchCount, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CitySearchCount), args.Error(1)
}

func (m *MockHistoryRepository) DeleteByID(ctx context.Context, userID, historyID int64) (bool, error) {
	args := m.Called(ctx, userID, historyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryRepository) DeleteAllByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockWeatherProvider implements WeatherProvider interface
type MockWeatherProvider struct {
	mock.Mock
}

func (m *MockWeatherProvider) CurrentWeather(ctx context.Context, city string, opts model.WeatherOptions) (*model.WeatherSnapshot, error) {
	args := m.Called(ctx, city, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeatherSnapshot), args.Error(1)
}

func (m *MockWeatherProvider) Forecast(ctx context.Context, city string, days int, opts model.WeatherOptions) ([]model.ForecastDay, error) {
	args := m.Called(ctx, city, days, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ForecastDay), args.Error(1)
}

func (m *MockWeatherProvider) SearchCity(ctx context.Context, query string) ([]model.CitySearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CitySearchResult), args.Error(1)
}

// MockHistoryRecorder implements HistoryRecorder interface
type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) Record(ctx context.Context, userID int64, snap *model.WeatherSnapshot) (*model.HistoryRecord, error) {
	args := m.Called(ctx, userID, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryRecord), args.Error(1)
}
