package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertHistory(t *testing.T, repos *Container, userID int64, city string, at time.Time) *model.HistoryRecord {
	t.Helper()
	rec := &model.HistoryRecord{
		UserID:       userID,
		City:         city,
		Country:      "Somewhere",
		Temperature:  21.5,
		Description:  "Sunny",
		Humidity:     40,
		WindSpeed:    12.3,
		RequestData:  types.JSONText(`{"city":"` + city + `"}`),
		ResponseData: types.JSONText(`{"current":{"temp_c":21.5}}`),
		CreatedAt:    at,
	}
	require.NoError(t, repos.History.Create(context.Background(), rec))
	require.NotZero(t, rec.ID)
	return rec
}

func TestHistoryRepository_ListPagination(t *testing.T) {
	repos, _, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	user := createUser(t, repos, "alice")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 17; i++ {
		insertHistory(t, repos, user.ID, fmt.Sprintf("City %02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page1, total, err := repos.History.List(ctx, user.ID, model.HistoryFilter{Page: 1, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, 17, total)
	require.Len(t, page1, 15)
	assert.Equal(t, "City 16", page1[0].City)
	assert.Equal(t, "City 02", page1[14].City)

	page2, total, err := repos.History.List(ctx, user.ID, model.HistoryFilter{Page: 2, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, 17, total)
	require.Len(t, page2, 2)
	assert.Equal(t, "City 01", page2[0].City)
	assert.Equal(t, "City 00", page2[1].City)

	assert.JSONEq(t, `{"city":"City 00"}`, string(page2[1].RequestData))
	assert.True(t, page2[1].CreatedAt.Equal(base))
}

func TestHistoryRepository_ListFilters(t *testing.T) {
	repos, _, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	user := createUser(t, repos, "alice")
	other := createUser(t, repos, "bob")

	insertHistory(t, repos, user.ID, "London", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	insertHistory(t, repos, user.ID, "Paris", time.Date(2024, 5, 2, 23, 59, 0, 0, time.UTC))
	insertHistory(t, repos, user.ID, "London", time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
	insertHistory(t, repos, other.ID, "London", time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC))

	day := func(d int) *time.Time {
		v := time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name     string
		filter   model.HistoryFilter
		expected []string
	}{
		{
			name:     "No filter",
			filter:   model.HistoryFilter{},
			expected: []string{"London", "Paris", "London"},
		},
		{
			name:     "City is case insensitive",
			filter:   model.HistoryFilter{City: "lOnDoN"},
			expected: []string{"London", "London"},
		},
		{
			name:     "Date range includes whole end day",
			filter:   model.HistoryFilter{FromDate: day(2), ToDate: day(2)},
			expected: []string{"Paris"},
		},
		{
			name:     "From date only",
			filter:   model.HistoryFilter{FromDate: day(2)},
			expected: []string{"London", "Paris"},
		},
		{
			name:     "Unknown city",
			filter:   model.HistoryFilter{City: "Tokyo"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = 1
			tt.filter.PerPage = 15
			records, total, err := repos.History.List(ctx, user.ID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expected), total)

			cities := make([]string, 0, len(records))
			for _, r := range records {
				assert.Equal(t, user.ID, r.UserID)
				cities = append(cities, r.City)
			}
			assert.Equal(t, tt.expected, cities)
		})
	}
}

func TestHistoryRepository_RecentAndTopCities(t *testing.T) {
	repos, _, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	user := createUser(t, repos, "alice")

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, city := range []string{"Paris", "London", "Paris", "Rome", "Paris", "London"} {
		insertHistory(t, repos, user.ID, city, base.Add(time.Duration(i)*time.Hour))
	}

	recent, err := repos.History.Recent(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "London", recent[0].City)
	assert.Equal(t, "Paris", recent[1].City)

	top, err := repos.History.MostSearchedCities(ctx, user.ID, 5)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, model.CitySearchCount{City: "Paris", Country: "Somewhere", Searches: 3}, top[0])
	assert.Equal(t, "London", top[1].City)
	assert.Equal(t, 2, top[1].Searches)
	assert.Equal(t, "Rome", top[2].City)
}

func TestHistoryRepository_Delete(t *testing.T) {
	repos, _, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	user := createUser(t, repos, "alice")
	other := createUser(t, repos, "bob")

	rec := insertHistory(t, repos, user.ID, "London", time.Now())
	insertHistory(t, repos, user.ID, "Paris", time.Now())
	insertHistory(t, repos, other.ID, "Rome", time.Now())

	deleted, err := repos.History.DeleteByID(ctx, other.ID, rec.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repos.History.DeleteByID(ctx, user.ID, rec.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	n, err := repos.History.DeleteAllByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, total, err := repos.History.List(ctx, other.ID, model.HistoryFilter{Page: 1, PerPage: 15})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestHistoryRepository_CreateDefaultsTimestampAndPayload(t *testing.T) {
	repos, _, cleanup := setupRepo(t)
	defer cleanup()
	ctx := context.Background()
	user := createUser(t, repos, "alice")

	rec := &model.HistoryRecord{UserID: user.ID, City: "Oslo"}
	require.NoError(t, repos.History.Create(ctx, rec))
	assert.False(t, rec.CreatedAt.IsZero())

	records, err := repos.History.Recent(ctx, user.ID, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.JSONEq(t, `{}`, string(records[0].RequestData))
}
