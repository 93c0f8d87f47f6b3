package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/database"
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: "stats_" + uuid.NewString()}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)

	err = database.Migrate(db, cfg.Type)
	require.NoError(t, err)

	return db
}

func insertUser(t *testing.T, db *sqlx.DB, name string, at time.Time) int64 {
	var id int64
	err := db.QueryRowx("INSERT INTO users (name, email, api_token_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id",
		name, name+"@example.com", uuid.NewString(), at, at).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertFavorite(t *testing.T, db *sqlx.DB, userID int64, city string, at time.Time) {
	_, err := db.Exec("INSERT INTO favorites (user_id, city, country, latitude, longitude, is_default, created_at, updated_at) VALUES (?, ?, 'XX', 0, 0, 0, ?, ?)",
		userID, city, at, at)
	require.NoError(t, err)
}

func insertLookup(t *testing.T, db *sqlx.DB, userID int64, city string, at time.Time) {
	_, err := db.Exec("INSERT INTO weather_history (user_id, city, country, temperature, description, humidity, wind_speed, created_at) VALUES (?, ?, 'X', 10, 'Sunny', 50, 5, ?)",
		userID, city, at)
	require.NoError(t, err)
}

func TestCollector_Usage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)
	alice := insertUser(t, db, "alice", now)
	bob := insertUser(t, db, "bob", now)
	insertUser(t, db, "carol", now)

	insertFavorite(t, db, alice, "Berlin", now)
	insertFavorite(t, db, alice, "Madrid", now)
	insertFavorite(t, db, bob, "Paris", now)

	insertLookup(t, db, alice, "London", now)
	insertLookup(t, db, alice, "london", now.Add(-time.Hour))
	insertLookup(t, db, bob, "Paris", now.AddDate(0, 0, -2))
	// Outside the window
	insertLookup(t, db, bob, "Rome", now.AddDate(0, 0, -10))

	collector := NewCollector(db, config.DBTypeMemory, WithClock(func() time.Time { return now }))

	stats, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, now, stats.Timestamp)
	assert.Equal(t, "memory", stats.Usage.Database)
	assert.Equal(t, int64(3), stats.Usage.Users)
	assert.Equal(t, int64(3), stats.Usage.Favorites)
	assert.Equal(t, int64(4), stats.Usage.HistoryRecords)
	assert.Equal(t, int64(3), stats.Usage.SearchedCities)
	assert.Equal(t, int64(2), stats.Usage.ActiveUsers)

	assert.Equal(t, []FavoriteBand{
		{Favorites: 0, Users: 1},
		{Favorites: 1, Users: 1},
		{Favorites: 2, Users: 1},
	}, stats.Usage.FavoritesPerUser)

	require.Len(t, stats.Usage.LookupsPerDay, LookupWindowDays)
	assert.Equal(t, DayCount{Day: "2024-05-04", Lookups: 0}, stats.Usage.LookupsPerDay[0])
	assert.Equal(t, DayCount{Day: "2024-05-08", Lookups: 1}, stats.Usage.LookupsPerDay[4])
	assert.Equal(t, DayCount{Day: "2024-05-10", Lookups: 2}, stats.Usage.LookupsPerDay[6])

	assert.Nil(t, stats.Cache)
	assert.GreaterOrEqual(t, stats.Process.Goroutines, 1)
	assert.Greater(t, stats.Process.HeapAllocBytes, uint64(0))
}

func TestCollector_EmptyDB(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	stats, err := NewCollector(db, config.DBTypeMemory).Collect(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.Usage.Users)
	assert.Zero(t, stats.Usage.HistoryRecords)
	assert.Empty(t, stats.Usage.FavoritesPerUser)
	require.Len(t, stats.Usage.LookupsPerDay, LookupWindowDays)
	for _, day := range stats.Usage.LookupsPerDay {
		assert.Zero(t, day.Lookups)
	}
}

func TestCollector_CacheFromMetrics(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	reg := prometheus.NewRegistry()
	recorder := metrics.NewCollector(reg)

	collector := NewCollector(db, config.DBTypeMemory, WithCache("redis", reg))

	stats, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.Cache)
	assert.Equal(t, "redis", stats.Cache.Driver)
	assert.Zero(t, stats.Cache.HitRatio)

	recorder.RecordCacheHit("current")
	recorder.RecordCacheHit("current")
	recorder.RecordCacheHit("search")
	recorder.RecordCacheMiss("forecast")
	recorder.RecordProviderRequest("forecast", metrics.OutcomeSuccess)

	stats, err = collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, stats.Cache.Hits)
	assert.Equal(t, 1.0, stats.Cache.Misses)
	assert.InDelta(t, 0.75, stats.Cache.HitRatio, 1e-9)
}
