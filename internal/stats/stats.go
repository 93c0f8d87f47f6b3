// Package stats reports usage of the weather favorites service: how many
// users, favorites and lookups exist, how lookups spread over recent days,
// and how well the provider cache is doing.
package stats

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// LookupWindowDays is how many days LookupsPerDay covers, today included
	LookupWindowDays = 7

	cacheHitsMetric   = "weather_cache_hits_total"
	cacheMissesMetric = "weather_cache_misses_total"
)

// Stats is a point-in-time usage report
type Stats struct {
	Timestamp time.Time   `json:"timestamp"`
	Usage     UsageStats  `json:"usage"`
	Cache     *CacheStats `json:"cache,omitempty"`
	Process   Process     `json:"process"`
}

// UsageStats describes the stored users, favorites and lookups
type UsageStats struct {
	Database         string         `json:"database"`
	Users            int64          `json:"users"`
	Favorites        int64          `json:"favorites"`
	HistoryRecords   int64          `json:"history_records"`
	SearchedCities   int64          `json:"searched_cities"`
	ActiveUsers      int64          `json:"active_users"`
	FavoritesPerUser []FavoriteBand `json:"favorites_per_user"`
	LookupsPerDay    []DayCount     `json:"lookups_per_day"`
}

// FavoriteBand is the number of users holding exactly Favorites favorites
type FavoriteBand struct {
	Favorites int64 `json:"favorites" db:"favorites"`
	Users     int64 `json:"users" db:"users"`
}

// DayCount is the number of lookups recorded on a UTC day
type DayCount struct {
	Day     string `json:"day" db:"day"`
	Lookups int64  `json:"lookups" db:"lookups"`
}

// CacheStats summarizes provider cache effectiveness since process start
type CacheStats struct {
	Driver   string  `json:"driver"`
	Hits     float64 `json:"hits"`
	Misses   float64 `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// Process holds runtime figures of the serving process
type Process struct {
	Goroutines      int    `json:"goroutines"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	NumGC           uint32 `json:"num_gc"`
	OpenConnections int    `json:"open_connections"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
}

// Option configures a Collector
type Option func(*Collector)

// WithCache reports cache hits and misses read from gatherer
func WithCache(driver string, gatherer prometheus.Gatherer) Option {
	return func(c *Collector) {
		c.cacheDriver = driver
		c.gatherer = gatherer
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

// Collector builds Stats from the database and the metrics registry
type Collector struct {
	db          *sqlx.DB
	dbType      config.DBType
	cacheDriver string
	gatherer    prometheus.Gatherer
	now         func() time.Time
	startTime   time.Time
}

// NewCollector creates a Collector for db
func NewCollector(db *sqlx.DB, dbType config.DBType, opts ...Option) *Collector {
	c := &Collector{
		db:     db,
		dbType: dbType,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startTime = c.now()
	return c
}

// Collect builds a fresh report
func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	now := c.now().UTC()

	usage, err := c.collectUsage(ctx, now)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		Timestamp: now,
		Usage:     *usage,
		Process:   c.collectProcess(now),
	}

	if c.gatherer != nil {
		cacheStats, err := c.collectCache()
		if err != nil {
			return nil, err
		}
		stats.Cache = cacheStats
	}
	return stats, nil
}

func (c *Collector) collectUsage(ctx context.Context, now time.Time) (*UsageStats, error) {
	usage := &UsageStats{Database: string(c.dbType)}

	var counts struct {
		Users          int64 `db:"users"`
		Favorites      int64 `db:"favorites"`
		HistoryRecords int64 `db:"history_records"`
		SearchedCities int64 `db:"searched_cities"`
		ActiveUsers    int64 `db:"active_users"`
	}
	countQuery := `SELECT
		(SELECT COUNT(*) FROM users) AS users,
		(SELECT COUNT(*) FROM favorites) AS favorites,
		(SELECT COUNT(*) FROM weather_history) AS history_records,
		(SELECT COUNT(DISTINCT LOWER(city)) FROM weather_history) AS searched_cities,
		(SELECT COUNT(*) FROM (
			SELECT user_id FROM favorites
			UNION
			SELECT user_id FROM weather_history
		) AS active) AS active_users`
	if err := c.db.GetContext(ctx, &counts, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count usage: %w", err)
	}
	usage.Users = counts.Users
	usage.Favorites = counts.Favorites
	usage.HistoryRecords = counts.HistoryRecords
	usage.SearchedCities = counts.SearchedCities
	usage.ActiveUsers = counts.ActiveUsers

	bands := []FavoriteBand{}
	bandQuery := `SELECT favorites, COUNT(*) AS users FROM (
			SELECT u.id, COUNT(f.id) AS favorites
			FROM users u LEFT JOIN favorites f ON f.user_id = u.id
			GROUP BY u.id
		) AS per_user
		GROUP BY favorites
		ORDER BY favorites`
	if err := c.db.SelectContext(ctx, &bands, bandQuery); err != nil {
		return nil, fmt.Errorf("failed to get favorites per user: %w", err)
	}
	usage.FavoritesPerUser = bands

	days, err := c.lookupsPerDay(ctx, now)
	if err != nil {
		return nil, err
	}
	usage.LookupsPerDay = days

	return usage, nil
}

// lookupsPerDay returns one entry per day of the window, oldest first,
// with zero for days without lookups.
func (c *Collector) lookupsPerDay(ctx context.Context, now time.Time) ([]DayCount, error) {
	dayExpr := "substr(created_at, 1, 10)"
	if c.dbType == config.DBTypePostgreSQL {
		dayExpr = "to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}

	today := now.Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -(LookupWindowDays - 1)).Format(dayLayout)

	var rows []DayCount
	query := c.db.Rebind(`SELECT ` + dayExpr + ` AS day, COUNT(*) AS lookups
		FROM weather_history
		WHERE ` + dayExpr + ` >= ?
		GROUP BY ` + dayExpr)
	if err := c.db.SelectContext(ctx, &rows, query, first); err != nil {
		return nil, fmt.Errorf("failed to get lookups per day: %w", err)
	}

	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Day] = row.Lookups
	}

	days := make([]DayCount, 0, LookupWindowDays)
	for i := LookupWindowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dayLayout)
		days = append(days, DayCount{Day: day, Lookups: byDay[day]})
	}
	return days, nil
}

const dayLayout = "2006-01-02"

func (c *Collector) collectCache() (*CacheStats, error) {
	families, err := c.gatherer.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather cache metrics: %w", err)
	}

	cacheStats := &CacheStats{Driver: c.cacheDriver}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		switch mf.GetName() {
		case cacheHitsMetric:
			cacheStats.Hits = total
		case cacheMissesMetric:
			cacheStats.Misses = total
		}
	}
	if lookups := cacheStats.Hits + cacheStats.Misses; lookups > 0 {
		cacheStats.HitRatio = cacheStats.Hits / lookups
	}
	return cacheStats, nil
}

func (c *Collector) collectProcess(now time.Time) Process {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return Process{
		Goroutines:      runtime.NumGoroutine(),
		HeapAllocBytes:  m.HeapAlloc,
		NumGC:           m.NumGC,
		OpenConnections: c.db.Stats().OpenConnections,
		UptimeSeconds:   int64(now.Sub(c.startTime).Seconds()),
	}
}
