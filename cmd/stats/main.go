package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/database"
	"github.com/alexivanou/weather-favorites-api/internal/stats"
	"go.uber.org/zap"
)

// Prints a usage report of the configured database. Cache figures live in the
// server's metrics registry and are only available from GET /api/v1/stats.
func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DB.IsMemory() {
		logger.Warn("DB_TYPE is memory, the report covers an empty database")
	}

	report, err := stats.NewCollector(db, cfg.DB.Type).Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	switch format := os.Getenv("OUTPUT_FORMAT"); format {
	case "", "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text":
		printReport(report)
	default:
		logger.Fatal("Unknown output format", zap.String("format", format))
	}
}

func printReport(s *stats.Stats) {
	u := s.Usage
	fmt.Printf("Weather favorites usage (%s, %s)\n\n", u.Database, s.Timestamp.Format("2006-01-02 15:04 MST"))

	fmt.Printf("Users:            %d (%d active)\n", u.Users, u.ActiveUsers)
	fmt.Printf("Favorites:        %d\n", u.Favorites)
	fmt.Printf("Lookups:          %d over %d cities\n\n", u.HistoryRecords, u.SearchedCities)

	fmt.Println("Favorites per user:")
	for _, band := range u.FavoritesPerUser {
		fmt.Printf("  %3d favorites  %6d users\n", band.Favorites, band.Users)
	}

	fmt.Printf("\nLookups, last %d days:\n", stats.LookupWindowDays)
	var peak int64
	for _, day := range u.LookupsPerDay {
		if day.Lookups > peak {
			peak = day.Lookups
		}
	}
	for _, day := range u.LookupsPerDay {
		fmt.Printf("  %s %6d %s\n", day.Day, day.Lookups, bar(day.Lookups, peak))
	}
}

// bar scales n against peak to at most 40 marks
func bar(n, peak int64) string {
	if peak == 0 {
		return ""
	}
	return strings.Repeat("#", int(n*40/peak))
}
