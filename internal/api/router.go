package api

import (
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/config"
	"github.com/alexivanou/weather-favorites-api/internal/metrics"
	"github.com/alexivanou/weather-favorites-api/internal/service"
	"github.com/alexivanou/weather-favorites-api/internal/stats"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router wires into handlers.
// Stats and Gatherer are optional.
type Dependencies struct {
	Service            service.ServiceInterface
	Users              UserLookup
	Stats              *stats.Collector
	Gatherer           prometheus.Gatherer
	Locale             config.LocaleConfig
	RateLimitPerMinute int
	Logger             *zap.Logger
}

// NewRouter creates a new HTTP router
func NewRouter(deps Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(deps.Service, logger)

	router := mux.NewRouter()
	router.Use(logRequests(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	if deps.Gatherer != nil {
		router.Handle("/metrics", metrics.Handler(deps.Gatherer)).Methods(http.MethodGet)
	}

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.Use(authenticate(deps.Users, logger))
	if deps.RateLimitPerMinute > 0 {
		v1.Use(NewRateLimiter(deps.RateLimitPerMinute, logger).Middleware)
	}
	v1.Use(localize(deps.Locale))

	if deps.Stats != nil {
		v1.HandleFunc("/stats", NewStatsHandler(deps.Stats, logger).GetStats).Methods(http.MethodGet)
	}

	// Weather
	v1.HandleFunc("/weather/current", handler.CurrentWeather).Methods(http.MethodGet)
	v1.HandleFunc("/weather/forecast", handler.Forecast).Methods(http.MethodGet)
	v1.HandleFunc("/weather/search", handler.SearchCity).Methods(http.MethodGet)

	// History
	v1.HandleFunc("/weather/history", handler.requireUser(handler.ListHistory)).Methods(http.MethodGet)
	v1.HandleFunc("/weather/history", handler.requireUser(handler.ClearHistory)).Methods(http.MethodDelete)
	v1.HandleFunc("/weather/history/top-cities", handler.requireUser(handler.TopCities)).Methods(http.MethodGet)
	v1.HandleFunc("/weather/history/recent", handler.requireUser(handler.RecentSearches)).Methods(http.MethodGet)
	v1.HandleFunc("/weather/history/{id:[0-9]+}", handler.requireUser(handler.DeleteHistory)).Methods(http.MethodDelete)

	// Profile
	v1.HandleFunc("/profile", handler.requireUser(handler.GetProfile)).Methods(http.MethodGet)
	v1.HandleFunc("/profile", handler.requireUser(handler.UpdateProfile)).Methods(http.MethodPut)

	// Favorites
	v1.HandleFunc("/favorites", handler.requireUser(handler.ListFavorites)).Methods(http.MethodGet)
	v1.HandleFunc("/favorites", handler.requireUser(handler.AddFavorite)).Methods(http.MethodPost)
	v1.HandleFunc("/favorites/default", handler.requireUser(handler.GetDefaultFavorite)).Methods(http.MethodGet)
	v1.HandleFunc("/favorites/{id:[0-9]+}", handler.requireUser(handler.UpdateFavorite)).Methods(http.MethodPut)
	v1.HandleFunc("/favorites/{id:[0-9]+}", handler.requireUser(handler.RemoveFavorite)).Methods(http.MethodDelete)
	v1.HandleFunc("/favorites/{id:[0-9]+}/default", handler.requireUser(handler.SetDefaultFavorite)).Methods(http.MethodPut)

	return router
}
