package api

import (
	"net/http"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/config"
)

// NewServer wraps handler in an http.Server using the configured write
// timeout. config.Load keeps it above the weather provider budget.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
