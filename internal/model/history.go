package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// HistoryRecord is a persisted weather lookup
type HistoryRecord struct {
	ID           int64          `json:"id" db:"id"`
	UserID       int64          `json:"user_id" db:"user_id"`
	City         string         `json:"city" db:"city"`
	Country      string         `json:"country" db:"country"`
	Temperature  float64        `json:"temperature" db:"temperature"`
	Description  string         `json:"description" db:"description"`
	Humidity     float64        `json:"humidity" db:"humidity"`
	WindSpeed    float64        `json:"wind_speed" db:"wind_speed"`
	RequestData  types.JSONText `json:"request_data" db:"request_data"`
	ResponseData types.JSONText `json:"response_data" db:"response_data"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// HistoryFilter narrows a history listing. Zero values are no-ops.
// FromDate and ToDate are calendar dates and both bounds are inclusive.
type HistoryFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	City     string
	Page     int
	PerPage  int
}

// HistoryPage is one page of history records, newest first
type HistoryPage struct {
	Items    []HistoryRecord `json:"items"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
	LastPage int             `json:"last_page"`
}

// CitySearchCount is how often a user looked up a city
type CitySearchCount struct {
	City     string `json:"city" db:"city"`
	Country  string `json:"country" db:"country"`
	Searches int    `json:"searches" db:"searches"`
}
