package api

import (
	"strconv"
	"time"

	"github.com/alexivanou/weather-favorites-api/internal/model"
)

const dateLayout = "2006-01-02"

func parseIntParam(raw, field string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, model.NewValidationError(field, "must be an integer")
	}
	return &n, nil
}

func parseDateParam(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, model.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

func parseID(raw, field string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(field, "must be a positive integer")
	}
	return id, nil
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
