package api

import (
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/validation"
)

type weatherQuery struct {
	City     string `json:"city" validate:"required,max=255"`
	Language string `json:"language" validate:"omitempty,len=2,alpha"`
	Units    string `json:"units" validate:"omitempty,oneof=metric imperial"`
	Days     *int   `json:"days" validate:"omitempty,min=1,max=7"`
}

type searchQuery struct {
	Query string `json:"q" validate:"required,max=255"`
}

// parseWeatherQuery reads and validates the shared weather parameters.
// The request locale is the default language.
func (h *Handler) parseWeatherQuery(r *http.Request) (weatherQuery, error) {
	q := r.URL.Query()
	days, err := parseIntParam(q.Get("days"), "days")
	if err != nil {
		return weatherQuery{}, err
	}

	query := weatherQuery{
		City:     q.Get("city"),
		Language: q.Get("language"),
		Units:    q.Get("units"),
		Days:     days,
	}
	if err := validation.Struct(query); err != nil {
		return weatherQuery{}, err
	}
	if query.Language == "" {
		query.Language = LocaleFromContext(r.Context())
	}
	return query, nil
}

func (q weatherQuery) options() model.WeatherOptions {
	return model.WeatherOptions{Language: q.Language, Units: q.Units}
}

// CurrentWeather handles GET /api/v1/weather/current
func (h *Handler) CurrentWeather(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseWeatherQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var userID *int64
	if user, ok := UserFromContext(r.Context()); ok {
		userID = &user.ID
	}

	snap, err := h.service.CurrentWeather(r.Context(), userID, query.City, query.options())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, snap)
}

// Forecast handles GET /api/v1/weather/forecast
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseWeatherQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	forecast, err := h.service.Forecast(r.Context(), query.City, intOrZero(query.Days), query.options())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, forecast)
}

// SearchCity handles GET /api/v1/weather/search
func (h *Handler) SearchCity(w http.ResponseWriter, r *http.Request) {
	query := searchQuery{Query: r.URL.Query().Get("q")}
	if err := validation.Struct(query); err != nil {
		h.fail(w, r, err)
		return
	}

	cities, err := h.service.SearchCity(r.Context(), query.Query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, cities)
}
