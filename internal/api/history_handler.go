package api

import (
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/validation"
	"github.com/gorilla/mux"
)

type historyQuery struct {
	City    string `json:"city" validate:"max=255"`
	Page    *int   `json:"page" validate:"omitempty,min=1"`
	PerPage *int   `json:"per_page" validate:"omitempty,min=1,max=100"`
}

type limitQuery struct {
	Limit *int `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ListHistory handles GET /api/v1/weather/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	q := r.URL.Query()

	from, err := parseDateParam(q.Get("from_date"), "from_date")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to, err := parseDateParam(q.Get("to_date"), "to_date")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := parseIntParam(q.Get("page"), "page")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	perPage, err := parseIntParam(q.Get("per_page"), "per_page")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	query := historyQuery{City: q.Get("city"), Page: page, PerPage: perPage}
	if err := validation.Struct(query); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.service.List(r.Context(), user.ID, model.HistoryFilter{
		FromDate: from,
		ToDate:   to,
		City:     query.City,
		Page:     intOrZero(query.Page),
		PerPage:  intOrZero(query.PerPage),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, result)
}

// ClearHistory handles DELETE /api/v1/weather/history
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	deleted, err := h.service.Clear(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, map[string]int64{"deleted": deleted})
}

// DeleteHistory handles DELETE /api/v1/weather/history/{id}
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	id, err := parseID(mux.Vars(r)["id"], "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	deleted, err := h.service.Delete(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !deleted {
		h.fail(w, r, model.NewNotFoundError("history entry", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TopCities handles GET /api/v1/weather/history/top-cities
func (h *Handler) TopCities(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	limit, err := h.parseLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cities, err := h.service.MostSearchedCities(r.Context(), user.ID, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, cities)
}

// RecentSearches handles GET /api/v1/weather/history/recent
func (h *Handler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	limit, err := h.parseLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, err := h.service.RecentSearches(r.Context(), user.ID, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, records)
}

func (h *Handler) parseLimit(r *http.Request) (int, error) {
	limit, err := parseIntParam(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		return 0, err
	}
	if err := validation.Struct(limitQuery{Limit: limit}); err != nil {
		return 0, err
	}
	return intOrZero(limit), nil
}
