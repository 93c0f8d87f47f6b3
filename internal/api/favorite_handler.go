package api

import (
	"encoding/json"
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"github.com/alexivanou/weather-favorites-api/internal/validation"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// favoriteRequest only checks presence; content rules live on the model
// and are enforced by the favorite service.
type favoriteRequest struct {
	City      string   `json:"city" validate:"required"`
	Country   string   `json:"country" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	IsDefault bool     `json:"is_default"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return model.NewValidationError("", "request body must be a JSON object")
	}
	return validation.Struct(v)
}

// ListFavorites handles GET /api/v1/favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	favorites, err := h.service.ListFavorites(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, favorites)
}

// AddFavorite handles POST /api/v1/favorites
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var req favoriteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	favorite, err := h.service.AddFavorite(r.Context(), user.ID, model.NewFavorite{
		City:      req.City,
		Country:   req.Country,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusCreated, favorite)
}

// UpdateFavorite handles PUT /api/v1/favorites/{id}
func (h *Handler) UpdateFavorite(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	id, err := parseID(mux.Vars(r)["id"], "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req favoriteRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	favorite, err := h.service.UpdateFavorite(r.Context(), user.ID, id, model.FavoriteUpdate{
		City:      req.City,
		Country:   req.Country,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, favorite)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{id}
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	id, err := parseID(mux.Vars(r)["id"], "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), user.ID, id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefaultFavorite handles PUT /api/v1/favorites/{id}/default
func (h *Handler) SetDefaultFavorite(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)
	id, err := parseID(mux.Vars(r)["id"], "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	favorite, err := h.service.SetDefaultFavorite(r.Context(), user.ID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, favorite)
}

// GetDefaultFavorite handles GET /api/v1/favorites/default
func (h *Handler) GetDefaultFavorite(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	favorite, err := h.service.GetDefaultFavorite(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if favorite == nil {
		writeErrorBody(w, h.logger, http.StatusNotFound, errorBody{Code: codeNotFound, Message: "no default favorite"})
		return
	}
	writeData(w, h.logger, http.StatusOK, favorite)
}
