package api

import (
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/model"
)

type profileRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

// GetProfile handles GET /api/v1/profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	profile, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r)

	var req profileRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), user.ID, model.ProfileUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, h.logger, http.StatusOK, profile)
}
