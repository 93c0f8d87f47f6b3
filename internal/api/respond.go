package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexivanou/weather-favorites-api/internal/model"
	"go.uber.org/zap"
)

const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeUnauthorized = "UNAUTHENTICATED"
	codeRateLimited  = "RATE_LIMIT_EXCEEDED"
	codeInternal     = "INTERNAL_ERROR"
)

type dataResponse struct {
	Data interface{} `json:"data"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

func writeData(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	writeJSON(w, logger, status, dataResponse{Data: data})
}

func writeErrorBody(w http.ResponseWriter, logger *zap.Logger, status int, body errorBody) {
	writeJSON(w, logger, status, errorResponse{Error: body})
}

// writeError maps err onto an HTTP status: validation 422, not found 404,
// provider failures their own status, anything else 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var ve *model.ValidationError
	var nf *model.NotFoundError
	var pe *model.ProviderError

	switch {
	case errors.As(err, &ve):
		writeErrorBody(w, logger, http.StatusUnprocessableEntity, errorBody{Code: codeValidation, Message: ve.Message, Field: ve.Field})
	case errors.As(err, &nf):
		writeErrorBody(w, logger, http.StatusNotFound, errorBody{Code: codeNotFound, Message: nf.Error()})
	case errors.As(err, &pe):
		logger.Warn("Weather provider error",
			zap.String("path", r.URL.Path),
			zap.Int("status", pe.StatusCode),
			zap.String("code", pe.Code),
			zap.String("message", pe.Message),
		)
		writeErrorBody(w, logger, pe.StatusCode, errorBody{Code: pe.Code, Message: pe.Message})
	default:
		logger.Error("Request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeErrorBody(w, logger, http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal server error"})
	}
}
