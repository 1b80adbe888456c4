// Package handlers contains the HTTP layer. Handlers decode requests, call
// services and map domain errors onto status codes; authorization lives in
// the gate chain, not here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/daru-studio/daru-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// writeServiceError maps domain errors to status codes. Unrecognized errors
// become an opaque 500; the detail goes to the log, not the client.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var status int
	var code string
	message := fallback

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code, message = http.StatusNotFound, "not_found", "Resource not found"
	case errors.Is(err, apperrors.ErrTransitionNotAllowed):
		status, code = http.StatusUnprocessableEntity, "transition_not_allowed"
		message = "Status transition not allowed"
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, "conflict"
		message = "Resource was modified concurrently"
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidRole):
		status, code = http.StatusBadRequest, "validation_error"
		message = err.Error()
	default:
		logger.Error("Request failed", zap.Error(err))
		status, code = http.StatusInternalServerError, "internal_error"
	}

	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
