package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gurkanusta/WorkNest/logging"
	"github.com/gurkanusta/WorkNest/services"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondValidationErrors reports malformed input with field-level
// messages.
func respondValidationErrors(w http.ResponseWriter, errs map[string]string) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// mapServiceError translates domain errors into HTTP statuses. Anything
// unrecognized is logged and reported with a fixed generic message.
func mapServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrOwnerOnly):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyMember), errors.Is(err, services.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logging.Logger.Errorf("Event ID: UNEXPECTED_ERROR, Description: %v", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
