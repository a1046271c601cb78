package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"emysore/models"
)

// respondWithJSON writes the payload as a JSON response
func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("[HTTP] failed to encode response: %v", err)
		}
	}
}

// respondWithError maps domain errors onto HTTP statuses and writes an error
// body. Unmapped errors are logged and reported as a generic 500 so internal
// details never leak.
func respondWithError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrComplaintNotFound),
		errors.Is(err, models.ErrNotificationNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrDepartmentNotFound),
		errors.Is(err, models.ErrServiceNotFound):
		respondWithJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrMissingRequiredFields),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrEmptyComment):
		respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrEmailTaken):
		respondWithJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidCredentials):
		respondWithJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		log.Printf("[HTTP] internal error: %v", err)
		respondWithJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// respondBadRequest writes a 400 with the given message
func respondBadRequest(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
