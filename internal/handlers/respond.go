package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"shoppit/internal/models"
)

// errorResponse is the JSON body for all error outcomes
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Nothing in the
// checkout flow is allowed to crash the process; everything surfaces as a
// structured kind and message.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var upstreamErr *models.UpstreamError

	switch {
	case models.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, models.ErrAuthRequired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "auth_required", Message: err.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation", Message: validationErr.Message})
	case errors.As(err, &upstreamErr):
		// Ops-relevant: the gateway misbehaved, not the client.
		log.Printf("upstream error: %v", upstreamErr)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream", Message: "Payment provider is currently unavailable."})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "Something went wrong. Please try again."})
	}
}
