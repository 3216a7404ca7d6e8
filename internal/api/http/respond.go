package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"cabanas-backend/internal/domain"
	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/service"
)

type errorResponse struct {
	Error    string         `json:"error"`
	Blocking *blockingRange `json:"blocking,omitempty"`
}

type blockingRange struct {
	UnitID int32  `json:"unit_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps domain errors to HTTP statuses. A conflict carries
// the blocking range so the front end can show which dates are taken.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: conflict.Error(),
			Blocking: &blockingRange{
				UnitID: conflict.UnitID,
				From:   conflict.From,
				To:     conflict.To,
			},
		})
	case errors.Is(err, domain.ErrInvalidQuote):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeError(w, http.StatusBadGateway, "payment gateway unavailable, try again later")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		logger.Error("Unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
