package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"parish-ledger-backend/internal/domain"
	"parish-ledger-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Responses are deterministic for the same input and prior state.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		resp := errorResponse{Error: err.Error()}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp.Field = ve.Field
			resp.Error = ve.Message
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case domain.IsAuthorization(err):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case domain.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
