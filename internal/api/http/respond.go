package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"closetshare-backend/internal/domain"
	"closetshare-backend/internal/logger"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: status < 400, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: status < 400, Message: message, Data: data})
}

// errorPayload carries the structured detail some error kinds return.
type errorPayload struct {
	Kind              domain.ErrorKind            `json:"kind,omitempty"`
	RemainingAttempts *int32                      `json:"remaining_attempts,omitempty"`
	Conflicts         []domain.AvailabilityWindow `json:"conflicts,omitempty"`
}

func respondError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		respondMessage(w, status, "internal server error", nil)
		return
	}

	var payload interface{}
	var de *domain.Error
	if errors.As(err, &de) {
		payload = errorPayload{
			Kind:              kind,
			RemainingAttempts: de.RemainingAttempts,
			Conflicts:         de.Conflicts,
		}
	}
	respondMessage(w, status, err.Error(), payload)
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindInvalid:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindPreconditionFailed:
		return http.StatusUnprocessableEntity
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidCode, domain.KindCodeExpired:
		return http.StatusBadRequest
	case domain.KindAttemptsExceeded, domain.KindRateLimited:
		return http.StatusTooManyRequests
	case domain.KindIntegrityViolation:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalid("invalid request body").Wrap(err)
	}
	return nil
}
