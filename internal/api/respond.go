package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type errorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, errType, detail string) {
	writeJSON(w, status, errorResponse{Type: errType, Detail: detail})
}

// statusFor maps engine and service errors to an HTTP status and error type.
// A write the backend rejected is a 502 whatever it wraps, except a rejected
// dependency edge, which stays a 400.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrScheduleInFlight):
		return http.StatusConflict, "schedule_in_flight"
	case errors.Is(err, domain.ErrStaleResult):
		return http.StatusConflict, "stale_result"
	case errors.Is(err, domain.ErrInvalidDependency):
		return http.StatusBadRequest, "invalid_dependency"
	case errors.Is(err, domain.ErrExternalOperation):
		return http.StatusBadGateway, "external_operation_failed"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, errType, err.Error())
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("unable to parse body: %v: %w", err, domain.ErrValidation)
	}
	return nil
}
