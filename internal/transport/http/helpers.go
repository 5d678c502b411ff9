package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bboard/internal/domain"
	"bboard/internal/observability/middleware"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps domain errors onto statuses. Anything unrecognized is a
// 500 with a generic body; nothing is swallowed silently.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrRubricInUse):
		writeJSON(w, http.StatusConflict, errorBody{Error: "rubric still referenced"})
	case errors.Is(err, domain.ErrBadSignature):
		// Dedicated response; the UI renders this as its own failure page.
		writeJSON(w, http.StatusForbidden, errorBody{Error: "bad signature"})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUserInactive):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	case errors.Is(err, domain.ErrNotOwner):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, domain.ErrUnknownKind):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "unknown target kind"})
	default:
		reqID := middleware.RequestIDFromContext(r.Context())
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path, "request_id", reqID)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad request"})
		return false
	}
	return true
}
