package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hoanghai1803/readplan/internal/planner"
)

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent, so the status cannot change.
		slog.Error("failed to encode response", "status", status, "error", err)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// statusFor maps a planner error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrUnknownUser):
		return http.StatusUnauthorized
	case errors.Is(err, planner.ErrInvalidDateRange),
		errors.Is(err, planner.ErrInvalidBook),
		errors.Is(err, planner.ErrInvalidPages),
		errors.Is(err, planner.ErrInvalidReview):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrNoActivePlan),
		errors.Is(err, planner.ErrPlanComplete),
		errors.Is(err, planner.ErrPlanExpired),
		errors.Is(err, planner.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, planner.ErrBookInPlan),
		errors.Is(err, planner.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes the response for an error returned by the
// planner. Internal failures are logged and reported with a generic message.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("failed to "+action, "error", err)
		writeError(w, status, "Failed to "+action)
		return
	}
	writeError(w, status, err.Error())
}

// decodeBody decodes a JSON request body into dst and validates it.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return validateRequest(dst)
}

// parseID extracts a UUID from a chi URL parameter.
func parseID(r *http.Request, param string) (string, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return "", fmt.Errorf("missing URL parameter %q", param)
	}
	if err := uuid.Validate(raw); err != nil {
		return "", fmt.Errorf("invalid %q parameter: %w", param, err)
	}
	return raw, nil
}

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the authenticated user ID from the request context, or ""
// if the request did not pass through the identity middleware.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey{}).(string)
	return id
}
