package utils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apierrors "github.com/churchops/church-backend/pkg/errors"
)

// ErrorResponse represents a standard error response structure
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondWithJSON sends a JSON response with the given status code and data
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// RespondWithError sends a JSON error response
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithJSON(w, statusCode, ErrorResponse{Error: message, Code: http.StatusText(statusCode)})
}

// RespondWithAPIError maps an error onto the HTTP response. APIErrors keep
// their status and code; anything else is reported as a plain 500 so internal
// details never leak to clients.
func RespondWithAPIError(w http.ResponseWriter, err error) {
	if apiErr := apierrors.GetAPIError(err); apiErr != nil {
		if apiErr.InternalErr != nil {
			slog.Error("Request failed", "code", apiErr.Code, "error", apiErr.InternalErr)
		}
		RespondWithJSON(w, apiErr.HTTPStatus, ErrorResponse{Error: apiErr.Message, Code: apiErr.Code})
		return
	}

	slog.Error("Request failed with unclassified error", "error", err)
	RespondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// PanicRecoveryMiddleware provides panic recovery for HTTP handlers
func PanicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Handler panicked", "error", err, "path", r.URL.Path)
				RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
