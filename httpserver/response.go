package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"task-tracker/auth"
	"task-tracker/models"

	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RequestError is a client error with a fixed status and message, used for
// request validation failures.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	return e.Detail
}

// BadRequest returns a 400 RequestError
func BadRequest(detail string) error {
	return &RequestError{Status: http.StatusBadRequest, Detail: detail}
}

// WriteJSON writes v as JSON with the given status
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// WriteError maps err onto its HTTP status and writes {"detail": ...}.
// Errors outside the known set become a 500 whose cause is only logged.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status, detail := classify(err)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled error",
			zap.String("request_id", GetRequestID(ctx)),
			zap.String("route", GetRouteName(ctx)),
			zap.Error(err),
		)
	}
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

func classify(err error) (int, string) {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.Status, reqErr.Detail
	case errors.Is(err, auth.ErrMissingCredentials):
		return http.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, auth.ErrInactiveAccount):
		return http.StatusBadRequest, "Inactive user"
	case errors.Is(err, auth.ErrInsufficientRole):
		return http.StatusForbidden, "Not enough permissions"
	case errors.Is(err, models.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusBadRequest, "Email already registered"
	}
	return http.StatusInternalServerError, "Internal server error"
}
