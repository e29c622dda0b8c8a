package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"campus-auth/internal/model"
	"campus-auth/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError collapses the error taxonomy to an HTTP status and a single
// message body. Anything unrecognized becomes an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		message = model.ErrUserAlreadyExists.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = model.ErrUserNotFound.Error()
	case errors.Is(err, model.ErrTokenMissing):
		status = http.StatusUnauthorized
		message = model.ErrTokenMissing.Error()
	case errors.Is(err, model.ErrTokenInvalid):
		status = http.StatusUnauthorized
		message = model.ErrTokenInvalid.Error()
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: message})
}
