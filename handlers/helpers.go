package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/pickleball-portal/services"
)

type jsonResponse map[string]interface{}

func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	if err := writeJSON(w, status, jsonResponse{"success": false, "message": message}); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func failedValidationResponse(w http.ResponseWriter, messages []string) {
	if err := writeJSON(w, http.StatusBadRequest, jsonResponse{
		"success": false,
		"message": "validation failed",
		"errors":  messages,
	}); err != nil {
		slog.Error("failed to write validation response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func notFoundResponse(w http.ResponseWriter, message string) {
	errorResponse(w, http.StatusNotFound, message)
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error())
}

// serverErrorResponse reports a terminal non-database failure.
func serverErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("internal server error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, err.Error())
}

// databaseErrorResponse echoes the underlying database error text, matching
// the portal's existing contract for persistence failures.
func databaseErrorResponse(w http.ResponseWriter, err error) {
	slog.Error("database error", slog.Any("error", err))
	errorResponse(w, http.StatusInternalServerError, "database error: "+err.Error())
}

// mapServiceErrorToHTTP translates service-layer errors into HTTP responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		failedValidationResponse(w, validationErr.Errors)
	case errors.Is(err, services.ErrRegistrationNotFound):
		notFoundResponse(w, "registration not found")
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		errorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		errorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrUsernameRequired):
		badRequestResponse(w, err)
	default:
		databaseErrorResponse(w, err)
	}
}
