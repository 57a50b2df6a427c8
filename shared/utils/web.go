package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/campusboard/campusboard/shared/api"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// StatusOf maps an error to the HTTP status the API answers with.
func StatusOf(err error) int {
	if e, ok := err.(*errors.ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	switch {
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.IsDuplicate(err), errors.IsConflict(err):
		return http.StatusConflict
	case errors.IsForbidden(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorAndStatusCode answers with an envelope carrying no result.
// Unclassified errors are logged and replaced with a generic message.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error("internal error", "error", err)
		message = "Internal server error"
	}
	WriteJSON(w, status, message, nil)
}

func WriteJSON(w http.ResponseWriter, status int, message string, result *api.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.Response{Code: status, Message: message, Result: result}); err != nil {
		logger.Log.Error("can't encode response", "error", err)
	}
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400}
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body failed validation", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400}
	}
	return nil
}
