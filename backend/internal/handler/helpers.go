package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/utils"
	"github.com/campusboard/campusboard/shared/validation"
)

func badRequest(message string) error {
	return &errors.ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadRequest}
}

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, badRequest(fmt.Sprintf("invalid %s: must be an integer", paramName))
	}
	return val, nil
}

// idParam reads the {id} path segment.
func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, badRequest("invalid id: must be a positive integer")
	}
	return id, nil
}

// listParam accepts both repeated (?roles=a&roles=b) and comma separated (?roles=a,b) values.
func listParam(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.URL.Query()[name] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// writeUploadError maps upload validation failures to their statuses.
func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, validation.ErrPayloadTooLarge):
		utils.WriteJSON(w, http.StatusRequestEntityTooLarge, err.Error(), nil)
	case stderrors.Is(err, validation.ErrInvalidMimeType):
		utils.WriteJSON(w, http.StatusUnsupportedMediaType, err.Error(), nil)
	case stderrors.Is(err, validation.ErrEmptyFile):
		utils.WriteJSON(w, http.StatusBadRequest, err.Error(), nil)
	default:
		utils.WriteErrorAndStatusCode(w, err)
	}
}
