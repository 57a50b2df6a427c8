package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// Upload rejections. Handlers map them to 413, 415 and 400.
var (
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrInvalidMimeType = errors.New("invalid MIME type")
	ErrEmptyFile       = errors.New("empty file")
)

// ValidateAndParseMultipart caps the body at maxSize and parses the form.
// Past the limit the server stops reading, so browsers may see a connection
// reset instead of the error response.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// CalculateMaxRequestSize adds room for form fields and multipart framing.
func CalculateMaxRequestSize(maxFileSize int64, bufferSize int64) int64 {
	return maxFileSize + bufferSize
}

func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
