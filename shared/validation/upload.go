package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/campusboard/campusboard/shared/domain"
)

// ValidateUpload checks one uploaded file against the allowed MIME types and
// opens it. The caller closes PendingFile.Data.
func ValidateUpload(fileHeader *multipart.FileHeader, allowedMimes []string) (*domain.PendingFile, error) {
	if fileHeader.Size <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	mimeType, err := DetectMimeType(fileHeader, file)
	if err != nil {
		file.Close()
		return nil, err
	}

	if !BuildAllowedMimeMap(allowedMimes)[mimeType] {
		file.Close()
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	width, height := ExtractImageDimensions(file, mimeType)

	return &domain.PendingFile{
		FileCommonMetadata: domain.FileCommonMetadata{
			Filename:    fileHeader.Filename,
			SizeBytes:   fileHeader.Size,
			MimeType:    mimeType,
			ImageWidth:  width,
			ImageHeight: height,
		},
		Data: file,
	}, nil
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowed := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowed[m] = true
	}
	return allowed
}

// DetectMimeType trusts the part's Content-Type unless it is missing or
// generic, then falls back to the extension and finally to content sniffing.
func DetectMimeType(fileHeader *multipart.FileHeader, file io.ReadSeeker) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileHeader.Filename))); detected != "" {
			mimeType = detected
		}
	}

	if (mimeType == "" || mimeType == "application/octet-stream") && file != nil {
		head := make([]byte, 512)
		n, _ := io.ReadFull(file, head)
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind upload: %w", err)
		}
		if n > 0 {
			mimeType = http.DetectContentType(head[:n])
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("%w: could not detect MIME type for file %s", ErrInvalidMimeType, fileHeader.Filename)
	}

	// drop parameters such as "; charset=utf-8"
	if base, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = base
	}
	return mimeType, nil
}

// ExtractImageDimensions returns nil sizes for non-images and for images the
// registered decoders cannot read.
func ExtractImageDimensions(file io.ReadSeeker, mimeType string) (*int, *int) {
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	img, _, err := image.DecodeConfig(file)
	file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, nil
	}

	width, height := img.Width, img.Height
	return &width, &height
}
