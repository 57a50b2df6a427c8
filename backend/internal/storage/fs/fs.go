// Package fs keeps uploaded file contents on the local disk.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Storage struct {
	rootPath string
	now      func() time.Time
}

func New(rootPath string) (*Storage, error) {
	// Use filepath.Clean to prevent path traversal issues like "media/../"
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p, now: time.Now}, nil
}

// Save writes data under a generated name of the form
// <unix-millis>_<uuid>_<original name> and returns the path relative to the root.
func (s *Storage) Save(data io.Reader, originalName string) (string, error) {
	filename := fmt.Sprintf("%d_%s_%s", s.now().UnixMilli(), uuid.NewString(), sanitizeName(originalName))
	fullPath := filepath.Join(s.rootPath, filename)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(fullPath) // Best effort, ignore error here.
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}

	return filename, nil
}

// Read opens a stored file for reading.
func (s *Storage) Read(filePath string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("stored file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// DeleteFile removes a stored file. A file that is already gone is not an error.
func (s *Storage) DeleteFile(filePath string) error {
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve joins a relative path to the root and rejects paths escaping it.
func (s *Storage) resolve(filePath string) (string, error) {
	fullPath := filepath.Join(s.rootPath, filePath)
	rel, err := filepath.Rel(s.rootPath, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes storage root", filePath)
	}
	return fullPath, nil
}

// sanitizeName keeps the base name and drops characters that are unsafe in paths.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}
