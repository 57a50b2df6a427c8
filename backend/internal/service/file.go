package service

import (
	"context"
	"fmt"
	"io"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
)

type FileService interface {
	Upload(ctx context.Context, actor *domain.User, pending *domain.PendingFile) (*domain.File, error)
	Get(ctx context.Context, id domain.FileId) (*domain.File, error)
	Open(ctx context.Context, id domain.FileId) (*domain.File, io.ReadCloser, error)
}

type File struct {
	storage FileStorage
	media   MediaStorage
}

type FileStorage interface {
	CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error)
	FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error)
}

func NewFile(storage FileStorage, media MediaStorage) FileService {
	return &File{storage, media}
}

// Upload writes the bytes first and registers the record after. The file is
// removed from disk again when the record cannot be stored.
func (s *File) Upload(ctx context.Context, actor *domain.User, pending *domain.PendingFile) (*domain.File, error) {
	if actor == nil {
		return nil, errors.Forbidden("upload file")
	}

	path, err := s.media.Save(pending.Data, pending.Filename)
	if err != nil {
		return nil, fmt.Errorf("save %q: %w", pending.Filename, err)
	}

	file, err := s.storage.CreateFile(ctx, domain.FileCreationData{
		FileCommonMetadata: pending.FileCommonMetadata,
		StoragePath:        path,
	})
	if err != nil {
		if delErr := s.media.DeleteFile(path); delErr != nil {
			logger.Log.Error("failed to clean up uploaded file", "path", path, "error", delErr)
		}
		return nil, err
	}
	return file, nil
}

func (s *File) Get(ctx context.Context, id domain.FileId) (*domain.File, error) {
	return s.storage.FindFileById(ctx, id)
}

// Open returns the metadata and a reader over the stored bytes. The caller closes the reader.
func (s *File) Open(ctx context.Context, id domain.FileId) (*domain.File, io.ReadCloser, error) {
	file, err := s.storage.FindFileById(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.media.Read(file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read file %d: %w", id, err)
	}
	return file, rc, nil
}
