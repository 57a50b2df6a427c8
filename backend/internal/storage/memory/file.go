package memory

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq.file++
	file := domain.File{
		Id:                 s.seq.file,
		FileCommonMetadata: data.FileCommonMetadata,
		StoragePath:        data.StoragePath,
	}
	s.files = append(s.files, file)
	return &file, nil
}

func (s *Storage) FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.files, func(f *domain.File) bool { return f.Id == id })
	if i < 0 {
		return nil, errors.NotFound("file", id)
	}
	file := s.files[i]
	return &file, nil
}

func (s *Storage) FindFilesById(ctx context.Context, ids []domain.FileId) ([]domain.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]domain.File, 0, len(ids))
	for _, id := range ids {
		i := indexOf(s.files, func(f *domain.File) bool { return f.Id == id })
		if i < 0 {
			return nil, errors.NotFound("file", id)
		}
		files = append(files, s.files[i])
	}
	return files, nil
}

// RemoveFile removes the record with the given id. Posts referencing it keep a
// dangling id that resolves to nothing.
func (s *Storage) RemoveFile(ctx context.Context, id domain.FileId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.files, func(f *domain.File) bool { return f.Id == id })
	if i < 0 {
		return errors.NotFound("file", id)
	}
	s.files = slices.Delete(s.files, i, i+1)
	return nil
}
