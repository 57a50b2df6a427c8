package surreal

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error) {
	num, err := s.nextNum(ctx, tableFiles)
	if err != nil {
		return nil, err
	}
	rows, err := query[[]fileRow](ctx, s.db, `
		CREATE type::thing($tb, $num) SET
			num = $num, filename = $filename, size_bytes = $size_bytes, mime_type = $mime_type,
			image_width = $image_width, image_height = $image_height, storage_path = $storage_path`,
		map[string]any{
			"tb": tableFiles, "num": num, "filename": data.Filename, "size_bytes": data.SizeBytes,
			"mime_type": data.MimeType, "image_width": dimension(data.ImageWidth),
			"image_height": dimension(data.ImageHeight), "storage_path": data.StoragePath,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create file: no record returned")
	}
	file := rows[0].toDomain()
	return &file, nil
}

func (s *Storage) FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error) {
	row, ok, err := selectOne[fileRow](ctx, s.db, tableFiles, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_errors.NotFound("file", id)
	}
	file := row.toDomain()
	return &file, nil
}

// FindFilesById returns files in the order of ids and fails if any is missing.
func (s *Storage) FindFilesById(ctx context.Context, ids []domain.FileId) ([]domain.File, error) {
	found, err := s.FilesByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	files := make([]domain.File, 0, len(ids))
	for _, id := range ids {
		f, ok := found[id]
		if !ok {
			return nil, internal_errors.NotFound("file", id)
		}
		files = append(files, f)
	}
	return files, nil
}

// RemoveFile deletes only the file record. Posts keep the id and it resolves to nothing.
func (s *Storage) RemoveFile(ctx context.Context, id domain.FileId) error {
	return s.removeOrNotFound(ctx, tableFiles, "file", id)
}
