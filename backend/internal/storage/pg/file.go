package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

const fileColumns = "id, filename, size_bytes, mime_type, image_width, image_height, storage_path"

func scanFile(row scanner) (domain.File, error) {
	var f domain.File
	var width, height sql.NullInt32
	if err := row.Scan(&f.Id, &f.Filename, &f.SizeBytes, &f.MimeType, &width, &height, &f.StoragePath); err != nil {
		return domain.File{}, err
	}
	if width.Valid {
		w := int(width.Int32)
		f.ImageWidth = &w
	}
	if height.Valid {
		h := int(height.Int32)
		f.ImageHeight = &h
	}
	return f, nil
}

func (s *Storage) CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error) {
	file, err := scanFile(s.db.QueryRowContext(ctx, `
		INSERT INTO files(filename, size_bytes, mime_type, image_width, image_height, storage_path)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING `+fileColumns,
		data.Filename, data.SizeBytes, data.MimeType, data.ImageWidth, data.ImageHeight, data.StoragePath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert file: %w", err)
	}
	return &file, nil
}

func (s *Storage) FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error) {
	file, err := scanFile(s.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("file", id)
		}
		return nil, fmt.Errorf("failed to query file: %w", err)
	}
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

func (s *Storage) queryFiles(ctx context.Context, q Querier, where string, args ...any) ([]domain.File, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+fileColumns+" FROM files "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	files := []domain.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// RemoveFile deletes only the file record. Posts keep the id and it resolves to nothing.
func (s *Storage) RemoveFile(ctx context.Context, id domain.FileId) error {
	return removeById(ctx, s.db, "files", "file", id)
}
