package surreal

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) checkRoles(ctx context.Context, readable, writable []domain.RoleId) error {
	all := append(append([]domain.RoleId{}, readable...), writable...)
	id, ok, err := s.missingNum(ctx, tableRoles, all)
	if err != nil {
		return err
	}
	if !ok {
		return internal_errors.NewValidation("role %d does not exist", id)
	}
	return nil
}

func (s *Storage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error) {
	readable, writable := storage.Unique(data.ReadableRoleIds), storage.Unique(data.WritableRoleIds)
	if err := s.checkRoles(ctx, readable, writable); err != nil {
		return nil, err
	}
	num, err := s.nextNum(ctx, tableBoards)
	if err != nil {
		return nil, err
	}
	rows, err := query[[]boardRow](ctx, s.db, `
		CREATE type::thing($tb, $num) SET
			num = $num, title = $title,
			readable_role_ids = $readable, writable_role_ids = $writable,
			version = 1`,
		map[string]any{"tb": tableBoards, "num": num, "title": data.Title, "readable": readable, "writable": writable})
	if err != nil {
		if errors.Is(err, errIndexViolation) {
			return nil, internal_errors.Duplicate("board", data.Title)
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create board: no record returned")
	}
	board := rows[0].toDomain()
	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	row, ok, err := selectOne[boardRow](ctx, s.db, tableBoards, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_errors.NotFound("board", id)
	}
	board := row.toDomain()
	return &board, nil
}

// FindBoardByTitle returns nil without an error when no board has the title.
func (s *Storage) FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
	rows, err := selectRows[boardRow](ctx, s.db, tableBoards, "title = $title", map[string]any{"title": title})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	board := rows[0].toDomain()
	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) FindAllBoards(ctx context.Context) ([]domain.Board, error) {
	rows, err := selectRows[boardRow](ctx, s.db, tableBoards, "", nil)
	if err != nil {
		return nil, err
	}
	return convert(rows, boardRow.toDomain), nil
}

func (s *Storage) UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error) {
	if err := s.checkVersion(ctx, tableBoards, "board", board.Id, board.Version); err != nil {
		return nil, err
	}
	readable, writable := storage.Unique(board.ReadableRoleIds), storage.Unique(board.WritableRoleIds)
	if err := s.checkRoles(ctx, readable, writable); err != nil {
		return nil, err
	}
	rows, err := query[[]boardRow](ctx, s.db, `
		UPDATE type::thing($tb, $num) SET
			title = $title, readable_role_ids = $readable, writable_role_ids = $writable,
			version += 1
		WHERE version = $version
		RETURN AFTER`,
		map[string]any{
			"tb": tableBoards, "num": board.Id, "version": board.Version,
			"title": board.Title, "readable": readable, "writable": writable,
		})
	if err != nil {
		if errors.Is(err, errIndexViolation) {
			return nil, internal_errors.Duplicate("board", board.Title)
		}
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	if len(rows) == 0 {
		return nil, s.versionMismatch(ctx, tableBoards, "board", board.Id)
	}
	updated := rows[0].toDomain()
	return &updated, nil
}

// RemoveBoard leaves the board's posts in place.
func (s *Storage) RemoveBoard(ctx context.Context, id domain.BoardId) error {
	return s.removeOrNotFound(ctx, tableBoards, "board", id)
}
