package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
	sharedpg "github.com/campusboard/campusboard/shared/storage/pg"
	"github.com/lib/pq"
)

const boardColumns = "id, title, readable_role_ids, writable_role_ids, version"

func scanBoard(row scanner) (domain.Board, error) {
	var b domain.Board
	var readable, writable pq.Int64Array
	if err := row.Scan(&b.Id, &b.Title, &readable, &writable, &b.Version); err != nil {
		return domain.Board{}, err
	}
	b.ReadableRoleIds = []domain.RoleId(readable)
	b.WritableRoleIds = []domain.RoleId(writable)
	return b, nil
}

func checkBoardRoles(ctx context.Context, q Querier, readable, writable []domain.RoleId) error {
	all := append(append([]domain.RoleId{}, readable...), writable...)
	id, ok, err := missingId(ctx, q, "roles", all)
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

	var board domain.Board
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkBoardRoles(ctx, tx, readable, writable); err != nil {
			return err
		}
		var err error
		board, err = scanBoard(tx.QueryRowContext(ctx, `
			INSERT INTO boards(title, readable_role_ids, writable_role_ids)
			VALUES($1, $2, $3)
			RETURNING `+boardColumns,
			data.Title, pq.Array(readable), pq.Array(writable),
		))
		if err != nil {
			if sharedpg.IsUniqueViolation(err) {
				return internal_errors.Duplicate("board", data.Title)
			}
			return fmt.Errorf("failed to insert board: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	board, err := scanBoard(s.db.QueryRowContext(ctx, "SELECT "+boardColumns+" FROM boards WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("board", id)
		}
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	return &board, nil
}

// FindBoardByTitle returns nil without an error when no board has the title.
func (s *Storage) FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
	board, err := scanBoard(s.db.QueryRowContext(ctx, "SELECT "+boardColumns+" FROM boards WHERE title = $1", title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query board: %w", err)
	}
	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) FindAllBoards(ctx context.Context) ([]domain.Board, error) {
	return s.queryBoards(ctx, s.db, "")
}

func (s *Storage) queryBoards(ctx context.Context, q Querier, where string, args ...any) ([]domain.Board, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+boardColumns+" FROM boards "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *Storage) UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error) {
	readable, writable := storage.Unique(board.ReadableRoleIds), storage.Unique(board.WritableRoleIds)

	var updated domain.Board
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockVersion(ctx, tx, "boards", "board", board.Id, board.Version); err != nil {
			return err
		}
		if err := checkBoardRoles(ctx, tx, readable, writable); err != nil {
			return err
		}
		var err error
		updated, err = scanBoard(tx.QueryRowContext(ctx, `
			UPDATE boards
			SET title = $1, readable_role_ids = $2, writable_role_ids = $3, version = version + 1
			WHERE id = $4 AND version = $5
			RETURNING `+boardColumns,
			board.Title, pq.Array(readable), pq.Array(writable), board.Id, board.Version,
		))
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return versionMismatch(ctx, tx, "boards", "board", board.Id)
		case sharedpg.IsUniqueViolation(err):
			return internal_errors.Duplicate("board", board.Title)
		case err != nil:
			return fmt.Errorf("failed to update board: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveBoard leaves the board's posts in place.
func (s *Storage) RemoveBoard(ctx context.Context, id domain.BoardId) error {
	return removeById(ctx, s.db, "boards", "board", id)
}
