package memory

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error) {
	board, err := s.insertBoard(data)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) insertBoard(data domain.BoardCreationData) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.boards, func(b *domain.Board) bool { return b.Title == data.Title }) >= 0 {
		return domain.Board{}, errors.Duplicate("board", data.Title)
	}
	readable, writable := storage.Unique(data.ReadableRoleIds), storage.Unique(data.WritableRoleIds)
	if id, ok := s.rolesExist(append(slices.Clone(readable), writable...)); !ok {
		return domain.Board{}, errors.NewValidation("role %d does not exist", id)
	}

	s.seq.board++
	board := domain.Board{
		Id:              s.seq.board,
		Title:           data.Title,
		ReadableRoleIds: readable,
		WritableRoleIds: writable,
		Version:         1,
	}
	s.boards = append(s.boards, board)
	return cloneBoard(board), nil
}

func (s *Storage) FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.boards, func(b *domain.Board) bool { return b.Id == id })
	if i < 0 {
		return nil, errors.NotFound("board", id)
	}
	board := cloneBoard(s.boards[i])
	return &board, nil
}

// FindBoardByTitle returns nil without an error when no board has the title.
func (s *Storage) FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
	s.mu.RLock()
	i := indexOf(s.boards, func(b *domain.Board) bool { return b.Title == title })
	if i < 0 {
		s.mu.RUnlock()
		return nil, nil
	}
	board := cloneBoard(s.boards[i])
	s.mu.RUnlock()

	if err := s.resolver.Board(ctx, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *Storage) FindAllBoards(ctx context.Context) ([]domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boards := make([]domain.Board, len(s.boards))
	for i, b := range s.boards {
		boards[i] = cloneBoard(b)
	}
	return boards, nil
}

func (s *Storage) UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.boards, func(b *domain.Board) bool { return b.Id == board.Id })
	if i < 0 {
		return nil, errors.NotFound("board", board.Id)
	}
	stored := &s.boards[i]
	if stored.Version != board.Version {
		return nil, errors.Conflict("board", board.Id)
	}
	readable, writable := storage.Unique(board.ReadableRoleIds), storage.Unique(board.WritableRoleIds)
	if id, ok := s.rolesExist(append(slices.Clone(readable), writable...)); !ok {
		return nil, errors.NewValidation("role %d does not exist", id)
	}
	if indexOf(s.boards, func(b *domain.Board) bool { return b.Title == board.Title && b.Id != board.Id }) >= 0 {
		return nil, errors.Duplicate("board", board.Title)
	}

	stored.Title = board.Title
	stored.ReadableRoleIds = readable
	stored.WritableRoleIds = writable
	stored.Version++
	updated := cloneBoard(*stored)
	return &updated, nil
}

// RemoveBoard does not touch the board's posts.
func (s *Storage) RemoveBoard(ctx context.Context, id domain.BoardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.boards, func(b *domain.Board) bool { return b.Id == id })
	if i < 0 {
		return errors.NotFound("board", id)
	}
	s.boards = slices.Delete(s.boards, i, i+1)
	return nil
}
