package service

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

type BoardService interface {
	Create(ctx context.Context, actor *domain.User, data BoardData) (*domain.Board, error)
	Get(ctx context.Context, actor *domain.User, id domain.BoardId) (*domain.Board, error)
	GetByTitle(ctx context.Context, actor *domain.User, title domain.BoardTitle) (*domain.Board, error)
	List(ctx context.Context, actor *domain.User) ([]domain.Board, error)
	Update(ctx context.Context, actor *domain.User, id domain.BoardId, data BoardUpdate) (*domain.Board, error)
	Remove(ctx context.Context, actor *domain.User, id domain.BoardId) error
}

type BoardData struct {
	Title         domain.BoardTitle
	RolesReadable []domain.RoleTitle
	RolesWritable []domain.RoleTitle
}

// BoardUpdate replaces the role sets. A nil list keeps the current set.
type BoardUpdate struct {
	RolesReadable []domain.RoleTitle
	RolesWritable []domain.RoleTitle
	Version       int64
}

type Board struct {
	storage   BoardStorage
	cache     RoleCache
	validator BoardValidator
}

type BoardStorage interface {
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error)
	FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error)
	FindAllBoards(ctx context.Context) ([]domain.Board, error)
	UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error)
	RemoveBoard(ctx context.Context, id domain.BoardId) error
}

type BoardValidator interface {
	BoardTitle(title string) error
}

func NewBoard(storage BoardStorage, cache RoleCache, validator BoardValidator) BoardService {
	return &Board{storage, cache, validator}
}

func (s *Board) Create(ctx context.Context, actor *domain.User, data BoardData) (*domain.Board, error) {
	if err := requireAdmin(actor, "create board"); err != nil {
		return nil, err
	}
	if err := s.validator.BoardTitle(data.Title); err != nil {
		return nil, err
	}
	readable, err := roleIds(s.cache, data.RolesReadable)
	if err != nil {
		return nil, err
	}
	writable, err := roleIds(s.cache, data.RolesWritable)
	if err != nil {
		return nil, err
	}

	return s.storage.CreateBoard(ctx, domain.BoardCreationData{
		Title:           data.Title,
		ReadableRoleIds: readable,
		WritableRoleIds: writable,
	})
}

func (s *Board) Get(ctx context.Context, actor *domain.User, id domain.BoardId) (*domain.Board, error) {
	board, err := s.storage.FindBoardById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, board) {
		return nil, errors.Forbidden("read board")
	}
	nameBoardRoles(s.cache, board)
	return board, nil
}

func (s *Board) GetByTitle(ctx context.Context, actor *domain.User, title domain.BoardTitle) (*domain.Board, error) {
	board, err := s.storage.FindBoardByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, errors.NotFound("board", title)
	}
	if !canRead(actor, board) {
		return nil, errors.Forbidden("read board")
	}
	return board, nil
}

// List returns the boards actor may read. Admins see every board.
func (s *Board) List(ctx context.Context, actor *domain.User) ([]domain.Board, error) {
	boards, err := s.storage.FindAllBoards(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Board, 0, len(boards))
	for i := range boards {
		if !canRead(actor, &boards[i]) {
			continue
		}
		nameBoardRoles(s.cache, &boards[i])
		visible = append(visible, boards[i])
	}
	return visible, nil
}

func (s *Board) Update(ctx context.Context, actor *domain.User, id domain.BoardId, data BoardUpdate) (*domain.Board, error) {
	if err := requireAdmin(actor, "update board"); err != nil {
		return nil, err
	}
	board, err := s.storage.FindBoardById(ctx, id)
	if err != nil {
		return nil, err
	}
	board.Version = data.Version

	if data.RolesReadable != nil {
		if board.ReadableRoleIds, err = roleIds(s.cache, data.RolesReadable); err != nil {
			return nil, err
		}
	}
	if data.RolesWritable != nil {
		if board.WritableRoleIds, err = roleIds(s.cache, data.RolesWritable); err != nil {
			return nil, err
		}
	}

	updated, err := s.storage.UpdateBoard(ctx, *board)
	if err != nil {
		return nil, err
	}
	nameBoardRoles(s.cache, updated)
	return updated, nil
}

func (s *Board) Remove(ctx context.Context, actor *domain.User, id domain.BoardId) error {
	if err := requireAdmin(actor, "remove board"); err != nil {
		return err
	}
	return s.storage.RemoveBoard(ctx, id)
}
