package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_utils "github.com/campusboard/campusboard/backend/internal/utils"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

// MockBoardStorage mocks BoardStorage.
type MockBoardStorage struct {
	createBoardFunc      func(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error)
	findBoardByIdFunc    func(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	findBoardByTitleFunc func(ctx context.Context, title domain.BoardTitle) (*domain.Board, error)
	findAllBoardsFunc    func(ctx context.Context) ([]domain.Board, error)
	updateBoardFunc      func(ctx context.Context, board domain.Board) (*domain.Board, error)
	removeBoardFunc      func(ctx context.Context, id domain.BoardId) error
}

func (m *MockBoardStorage) CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error) {
	if m.createBoardFunc != nil {
		return m.createBoardFunc(ctx, data)
	}
	return &domain.Board{Id: 1, Title: data.Title, ReadableRoleIds: data.ReadableRoleIds, WritableRoleIds: data.WritableRoleIds, Version: 1}, nil
}

func (m *MockBoardStorage) FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	if m.findBoardByIdFunc != nil {
		return m.findBoardByIdFunc(ctx, id)
	}
	return nil, errors.NotFound("board", id)
}

func (m *MockBoardStorage) FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
	if m.findBoardByTitleFunc != nil {
		return m.findBoardByTitleFunc(ctx, title)
	}
	return nil, nil
}

func (m *MockBoardStorage) FindAllBoards(ctx context.Context) ([]domain.Board, error) {
	if m.findAllBoardsFunc != nil {
		return m.findAllBoardsFunc(ctx)
	}
	return []domain.Board{}, nil
}

func (m *MockBoardStorage) UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error) {
	if m.updateBoardFunc != nil {
		return m.updateBoardFunc(ctx, board)
	}
	board.Version++
	return &board, nil
}

func (m *MockBoardStorage) RemoveBoard(ctx context.Context, id domain.BoardId) error {
	if m.removeBoardFunc != nil {
		return m.removeBoardFunc(ctx, id)
	}
	return nil
}

// residentsOnly is readable and writable by residents.
func residentsOnly() *domain.Board {
	return &domain.Board{
		Id:              7,
		Title:           "seminar",
		ReadableRoleIds: []domain.RoleId{residentRole.Id},
		WritableRoleIds: []domain.RoleId{residentRole.Id},
		Version:         1,
	}
}

func TestBoardCreate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()

	t.Run("translates role titles", func(t *testing.T) {
		var got domain.BoardCreationData
		storage := &MockBoardStorage{
			createBoardFunc: func(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error) {
				got = data
				return &domain.Board{Id: 1, Title: data.Title}, nil
			},
		}
		s := NewBoard(storage, cache, internal_utils.New())

		_, err := s.Create(ctx, admin, BoardData{
			Title:         "homework",
			RolesReadable: []domain.RoleTitle{domain.RoleResident, domain.RoleFreshman},
			RolesWritable: []domain.RoleTitle{domain.RoleResident},
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.RoleId{residentRole.Id, freshmanRole.Id}, got.ReadableRoleIds)
		assert.Equal(t, []domain.RoleId{residentRole.Id}, got.WritableRoleIds)
	})

	t.Run("unknown role title", func(t *testing.T) {
		s := NewBoard(&MockBoardStorage{}, cache, internal_utils.New())

		_, err := s.Create(ctx, admin, BoardData{Title: "homework", RolesReadable: []domain.RoleTitle{"wizard"}})
		assert.True(t, errors.IsValidation(err))
	})

	t.Run("invalid title", func(t *testing.T) {
		s := NewBoard(&MockBoardStorage{}, cache, internal_utils.New())

		_, err := s.Create(ctx, admin, BoardData{Title: "Not A Slug"})
		require.Error(t, err)
		var e *errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &e)
		assert.Equal(t, 400, e.StatusCode)
	})

	t.Run("admin only", func(t *testing.T) {
		s := NewBoard(&MockBoardStorage{}, cache, internal_utils.New())

		_, err := s.Create(ctx, resident, BoardData{Title: "homework"})
		assert.True(t, errors.IsForbidden(err))
	})
}

func TestBoardGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()
	storage := &MockBoardStorage{
		findBoardByIdFunc: func(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
			return residentsOnly(), nil
		},
	}
	s := NewBoard(storage, cache, internal_utils.New())

	board, err := s.Get(ctx, resident, 7)
	require.NoError(t, err)
	require.Len(t, board.RolesReadable, 1)
	assert.Equal(t, domain.RoleResident, board.RolesReadable[0].Title)

	_, err = s.Get(ctx, freshman, 7)
	assert.True(t, errors.IsForbidden(err))

	_, err = s.Get(ctx, admin, 7)
	assert.NoError(t, err)
}

func TestBoardGetByTitle(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()
	storage := &MockBoardStorage{
		findBoardByTitleFunc: func(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
			if title == "seminar" {
				return residentsOnly(), nil
			}
			return nil, nil
		},
	}
	s := NewBoard(storage, cache, internal_utils.New())

	board, err := s.GetByTitle(ctx, resident, "seminar")
	require.NoError(t, err)
	assert.Equal(t, domain.BoardId(7), board.Id)

	_, err = s.GetByTitle(ctx, resident, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestBoardList(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()
	open := domain.Board{Id: 1, Title: "open", ReadableRoleIds: []domain.RoleId{residentRole.Id, freshmanRole.Id}}
	storage := &MockBoardStorage{
		findAllBoardsFunc: func(ctx context.Context) ([]domain.Board, error) {
			return []domain.Board{open, *residentsOnly()}, nil
		},
	}
	s := NewBoard(storage, cache, internal_utils.New())

	tests := []struct {
		name  string
		actor *domain.User
		want  []domain.BoardTitle
	}{
		{"freshman", freshman, []domain.BoardTitle{"open"}},
		{"resident", resident, []domain.BoardTitle{"open", "seminar"}},
		{"admin", admin, []domain.BoardTitle{"open", "seminar"}},
		{"anonymous", nil, []domain.BoardTitle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boards, err := s.List(ctx, tt.actor)
			require.NoError(t, err)
			titles := make([]domain.BoardTitle, 0, len(boards))
			for _, b := range boards {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestBoardUpdate(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()

	var saved domain.Board
	storage := &MockBoardStorage{
		findBoardByIdFunc: func(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
			return residentsOnly(), nil
		},
		updateBoardFunc: func(ctx context.Context, board domain.Board) (*domain.Board, error) {
			saved = board
			board.Version++
			return &board, nil
		},
	}
	s := NewBoard(storage, cache, internal_utils.New())

	updated, err := s.Update(ctx, admin, 7, BoardUpdate{
		RolesReadable: []domain.RoleTitle{domain.RoleFreshman, domain.RoleResident},
		Version:       1,
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.RoleId{freshmanRole.Id, residentRole.Id}, saved.ReadableRoleIds)
	assert.Equal(t, []domain.RoleId{residentRole.Id}, saved.WritableRoleIds, "nil list keeps the current set")
	assert.Equal(t, int64(2), updated.Version)
	assert.Len(t, updated.RolesReadable, 2)

	_, err = s.Update(ctx, admin, 7, BoardUpdate{RolesWritable: []domain.RoleTitle{"ghost"}, Version: 1})
	assert.True(t, errors.IsValidation(err))

	_, err = s.Update(ctx, resident, 7, BoardUpdate{Version: 1})
	assert.True(t, errors.IsForbidden(err))
}

func TestBoardRemove(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache()
	s := NewBoard(&MockBoardStorage{}, cache, internal_utils.New())

	assert.NoError(t, s.Remove(ctx, admin, 7))
	assert.True(t, errors.IsForbidden(s.Remove(ctx, resident, 7)))
}
