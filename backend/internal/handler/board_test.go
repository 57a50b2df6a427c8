package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/shared/api"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func TestCreateBoardHandler(t *testing.T) {
	route := "/v1/admin/boards"
	requestBody := []byte(`{"title": "seminar", "roles_readable": ["resident", "freshman"], "roles_writable": ["resident"]}`)

	t.Run("successful request", func(t *testing.T) {
		var got service.BoardData
		boards := &MockBoardService{
			MockCreate: func(ctx context.Context, actor *domain.User, data service.BoardData) (*domain.Board, error) {
				got = data
				return &domain.Board{
					Id:            3,
					Title:         data.Title,
					RolesReadable: domain.Roles{{Id: 2, Title: "resident"}, {Id: 3, Title: "freshman"}},
					RolesWritable: domain.Roles{{Id: 2, Title: "resident"}},
					Version:       1,
				}, nil
			},
		}
		h := newTestHandler(Services{Board: boards})
		router := newRouter(adminUser)
		router.Post(route, h.CreateBoard)

		rr := serve(router, createRequest(t, http.MethodPost, route, requestBody))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, []string{"resident", "freshman"}, got.RolesReadable)
		var view api.BoardView
		decodeEnvelope(t, rr, "board", &view)
		assert.Equal(t, domain.BoardId(3), view.Id)
		assert.Equal(t, []domain.RoleTitle{"resident"}, view.RolesWritable)
	})

	t.Run("invalid request body", func(t *testing.T) {
		h := newTestHandler(Services{Board: &MockBoardService{}})
		router := newRouter(adminUser)
		router.Post(route, h.CreateBoard)

		rr := serve(router, createRequest(t, http.MethodPost, route, []byte(`{ivalid json::}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name   string
			err    error
			status int
		}{
			{"unknown role", errors.NewValidation("unknown roles [wizard]"), http.StatusBadRequest},
			{"duplicate title", errors.Duplicate("board", "seminar"), http.StatusConflict},
			{"not admin", errors.Forbidden("create board"), http.StatusForbidden},
			{"storage failure", stderrors.New("mock create error"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				boards := &MockBoardService{
					MockCreate: func(ctx context.Context, actor *domain.User, data service.BoardData) (*domain.Board, error) {
						return nil, tt.err
					},
				}
				h := newTestHandler(Services{Board: boards})
				router := newRouter(adminUser)
				router.Post(route, h.CreateBoard)

				rr := serve(router, createRequest(t, http.MethodPost, route, requestBody))
				assert.Equal(t, tt.status, rr.Code)
				env := decodeEnvelope(t, rr, "", nil)
				if tt.status == http.StatusInternalServerError {
					assert.Equal(t, "Internal server error", env.Message)
				}
			})
		}
	})
}

func TestGetBoardsHandler(t *testing.T) {
	var gotActor *domain.User
	boards := &MockBoardService{
		MockList: func(ctx context.Context, actor *domain.User) ([]domain.Board, error) {
			gotActor = actor
			return []domain.Board{{Id: 1, Title: "seminar"}, {Id: 2, Title: "homework"}}, nil
		},
	}
	h := newTestHandler(Services{Board: boards})
	router := newRouter(residentUser)
	router.Get("/v1/boards", h.GetBoards)

	rr := serve(router, createRequest(t, http.MethodGet, "/v1/boards", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, residentUser, gotActor)
	var views []api.BoardView
	decodeEnvelope(t, rr, "boards", &views)
	assert.Len(t, views, 2)
	assert.Equal(t, []domain.RoleTitle{}, views[0].RolesReadable)
}

func TestGetBoardHandler(t *testing.T) {
	boards := &MockBoardService{
		MockGet: func(ctx context.Context, actor *domain.User, id domain.BoardId) (*domain.Board, error) {
			if id == 1 {
				return &domain.Board{Id: 1, Title: "seminar"}, nil
			}
			return nil, errors.NotFound("board", id)
		},
	}
	h := newTestHandler(Services{Board: boards})
	router := newRouter(residentUser)
	router.Get("/v1/boards/{id}", h.GetBoard)

	rr := serve(router, createRequest(t, http.MethodGet, "/v1/boards/1", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, createRequest(t, http.MethodGet, "/v1/boards/2", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(router, createRequest(t, http.MethodGet, "/v1/boards/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateBoardHandler(t *testing.T) {
	route := "/v1/admin/boards/{id}"

	t.Run("passes role sets and version", func(t *testing.T) {
		var got service.BoardUpdate
		boards := &MockBoardService{
			MockUpdate: func(ctx context.Context, actor *domain.User, id domain.BoardId, data service.BoardUpdate) (*domain.Board, error) {
				got = data
				return &domain.Board{Id: id, Version: 3}, nil
			},
		}
		h := newTestHandler(Services{Board: boards})
		router := newRouter(adminUser)
		router.Put(route, h.UpdateBoard)

		rr := serve(router, createRequest(t, http.MethodPut, "/v1/admin/boards/4", []byte(`{"roles_writable": ["alumnus"], "version": 2}`)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Nil(t, got.RolesReadable)
		assert.Equal(t, []string{"alumnus"}, got.RolesWritable)
		assert.Equal(t, int64(2), got.Version)
	})

	t.Run("version required", func(t *testing.T) {
		h := newTestHandler(Services{Board: &MockBoardService{}})
		router := newRouter(adminUser)
		router.Put(route, h.UpdateBoard)

		rr := serve(router, createRequest(t, http.MethodPut, "/v1/admin/boards/4", []byte(`{"roles_writable": ["alumnus"]}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("stale version", func(t *testing.T) {
		boards := &MockBoardService{
			MockUpdate: func(ctx context.Context, actor *domain.User, id domain.BoardId, data service.BoardUpdate) (*domain.Board, error) {
				return nil, errors.Conflict("board", id)
			},
		}
		h := newTestHandler(Services{Board: boards})
		router := newRouter(adminUser)
		router.Put(route, h.UpdateBoard)

		rr := serve(router, createRequest(t, http.MethodPut, "/v1/admin/boards/4", []byte(`{"version": 1}`)))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestRemoveBoardHandler(t *testing.T) {
	var removed domain.BoardId
	boards := &MockBoardService{
		MockRemove: func(ctx context.Context, actor *domain.User, id domain.BoardId) error {
			removed = id
			return nil
		},
	}
	h := newTestHandler(Services{Board: boards})
	router := newRouter(adminUser)
	router.Delete("/v1/admin/boards/{id}", h.RemoveBoard)

	rr := serve(router, createRequest(t, http.MethodDelete, "/v1/admin/boards/9", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.BoardId(9), removed)
	decodeEnvelope(t, rr, "", nil)
}
