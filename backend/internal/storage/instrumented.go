package storage

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

var operationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "storage_operation_duration_seconds",
		Help:    "Storage call duration by backend, operation and outcome",
		Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"backend", "op", "outcome"},
)

// Instrumented records every call of the wrapped Storage in
// storage_operation_duration_seconds.
type Instrumented struct {
	next    Storage
	backend string
}

func Instrument(next Storage, backend string) *Instrumented {
	return &Instrumented{next: next, backend: backend}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.IsNotFound(err):
		return "not_found"
	case errors.IsValidation(err):
		return "invalid"
	case errors.IsDuplicate(err):
		return "duplicate"
	case errors.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	operationDuration.WithLabelValues(s.backend, op, outcome(err)).Observe(time.Since(start).Seconds())
}

func observed[T any](s *Instrumented, op string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	s.observe(op, start, err)
	return v, err
}

func (s *Instrumented) CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error) {
	return observed(s, "create_user", func() (*domain.User, error) { return s.next.CreateUser(ctx, data) })
}

func (s *Instrumented) FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error) {
	return observed(s, "find_user_by_id", func() (*domain.User, error) { return s.next.FindUserById(ctx, id) })
}

func (s *Instrumented) FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
	return observed(s, "find_user_by_sid", func() (*domain.User, error) { return s.next.FindUserBySID(ctx, sid) })
}

func (s *Instrumented) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	return observed(s, "find_all_users", func() ([]domain.User, error) { return s.next.FindAllUsers(ctx) })
}

func (s *Instrumented) SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error) {
	return observed(s, "search_users", func() ([]domain.User, error) { return s.next.SearchUsers(ctx, keyword, roleIds) })
}

func (s *Instrumented) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	return observed(s, "update_user", func() (*domain.User, error) { return s.next.UpdateUser(ctx, user) })
}

func (s *Instrumented) RemoveUser(ctx context.Context, id domain.UserId) error {
	start := time.Now()
	err := s.next.RemoveUser(ctx, id)
	s.observe("remove_user", start, err)
	return err
}

func (s *Instrumented) CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	return observed(s, "create_role", func() (*domain.Role, error) { return s.next.CreateRole(ctx, title) })
}

func (s *Instrumented) FindRoleById(ctx context.Context, id domain.RoleId) (*domain.Role, error) {
	return observed(s, "find_role_by_id", func() (*domain.Role, error) { return s.next.FindRoleById(ctx, id) })
}

func (s *Instrumented) FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	return observed(s, "find_role_by_title", func() (*domain.Role, error) { return s.next.FindRoleByTitle(ctx, title) })
}

func (s *Instrumented) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	return observed(s, "find_all_roles", func() ([]domain.Role, error) { return s.next.FindAllRoles(ctx) })
}

func (s *Instrumented) CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error) {
	return observed(s, "create_board", func() (*domain.Board, error) { return s.next.CreateBoard(ctx, data) })
}

func (s *Instrumented) FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error) {
	return observed(s, "find_board_by_id", func() (*domain.Board, error) { return s.next.FindBoardById(ctx, id) })
}

func (s *Instrumented) FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error) {
	return observed(s, "find_board_by_title", func() (*domain.Board, error) { return s.next.FindBoardByTitle(ctx, title) })
}

func (s *Instrumented) FindAllBoards(ctx context.Context) ([]domain.Board, error) {
	return observed(s, "find_all_boards", func() ([]domain.Board, error) { return s.next.FindAllBoards(ctx) })
}

func (s *Instrumented) UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error) {
	return observed(s, "update_board", func() (*domain.Board, error) { return s.next.UpdateBoard(ctx, board) })
}

func (s *Instrumented) RemoveBoard(ctx context.Context, id domain.BoardId) error {
	start := time.Now()
	err := s.next.RemoveBoard(ctx, id)
	s.observe("remove_board", start, err)
	return err
}

func (s *Instrumented) CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	return observed(s, "create_post", func() (*domain.Post, error) { return s.next.CreatePost(ctx, data) })
}

func (s *Instrumented) FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	return observed(s, "find_post_by_id", func() (*domain.Post, error) { return s.next.FindPostById(ctx, id) })
}

func (s *Instrumented) FindPostsByBoard(ctx context.Context, boardId domain.BoardId, year, page, pageSize int) ([]domain.Post, int, error) {
	start := time.Now()
	posts, total, err := s.next.FindPostsByBoard(ctx, boardId, year, page, pageSize)
	s.observe("find_posts_by_board", start, err)
	return posts, total, err
}

func (s *Instrumented) UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	return observed(s, "update_post", func() (*domain.Post, error) { return s.next.UpdatePost(ctx, post) })
}

func (s *Instrumented) RemovePost(ctx context.Context, id domain.PostId) error {
	start := time.Now()
	err := s.next.RemovePost(ctx, id)
	s.observe("remove_post", start, err)
	return err
}

func (s *Instrumented) CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error) {
	return observed(s, "create_reply", func() (*domain.Reply, error) { return s.next.CreateReply(ctx, data) })
}

func (s *Instrumented) FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error) {
	return observed(s, "find_reply_by_id", func() (*domain.Reply, error) { return s.next.FindReplyById(ctx, id) })
}

func (s *Instrumented) UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error) {
	return observed(s, "update_reply", func() (*domain.Reply, error) { return s.next.UpdateReply(ctx, reply) })
}

func (s *Instrumented) RemoveReply(ctx context.Context, id domain.ReplyId) error {
	start := time.Now()
	err := s.next.RemoveReply(ctx, id)
	s.observe("remove_reply", start, err)
	return err
}

func (s *Instrumented) CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error) {
	return observed(s, "create_file", func() (*domain.File, error) { return s.next.CreateFile(ctx, data) })
}

func (s *Instrumented) FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error) {
	return observed(s, "find_file_by_id", func() (*domain.File, error) { return s.next.FindFileById(ctx, id) })
}

func (s *Instrumented) FindFilesById(ctx context.Context, ids []domain.FileId) ([]domain.File, error) {
	return observed(s, "find_files_by_id", func() ([]domain.File, error) { return s.next.FindFilesById(ctx, ids) })
}

func (s *Instrumented) RemoveFile(ctx context.Context, id domain.FileId) error {
	start := time.Now()
	err := s.next.RemoveFile(ctx, id)
	s.observe("remove_file", start, err)
	return err
}

func (s *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}
