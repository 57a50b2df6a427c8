package surreal

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
)

func (s *Storage) RolesByIds(ctx context.Context, ids []domain.RoleId) (map[domain.RoleId]domain.Role, error) {
	return lookup(ctx, s.db, tableRoles, ids, roleRow.toDomain, func(r domain.Role) int64 { return r.Id })
}

func (s *Storage) UsersByIds(ctx context.Context, ids []domain.UserId) (map[domain.UserId]domain.User, error) {
	return lookup(ctx, s.db, tableUsers, ids, userRow.toDomain, func(u domain.User) int64 { return u.Id })
}

func (s *Storage) BoardsByIds(ctx context.Context, ids []domain.BoardId) (map[domain.BoardId]domain.Board, error) {
	return lookup(ctx, s.db, tableBoards, ids, boardRow.toDomain, func(b domain.Board) int64 { return b.Id })
}

func (s *Storage) FilesByIds(ctx context.Context, ids []domain.FileId) (map[domain.FileId]domain.File, error) {
	return lookup(ctx, s.db, tableFiles, ids, fileRow.toDomain, func(f domain.File) int64 { return f.Id })
}

func (s *Storage) RepliesByIds(ctx context.Context, ids []domain.ReplyId) (map[domain.ReplyId]domain.Reply, error) {
	return lookup(ctx, s.db, tableReplies, ids, replyRow.toDomain, func(r domain.Reply) int64 { return r.Id })
}
