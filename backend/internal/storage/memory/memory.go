// Package memory is a dependency-free storage backend for tests, demos and
// local development. Each entity kind is an ordered slice scanned linearly,
// with a per-kind id counter that starts at 1 and never reuses ids.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
)

type Storage struct {
	mu      sync.RWMutex
	roles   []domain.Role
	users   []domain.User
	boards  []domain.Board
	posts   []domain.Post
	replies []domain.Reply
	files   []domain.File
	seq     counters

	resolver *storage.Resolver
	now      func() time.Time
}

type counters struct {
	role, user, board, post, reply, file int64
}

var _ storage.Storage = (*Storage)(nil)
var _ storage.Source = (*Storage)(nil)

func New() *Storage {
	s := &Storage{now: func() time.Time { return time.Now().UTC() }}
	s.resolver = storage.NewResolver(s)
	return s
}

// WithClock replaces the clock used when creation data carries no date.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Storage) Close() error {
	return nil
}

func indexOf[T any](items []T, match func(*T) bool) int {
	for i := range items {
		if match(&items[i]) {
			return i
		}
	}
	return -1
}

// Stored records never hold populated fields, copies share no slices with the store.

func cloneUser(u domain.User) domain.User {
	u.Role = nil
	return u
}

func cloneBoard(b domain.Board) domain.Board {
	b.ReadableRoleIds = slices.Clone(b.ReadableRoleIds)
	b.WritableRoleIds = slices.Clone(b.WritableRoleIds)
	b.RolesReadable, b.RolesWritable = nil, nil
	return b
}

func clonePost(p domain.Post) domain.Post {
	p.FileIds = slices.Clone(p.FileIds)
	p.ReplyIds = slices.Clone(p.ReplyIds)
	p.Board, p.Author, p.Files, p.Replies = nil, nil, nil, nil
	return p
}

func cloneReply(r domain.Reply) domain.Reply {
	r.Author = nil
	return r
}

// storage.Source

func (s *Storage) RolesByIds(ctx context.Context, ids []domain.RoleId) (map[domain.RoleId]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.roles, ids, func(r domain.Role) domain.RoleId { return r.Id }, func(r domain.Role) domain.Role { return r }), nil
}

func (s *Storage) UsersByIds(ctx context.Context, ids []domain.UserId) (map[domain.UserId]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.users, ids, func(u domain.User) domain.UserId { return u.Id }, cloneUser), nil
}

func (s *Storage) BoardsByIds(ctx context.Context, ids []domain.BoardId) (map[domain.BoardId]domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.boards, ids, func(b domain.Board) domain.BoardId { return b.Id }, cloneBoard), nil
}

func (s *Storage) FilesByIds(ctx context.Context, ids []domain.FileId) (map[domain.FileId]domain.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.files, ids, func(f domain.File) domain.FileId { return f.Id }, func(f domain.File) domain.File { return f }), nil
}

func (s *Storage) RepliesByIds(ctx context.Context, ids []domain.ReplyId) (map[domain.ReplyId]domain.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collect(s.replies, ids, func(r domain.Reply) domain.ReplyId { return r.Id }, cloneReply), nil
}

func collect[T any](items []T, ids []int64, key func(T) int64, clone func(T) T) map[int64]T {
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	out := make(map[int64]T, len(ids))
	for _, item := range items {
		if k := key(item); wanted[k] {
			out[k] = clone(item)
		}
	}
	return out
}

// all ids must be present; callers hold the lock
func (s *Storage) rolesExist(ids []domain.RoleId) (domain.RoleId, bool) {
	for _, id := range ids {
		if indexOf(s.roles, func(r *domain.Role) bool { return r.Id == id }) < 0 {
			return id, false
		}
	}
	return 0, true
}

func (s *Storage) filesExist(ids []domain.FileId) (domain.FileId, bool) {
	for _, id := range ids {
		if indexOf(s.files, func(f *domain.File) bool { return f.Id == id }) < 0 {
			return id, false
		}
	}
	return 0, true
}
