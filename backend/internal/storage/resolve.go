package storage

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
)

// Source is the batch lookup surface a backend exposes to the Resolver.
// Ids with no record are left out of the returned map: a dangling reference
// (for example the author of a post whose account was removed) resolves to nil.
type Source interface {
	RolesByIds(ctx context.Context, ids []domain.RoleId) (map[domain.RoleId]domain.Role, error)
	UsersByIds(ctx context.Context, ids []domain.UserId) (map[domain.UserId]domain.User, error)
	BoardsByIds(ctx context.Context, ids []domain.BoardId) (map[domain.BoardId]domain.Board, error)
	FilesByIds(ctx context.Context, ids []domain.FileId) (map[domain.FileId]domain.File, error)
	RepliesByIds(ctx context.Context, ids []domain.ReplyId) (map[domain.ReplyId]domain.Reply, error)
}

// Populate selects which references of a post get resolved.
type Populate uint8

const (
	PopulateBoard Populate = 1 << iota
	PopulateBoardRoles
	PopulateAuthor
	PopulateFiles
	PopulateReplies
)

const (
	PostCreated = PopulateBoard | PopulateAuthor | PopulateFiles
	PostPage    = PostCreated | PopulateBoardRoles
	PostDetail  = PostPage | PopulateReplies
)

func (p Populate) Has(flag Populate) bool {
	return p&flag != 0
}

// Resolver fills the populated fields of entities returned by a backend.
type Resolver struct {
	src Source
}

func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Users resolves each user's role.
func (r *Resolver) Users(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]domain.RoleId, len(users))
	for i := range users {
		ids[i] = users[i].RoleId
	}
	roles, err := r.src.RolesByIds(ctx, Unique(ids))
	if err != nil {
		return err
	}
	for i := range users {
		if role, ok := roles[users[i].RoleId]; ok {
			users[i].Role = &role
		}
	}
	return nil
}

func (r *Resolver) User(ctx context.Context, u *domain.User) error {
	return one(ctx, u, r.Users)
}

// Boards resolves readable and writable role sets.
func (r *Resolver) Boards(ctx context.Context, boards []domain.Board) error {
	if len(boards) == 0 {
		return nil
	}
	var ids []domain.RoleId
	for _, b := range boards {
		ids = append(ids, b.ReadableRoleIds...)
		ids = append(ids, b.WritableRoleIds...)
	}
	roles, err := r.src.RolesByIds(ctx, Unique(ids))
	if err != nil {
		return err
	}
	for i := range boards {
		boards[i].RolesReadable = pick(roles, boards[i].ReadableRoleIds)
		boards[i].RolesWritable = pick(roles, boards[i].WritableRoleIds)
	}
	return nil
}

func (r *Resolver) Board(ctx context.Context, b *domain.Board) error {
	return one(ctx, b, r.Boards)
}

// Replies resolves each reply's author and the author's role.
func (r *Resolver) Replies(ctx context.Context, replies []domain.Reply) error {
	if len(replies) == 0 {
		return nil
	}
	ids := make([]domain.UserId, len(replies))
	for i := range replies {
		ids[i] = replies[i].AuthorId
	}
	authors, err := r.users(ctx, ids)
	if err != nil {
		return err
	}
	for i := range replies {
		if a, ok := authors[replies[i].AuthorId]; ok {
			replies[i].Author = &a
		}
	}
	return nil
}

func (r *Resolver) Reply(ctx context.Context, reply *domain.Reply) error {
	return one(ctx, reply, r.Replies)
}

// Posts resolves the references selected by what.
func (r *Resolver) Posts(ctx context.Context, posts []domain.Post, what Populate) error {
	if len(posts) == 0 {
		return nil
	}

	var boardIds []domain.BoardId
	var authorIds []domain.UserId
	var fileIds []domain.FileId
	var replyIds []domain.ReplyId
	for _, p := range posts {
		boardIds = append(boardIds, p.BoardId)
		authorIds = append(authorIds, p.AuthorId)
		fileIds = append(fileIds, p.FileIds...)
		replyIds = append(replyIds, p.ReplyIds...)
	}

	if what.Has(PopulateBoard) {
		boards, err := r.src.BoardsByIds(ctx, Unique(boardIds))
		if err != nil {
			return err
		}
		if what.Has(PopulateBoardRoles) {
			if boards, err = r.resolveBoardMap(ctx, boards); err != nil {
				return err
			}
		}
		for i := range posts {
			if b, ok := boards[posts[i].BoardId]; ok {
				posts[i].Board = &b
			}
		}
	}

	if what.Has(PopulateAuthor) {
		authors, err := r.users(ctx, authorIds)
		if err != nil {
			return err
		}
		for i := range posts {
			if a, ok := authors[posts[i].AuthorId]; ok {
				posts[i].Author = &a
			}
		}
	}

	if what.Has(PopulateFiles) {
		files, err := r.src.FilesByIds(ctx, Unique(fileIds))
		if err != nil {
			return err
		}
		for i := range posts {
			posts[i].Files = pick(files, posts[i].FileIds)
		}
	}

	if what.Has(PopulateReplies) {
		replies, err := r.src.RepliesByIds(ctx, Unique(replyIds))
		if err != nil {
			return err
		}
		for i := range posts {
			posts[i].Replies = pick(replies, posts[i].ReplyIds)
			if err := r.Replies(ctx, posts[i].Replies); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) Post(ctx context.Context, p *domain.Post, what Populate) error {
	return one(ctx, p, func(ctx context.Context, s []domain.Post) error {
		return r.Posts(ctx, s, what)
	})
}

// users fetches users by id with their roles resolved.
func (r *Resolver) users(ctx context.Context, ids []domain.UserId) (map[domain.UserId]domain.User, error) {
	found, err := r.src.UsersByIds(ctx, Unique(ids))
	if err != nil {
		return nil, err
	}
	list := make([]domain.User, 0, len(found))
	for _, u := range found {
		list = append(list, u)
	}
	if err := r.Users(ctx, list); err != nil {
		return nil, err
	}
	for _, u := range list {
		found[u.Id] = u
	}
	return found, nil
}

func (r *Resolver) resolveBoardMap(ctx context.Context, boards map[domain.BoardId]domain.Board) (map[domain.BoardId]domain.Board, error) {
	list := make([]domain.Board, 0, len(boards))
	for _, b := range boards {
		list = append(list, b)
	}
	if err := r.Boards(ctx, list); err != nil {
		return nil, err
	}
	for _, b := range list {
		boards[b.Id] = b
	}
	return boards, nil
}

// pick returns the values for ids in order, skipping ids without a record.
func pick[K comparable, V any](m map[K]V, ids []K) []V {
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func one[T any](ctx context.Context, v *T, fn func(context.Context, []T) error) error {
	s := []T{*v}
	if err := fn(ctx, s); err != nil {
		return err
	}
	*v = s[0]
	return nil
}
