package memory

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	post, err := s.insertPost(data)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Post(ctx, &post, storage.PostCreated); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) insertPost(data domain.PostCreationData) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.boards, func(b *domain.Board) bool { return b.Id == data.BoardId }) < 0 {
		return domain.Post{}, errors.NewValidation("board %d does not exist", data.BoardId)
	}
	if indexOf(s.users, func(u *domain.User) bool { return u.Id == data.AuthorId }) < 0 {
		return domain.Post{}, errors.NewValidation("user %d does not exist", data.AuthorId)
	}
	if id, ok := s.filesExist(data.FileIds); !ok {
		return domain.Post{}, errors.NewValidation("file %d does not exist", id)
	}

	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}

	s.seq.post++
	post := domain.Post{
		Id:          s.seq.post,
		Title:       data.Title,
		Content:     data.Content,
		BoardId:     data.BoardId,
		FileIds:     storage.Unique(data.FileIds),
		AuthorId:    data.AuthorId,
		DateCreated: created.UTC(),
		ReplyIds:    []domain.ReplyId{},
		Version:     1,
	}
	s.posts = append(s.posts, post)
	return clonePost(post), nil
}

func (s *Storage) FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	s.mu.RLock()
	i := indexOf(s.posts, func(p *domain.Post) bool { return p.Id == id })
	if i < 0 {
		s.mu.RUnlock()
		return nil, errors.NotFound("post", id)
	}
	post := clonePost(s.posts[i])
	s.mu.RUnlock()

	if err := s.resolver.Post(ctx, &post, storage.PostDetail); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) FindPostsByBoard(ctx context.Context, boardId domain.BoardId, year, page, pageSize int) ([]domain.Post, int, error) {
	offset, err := storage.Offset(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	var matching []domain.Post
	for _, p := range s.posts {
		if p.BoardId == boardId && storage.InYear(p.DateCreated, year) {
			matching = append(matching, clonePost(p))
		}
	}
	s.mu.RUnlock()

	storage.SortNewestFirst(matching)
	posts := storage.Page(matching, offset, pageSize)
	if err := s.resolver.Posts(ctx, posts, storage.PostPage); err != nil {
		return nil, 0, err
	}
	return posts, len(matching), nil
}

func (s *Storage) UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	updated, err := s.replacePost(post)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Post(ctx, &updated, storage.PostDetail); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) replacePost(post domain.Post) (domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.posts, func(p *domain.Post) bool { return p.Id == post.Id })
	if i < 0 {
		return domain.Post{}, errors.NotFound("post", post.Id)
	}
	stored := &s.posts[i]
	if stored.Version != post.Version {
		return domain.Post{}, errors.Conflict("post", post.Id)
	}
	if id, ok := s.filesExist(post.FileIds); !ok {
		return domain.Post{}, errors.NewValidation("file %d does not exist", id)
	}

	stored.Title = post.Title
	stored.Content = post.Content
	stored.FileIds = storage.Unique(post.FileIds)
	stored.Version++
	return clonePost(*stored), nil
}

func (s *Storage) RemovePost(ctx context.Context, id domain.PostId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.posts, func(p *domain.Post) bool { return p.Id == id })
	if i < 0 {
		return errors.NotFound("post", id)
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	s.replies = slices.DeleteFunc(s.replies, func(r domain.Reply) bool { return r.PostId == id })
	return nil
}
