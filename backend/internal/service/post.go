package service

import (
	"context"
	"io"
	"time"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
)

const (
	DefaultPostsPerPage  = 5
	DefaultExcerptLength = 100
)

type PostService interface {
	Write(ctx context.Context, actor *domain.User, data PostData) (*domain.Post, error)
	ListPage(ctx context.Context, actor *domain.User, board domain.BoardTitle, year, page int) (*PostPage, error)
	Get(ctx context.Context, actor *domain.User, id domain.PostId) (*domain.Post, error)
	Update(ctx context.Context, actor *domain.User, id domain.PostId, data PostUpdate) (*domain.Post, error)
	Remove(ctx context.Context, actor *domain.User, id domain.PostId) error
}

type PostData struct {
	Title   domain.PostTitle
	Content domain.Content
	BoardId domain.BoardId
	FileIds []domain.FileId
}

// PostUpdate replaces title and content. A nil FileIds keeps the attachments.
type PostUpdate struct {
	Title   domain.PostTitle
	Content domain.Content
	FileIds []domain.FileId
	Version int64
}

type PostPage struct {
	Posts    []domain.Post
	Total    int
	Page     int
	PageSize int
}

type PostConfig struct {
	PostsPerPage  int
	ExcerptLength int
}

type Post struct {
	storage   PostStorage
	media     MediaStorage
	excerpter Excerpter
	validator PostValidator
	cfg       PostConfig
	now       func() time.Time
}

type PostStorage interface {
	CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error)
	FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error)
	FindPostsByBoard(ctx context.Context, boardId domain.BoardId, year, page, pageSize int) ([]domain.Post, int, error)
	UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error)
	RemovePost(ctx context.Context, id domain.PostId) error

	FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error)
	FindFilesById(ctx context.Context, ids []domain.FileId) ([]domain.File, error)
	RemoveFile(ctx context.Context, id domain.FileId) error
}

// MediaStorage keeps uploaded bytes. Paths are relative to its root.
type MediaStorage interface {
	Save(data io.Reader, originalName string) (string, error)
	Read(path string) (io.ReadCloser, error)
	DeleteFile(path string) error
}

type Excerpter interface {
	Excerpt(content string, limit int) string
}

type PostValidator interface {
	PostTitle(title string) error
	Content(text string) error
}

func NewPost(storage PostStorage, media MediaStorage, excerpter Excerpter, validator PostValidator, cfg PostConfig) PostService {
	if cfg.PostsPerPage < 1 {
		cfg.PostsPerPage = DefaultPostsPerPage
	}
	if cfg.ExcerptLength < 1 {
		cfg.ExcerptLength = DefaultExcerptLength
	}
	return &Post{storage: storage, media: media, excerpter: excerpter, validator: validator, cfg: cfg, now: time.Now}
}

func (s *Post) Write(ctx context.Context, actor *domain.User, data PostData) (*domain.Post, error) {
	if actor == nil {
		return nil, errors.Forbidden("write post")
	}
	if err := s.validator.PostTitle(data.Title); err != nil {
		return nil, err
	}
	if err := s.validator.Content(data.Content); err != nil {
		return nil, err
	}

	board, err := s.storage.FindBoardById(ctx, data.BoardId)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewValidation("board %d does not exist", data.BoardId)
		}
		return nil, err
	}
	if !canWrite(actor, board) {
		return nil, errors.Forbidden("write post")
	}
	if err := s.checkFiles(ctx, data.FileIds); err != nil {
		return nil, err
	}

	return s.storage.CreatePost(ctx, domain.PostCreationData{
		Title:    data.Title,
		Content:  data.Content,
		BoardId:  board.Id,
		FileIds:  data.FileIds,
		AuthorId: actor.Id,
	})
}

func (s *Post) checkFiles(ctx context.Context, ids []domain.FileId) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.storage.FindFilesById(ctx, ids); err != nil {
		if errors.IsNotFound(err) {
			return errors.NewValidation("attached files do not exist: %v", err)
		}
		return err
	}
	return nil
}

// ListPage returns one page of the board's posts for the given year, with
// content cut down to a plain text excerpt. A zero year means the current one.
func (s *Post) ListPage(ctx context.Context, actor *domain.User, boardTitle domain.BoardTitle, year, page int) (*PostPage, error) {
	if page < 1 {
		return nil, errors.NewValidation("page must be positive, got %d", page)
	}
	if year == 0 {
		year = s.now().UTC().Year()
	}

	board, err := s.storage.FindBoardByTitle(ctx, boardTitle)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, errors.NotFound("board", boardTitle)
	}
	if !canRead(actor, board) {
		return nil, errors.Forbidden("read board")
	}

	posts, total, err := s.storage.FindPostsByBoard(ctx, board.Id, year, page, s.cfg.PostsPerPage)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Content = s.excerpter.Excerpt(posts[i].Content, s.cfg.ExcerptLength)
	}
	return &PostPage{Posts: posts, Total: total, Page: page, PageSize: s.cfg.PostsPerPage}, nil
}

func (s *Post) Get(ctx context.Context, actor *domain.User, id domain.PostId) (*domain.Post, error) {
	post, err := s.storage.FindPostById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, post.Board) {
		return nil, errors.Forbidden("read post")
	}
	return post, nil
}

func (s *Post) Update(ctx context.Context, actor *domain.User, id domain.PostId, data PostUpdate) (*domain.Post, error) {
	post, err := s.storage.FindPostById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, post.AuthorId) {
		return nil, errors.Forbidden("update post")
	}
	if err := s.validator.PostTitle(data.Title); err != nil {
		return nil, err
	}
	if err := s.validator.Content(data.Content); err != nil {
		return nil, err
	}
	if data.FileIds != nil {
		if err := s.checkFiles(ctx, data.FileIds); err != nil {
			return nil, err
		}
		post.FileIds = data.FileIds
	}

	post.Title = data.Title
	post.Content = data.Content
	post.Version = data.Version
	return s.storage.UpdatePost(ctx, *post)
}

// Remove deletes the post with its replies, then the attached files. File
// cleanup is best effort: failures are logged, the post stays removed.
func (s *Post) Remove(ctx context.Context, actor *domain.User, id domain.PostId) error {
	post, err := s.storage.FindPostById(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, post.AuthorId) {
		return errors.Forbidden("remove post")
	}
	if err := s.storage.RemovePost(ctx, id); err != nil {
		return err
	}

	for _, f := range post.Files {
		if err := s.storage.RemoveFile(ctx, f.Id); err != nil && !errors.IsNotFound(err) {
			logger.Log.Error("failed to remove file record", "post_id", id, "file_id", f.Id, "error", err)
			continue
		}
		if err := s.media.DeleteFile(f.StoragePath); err != nil {
			logger.Log.Warn("failed to delete file from disk", "post_id", id, "path", f.StoragePath, "error", err)
		}
	}
	return nil
}
