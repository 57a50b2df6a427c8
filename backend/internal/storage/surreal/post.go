package surreal

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

type replyRef struct {
	Num    int64 `json:"num"`
	PostId int64 `json:"post_id"`
}

// attachReplyIds fills ReplyIds of each post in creation order.
func (s *Storage) attachReplyIds(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	idx := make(map[domain.PostId]int, len(posts))
	ids := make([]domain.PostId, len(posts))
	for i, p := range posts {
		idx[p.Id] = i
		ids[i] = p.Id
	}
	refs, err := query[[]replyRef](ctx, s.db,
		"SELECT num, post_id FROM type::table($tb) WHERE post_id INSIDE $posts ORDER BY num",
		map[string]any{"tb": tableReplies, "posts": ids})
	if err != nil {
		return fmt.Errorf("failed to fetch reply ids: %w", err)
	}
	for _, ref := range refs {
		if i, ok := idx[ref.PostId]; ok {
			posts[i].ReplyIds = append(posts[i].ReplyIds, ref.Num)
		}
	}
	return nil
}

func (s *Storage) checkFiles(ctx context.Context, fileIds []domain.FileId) error {
	id, ok, err := s.missingNum(ctx, tableFiles, fileIds)
	if err != nil {
		return err
	}
	if !ok {
		return internal_errors.NewValidation("file %d does not exist", id)
	}
	return nil
}

func (s *Storage) CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	if ok, err := s.exists(ctx, tableBoards, data.BoardId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NewValidation("board %d does not exist", data.BoardId)
	}
	if ok, err := s.exists(ctx, tableUsers, data.AuthorId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NewValidation("user %d does not exist", data.AuthorId)
	}
	fileIds := storage.Unique(data.FileIds)
	if err := s.checkFiles(ctx, fileIds); err != nil {
		return nil, err
	}

	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}
	num, err := s.nextNum(ctx, tablePosts)
	if err != nil {
		return nil, err
	}
	rows, err := query[[]postRow](ctx, s.db, `
		CREATE type::thing($tb, $num) SET
			num = $num, title = $title, content = $content,
			board_id = $board_id, file_ids = $file_ids, author_id = $author_id,
			date_created = $date_created, version = 1`,
		map[string]any{
			"tb": tablePosts, "num": num, "title": data.Title, "content": data.Content,
			"board_id": data.BoardId, "file_ids": fileIds, "author_id": data.AuthorId,
			"date_created": datetime(created),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create post: no record returned")
	}
	post := rows[0].toDomain()
	if err := s.resolver.Post(ctx, &post, storage.PostCreated); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	row, ok, err := selectOne[postRow](ctx, s.db, tablePosts, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_errors.NotFound("post", id)
	}
	return s.detail(ctx, row.toDomain())
}

func (s *Storage) detail(ctx context.Context, post domain.Post) (*domain.Post, error) {
	posts := []domain.Post{post}
	if err := s.attachReplyIds(ctx, posts); err != nil {
		return nil, err
	}
	if err := s.resolver.Posts(ctx, posts, storage.PostDetail); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

type countRow struct {
	Total int `json:"total"`
}

func (s *Storage) FindPostsByBoard(ctx context.Context, boardId domain.BoardId, year, page, pageSize int) ([]domain.Post, int, error) {
	offset, err := storage.Offset(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	from, to := storage.YearRange(year)
	vars := map[string]any{
		"tb": tablePosts, "board_id": boardId,
		"from": datetime(from), "to": datetime(to),
		"limit": pageSize, "start": offset,
	}
	const filter = "board_id = $board_id AND date_created >= $from AND date_created < $to"

	counts, err := query[[]countRow](ctx, s.db,
		"SELECT count() AS total FROM type::table($tb) WHERE "+filter+" GROUP ALL", vars)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}
	total := 0
	if len(counts) > 0 {
		total = counts[0].Total
	}

	rows, err := query[[]postRow](ctx, s.db,
		"SELECT * FROM type::table($tb) WHERE "+filter+" ORDER BY date_created DESC, num DESC LIMIT $limit START $start", vars)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	posts := convert(rows, postRow.toDomain)
	if err := s.attachReplyIds(ctx, posts); err != nil {
		return nil, 0, err
	}
	if err := s.resolver.Posts(ctx, posts, storage.PostPage); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Storage) UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	if err := s.checkVersion(ctx, tablePosts, "post", post.Id, post.Version); err != nil {
		return nil, err
	}
	fileIds := storage.Unique(post.FileIds)
	if err := s.checkFiles(ctx, fileIds); err != nil {
		return nil, err
	}
	rows, err := query[[]postRow](ctx, s.db, `
		UPDATE type::thing($tb, $num) SET
			title = $title, content = $content, file_ids = $file_ids, version += 1
		WHERE version = $version
		RETURN AFTER`,
		map[string]any{
			"tb": tablePosts, "num": post.Id, "version": post.Version,
			"title": post.Title, "content": post.Content, "file_ids": fileIds,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if len(rows) == 0 {
		return nil, s.versionMismatch(ctx, tablePosts, "post", post.Id)
	}
	return s.detail(ctx, rows[0].toDomain())
}

// RemovePost removes the post together with its replies.
func (s *Storage) RemovePost(ctx context.Context, id domain.PostId) error {
	found, err := s.exists(ctx, tablePosts, id)
	if err != nil {
		return err
	}
	if !found {
		return internal_errors.NotFound("post", id)
	}
	err = s.exec(ctx, `
		BEGIN TRANSACTION;
		DELETE type::table($replies) WHERE post_id = $num;
		DELETE type::thing($posts, $num);
		COMMIT TRANSACTION;`,
		map[string]any{"replies": tableReplies, "posts": tablePosts, "num": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
