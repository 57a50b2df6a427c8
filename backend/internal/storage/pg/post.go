package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
	"github.com/lib/pq"
)

const postColumns = "id, title, content, board_id, file_ids, author_id, date_created, version"

func scanPost(row scanner) (domain.Post, error) {
	var p domain.Post
	var fileIds pq.Int64Array
	if err := row.Scan(&p.Id, &p.Title, &p.Content, &p.BoardId, &fileIds, &p.AuthorId, &p.DateCreated, &p.Version); err != nil {
		return domain.Post{}, err
	}
	p.FileIds = []domain.FileId(fileIds)
	p.DateCreated = p.DateCreated.UTC()
	p.ReplyIds = []domain.ReplyId{}
	return p, nil
}

// attachReplyIds fills ReplyIds of each post in creation order.
func attachReplyIds(ctx context.Context, q Querier, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	idx := make(map[domain.PostId]int, len(posts))
	ids := make([]domain.PostId, len(posts))
	for i, p := range posts {
		idx[p.Id] = i
		ids[i] = p.Id
	}

	rows, err := q.QueryContext(ctx, "SELECT post_id, id FROM replies WHERE post_id = ANY($1) ORDER BY id", pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch reply ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postId domain.PostId
		var replyId domain.ReplyId
		if err := rows.Scan(&postId, &replyId); err != nil {
			return fmt.Errorf("failed to scan reply id row: %w", err)
		}
		if i, ok := idx[postId]; ok {
			posts[i].ReplyIds = append(posts[i].ReplyIds, replyId)
		}
	}
	return rows.Err()
}

func checkPostFiles(ctx context.Context, q Querier, fileIds []domain.FileId) error {
	id, ok, err := missingId(ctx, q, "files", fileIds)
	if err != nil {
		return err
	}
	if !ok {
		return internal_errors.NewValidation("file %d does not exist", id)
	}
	return nil
}

func (s *Storage) CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error) {
	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}
	fileIds := storage.Unique(data.FileIds)

	var post domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if ok, err := exists(ctx, tx, "boards", data.BoardId); err != nil {
			return err
		} else if !ok {
			return internal_errors.NewValidation("board %d does not exist", data.BoardId)
		}
		if ok, err := exists(ctx, tx, "users", data.AuthorId); err != nil {
			return err
		} else if !ok {
			return internal_errors.NewValidation("user %d does not exist", data.AuthorId)
		}
		if err := checkPostFiles(ctx, tx, fileIds); err != nil {
			return err
		}

		var err error
		post, err = scanPost(tx.QueryRowContext(ctx, `
			INSERT INTO posts(title, content, board_id, file_ids, author_id, date_created)
			VALUES($1, $2, $3, $4, $5, $6)
			RETURNING `+postColumns,
			data.Title, data.Content, data.BoardId, pq.Array(fileIds), data.AuthorId, created.UTC(),
		))
		if err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Post(ctx, &post, storage.PostCreated); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Storage) findPost(ctx context.Context, q Querier, id domain.PostId) (domain.Post, error) {
	post, err := scanPost(q.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, internal_errors.NotFound("post", id)
		}
		return domain.Post{}, fmt.Errorf("failed to query post: %w", err)
	}
	posts := []domain.Post{post}
	if err := attachReplyIds(ctx, q, posts); err != nil {
		return domain.Post{}, err
	}
	return posts[0], nil
}

func (s *Storage) FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error) {
	post, err := s.findPost(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
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
	from, to := storage.YearRange(year)

	var total int
	err = s.db.QueryRowContext(ctx, `
		SELECT count(*) FROM posts
		WHERE board_id = $1 AND date_created >= $2 AND date_created < $3`,
		boardId, from, to,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE board_id = $1 AND date_created >= $2 AND date_created < $3
		ORDER BY date_created DESC, id DESC
		LIMIT $4 OFFSET $5`,
		boardId, from, to, pageSize, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := attachReplyIds(ctx, s.db, posts); err != nil {
		return nil, 0, err
	}
	if err := s.resolver.Posts(ctx, posts, storage.PostPage); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *Storage) UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error) {
	fileIds := storage.Unique(post.FileIds)

	var updated domain.Post
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET title = $1, content = $2, file_ids = $3, version = version + 1
			WHERE id = $4 AND version = $5`,
			post.Title, post.Content, pq.Array(fileIds), post.Id, post.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}
		if n, err := result.RowsAffected(); err != nil {
			return fmt.Errorf("failed to check affected rows for post update: %w", err)
		} else if n == 0 {
			return versionMismatch(ctx, tx, "posts", "post", post.Id)
		}
		// the row is locked by the update until commit
		if err := checkPostFiles(ctx, tx, fileIds); err != nil {
			return err
		}
		updated, err = s.findPost(ctx, tx, post.Id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Post(ctx, &updated, storage.PostDetail); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemovePost removes the post. Its replies go with it through ON DELETE CASCADE.
func (s *Storage) RemovePost(ctx context.Context, id domain.PostId) error {
	return removeById(ctx, s.db, "posts", "post", id)
}
