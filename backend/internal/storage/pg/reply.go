package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

const replyColumns = "id, content, post_id, author_id, date_created, version"

func scanReply(row scanner) (domain.Reply, error) {
	var r domain.Reply
	if err := row.Scan(&r.Id, &r.Content, &r.PostId, &r.AuthorId, &r.DateCreated, &r.Version); err != nil {
		return domain.Reply{}, err
	}
	r.DateCreated = r.DateCreated.UTC()
	return r, nil
}

func (s *Storage) CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error) {
	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}

	var reply domain.Reply
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if ok, err := exists(ctx, tx, "posts", data.PostId); err != nil {
			return err
		} else if !ok {
			return internal_errors.NotFound("post", data.PostId)
		}
		if ok, err := exists(ctx, tx, "users", data.AuthorId); err != nil {
			return err
		} else if !ok {
			return internal_errors.NewValidation("user %d does not exist", data.AuthorId)
		}

		var err error
		reply, err = scanReply(tx.QueryRowContext(ctx, `
			INSERT INTO replies(content, post_id, author_id, date_created)
			VALUES($1, $2, $3, $4)
			RETURNING `+replyColumns,
			data.Content, data.PostId, data.AuthorId, created.UTC(),
		))
		if err != nil {
			return fmt.Errorf("failed to insert reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error) {
	reply, err := scanReply(s.db.QueryRowContext(ctx, "SELECT "+replyColumns+" FROM replies WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("reply", id)
		}
		return nil, fmt.Errorf("failed to query reply: %w", err)
	}
	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) queryReplies(ctx context.Context, q Querier, where string, args ...any) ([]domain.Reply, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+replyColumns+" FROM replies "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies: %w", err)
	}
	defer rows.Close()

	replies := []domain.Reply{}
	for rows.Next() {
		r, err := scanReply(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply row: %w", err)
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

func (s *Storage) UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error) {
	var updated domain.Reply
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		updated, err = scanReply(tx.QueryRowContext(ctx, `
			UPDATE replies SET content = $1, version = version + 1
			WHERE id = $2 AND version = $3
			RETURNING `+replyColumns,
			reply.Content, reply.Id, reply.Version,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return versionMismatch(ctx, tx, "replies", "reply", reply.Id)
		}
		if err != nil {
			return fmt.Errorf("failed to update reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Reply(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) RemoveReply(ctx context.Context, id domain.ReplyId) error {
	return removeById(ctx, s.db, "replies", "reply", id)
}
