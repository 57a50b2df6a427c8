package surreal

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error) {
	if ok, err := s.exists(ctx, tablePosts, data.PostId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NotFound("post", data.PostId)
	}
	if ok, err := s.exists(ctx, tableUsers, data.AuthorId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NewValidation("user %d does not exist", data.AuthorId)
	}

	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}
	num, err := s.nextNum(ctx, tableReplies)
	if err != nil {
		return nil, err
	}
	rows, err := query[[]replyRow](ctx, s.db, `
		CREATE type::thing($tb, $num) SET
			num = $num, content = $content, post_id = $post_id, author_id = $author_id,
			date_created = $date_created, version = 1`,
		map[string]any{
			"tb": tableReplies, "num": num, "content": data.Content, "post_id": data.PostId,
			"author_id": data.AuthorId, "date_created": datetime(created),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create reply: no record returned")
	}
	reply := rows[0].toDomain()
	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error) {
	row, ok, err := selectOne[replyRow](ctx, s.db, tableReplies, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_errors.NotFound("reply", id)
	}
	reply := row.toDomain()
	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error) {
	rows, err := query[[]replyRow](ctx, s.db, `
		UPDATE type::thing($tb, $num) SET content = $content, version += 1
		WHERE version = $version
		RETURN AFTER`,
		map[string]any{"tb": tableReplies, "num": reply.Id, "version": reply.Version, "content": reply.Content})
	if err != nil {
		return nil, fmt.Errorf("failed to update reply: %w", err)
	}
	if len(rows) == 0 {
		return nil, s.versionMismatch(ctx, tableReplies, "reply", reply.Id)
	}
	updated := rows[0].toDomain()
	if err := s.resolver.Reply(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) RemoveReply(ctx context.Context, id domain.ReplyId) error {
	return s.removeOrNotFound(ctx, tableReplies, "reply", id)
}
