package memory

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

// CreateReply checks the parent post before anything is written.
func (s *Storage) CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error) {
	reply, err := s.insertReply(data)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) insertReply(data domain.ReplyCreationData) (domain.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pi := indexOf(s.posts, func(p *domain.Post) bool { return p.Id == data.PostId })
	if pi < 0 {
		return domain.Reply{}, errors.NotFound("post", data.PostId)
	}
	if indexOf(s.users, func(u *domain.User) bool { return u.Id == data.AuthorId }) < 0 {
		return domain.Reply{}, errors.NewValidation("user %d does not exist", data.AuthorId)
	}

	created := data.DateCreated
	if created.IsZero() {
		created = s.now()
	}

	s.seq.reply++
	reply := domain.Reply{
		Id:          s.seq.reply,
		Content:     data.Content,
		PostId:      data.PostId,
		AuthorId:    data.AuthorId,
		DateCreated: created.UTC(),
		Version:     1,
	}
	s.replies = append(s.replies, reply)
	s.posts[pi].ReplyIds = append(s.posts[pi].ReplyIds, reply.Id)
	return reply, nil
}

func (s *Storage) FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error) {
	s.mu.RLock()
	i := indexOf(s.replies, func(r *domain.Reply) bool { return r.Id == id })
	if i < 0 {
		s.mu.RUnlock()
		return nil, errors.NotFound("reply", id)
	}
	reply := cloneReply(s.replies[i])
	s.mu.RUnlock()

	if err := s.resolver.Reply(ctx, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (s *Storage) UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error) {
	updated, err := s.replaceReply(reply)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.Reply(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) replaceReply(reply domain.Reply) (domain.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.replies, func(r *domain.Reply) bool { return r.Id == reply.Id })
	if i < 0 {
		return domain.Reply{}, errors.NotFound("reply", reply.Id)
	}
	stored := &s.replies[i]
	if stored.Version != reply.Version {
		return domain.Reply{}, errors.Conflict("reply", reply.Id)
	}
	stored.Content = reply.Content
	stored.Version++
	return cloneReply(*stored), nil
}

// RemoveReply also detaches the reply from its post.
func (s *Storage) RemoveReply(ctx context.Context, id domain.ReplyId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.replies, func(r *domain.Reply) bool { return r.Id == id })
	if i < 0 {
		return errors.NotFound("reply", id)
	}
	postId := s.replies[i].PostId
	s.replies = slices.Delete(s.replies, i, i+1)

	if pi := indexOf(s.posts, func(p *domain.Post) bool { return p.Id == postId }); pi >= 0 {
		s.posts[pi].ReplyIds = slices.DeleteFunc(s.posts[pi].ReplyIds, func(r domain.ReplyId) bool { return r == id })
	}
	return nil
}
