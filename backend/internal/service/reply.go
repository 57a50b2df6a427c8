package service

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

type ReplyService interface {
	Write(ctx context.Context, actor *domain.User, postId domain.PostId, content domain.Content) (*domain.Reply, error)
	Get(ctx context.Context, actor *domain.User, id domain.ReplyId) (*domain.Reply, error)
	Update(ctx context.Context, actor *domain.User, id domain.ReplyId, content domain.Content, version int64) (*domain.Reply, error)
	Remove(ctx context.Context, actor *domain.User, id domain.ReplyId) error
}

type Reply struct {
	storage   ReplyStorage
	validator ReplyValidator
}

type ReplyStorage interface {
	CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error)
	FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error)
	UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error)
	RemoveReply(ctx context.Context, id domain.ReplyId) error

	FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error)
}

type ReplyValidator interface {
	Content(text string) error
}

func NewReply(storage ReplyStorage, validator ReplyValidator) ReplyService {
	return &Reply{storage, validator}
}

// Write checks the board of the parent post before anything is stored.
func (s *Reply) Write(ctx context.Context, actor *domain.User, postId domain.PostId, content domain.Content) (*domain.Reply, error) {
	if actor == nil {
		return nil, errors.Forbidden("write reply")
	}
	if err := s.validator.Content(content); err != nil {
		return nil, err
	}

	post, err := s.storage.FindPostById(ctx, postId)
	if err != nil {
		return nil, err
	}
	if !canWrite(actor, post.Board) {
		return nil, errors.Forbidden("write reply")
	}

	return s.storage.CreateReply(ctx, domain.ReplyCreationData{
		Content:  content,
		PostId:   post.Id,
		AuthorId: actor.Id,
	})
}

func (s *Reply) Get(ctx context.Context, actor *domain.User, id domain.ReplyId) (*domain.Reply, error) {
	reply, err := s.storage.FindReplyById(ctx, id)
	if err != nil {
		return nil, err
	}
	post, err := s.storage.FindPostById(ctx, reply.PostId)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, post.Board) {
		return nil, errors.Forbidden("read reply")
	}
	return reply, nil
}

func (s *Reply) Update(ctx context.Context, actor *domain.User, id domain.ReplyId, content domain.Content, version int64) (*domain.Reply, error) {
	reply, err := s.storage.FindReplyById(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, reply.AuthorId) {
		return nil, errors.Forbidden("update reply")
	}
	if err := s.validator.Content(content); err != nil {
		return nil, err
	}

	reply.Content = content
	reply.Version = version
	return s.storage.UpdateReply(ctx, *reply)
}

func (s *Reply) Remove(ctx context.Context, actor *domain.User, id domain.ReplyId) error {
	reply, err := s.storage.FindReplyById(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, reply.AuthorId) {
		return errors.Forbidden("remove reply")
	}
	return s.storage.RemoveReply(ctx, id)
}
