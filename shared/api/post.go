package api

import (
	"time"

	"github.com/campusboard/campusboard/shared/domain"
)

// Request DTOs

type CreatePostRequest struct {
	Title   string          `json:"title" validate:"required,max=128"`
	Content string          `json:"content" validate:"required"`
	BoardId domain.BoardId  `json:"board_id" validate:"required"`
	FileIds []domain.FileId `json:"file_ids,omitempty"`
}

type UpdatePostRequest struct {
	Title   string          `json:"title" validate:"required,max=128"`
	Content string          `json:"content" validate:"required"`
	FileIds []domain.FileId `json:"file_ids,omitempty"`
	Version int64           `json:"version" validate:"required,min=1"`
}

type CreateReplyRequest struct {
	PostId  domain.PostId `json:"post_id" validate:"required"`
	Content string        `json:"content" validate:"required"`
}

type UpdateReplyRequest struct {
	Content string `json:"content" validate:"required"`
	Version int64  `json:"version" validate:"required,min=1"`
}

// Response DTOs

// PostView mirrors a post at whatever depth storage resolved it. References
// whose target was removed render as null.
type PostView struct {
	Id          domain.PostId    `json:"id"`
	Title       domain.PostTitle `json:"title"`
	Content     domain.Content   `json:"content"`
	BoardId     domain.BoardId   `json:"board_id"`
	Board       *BoardView       `json:"board"`
	Author      *UserView        `json:"author"`
	Files       []FileView       `json:"files"`
	Replies     []ReplyView      `json:"replies,omitempty"`
	ReplyCount  int              `json:"reply_count"`
	DateCreated time.Time        `json:"date_created"`
	Version     int64            `json:"version"`
}

type PostPageView struct {
	Posts    []PostView `json:"posts"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

type ReplyView struct {
	Id          domain.ReplyId `json:"id"`
	PostId      domain.PostId  `json:"post_id"`
	Content     domain.Content `json:"content"`
	Author      *UserView      `json:"author"`
	DateCreated time.Time      `json:"date_created"`
	Version     int64          `json:"version"`
}

func NewPostView(p domain.Post) PostView {
	v := PostView{
		Id:          p.Id,
		Title:       p.Title,
		Content:     p.Content,
		BoardId:     p.BoardId,
		Author:      newUserViewPtr(p.Author),
		Files:       make([]FileView, 0, len(p.Files)),
		ReplyCount:  len(p.ReplyIds),
		DateCreated: p.DateCreated,
		Version:     p.Version,
	}
	if p.Board != nil {
		b := NewBoardView(*p.Board)
		v.Board = &b
	}
	for _, f := range p.Files {
		v.Files = append(v.Files, NewFileView(f))
	}
	if p.Replies != nil {
		v.Replies = make([]ReplyView, 0, len(p.Replies))
		for _, r := range p.Replies {
			v.Replies = append(v.Replies, NewReplyView(r))
		}
	}
	return v
}

func NewReplyView(r domain.Reply) ReplyView {
	return ReplyView{
		Id:          r.Id,
		PostId:      r.PostId,
		Content:     r.Content,
		Author:      newUserViewPtr(r.Author),
		DateCreated: r.DateCreated,
		Version:     r.Version,
	}
}
