package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type PostCreationData struct {
	Title       PostTitle
	Content     Content
	BoardId     BoardId
	FileIds     []FileId
	AuthorId    UserId
	DateCreated time.Time // zero value means "now"
}

type Post struct {
	Id          PostId
	Title       PostTitle
	Content     Content
	BoardId     BoardId
	Board       *Board // populated
	FileIds     []FileId
	Files       []File // populated
	AuthorId    UserId
	Author      *User // populated
	DateCreated time.Time
	ReplyIds    []ReplyId
	Replies     []Reply // populated
	Version     int64
}
