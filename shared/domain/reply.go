package domain

import "time"

// to iterate thru layers: handler -> service -> storage
type ReplyCreationData struct {
	Content     Content
	PostId      PostId
	AuthorId    UserId
	DateCreated time.Time // zero value means "now"
}

type Reply struct {
	Id          ReplyId
	Content     Content
	PostId      PostId
	AuthorId    UserId
	Author      *User // populated
	DateCreated time.Time
	Version     int64
}
