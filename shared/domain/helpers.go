package domain

import (
	"fmt"
	"time"
)

// for debug
func (p *Post) String() string {
	return fmt.Sprintf("[id:%d, title:%s, board:%d, author:%d, created:%s, files:%v, replies:%v]",
		p.Id, p.Title, p.BoardId, p.AuthorId, p.DateCreated.Format(time.StampMilli), p.FileIds, p.ReplyIds)
}

func (r *Reply) String() string {
	return fmt.Sprintf("[id:%d, post:%d, author:%d, created:%s]", r.Id, r.PostId, r.AuthorId, r.DateCreated.Format(time.StampMilli))
}
