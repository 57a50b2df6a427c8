package api

import (
	"github.com/campusboard/campusboard/shared/domain"
)

// ResultKind tags the payload carried in a Response.
type ResultKind string

const (
	KindUser     ResultKind = "user"
	KindUsers    ResultKind = "users"
	KindRole     ResultKind = "role"
	KindRoles    ResultKind = "roles"
	KindBoard    ResultKind = "board"
	KindBoards   ResultKind = "boards"
	KindPost     ResultKind = "post"
	KindPostPage ResultKind = "post_page"
	KindReply    ResultKind = "reply"
	KindFile     ResultKind = "file"
	KindSession  ResultKind = "session"
)

// Result is one tagged payload. The constructors below are the only way to
// build one, so every kind has exactly one payload shape.
type Result struct {
	Kind ResultKind `json:"kind"`
	Data any        `json:"data"`
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Result  *Result `json:"result"`
}

func UserResult(u domain.User) *Result {
	return &Result{Kind: KindUser, Data: NewUserView(u)}
}

func UsersResult(users []domain.User) *Result {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return &Result{Kind: KindUsers, Data: views}
}

func RoleResult(r domain.Role) *Result {
	return &Result{Kind: KindRole, Data: NewRoleView(r)}
}

func RolesResult(roles []domain.Role) *Result {
	views := make([]RoleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, NewRoleView(r))
	}
	return &Result{Kind: KindRoles, Data: views}
}

func BoardResult(b domain.Board) *Result {
	return &Result{Kind: KindBoard, Data: NewBoardView(b)}
}

func BoardsResult(boards []domain.Board) *Result {
	views := make([]BoardView, 0, len(boards))
	for _, b := range boards {
		views = append(views, NewBoardView(b))
	}
	return &Result{Kind: KindBoards, Data: views}
}

func PostResult(p domain.Post) *Result {
	return &Result{Kind: KindPost, Data: NewPostView(p)}
}

func PostPageResult(posts []domain.Post, total, page, pageSize int) *Result {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return &Result{Kind: KindPostPage, Data: PostPageView{Posts: views, Total: total, Page: page, PageSize: pageSize}}
}

func ReplyResult(r domain.Reply) *Result {
	return &Result{Kind: KindReply, Data: NewReplyView(r)}
}

func FileResult(f domain.File) *Result {
	return &Result{Kind: KindFile, Data: NewFileView(f)}
}

func SessionResult(u domain.User, accessToken string) *Result {
	return &Result{Kind: KindSession, Data: SessionView{User: NewUserView(u), AccessToken: accessToken}}
}
