// Package storage defines the persistence contract every backend implements.
//
// All backends store cross-entity references as ids. Related entities are
// resolved only on the read paths listed below, through the shared Resolver,
// so the memory, surreal and pg backends return identically shaped values:
//
//	CreateUser, FindUserById, FindUserBySID, SearchUsers, UpdateUser   role
//	FindAllUsers                                                        nothing
//	CreateBoard, FindBoardByTitle                                       readable and writable roles
//	FindBoardById, FindAllBoards, UpdateBoard                           nothing
//	CreatePost                                                          board, author (+role), files
//	FindPostById, UpdatePost                                            board (+roles), author (+role), files, replies (+author, +role)
//	FindPostsByBoard                                                    board (+roles), author (+role), files
//	CreateReply, FindReplyById, UpdateReply                             author (+role)
//
// Lookups by id fail with errors.ErrNotFound. FindBoardByTitle is the one
// exception: absence is not exceptional there and it returns (nil, nil).
package storage

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
)

type UserStorage interface {
	CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error)
	FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error)
	FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error)
	FindAllUsers(ctx context.Context) ([]domain.User, error)
	// SearchUsers matches keyword against name and student id, restricted to
	// users holding one of roleIds, most relevant first.
	SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error)
	// UpdateUser replaces name, password hash/salt and role. user.Version must
	// match the stored version.
	UpdateUser(ctx context.Context, user domain.User) (*domain.User, error)
	RemoveUser(ctx context.Context, id domain.UserId) error
}

// RoleStorage is append-only.
type RoleStorage interface {
	CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
	FindRoleById(ctx context.Context, id domain.RoleId) (*domain.Role, error)
	FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
	FindAllRoles(ctx context.Context) ([]domain.Role, error)
}

type BoardStorage interface {
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error)
	FindBoardById(ctx context.Context, id domain.BoardId) (*domain.Board, error)
	FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error)
	FindAllBoards(ctx context.Context) ([]domain.Board, error)
	// UpdateBoard replaces title and both role sets.
	UpdateBoard(ctx context.Context, board domain.Board) (*domain.Board, error)
	RemoveBoard(ctx context.Context, id domain.BoardId) error
}

type PostStorage interface {
	CreatePost(ctx context.Context, data domain.PostCreationData) (*domain.Post, error)
	FindPostById(ctx context.Context, id domain.PostId) (*domain.Post, error)
	// FindPostsByBoard returns page (1-based) of the board's posts created in
	// the given calendar year, newest first, and the total number of matches.
	FindPostsByBoard(ctx context.Context, boardId domain.BoardId, year, page, pageSize int) ([]domain.Post, int, error)
	// UpdatePost replaces title, content and attached files.
	UpdatePost(ctx context.Context, post domain.Post) (*domain.Post, error)
	// RemovePost removes the post and its replies.
	RemovePost(ctx context.Context, id domain.PostId) error
}

type ReplyStorage interface {
	CreateReply(ctx context.Context, data domain.ReplyCreationData) (*domain.Reply, error)
	FindReplyById(ctx context.Context, id domain.ReplyId) (*domain.Reply, error)
	// UpdateReply replaces content.
	UpdateReply(ctx context.Context, reply domain.Reply) (*domain.Reply, error)
	RemoveReply(ctx context.Context, id domain.ReplyId) error
}

type FileStorage interface {
	CreateFile(ctx context.Context, data domain.FileCreationData) (*domain.File, error)
	FindFileById(ctx context.Context, id domain.FileId) (*domain.File, error)
	// FindFilesById is all-or-nothing: one missing id fails the whole call.
	FindFilesById(ctx context.Context, ids []domain.FileId) ([]domain.File, error)
	RemoveFile(ctx context.Context, id domain.FileId) error
}

type Storage interface {
	UserStorage
	RoleStorage
	BoardStorage
	PostStorage
	ReplyStorage
	FileStorage

	Ping(ctx context.Context) error
	Close() error
}
