// Package storagetest holds the behavioural suite every storage backend must
// pass. Backends call Run from their own tests with a factory returning an
// empty store.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a store with no records in it.
type Factory func(t *testing.T) storage.Storage

func Run(t *testing.T, newStorage Factory) {
	t.Run("roles", func(t *testing.T) { testRoles(t, newStorage(t)) })
	t.Run("users", func(t *testing.T) { testUsers(t, newStorage(t)) })
	t.Run("search users", func(t *testing.T) { testSearchUsers(t, newStorage(t)) })
	t.Run("boards", func(t *testing.T) { testBoards(t, newStorage(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, newStorage(t)) })
	t.Run("posts by board", func(t *testing.T) { testPostsByBoard(t, newStorage(t)) })
	t.Run("replies", func(t *testing.T) { testReplies(t, newStorage(t)) })
	t.Run("files", func(t *testing.T) { testFiles(t, newStorage(t)) })
	t.Run("removed author", func(t *testing.T) { testRemovedAuthor(t, newStorage(t)) })
	t.Run("update error precedence", func(t *testing.T) { testUpdatePrecedence(t, newStorage(t)) })
}

// fixture is the minimal graph most cases need.
type fixture struct {
	member domain.Role
	admin  domain.Role
	user   domain.User
	board  domain.Board
}

func setup(t *testing.T, s storage.Storage) fixture {
	t.Helper()
	ctx := context.Background()

	member, err := s.CreateRole(ctx, domain.RoleResident)
	require.NoError(t, err)
	admin, err := s.CreateRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	user, err := s.CreateUser(ctx, domain.UserCreationData{
		StudentId: "20190001", Name: "Kim", PasswordHash: "hash", PasswordSalt: "salt", RoleId: member.Id,
	})
	require.NoError(t, err)
	board, err := s.CreateBoard(ctx, domain.BoardCreationData{
		Title:           "seminar",
		ReadableRoleIds: []domain.RoleId{member.Id, admin.Id},
		WritableRoleIds: []domain.RoleId{admin.Id},
	})
	require.NoError(t, err)
	return fixture{member: *member, admin: *admin, user: *user, board: *board}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func testRoles(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	created, err := s.CreateRole(ctx, domain.RoleFreshman)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFreshman, created.Title)
	assert.NotZero(t, created.Id)

	_, err = s.CreateRole(ctx, domain.RoleFreshman)
	assert.True(t, errors.IsDuplicate(err), "got %v", err)

	byId, err := s.FindRoleById(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, *created, *byId)

	byTitle, err := s.FindRoleByTitle(ctx, domain.RoleFreshman)
	require.NoError(t, err)
	assert.Equal(t, *created, *byTitle)

	_, err = s.FindRoleById(ctx, created.Id+1000)
	assert.True(t, errors.IsNotFound(err), "got %v", err)
	_, err = s.FindRoleByTitle(ctx, "nobody")
	assert.True(t, errors.IsNotFound(err), "got %v", err)

	second, err := s.CreateRole(ctx, domain.RoleAlumnus)
	require.NoError(t, err)
	all, err := s.FindAllRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{*created, *second}, all)
}

func testUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)

	t.Run("create resolves role", func(t *testing.T) {
		require.NotNil(t, f.user.Role)
		assert.Equal(t, f.member, *f.user.Role)
		assert.Equal(t, int64(1), f.user.Version)
	})

	t.Run("duplicate student id", func(t *testing.T) {
		_, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: f.user.StudentId, Name: "Other", RoleId: f.member.Id})
		assert.True(t, errors.IsDuplicate(err), "got %v", err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: "x-unknown-role", Name: "X", RoleId: f.admin.Id + 1000})
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	t.Run("find", func(t *testing.T) {
		byId, err := s.FindUserById(ctx, f.user.Id)
		require.NoError(t, err)
		assert.Equal(t, f.user, *byId)

		bySid, err := s.FindUserBySID(ctx, f.user.StudentId)
		require.NoError(t, err)
		assert.Equal(t, f.user, *bySid)

		_, err = s.FindUserById(ctx, f.user.Id+1000)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
		_, err = s.FindUserBySID(ctx, "missing")
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("find all does not resolve roles", func(t *testing.T) {
		all, err := s.FindAllUsers(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Nil(t, all[0].Role)
		assert.Equal(t, f.user.Id, all[0].Id)
	})

	t.Run("update with version", func(t *testing.T) {
		stale := f.user
		changed := f.user
		changed.Name = "Kim Minsu"
		changed.RoleId = f.admin.Id

		updated, err := s.UpdateUser(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "Kim Minsu", updated.Name)
		assert.Equal(t, f.user.Version+1, updated.Version)
		require.NotNil(t, updated.Role)
		assert.Equal(t, domain.RoleAdmin, updated.Role.Title)

		stale.Name = "lost update"
		_, err = s.UpdateUser(ctx, stale)
		assert.True(t, errors.IsConflict(err), "got %v", err)

		found, err := s.FindUserById(ctx, f.user.Id)
		require.NoError(t, err)
		assert.Equal(t, "Kim Minsu", found.Name)
	})

	t.Run("update unknown user", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, domain.User{Id: f.user.Id + 1000, Version: 1, RoleId: f.member.Id})
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("remove", func(t *testing.T) {
		other, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: "20190002", Name: "Lee", RoleId: f.member.Id})
		require.NoError(t, err)
		require.NoError(t, s.RemoveUser(ctx, other.Id))
		_, err = s.FindUserById(ctx, other.Id)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
		assert.True(t, errors.IsNotFound(s.RemoveUser(ctx, other.Id)))
	})
}

func testSearchUsers(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)

	create := func(sid, name string, role domain.RoleId) domain.User {
		u, err := s.CreateUser(ctx, domain.UserCreationData{StudentId: sid, Name: name, RoleId: role})
		require.NoError(t, err)
		return *u
	}
	park := create("park", "Someone", f.member.Id)
	parker := create("30001", "Park", f.member.Id)
	parkson := create("30002", "Parkson", f.member.Id)
	jiPark := create("30003", "Ji Park", f.member.Id)
	create("30004", "Park Admin", f.admin.Id)

	found, err := s.SearchUsers(ctx, "park", []domain.RoleId{f.member.Id})
	require.NoError(t, err)
	ids := make([]domain.UserId, len(found))
	for i, u := range found {
		ids[i] = u.Id
		assert.NotNil(t, u.Role, "search resolves roles")
	}
	assert.Equal(t, []domain.UserId{park.Id, parker.Id, parkson.Id, jiPark.Id}, ids)

	none, err := s.SearchUsers(ctx, "park", nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	blank, err := s.SearchUsers(ctx, "  ", []domain.RoleId{f.member.Id})
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func testBoards(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)

	t.Run("create resolves roles", func(t *testing.T) {
		assert.Equal(t, domain.Roles{f.member, f.admin}, f.board.RolesReadable)
		assert.Equal(t, domain.Roles{f.admin}, f.board.RolesWritable)
		assert.Equal(t, int64(1), f.board.Version)
	})

	t.Run("duplicate title", func(t *testing.T) {
		_, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: f.board.Title})
		assert.True(t, errors.IsDuplicate(err), "got %v", err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "ghost", ReadableRoleIds: []domain.RoleId{f.admin.Id + 1000}})
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	t.Run("find by id keeps ids only", func(t *testing.T) {
		b, err := s.FindBoardById(ctx, f.board.Id)
		require.NoError(t, err)
		assert.Equal(t, f.board.Title, b.Title)
		assert.ElementsMatch(t, f.board.ReadableRoleIds, b.ReadableRoleIds)
		assert.Empty(t, b.RolesReadable)

		_, err = s.FindBoardById(ctx, f.board.Id+1000)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("find by title", func(t *testing.T) {
		b, err := s.FindBoardByTitle(ctx, f.board.Title)
		require.NoError(t, err)
		require.NotNil(t, b)
		assert.Len(t, b.RolesReadable, 2)

		missing, err := s.FindBoardByTitle(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("update", func(t *testing.T) {
		other, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "homework"})
		require.NoError(t, err)

		clash := *other
		clash.Title = f.board.Title
		_, err = s.UpdateBoard(ctx, clash)
		assert.True(t, errors.IsDuplicate(err), "got %v", err)

		changed := *other
		changed.Title = "homework-2024"
		changed.WritableRoleIds = []domain.RoleId{f.member.Id}
		updated, err := s.UpdateBoard(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "homework-2024", updated.Title)
		assert.Equal(t, other.Version+1, updated.Version)
		assert.Nil(t, updated.RolesWritable, "update does not resolve roles")

		_, err = s.UpdateBoard(ctx, changed)
		assert.True(t, errors.IsConflict(err), "got %v", err)
	})

	t.Run("remove", func(t *testing.T) {
		b, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "to-remove"})
		require.NoError(t, err)
		require.NoError(t, s.RemoveBoard(ctx, b.Id))
		assert.True(t, errors.IsNotFound(s.RemoveBoard(ctx, b.Id)))

		all, err := s.FindAllBoards(ctx)
		require.NoError(t, err)
		for _, board := range all {
			assert.NotEqual(t, b.Id, board.Id)
		}
	})
}

func testPosts(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)

	file, err := s.CreateFile(ctx, domain.FileCreationData{
		FileCommonMetadata: domain.FileCommonMetadata{Filename: "notes.pdf", SizeBytes: 10, MimeType: "application/pdf"},
		StoragePath:        "2024/notes.pdf",
	})
	require.NoError(t, err)

	created, err := s.CreatePost(ctx, domain.PostCreationData{
		Title: "Welcome", Content: "hello", BoardId: f.board.Id, AuthorId: f.user.Id,
		FileIds: []domain.FileId{file.Id}, DateCreated: date(2024, time.March, 2),
	})
	require.NoError(t, err)

	t.Run("create resolves board author and files", func(t *testing.T) {
		require.NotNil(t, created.Board)
		assert.Equal(t, f.board.Title, created.Board.Title)
		require.NotNil(t, created.Author)
		require.NotNil(t, created.Author.Role)
		assert.Equal(t, f.member.Title, created.Author.Role.Title)
		require.Len(t, created.Files, 1)
		assert.Equal(t, "notes.pdf", created.Files[0].Filename)
		assert.Empty(t, created.ReplyIds)
		assert.True(t, created.DateCreated.Equal(date(2024, time.March, 2)))
	})

	t.Run("invalid references", func(t *testing.T) {
		cases := []domain.PostCreationData{
			{Title: "t", BoardId: f.board.Id + 1000, AuthorId: f.user.Id},
			{Title: "t", BoardId: f.board.Id, AuthorId: f.user.Id + 1000},
			{Title: "t", BoardId: f.board.Id, AuthorId: f.user.Id, FileIds: []domain.FileId{file.Id + 1000}},
		}
		for i, data := range cases {
			_, err := s.CreatePost(ctx, data)
			assert.True(t, errors.IsValidation(err), "case %d: got %v", i, err)
		}
	})

	t.Run("missing date defaults to now", func(t *testing.T) {
		before := time.Now().Add(-time.Minute)
		p, err := s.CreatePost(ctx, domain.PostCreationData{Title: "now", BoardId: f.board.Id, AuthorId: f.user.Id})
		require.NoError(t, err)
		assert.True(t, p.DateCreated.After(before), "date %v", p.DateCreated)
	})

	t.Run("detail", func(t *testing.T) {
		_, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "first", PostId: created.Id, AuthorId: f.user.Id})
		require.NoError(t, err)

		p, err := s.FindPostById(ctx, created.Id)
		require.NoError(t, err)
		require.NotNil(t, p.Board)
		assert.Len(t, p.Board.RolesReadable, 2)
		require.Len(t, p.Replies, 1)
		require.NotNil(t, p.Replies[0].Author)
		assert.NotNil(t, p.Replies[0].Author.Role)

		_, err = s.FindPostById(ctx, created.Id+1000)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("update", func(t *testing.T) {
		current, err := s.FindPostById(ctx, created.Id)
		require.NoError(t, err)

		changed := *current
		changed.Title = "Welcome!"
		changed.FileIds = nil
		updated, err := s.UpdatePost(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "Welcome!", updated.Title)
		assert.Empty(t, updated.Files)
		assert.Equal(t, current.Version+1, updated.Version)
		assert.Len(t, updated.ReplyIds, 1, "update keeps replies")
		require.Len(t, updated.Replies, 1, "update returns the detail shape")
		assert.NotNil(t, updated.Replies[0].Author)
		require.NotNil(t, updated.Board)
		assert.Len(t, updated.Board.RolesReadable, 2)

		_, err = s.UpdatePost(ctx, changed)
		assert.True(t, errors.IsConflict(err), "got %v", err)

		changed.Version = updated.Version
		changed.FileIds = []domain.FileId{file.Id + 1000}
		_, err = s.UpdatePost(ctx, changed)
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	t.Run("remove cascades to replies", func(t *testing.T) {
		p, err := s.CreatePost(ctx, domain.PostCreationData{Title: "short-lived", BoardId: f.board.Id, AuthorId: f.user.Id})
		require.NoError(t, err)
		r, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "bye", PostId: p.Id, AuthorId: f.user.Id})
		require.NoError(t, err)

		require.NoError(t, s.RemovePost(ctx, p.Id))
		_, err = s.FindPostById(ctx, p.Id)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
		_, err = s.FindReplyById(ctx, r.Id)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
		assert.True(t, errors.IsNotFound(s.RemovePost(ctx, p.Id)))
	})
}

func testPostsByBoard(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)
	other, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "homework"})
	require.NoError(t, err)

	create := func(board domain.BoardId, title string, at time.Time) domain.PostId {
		p, err := s.CreatePost(ctx, domain.PostCreationData{Title: title, BoardId: board, AuthorId: f.user.Id, DateCreated: at})
		require.NoError(t, err)
		return p.Id
	}
	jan1 := create(f.board.Id, "jan1", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	mar := create(f.board.Id, "mar", date(2024, time.March, 1))
	dec := create(f.board.Id, "dec", time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC))
	sameA := create(f.board.Id, "same-a", date(2024, time.June, 1))
	sameB := create(f.board.Id, "same-b", date(2024, time.June, 1))
	create(f.board.Id, "next year", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	create(f.board.Id, "last year", date(2023, time.July, 1))
	create(other.Id, "elsewhere", date(2024, time.May, 1))

	ids := func(posts []domain.Post) []domain.PostId {
		out := make([]domain.PostId, len(posts))
		for i, p := range posts {
			out[i] = p.Id
		}
		return out
	}

	t.Run("newest first across pages", func(t *testing.T) {
		first, total, err := s.FindPostsByBoard(ctx, f.board.Id, 2024, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Equal(t, []domain.PostId{dec, sameB, sameA}, ids(first))

		second, total, err := s.FindPostsByBoard(ctx, f.board.Id, 2024, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Equal(t, []domain.PostId{mar, jan1}, ids(second))
	})

	t.Run("page resolves board roles", func(t *testing.T) {
		page, _, err := s.FindPostsByBoard(ctx, f.board.Id, 2024, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		require.NotNil(t, page[0].Board)
		assert.Len(t, page[0].Board.RolesReadable, 2)
		require.NotNil(t, page[0].Author)
		assert.Empty(t, page[0].Replies)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, total, err := s.FindPostsByBoard(ctx, f.board.Id, 2024, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	})

	t.Run("invalid page", func(t *testing.T) {
		_, _, err := s.FindPostsByBoard(ctx, f.board.Id, 2024, 0, 3)
		assert.True(t, errors.IsValidation(err), "got %v", err)
		_, _, err = s.FindPostsByBoard(ctx, f.board.Id, 2024, 1, 0)
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	t.Run("other year", func(t *testing.T) {
		page, total, err := s.FindPostsByBoard(ctx, f.board.Id, 2025, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, page, 1)
	})
}

func testReplies(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)
	post, err := s.CreatePost(ctx, domain.PostCreationData{Title: "q", BoardId: f.board.Id, AuthorId: f.user.Id})
	require.NoError(t, err)

	t.Run("missing post", func(t *testing.T) {
		_, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "?", PostId: post.Id + 1000, AuthorId: f.user.Id})
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("missing author", func(t *testing.T) {
		_, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "?", PostId: post.Id, AuthorId: f.user.Id + 1000})
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	var replyIds []domain.ReplyId
	for i := range 3 {
		r, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: fmt.Sprintf("reply %d", i), PostId: post.Id, AuthorId: f.user.Id})
		require.NoError(t, err)
		require.NotNil(t, r.Author)
		assert.NotNil(t, r.Author.Role)
		replyIds = append(replyIds, r.Id)
	}

	t.Run("post tracks replies in order", func(t *testing.T) {
		p, err := s.FindPostById(ctx, post.Id)
		require.NoError(t, err)
		assert.Equal(t, replyIds, p.ReplyIds)
		assert.Equal(t, post.Version, p.Version, "replies do not bump the post version")
	})

	t.Run("update", func(t *testing.T) {
		r, err := s.FindReplyById(ctx, replyIds[0])
		require.NoError(t, err)
		changed := *r
		changed.Content = "edited"
		updated, err := s.UpdateReply(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)
		assert.Equal(t, r.Version+1, updated.Version)
		require.NotNil(t, updated.Author)
		assert.NotNil(t, updated.Author.Role)

		_, err = s.UpdateReply(ctx, changed)
		assert.True(t, errors.IsConflict(err), "got %v", err)
	})

	t.Run("remove detaches from post", func(t *testing.T) {
		require.NoError(t, s.RemoveReply(ctx, replyIds[1]))
		p, err := s.FindPostById(ctx, post.Id)
		require.NoError(t, err)
		assert.Equal(t, []domain.ReplyId{replyIds[0], replyIds[2]}, p.ReplyIds)
		assert.True(t, errors.IsNotFound(s.RemoveReply(ctx, replyIds[1])))
	})
}

func testFiles(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)
	width, height := 640, 480

	var ids []domain.FileId
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		file, err := s.CreateFile(ctx, domain.FileCreationData{
			FileCommonMetadata: domain.FileCommonMetadata{Filename: name, SizeBytes: 3, MimeType: "image/png", ImageWidth: &width, ImageHeight: &height},
			StoragePath:        "uploads/" + name,
		})
		require.NoError(t, err)
		ids = append(ids, file.Id)
	}

	found, err := s.FindFileById(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "a.png", found.Filename)
	require.NotNil(t, found.ImageWidth)
	assert.Equal(t, 640, *found.ImageWidth)

	many, err := s.FindFilesById(ctx, []domain.FileId{ids[2], ids[0]})
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.Equal(t, "c.png", many[0].Filename)
	assert.Equal(t, "a.png", many[1].Filename)

	_, err = s.FindFilesById(ctx, []domain.FileId{ids[0], ids[2] + 1000})
	assert.True(t, errors.IsNotFound(err), "got %v", err)

	// Removing one file must leave the others alone.
	post, err := s.CreatePost(ctx, domain.PostCreationData{Title: "gallery", BoardId: f.board.Id, AuthorId: f.user.Id, FileIds: ids})
	require.NoError(t, err)
	require.NoError(t, s.RemoveFile(ctx, ids[1]))
	assert.True(t, errors.IsNotFound(s.RemoveFile(ctx, ids[1])))

	_, err = s.FindFileById(ctx, ids[0])
	assert.NoError(t, err)
	_, err = s.FindFileById(ctx, ids[2])
	assert.NoError(t, err)

	p, err := s.FindPostById(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, ids, p.FileIds, "removed files leave dangling ids")
	require.Len(t, p.Files, 2)
	assert.Equal(t, "a.png", p.Files[0].Filename)
	assert.Equal(t, "c.png", p.Files[1].Filename)
}

func testRemovedAuthor(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)

	post, err := s.CreatePost(ctx, domain.PostCreationData{Title: "orphan", BoardId: f.board.Id, AuthorId: f.user.Id})
	require.NoError(t, err)
	reply, err := s.CreateReply(ctx, domain.ReplyCreationData{Content: "mine", PostId: post.Id, AuthorId: f.user.Id})
	require.NoError(t, err)

	require.NoError(t, s.RemoveUser(ctx, f.user.Id))

	p, err := s.FindPostById(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, f.user.Id, p.AuthorId)
	assert.Nil(t, p.Author)
	require.Len(t, p.Replies, 1)
	assert.Nil(t, p.Replies[0].Author)

	r, err := s.FindReplyById(ctx, reply.Id)
	require.NoError(t, err)
	assert.Nil(t, r.Author)
}

// testUpdatePrecedence pins the order updates report errors in: a missing
// record first, then a stale version, then bad references.
func testUpdatePrecedence(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	f := setup(t, s)
	post, err := s.CreatePost(ctx, domain.PostCreationData{Title: "p", BoardId: f.board.Id, AuthorId: f.user.Id})
	require.NoError(t, err)

	const missingRole domain.RoleId = 1 << 20
	const missingFile domain.FileId = 1 << 20

	t.Run("user", func(t *testing.T) {
		absent := f.user
		absent.Id += 1000
		absent.RoleId = missingRole
		_, err := s.UpdateUser(ctx, absent)
		assert.True(t, errors.IsNotFound(err), "got %v", err)

		stale := f.user
		stale.Version++
		stale.RoleId = missingRole
		_, err = s.UpdateUser(ctx, stale)
		assert.True(t, errors.IsConflict(err), "got %v", err)
	})

	t.Run("board", func(t *testing.T) {
		other, err := s.CreateBoard(ctx, domain.BoardCreationData{Title: "other"})
		require.NoError(t, err)

		absent := *other
		absent.Id += 1000
		absent.ReadableRoleIds = []domain.RoleId{missingRole}
		_, err = s.UpdateBoard(ctx, absent)
		assert.True(t, errors.IsNotFound(err), "got %v", err)

		stale := *other
		stale.Version++
		stale.Title = f.board.Title
		stale.ReadableRoleIds = []domain.RoleId{missingRole}
		_, err = s.UpdateBoard(ctx, stale)
		assert.True(t, errors.IsConflict(err), "got %v", err)

		bad := *other
		bad.Title = f.board.Title
		bad.ReadableRoleIds = []domain.RoleId{missingRole}
		_, err = s.UpdateBoard(ctx, bad)
		assert.True(t, errors.IsValidation(err), "got %v", err)
	})

	t.Run("post", func(t *testing.T) {
		absent := *post
		absent.Id += 1000
		absent.FileIds = []domain.FileId{missingFile}
		_, err := s.UpdatePost(ctx, absent)
		assert.True(t, errors.IsNotFound(err), "got %v", err)

		stale := *post
		stale.Version++
		stale.FileIds = []domain.FileId{missingFile}
		_, err = s.UpdatePost(ctx, stale)
		assert.True(t, errors.IsConflict(err), "got %v", err)
	})
}
