package handler

import (
	"context"
	"io"
	"strings"

	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/shared/domain"
)

type MockAuthService struct {
	MockLogin func(ctx context.Context, creds domain.Credentials) (string, *domain.User, error)
	MockCheck func(ctx context.Context, actor *domain.User) (*domain.User, error)
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.User, error) {
	if m.MockLogin != nil {
		return m.MockLogin(ctx, creds)
	}
	return "token", &domain.User{Id: 1, StudentId: creds.StudentId}, nil
}

func (m *MockAuthService) Check(ctx context.Context, actor *domain.User) (*domain.User, error) {
	if m.MockCheck != nil {
		return m.MockCheck(ctx, actor)
	}
	return actor, nil
}

type MockSetupService struct {
	MockInit func(ctx context.Context) (*service.InitReport, error)
}

func (m *MockSetupService) Init(ctx context.Context) (*service.InitReport, error) {
	if m.MockInit != nil {
		return m.MockInit(ctx)
	}
	return &service.InitReport{}, nil
}

type MockRoleService struct {
	MockCreate func(ctx context.Context, actor *domain.User, title domain.RoleTitle) (*domain.Role, error)
	MockList   func() []domain.Role
}

func (m *MockRoleService) Create(ctx context.Context, actor *domain.User, title domain.RoleTitle) (*domain.Role, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, actor, title)
	}
	return &domain.Role{Id: 1, Title: title}, nil
}

func (m *MockRoleService) List() []domain.Role {
	if m.MockList != nil {
		return m.MockList()
	}
	return []domain.Role{}
}

type MockUserService struct {
	MockRegister func(ctx context.Context, actor *domain.User, data service.RegisterData) (*domain.User, error)
	MockList     func(ctx context.Context, actor *domain.User) ([]domain.User, error)
	MockGet      func(ctx context.Context, id domain.UserId) (*domain.User, error)
	MockSearch   func(ctx context.Context, keyword string, roles []domain.RoleTitle) ([]domain.User, error)
	MockUpdate   func(ctx context.Context, actor *domain.User, id domain.UserId, data service.UserUpdate) (*domain.User, error)
	MockRemove   func(ctx context.Context, actor *domain.User, id domain.UserId) error
}

func (m *MockUserService) Register(ctx context.Context, actor *domain.User, data service.RegisterData) (*domain.User, error) {
	if m.MockRegister != nil {
		return m.MockRegister(ctx, actor, data)
	}
	return &domain.User{Id: 1, StudentId: data.StudentId, Name: data.Name}, nil
}

func (m *MockUserService) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if m.MockList != nil {
		return m.MockList(ctx, actor)
	}
	return []domain.User{}, nil
}

func (m *MockUserService) Get(ctx context.Context, id domain.UserId) (*domain.User, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, id)
	}
	return &domain.User{Id: id}, nil
}

func (m *MockUserService) Search(ctx context.Context, keyword string, roles []domain.RoleTitle) ([]domain.User, error) {
	if m.MockSearch != nil {
		return m.MockSearch(ctx, keyword, roles)
	}
	return []domain.User{}, nil
}

func (m *MockUserService) Update(ctx context.Context, actor *domain.User, id domain.UserId, data service.UserUpdate) (*domain.User, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, actor, id, data)
	}
	return &domain.User{Id: id, Name: data.Name, Version: data.Version + 1}, nil
}

func (m *MockUserService) Remove(ctx context.Context, actor *domain.User, id domain.UserId) error {
	if m.MockRemove != nil {
		return m.MockRemove(ctx, actor, id)
	}
	return nil
}

type MockBoardService struct {
	MockCreate     func(ctx context.Context, actor *domain.User, data service.BoardData) (*domain.Board, error)
	MockGet        func(ctx context.Context, actor *domain.User, id domain.BoardId) (*domain.Board, error)
	MockGetByTitle func(ctx context.Context, actor *domain.User, title domain.BoardTitle) (*domain.Board, error)
	MockList       func(ctx context.Context, actor *domain.User) ([]domain.Board, error)
	MockUpdate     func(ctx context.Context, actor *domain.User, id domain.BoardId, data service.BoardUpdate) (*domain.Board, error)
	MockRemove     func(ctx context.Context, actor *domain.User, id domain.BoardId) error
}

func (m *MockBoardService) Create(ctx context.Context, actor *domain.User, data service.BoardData) (*domain.Board, error) {
	if m.MockCreate != nil {
		return m.MockCreate(ctx, actor, data)
	}
	return &domain.Board{Id: 1, Title: data.Title}, nil
}

func (m *MockBoardService) Get(ctx context.Context, actor *domain.User, id domain.BoardId) (*domain.Board, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, actor, id)
	}
	return &domain.Board{Id: id}, nil
}

func (m *MockBoardService) GetByTitle(ctx context.Context, actor *domain.User, title domain.BoardTitle) (*domain.Board, error) {
	if m.MockGetByTitle != nil {
		return m.MockGetByTitle(ctx, actor, title)
	}
	return &domain.Board{Id: 1, Title: title}, nil
}

func (m *MockBoardService) List(ctx context.Context, actor *domain.User) ([]domain.Board, error) {
	if m.MockList != nil {
		return m.MockList(ctx, actor)
	}
	return []domain.Board{}, nil
}

func (m *MockBoardService) Update(ctx context.Context, actor *domain.User, id domain.BoardId, data service.BoardUpdate) (*domain.Board, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, actor, id, data)
	}
	return &domain.Board{Id: id, Version: data.Version + 1}, nil
}

func (m *MockBoardService) Remove(ctx context.Context, actor *domain.User, id domain.BoardId) error {
	if m.MockRemove != nil {
		return m.MockRemove(ctx, actor, id)
	}
	return nil
}

type MockPostService struct {
	MockWrite    func(ctx context.Context, actor *domain.User, data service.PostData) (*domain.Post, error)
	MockListPage func(ctx context.Context, actor *domain.User, board domain.BoardTitle, year, page int) (*service.PostPage, error)
	MockGet      func(ctx context.Context, actor *domain.User, id domain.PostId) (*domain.Post, error)
	MockUpdate   func(ctx context.Context, actor *domain.User, id domain.PostId, data service.PostUpdate) (*domain.Post, error)
	MockRemove   func(ctx context.Context, actor *domain.User, id domain.PostId) error
}

func (m *MockPostService) Write(ctx context.Context, actor *domain.User, data service.PostData) (*domain.Post, error) {
	if m.MockWrite != nil {
		return m.MockWrite(ctx, actor, data)
	}
	return &domain.Post{Id: 1, Title: data.Title, Content: data.Content, BoardId: data.BoardId}, nil
}

func (m *MockPostService) ListPage(ctx context.Context, actor *domain.User, board domain.BoardTitle, year, page int) (*service.PostPage, error) {
	if m.MockListPage != nil {
		return m.MockListPage(ctx, actor, board, year, page)
	}
	return &service.PostPage{Posts: []domain.Post{}, Page: page, PageSize: 5}, nil
}

func (m *MockPostService) Get(ctx context.Context, actor *domain.User, id domain.PostId) (*domain.Post, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, actor, id)
	}
	return &domain.Post{Id: id}, nil
}

func (m *MockPostService) Update(ctx context.Context, actor *domain.User, id domain.PostId, data service.PostUpdate) (*domain.Post, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, actor, id, data)
	}
	return &domain.Post{Id: id, Title: data.Title, Content: data.Content, Version: data.Version + 1}, nil
}

func (m *MockPostService) Remove(ctx context.Context, actor *domain.User, id domain.PostId) error {
	if m.MockRemove != nil {
		return m.MockRemove(ctx, actor, id)
	}
	return nil
}

type MockReplyService struct {
	MockWrite  func(ctx context.Context, actor *domain.User, postId domain.PostId, content domain.Content) (*domain.Reply, error)
	MockGet    func(ctx context.Context, actor *domain.User, id domain.ReplyId) (*domain.Reply, error)
	MockUpdate func(ctx context.Context, actor *domain.User, id domain.ReplyId, content domain.Content, version int64) (*domain.Reply, error)
	MockRemove func(ctx context.Context, actor *domain.User, id domain.ReplyId) error
}

func (m *MockReplyService) Write(ctx context.Context, actor *domain.User, postId domain.PostId, content domain.Content) (*domain.Reply, error) {
	if m.MockWrite != nil {
		return m.MockWrite(ctx, actor, postId, content)
	}
	return &domain.Reply{Id: 1, PostId: postId, Content: content}, nil
}

func (m *MockReplyService) Get(ctx context.Context, actor *domain.User, id domain.ReplyId) (*domain.Reply, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, actor, id)
	}
	return &domain.Reply{Id: id}, nil
}

func (m *MockReplyService) Update(ctx context.Context, actor *domain.User, id domain.ReplyId, content domain.Content, version int64) (*domain.Reply, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(ctx, actor, id, content, version)
	}
	return &domain.Reply{Id: id, Content: content, Version: version + 1}, nil
}

func (m *MockReplyService) Remove(ctx context.Context, actor *domain.User, id domain.ReplyId) error {
	if m.MockRemove != nil {
		return m.MockRemove(ctx, actor, id)
	}
	return nil
}

type MockFileService struct {
	MockUpload func(ctx context.Context, actor *domain.User, pending *domain.PendingFile) (*domain.File, error)
	MockGet    func(ctx context.Context, id domain.FileId) (*domain.File, error)
	MockOpen   func(ctx context.Context, id domain.FileId) (*domain.File, io.ReadCloser, error)
}

func (m *MockFileService) Upload(ctx context.Context, actor *domain.User, pending *domain.PendingFile) (*domain.File, error) {
	if m.MockUpload != nil {
		return m.MockUpload(ctx, actor, pending)
	}
	return &domain.File{Id: 1, FileCommonMetadata: pending.FileCommonMetadata}, nil
}

func (m *MockFileService) Get(ctx context.Context, id domain.FileId) (*domain.File, error) {
	if m.MockGet != nil {
		return m.MockGet(ctx, id)
	}
	return &domain.File{Id: id}, nil
}

func (m *MockFileService) Open(ctx context.Context, id domain.FileId) (*domain.File, io.ReadCloser, error) {
	if m.MockOpen != nil {
		return m.MockOpen(ctx, id)
	}
	return &domain.File{Id: id}, io.NopCloser(strings.NewReader("")), nil
}
