package service

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/rolecache"
)

var (
	adminRole    = domain.Role{Id: 1, Title: domain.RoleAdmin}
	residentRole = domain.Role{Id: 2, Title: domain.RoleResident}
	freshmanRole = domain.Role{Id: 3, Title: domain.RoleFreshman}

	admin    = &domain.User{Id: 100, StudentId: "1", Name: "root", RoleId: 1, Role: &adminRole}
	resident = &domain.User{Id: 200, StudentId: "201201234", Name: "John Smith", RoleId: 2, Role: &residentRole}
	freshman = &domain.User{Id: 300, StudentId: "202401111", Name: "New Kid", RoleId: 3, Role: &freshmanRole}
)

// roleSource backs a real rolecache.Cache in tests.
type roleSource struct {
	mu    sync.Mutex
	roles []domain.Role
	err   error
}

func (m *roleSource) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Role{}, m.roles...), nil
}

func (m *roleSource) add(r domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles = append(m.roles, r)
}

func newTestCache(roles ...domain.Role) (*rolecache.Cache, *roleSource) {
	if len(roles) == 0 {
		roles = []domain.Role{adminRole, residentRole, freshmanRole}
	}
	src := &roleSource{roles: roles}
	cache := rolecache.New(src)
	if err := cache.Refresh(context.Background()); err != nil {
		panic(err)
	}
	return cache, src
}

// MockRoleStorage mocks RoleStorage.
type MockRoleStorage struct {
	createRoleFunc func(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
}

func (m *MockRoleStorage) CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	if m.createRoleFunc != nil {
		return m.createRoleFunc(ctx, title)
	}
	return &domain.Role{Id: 1, Title: title}, nil
}

// MockMediaStorage mocks MediaStorage.
type MockMediaStorage struct {
	saveFunc   func(data io.Reader, originalName string) (string, error)
	readFunc   func(path string) (io.ReadCloser, error)
	deleteFunc func(path string) error

	mu      sync.Mutex
	deleted []string
}

func (m *MockMediaStorage) Save(data io.Reader, originalName string) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(data, originalName)
	}
	return "1_uuid_" + originalName, nil
}

func (m *MockMediaStorage) Read(path string) (io.ReadCloser, error) {
	if m.readFunc != nil {
		return m.readFunc(path)
	}
	return io.NopCloser(strings.NewReader("")), nil
}

func (m *MockMediaStorage) DeleteFile(path string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, path)
	m.mu.Unlock()
	if m.deleteFunc != nil {
		return m.deleteFunc(path)
	}
	return nil
}
