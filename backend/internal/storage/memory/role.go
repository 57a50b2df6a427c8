package memory

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.roles, func(r *domain.Role) bool { return r.Title == title }) >= 0 {
		return nil, errors.Duplicate("role", title)
	}
	s.seq.role++
	role := domain.Role{Id: s.seq.role, Title: title}
	s.roles = append(s.roles, role)
	return &role, nil
}

func (s *Storage) FindRoleById(ctx context.Context, id domain.RoleId) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.roles, func(r *domain.Role) bool { return r.Id == id })
	if i < 0 {
		return nil, errors.NotFound("role", id)
	}
	role := s.roles[i]
	return &role, nil
}

func (s *Storage) FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.roles, func(r *domain.Role) bool { return r.Title == title })
	if i < 0 {
		return nil, errors.NotFound("role", title)
	}
	role := s.roles[i]
	return &role, nil
}

func (s *Storage) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := make([]domain.Role, len(s.roles))
	copy(roles, s.roles)
	return roles, nil
}
