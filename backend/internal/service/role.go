package service

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/logger"
)

type RoleService interface {
	Create(ctx context.Context, actor *domain.User, title domain.RoleTitle) (*domain.Role, error)
	List() []domain.Role
}

type Role struct {
	storage   RoleStorage
	cache     RoleCache
	validator RoleValidator
}

type RoleStorage interface {
	CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
}

type RoleValidator interface {
	RoleTitle(title string) error
}

func NewRole(storage RoleStorage, cache RoleCache, validator RoleValidator) RoleService {
	return &Role{storage, cache, validator}
}

// Create stores the role and refreshes the cache before returning, so the
// new title is usable by the very next request.
func (s *Role) Create(ctx context.Context, actor *domain.User, title domain.RoleTitle) (*domain.Role, error) {
	if err := requireAdmin(actor, "create role"); err != nil {
		return nil, err
	}
	if err := s.validator.RoleTitle(title); err != nil {
		return nil, err
	}

	role, err := s.storage.CreateRole(ctx, title)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Refresh(ctx); err != nil {
		logger.Log.Error("role cache refresh after create failed", "role", title, "error", err)
		return nil, fmt.Errorf("role %q created but cache refresh failed: %w", title, err)
	}
	return role, nil
}

func (s *Role) List() []domain.Role {
	return s.cache.All()
}
