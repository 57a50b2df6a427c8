package service

import (
	"context"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/utils"
)

// Roles and boards every installation starts with.
var (
	BootstrapRoles  = []domain.RoleTitle{domain.RoleFreshman, domain.RoleResident, domain.RoleAlumnus, domain.RoleAdmin}
	BootstrapBoards = []domain.BoardTitle{"seminar", "homework", "freshman-archive"}
)

type SetupService interface {
	Init(ctx context.Context) (*InitReport, error)
}

// InitReport lists what Init created. Everything not listed already existed.
type InitReport struct {
	RolesCreated  []domain.RoleTitle
	BoardsCreated []domain.BoardTitle
	AdminCreated  bool
}

type RootAdmin struct {
	StudentId domain.StudentId
	Name      string
	Password  domain.Password
}

type Setup struct {
	storage SetupStorage
	cache   RoleCache
	admin   RootAdmin
}

type SetupStorage interface {
	CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
	FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error)
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (*domain.Board, error)
	FindBoardByTitle(ctx context.Context, title domain.BoardTitle) (*domain.Board, error)
	CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error)
	FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error)
}

func NewSetup(storage SetupStorage, cache RoleCache, admin RootAdmin) SetupService {
	return &Setup{storage, cache, admin}
}

// Init creates whatever part of the bootstrap data is missing. Running it
// again on an initialized store changes nothing.
func (s *Setup) Init(ctx context.Context) (*InitReport, error) {
	report := &InitReport{RolesCreated: []domain.RoleTitle{}, BoardsCreated: []domain.BoardTitle{}}

	for _, title := range BootstrapRoles {
		created, err := s.ensureRole(ctx, title)
		if err != nil {
			return nil, err
		}
		if created {
			report.RolesCreated = append(report.RolesCreated, title)
		}
	}
	if err := s.cache.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("refresh role cache: %w", err)
	}

	everyone := make([]domain.RoleId, 0, len(BootstrapRoles))
	for _, r := range s.cache.All() {
		everyone = append(everyone, r.Id)
	}
	for _, title := range BootstrapBoards {
		created, err := s.ensureBoard(ctx, title, everyone)
		if err != nil {
			return nil, err
		}
		if created {
			report.BoardsCreated = append(report.BoardsCreated, title)
		}
	}

	created, err := s.ensureAdmin(ctx)
	if err != nil {
		return nil, err
	}
	report.AdminCreated = created

	logger.Log.Info("bootstrap finished",
		"roles_created", report.RolesCreated,
		"boards_created", report.BoardsCreated,
		"admin_created", report.AdminCreated)
	return report, nil
}

func (s *Setup) ensureRole(ctx context.Context, title domain.RoleTitle) (bool, error) {
	_, err := s.storage.FindRoleByTitle(ctx, title)
	if err == nil {
		return false, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}
	if _, err := s.storage.CreateRole(ctx, title); err != nil {
		if errors.IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("create role %q: %w", title, err)
	}
	return true, nil
}

func (s *Setup) ensureBoard(ctx context.Context, title domain.BoardTitle, roles []domain.RoleId) (bool, error) {
	board, err := s.storage.FindBoardByTitle(ctx, title)
	if err != nil {
		return false, err
	}
	if board != nil {
		return false, nil
	}
	_, err = s.storage.CreateBoard(ctx, domain.BoardCreationData{
		Title:           title,
		ReadableRoleIds: roles,
		WritableRoleIds: roles,
	})
	if err != nil {
		if errors.IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("create board %q: %w", title, err)
	}
	return true, nil
}

func (s *Setup) ensureAdmin(ctx context.Context) (bool, error) {
	_, err := s.storage.FindUserBySID(ctx, s.admin.StudentId)
	if err == nil {
		return false, nil
	}
	if !errors.IsNotFound(err) {
		return false, err
	}

	role, ok := s.cache.ByTitle(domain.RoleAdmin)
	if !ok {
		return false, fmt.Errorf("role %q missing after bootstrap", domain.RoleAdmin)
	}
	salt := utils.NewSalt()
	hash, err := utils.HashPassword(s.admin.Password, salt)
	if err != nil {
		return false, err
	}
	_, err = s.storage.CreateUser(ctx, domain.UserCreationData{
		StudentId:    s.admin.StudentId,
		Name:         s.admin.Name,
		PasswordHash: hash,
		PasswordSalt: salt,
		RoleId:       role.Id,
	})
	if err != nil {
		if errors.IsDuplicate(err) {
			return false, nil
		}
		return false, fmt.Errorf("create root admin: %w", err)
	}
	return true, nil
}
