package service

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/utils"
)

type UserService interface {
	Register(ctx context.Context, actor *domain.User, data RegisterData) (*domain.User, error)
	List(ctx context.Context, actor *domain.User) ([]domain.User, error)
	Get(ctx context.Context, id domain.UserId) (*domain.User, error)
	Search(ctx context.Context, keyword string, roles []domain.RoleTitle) ([]domain.User, error)
	Update(ctx context.Context, actor *domain.User, id domain.UserId, data UserUpdate) (*domain.User, error)
	Remove(ctx context.Context, actor *domain.User, id domain.UserId) error
}

type RegisterData struct {
	StudentId domain.StudentId
	Name      string
	Password  domain.Password
	Role      domain.RoleTitle
}

// UserUpdate carries the fields to change. Empty strings leave a field as it is.
type UserUpdate struct {
	Name            string
	CurrentPassword domain.Password
	NewPassword     domain.Password
	Role            domain.RoleTitle
	Version         int64
}

type User struct {
	storage   UserStorage
	cache     RoleCache
	validator UserValidator
	sessions  SessionRevoker
}

// SessionRevoker invalidates tokens already handed out to a user.
type SessionRevoker interface {
	RevokeSessions(id domain.UserId)
}

type UserStorage interface {
	CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error)
	FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error)
	FindAllUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (*domain.User, error)
	RemoveUser(ctx context.Context, id domain.UserId) error
}

type UserValidator interface {
	UserName(name string) error
}

// Roles allowed to browse the member list.
var listingRoles = []domain.RoleTitle{domain.RoleResident, domain.RoleAdmin}

// DefaultSearchRoles applies when a search names no roles.
var DefaultSearchRoles = []domain.RoleTitle{domain.RoleResident}

// NewUser builds the user service. sessions may be nil when tokens need no revocation.
func NewUser(storage UserStorage, cache RoleCache, validator UserValidator, sessions SessionRevoker) UserService {
	return &User{storage, cache, validator, sessions}
}

func (s *User) Register(ctx context.Context, actor *domain.User, data RegisterData) (*domain.User, error) {
	if err := requireAdmin(actor, "register user"); err != nil {
		return nil, err
	}
	if err := s.validator.UserName(data.Name); err != nil {
		return nil, err
	}
	role, ok := s.cache.ByTitle(data.Role)
	if !ok {
		return nil, errors.NewValidation("unknown role %q", data.Role)
	}

	salt := utils.NewSalt()
	hash, err := utils.HashPassword(data.Password, salt)
	if err != nil {
		return nil, err
	}

	return s.storage.CreateUser(ctx, domain.UserCreationData{
		StudentId:    data.StudentId,
		Name:         data.Name,
		PasswordHash: hash,
		PasswordSalt: salt,
		RoleId:       role.Id,
	})
}

func (s *User) List(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if actor == nil || !slices.Contains(listingRoles, actor.RoleTitle()) {
		return nil, errors.Forbidden("list users")
	}
	users, err := s.storage.FindAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		nameUserRole(s.cache, &users[i])
	}
	return users, nil
}

func (s *User) Get(ctx context.Context, id domain.UserId) (*domain.User, error) {
	return s.storage.FindUserById(ctx, id)
}

func (s *User) Search(ctx context.Context, keyword string, roles []domain.RoleTitle) ([]domain.User, error) {
	if len(roles) == 0 {
		roles = DefaultSearchRoles
	}
	ids, err := roleIds(s.cache, roles)
	if err != nil {
		return nil, err
	}
	return s.storage.SearchUsers(ctx, keyword, ids)
}

// Update lets users edit themselves and admins edit anyone. Only admins may
// change a role. A password change needs the current password and a new one
// that differs from it.
func (s *User) Update(ctx context.Context, actor *domain.User, id domain.UserId, data UserUpdate) (*domain.User, error) {
	if !canModify(actor, id) {
		return nil, errors.Forbidden("update user")
	}
	if data.Role != "" && !isAdmin(actor) {
		return nil, errors.Forbidden("change role")
	}

	user, err := s.storage.FindUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Version = data.Version

	if data.Name != "" {
		if err := s.validator.UserName(data.Name); err != nil {
			return nil, err
		}
		user.Name = data.Name
	}

	if data.NewPassword != "" {
		if !utils.CheckPassword(user.PasswordHash, data.CurrentPassword, user.PasswordSalt) {
			return nil, errors.NewValidation("current password is wrong")
		}
		if data.NewPassword == data.CurrentPassword {
			return nil, errors.NewValidation("new password must differ from the current one")
		}
		salt := utils.NewSalt()
		hash, err := utils.HashPassword(data.NewPassword, salt)
		if err != nil {
			return nil, err
		}
		user.PasswordHash, user.PasswordSalt = hash, salt
	}

	roleChanged := false
	if data.Role != "" {
		role, ok := s.cache.ByTitle(data.Role)
		if !ok {
			return nil, errors.NewValidation("unknown role %q", data.Role)
		}
		roleChanged = role.Id != user.RoleId
		user.RoleId = role.Id
		user.Role = nil
	}

	updated, err := s.storage.UpdateUser(ctx, *user)
	if err != nil {
		return nil, err
	}
	if roleChanged {
		s.revoke(id)
	}
	return updated, nil
}

func (s *User) revoke(id domain.UserId) {
	if s.sessions != nil {
		s.sessions.RevokeSessions(id)
	}
}

func (s *User) Remove(ctx context.Context, actor *domain.User, id domain.UserId) error {
	if err := requireAdmin(actor, "remove user"); err != nil {
		return err
	}
	if actor.Id == id {
		return errors.NewValidation("admins cannot remove themselves")
	}
	if err := s.storage.RemoveUser(ctx, id); err != nil {
		return err
	}
	s.revoke(id)
	return nil
}
