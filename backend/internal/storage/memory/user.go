package memory

import (
	"context"
	"slices"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error) {
	user, err := s.insertUser(data)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) insertUser(data domain.UserCreationData) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.users, func(u *domain.User) bool { return u.StudentId == data.StudentId }) >= 0 {
		return domain.User{}, errors.Duplicate("user", data.StudentId)
	}
	if id, ok := s.rolesExist([]domain.RoleId{data.RoleId}); !ok {
		return domain.User{}, errors.NewValidation("role %d does not exist", id)
	}

	s.seq.user++
	user := domain.User{
		Id:           s.seq.user,
		StudentId:    data.StudentId,
		Name:         data.Name,
		PasswordHash: data.PasswordHash,
		PasswordSalt: data.PasswordSalt,
		RoleId:       data.RoleId,
		Version:      1,
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *Storage) FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error) {
	return s.findUser(ctx, func(u *domain.User) bool { return u.Id == id }, id)
}

func (s *Storage) FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
	return s.findUser(ctx, func(u *domain.User) bool { return u.StudentId == sid }, sid)
}

func (s *Storage) findUser(ctx context.Context, match func(*domain.User) bool, key any) (*domain.User, error) {
	s.mu.RLock()
	i := indexOf(s.users, match)
	if i < 0 {
		s.mu.RUnlock()
		return nil, errors.NotFound("user", key)
	}
	user := cloneUser(s.users[i])
	s.mu.RUnlock()

	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, len(s.users))
	for i, u := range s.users {
		users[i] = cloneUser(u)
	}
	return users, nil
}

func (s *Storage) SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error) {
	all, err := s.FindAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	users := storage.RankUsers(all, keyword, roleIds)
	if err := s.resolver.Users(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	updated, err := s.replaceUser(user)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.User(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) replaceUser(user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, func(u *domain.User) bool { return u.Id == user.Id })
	if i < 0 {
		return domain.User{}, errors.NotFound("user", user.Id)
	}
	stored := &s.users[i]
	if stored.Version != user.Version {
		return domain.User{}, errors.Conflict("user", user.Id)
	}
	if id, ok := s.rolesExist([]domain.RoleId{user.RoleId}); !ok {
		return domain.User{}, errors.NewValidation("role %d does not exist", id)
	}

	stored.Name = user.Name
	stored.PasswordHash = user.PasswordHash
	stored.PasswordSalt = user.PasswordSalt
	stored.RoleId = user.RoleId
	stored.Version++
	return cloneUser(*stored), nil
}

// RemoveUser leaves the user's posts and replies in place.
func (s *Storage) RemoveUser(ctx context.Context, id domain.UserId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.users, func(u *domain.User) bool { return u.Id == id })
	if i < 0 {
		return errors.NotFound("user", id)
	}
	s.users = slices.Delete(s.users, i, i+1)
	return nil
}
