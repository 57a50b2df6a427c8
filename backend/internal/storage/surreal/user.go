package surreal

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error) {
	if ok, err := s.exists(ctx, tableRoles, data.RoleId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NewValidation("role %d does not exist", data.RoleId)
	}
	num, err := s.nextNum(ctx, tableUsers)
	if err != nil {
		return nil, err
	}
	rows, err := query[[]userRow](ctx, s.db, `
		CREATE type::thing($tb, $num) SET
			num = $num, student_id = $student_id, name = $name,
			password_hash = $password_hash, password_salt = $password_salt,
			role_id = $role_id, version = 1`,
		map[string]any{
			"tb": tableUsers, "num": num, "student_id": data.StudentId, "name": data.Name,
			"password_hash": data.PasswordHash, "password_salt": data.PasswordSalt, "role_id": data.RoleId,
		})
	if err != nil {
		if errors.Is(err, errIndexViolation) {
			return nil, internal_errors.Duplicate("user", data.StudentId)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create user: no record returned")
	}
	user := rows[0].toDomain()
	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error) {
	return s.findUser(ctx, "num = $key", id)
}

func (s *Storage) FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
	return s.findUser(ctx, "student_id = $key", sid)
}

func (s *Storage) findUser(ctx context.Context, where string, key any) (*domain.User, error) {
	rows, err := selectRows[userRow](ctx, s.db, tableUsers, where, map[string]any{"key": key})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal_errors.NotFound("user", key)
	}
	user := rows[0].toDomain()
	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := selectRows[userRow](ctx, s.db, tableUsers, "", nil)
	if err != nil {
		return nil, err
	}
	return convert(rows, userRow.toDomain), nil
}

// SearchUsers narrows candidates by role in the database and ranks them in process.
func (s *Storage) SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error) {
	if len(roleIds) == 0 {
		return []domain.User{}, nil
	}
	rows, err := selectRows[userRow](ctx, s.db, tableUsers, "role_id INSIDE $roles", map[string]any{"roles": roleIds})
	if err != nil {
		return nil, err
	}
	users := storage.RankUsers(convert(rows, userRow.toDomain), keyword, roleIds)
	if err := s.resolver.Users(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := s.checkVersion(ctx, tableUsers, "user", user.Id, user.Version); err != nil {
		return nil, err
	}
	if ok, err := s.exists(ctx, tableRoles, user.RoleId); err != nil {
		return nil, err
	} else if !ok {
		return nil, internal_errors.NewValidation("role %d does not exist", user.RoleId)
	}
	rows, err := query[[]userRow](ctx, s.db, `
		UPDATE type::thing($tb, $num) SET
			name = $name, password_hash = $password_hash, password_salt = $password_salt,
			role_id = $role_id, version += 1
		WHERE version = $version
		RETURN AFTER`,
		map[string]any{
			"tb": tableUsers, "num": user.Id, "version": user.Version, "name": user.Name,
			"password_hash": user.PasswordHash, "password_salt": user.PasswordSalt, "role_id": user.RoleId,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if len(rows) == 0 {
		return nil, s.versionMismatch(ctx, tableUsers, "user", user.Id)
	}
	updated := rows[0].toDomain()
	if err := s.resolver.User(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveUser leaves the user's posts and replies in place.
func (s *Storage) RemoveUser(ctx context.Context, id domain.UserId) error {
	return s.removeOrNotFound(ctx, tableUsers, "user", id)
}

type versionRow struct {
	Version int64 `json:"version"`
}

// checkVersion reports a missing record or a stale version before an update
// looks at its references. The conditional UPDATE still guards the write.
func (s *Storage) checkVersion(ctx context.Context, table, entity string, id, version int64) error {
	rows, err := query[[]versionRow](ctx, s.db,
		"SELECT version FROM type::table($tb) WHERE num = $num",
		map[string]any{"tb": table, "num": id})
	if err != nil {
		return fmt.Errorf("failed to read %s version: %w", entity, err)
	}
	if len(rows) == 0 {
		return internal_errors.NotFound(entity, id)
	}
	if rows[0].Version != version {
		return internal_errors.Conflict(entity, id)
	}
	return nil
}

// versionMismatch explains why a conditional update touched no record.
func (s *Storage) versionMismatch(ctx context.Context, table, entity string, id int64) error {
	found, err := s.exists(ctx, table, id)
	if err != nil {
		return err
	}
	if !found {
		return internal_errors.NotFound(entity, id)
	}
	return internal_errors.Conflict(entity, id)
}

func (s *Storage) removeOrNotFound(ctx context.Context, table, entity string, id int64) error {
	found, err := s.remove(ctx, table, id)
	if err != nil {
		return err
	}
	if !found {
		return internal_errors.NotFound(entity, id)
	}
	return nil
}
