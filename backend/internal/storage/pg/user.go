package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
	sharedpg "github.com/campusboard/campusboard/shared/storage/pg"
	"github.com/lib/pq"
)

const userColumns = "id, student_id, name, password_hash, password_salt, role_id, version"

func scanUser(row scanner) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.Id, &u.StudentId, &u.Name, &u.PasswordHash, &u.PasswordSalt, &u.RoleId, &u.Version)
	return u, err
}

func (s *Storage) CreateUser(ctx context.Context, data domain.UserCreationData) (*domain.User, error) {
	var user domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if id, ok, err := missingId(ctx, tx, "roles", []int64{data.RoleId}); err != nil {
			return err
		} else if !ok {
			return internal_errors.NewValidation("role %d does not exist", id)
		}
		var err error
		user, err = scanUser(tx.QueryRowContext(ctx, `
			INSERT INTO users(student_id, name, password_hash, password_salt, role_id)
			VALUES($1, $2, $3, $4, $5)
			RETURNING `+userColumns,
			data.StudentId, data.Name, data.PasswordHash, data.PasswordSalt, data.RoleId,
		))
		if err != nil {
			if sharedpg.IsUniqueViolation(err) {
				return internal_errors.Duplicate("user", data.StudentId)
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) FindUserById(ctx context.Context, id domain.UserId) (*domain.User, error) {
	return s.findUser(ctx, "id", id)
}

func (s *Storage) FindUserBySID(ctx context.Context, sid domain.StudentId) (*domain.User, error) {
	return s.findUser(ctx, "student_id", sid)
}

func (s *Storage) findUser(ctx context.Context, column string, key any) (*domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = $1", key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("user", key)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if err := s.resolver.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) FindAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.queryUsers(ctx, s.db, "")
}

func (s *Storage) queryUsers(ctx context.Context, q Querier, where string, args ...any) ([]domain.User, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+userColumns+" FROM users "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// searchQuery ranks with the same scores as storage.MatchScore.
var searchQuery = fmt.Sprintf(`
	SELECT %[1]s FROM (
		SELECT %[1]s, CASE
			WHEN lower(student_id) = $1 THEN %[2]d
			WHEN lower(name) = $1 THEN %[3]d
			WHEN lower(student_id) LIKE $2 OR lower(name) LIKE $2 THEN %[4]d
			WHEN lower(student_id) LIKE $3 OR lower(name) LIKE $3 THEN %[5]d
			ELSE 0
		END AS score
		FROM users
		WHERE role_id = ANY($4)
	) ranked
	WHERE score > 0
	ORDER BY score DESC, id ASC`,
	userColumns, storage.ScoreExactStudentId, storage.ScoreExactName, storage.ScorePrefix, storage.ScoreSubstring)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Storage) SearchUsers(ctx context.Context, keyword string, roleIds []domain.RoleId) ([]domain.User, error) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" || len(roleIds) == 0 {
		return []domain.User{}, nil
	}
	escaped := likeEscaper.Replace(kw)

	rows, err := s.db.QueryContext(ctx, searchQuery, kw, escaped+"%", "%"+escaped+"%", pq.Array(roleIds))
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.resolver.Users(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	var updated domain.User
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := lockVersion(ctx, tx, "users", "user", user.Id, user.Version); err != nil {
			return err
		}
		if id, ok, err := missingId(ctx, tx, "roles", []int64{user.RoleId}); err != nil {
			return err
		} else if !ok {
			return internal_errors.NewValidation("role %d does not exist", id)
		}
		var err error
		updated, err = scanUser(tx.QueryRowContext(ctx, `
			UPDATE users
			SET name = $1, password_hash = $2, password_salt = $3, role_id = $4, version = version + 1
			WHERE id = $5 AND version = $6
			RETURNING `+userColumns,
			user.Name, user.PasswordHash, user.PasswordSalt, user.RoleId, user.Id, user.Version,
		))
		if errors.Is(err, sql.ErrNoRows) {
			return versionMismatch(ctx, tx, "users", "user", user.Id)
		}
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.resolver.User(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveUser leaves the user's posts and replies in place.
func (s *Storage) RemoveUser(ctx context.Context, id domain.UserId) error {
	return removeById(ctx, s.db, "users", "user", id)
}

// lockVersion locks the row for the rest of the transaction and compares its
// version, so a missing row or a stale version is reported before any
// reference check of the update.
func lockVersion(ctx context.Context, q Querier, table, entity string, id, version int64) error {
	var current int64
	err := q.QueryRowContext(ctx,
		"SELECT version FROM "+pq.QuoteIdentifier(table)+" WHERE id = $1 FOR UPDATE", id,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound(entity, id)
	}
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", entity, err)
	}
	if current != version {
		return internal_errors.Conflict(entity, id)
	}
	return nil
}

// versionMismatch explains why a conditional update touched no row.
func versionMismatch(ctx context.Context, q Querier, table, entity string, id int64) error {
	found, err := exists(ctx, q, table, id)
	if err != nil {
		return err
	}
	if !found {
		return internal_errors.NotFound(entity, id)
	}
	return internal_errors.Conflict(entity, id)
}

func removeById(ctx context.Context, q Querier, table, entity string, id int64) error {
	result, err := q.ExecContext(ctx, "DELETE FROM "+pq.QuoteIdentifier(table)+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for %s deletion: %w", entity, err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound(entity, id)
	}
	return nil
}
