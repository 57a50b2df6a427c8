package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
	sharedpg "github.com/campusboard/campusboard/shared/storage/pg"
)

func (s *Storage) CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	role := domain.Role{Title: title}
	err := s.db.QueryRowContext(ctx, "INSERT INTO roles(title) VALUES($1) RETURNING id", title).Scan(&role.Id)
	if err != nil {
		if sharedpg.IsUniqueViolation(err) {
			return nil, internal_errors.Duplicate("role", title)
		}
		return nil, fmt.Errorf("failed to insert role: %w", err)
	}
	return &role, nil
}

func (s *Storage) FindRoleById(ctx context.Context, id domain.RoleId) (*domain.Role, error) {
	return s.findRole(ctx, "id", id)
}

func (s *Storage) FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	return s.findRole(ctx, "title", title)
}

func (s *Storage) findRole(ctx context.Context, column string, key any) (*domain.Role, error) {
	var role domain.Role
	err := s.db.QueryRowContext(ctx, "SELECT id, title FROM roles WHERE "+column+" = $1", key).Scan(&role.Id, &role.Title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("role", key)
		}
		return nil, fmt.Errorf("failed to query role: %w", err)
	}
	return &role, nil
}

func (s *Storage) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	return s.queryRoles(ctx, s.db, "")
}

func (s *Storage) queryRoles(ctx context.Context, q Querier, where string, args ...any) ([]domain.Role, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, title FROM roles "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []domain.Role{}
	for rows.Next() {
		var r domain.Role
		if err := rows.Scan(&r.Id, &r.Title); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
