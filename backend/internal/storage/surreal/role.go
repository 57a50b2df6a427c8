package surreal

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
	internal_errors "github.com/campusboard/campusboard/shared/errors"
)

func (s *Storage) CreateRole(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	num, err := s.nextNum(ctx, tableRoles)
	if err != nil {
		return nil, err
	}
	err = s.exec(ctx, "CREATE type::thing($tb, $num) SET num = $num, title = $title",
		map[string]any{"tb": tableRoles, "num": num, "title": title})
	if err != nil {
		if errors.Is(err, errIndexViolation) {
			return nil, internal_errors.Duplicate("role", title)
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &domain.Role{Id: num, Title: title}, nil
}

func (s *Storage) FindRoleById(ctx context.Context, id domain.RoleId) (*domain.Role, error) {
	row, ok, err := selectOne[roleRow](ctx, s.db, tableRoles, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, internal_errors.NotFound("role", id)
	}
	role := row.toDomain()
	return &role, nil
}

func (s *Storage) FindRoleByTitle(ctx context.Context, title domain.RoleTitle) (*domain.Role, error) {
	rows, err := selectRows[roleRow](ctx, s.db, tableRoles, "title = $title", map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal_errors.NotFound("role", title)
	}
	role := rows[0].toDomain()
	return &role, nil
}

func (s *Storage) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := selectRows[roleRow](ctx, s.db, tableRoles, "", nil)
	if err != nil {
		return nil, err
	}
	return convert(rows, roleRow.toDomain), nil
}
