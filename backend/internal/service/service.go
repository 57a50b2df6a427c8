package service

import (
	"context"

	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

// RoleCache is the subset of rolecache.Cache the services use.
type RoleCache interface {
	Refresh(ctx context.Context) error
	All() []domain.Role
	ByTitle(title domain.RoleTitle) (domain.Role, bool)
	ById(id domain.RoleId) (domain.Role, bool)
	IdsByTitles(titles []domain.RoleTitle) ([]domain.RoleId, []domain.RoleTitle)
}

func isAdmin(actor *domain.User) bool {
	return actor != nil && actor.RoleTitle() == domain.RoleAdmin
}

func requireAdmin(actor *domain.User, action string) error {
	if !isAdmin(actor) {
		return errors.Forbidden(action)
	}
	return nil
}

// canModify allows the author and admins.
func canModify(actor *domain.User, authorId domain.UserId) bool {
	return actor != nil && (actor.Id == authorId || isAdmin(actor))
}

// canRead reports whether actor may see content on board. Posts whose board
// was removed stay visible to admins only.
func canRead(actor *domain.User, board *domain.Board) bool {
	if isAdmin(actor) {
		return true
	}
	return actor != nil && board != nil && board.CanRead(actor.RoleId)
}

func canWrite(actor *domain.User, board *domain.Board) bool {
	return actor != nil && board != nil && board.CanWrite(actor.RoleId)
}

func roleIds(cache RoleCache, titles []domain.RoleTitle) ([]domain.RoleId, error) {
	ids, unknown := cache.IdsByTitles(titles)
	if len(unknown) > 0 {
		return nil, errors.NewValidation("unknown roles %v", unknown)
	}
	return ids, nil
}

// nameBoardRoles fills the populated role lists from the cache for boards
// read without resolution.
func nameBoardRoles(cache RoleCache, b *domain.Board) {
	b.RolesReadable = cachedRoles(cache, b.ReadableRoleIds)
	b.RolesWritable = cachedRoles(cache, b.WritableRoleIds)
}

func cachedRoles(cache RoleCache, ids []domain.RoleId) domain.Roles {
	roles := make(domain.Roles, 0, len(ids))
	for _, id := range ids {
		if r, ok := cache.ById(id); ok {
			roles = append(roles, r)
		}
	}
	return roles
}

func nameUserRole(cache RoleCache, u *domain.User) {
	if u.Role != nil {
		return
	}
	if r, ok := cache.ById(u.RoleId); ok {
		u.Role = &r
	}
}
