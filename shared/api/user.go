package api

import "github.com/campusboard/campusboard/shared/domain"

// Request DTOs

type CreateRoleRequest struct {
	Title string `json:"title" validate:"required,max=32"`
}

type RegisterRequest struct {
	StudentId string `json:"sid" validate:"required,numeric,min=4,max=16"`
	Name      string `json:"name" validate:"required,max=64"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"required"`
}

// UpdateUserRequest changes a user. Empty fields are left as they are.
// NewPassword requires CurrentPassword, Role is honored for admins only.
type UpdateUserRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,max=64"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty" validate:"omitempty,min=8,max=72"`
	Role            string `json:"role,omitempty"`
	Version         int64  `json:"version" validate:"required,min=1"`
}

// Response DTOs

type RoleView struct {
	Id    domain.RoleId    `json:"id"`
	Title domain.RoleTitle `json:"title"`
}

type UserView struct {
	Id        domain.UserId    `json:"id"`
	StudentId domain.StudentId `json:"sid"`
	Name      string           `json:"name"`
	Role      domain.RoleTitle `json:"role"`
	Version   int64            `json:"version"`
}

func NewRoleView(r domain.Role) RoleView {
	return RoleView{Id: r.Id, Title: r.Title}
}

// NewUserView never exposes the password hash or salt.
func NewUserView(u domain.User) UserView {
	return UserView{
		Id:        u.Id,
		StudentId: u.StudentId,
		Name:      u.Name,
		Role:      u.RoleTitle(),
		Version:   u.Version,
	}
}

func newUserViewPtr(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	v := NewUserView(*u)
	return &v
}
