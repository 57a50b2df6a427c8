package domain

type Role struct {
	Id    RoleId
	Title RoleTitle
}

type Roles = []Role
