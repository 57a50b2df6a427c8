package domain

// to iterate thru layers: handler -> service -> storage
type UserCreationData struct {
	StudentId    StudentId
	Name         string
	PasswordHash string
	PasswordSalt string
	RoleId       RoleId
}

type User struct {
	Id           UserId
	StudentId    StudentId
	Name         string
	PasswordHash string
	PasswordSalt string
	RoleId       RoleId
	Role         *Role // populated on read paths that resolve the role
	Version      int64
}

type Credentials struct {
	StudentId StudentId
	Password  Password
}

// RoleTitle returns the resolved role title or "" when the role was not populated.
func (u *User) RoleTitle() RoleTitle {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Title
}
