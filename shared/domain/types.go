package domain

type (
	UserId  = int64
	RoleId  = int64
	BoardId = int64
	PostId  = int64
	ReplyId = int64
	FileId  = int64

	StudentId  = string
	Password   = string
	RoleTitle  = string
	BoardTitle = string
	PostTitle  = string
	Content    = string
)

// Role titles the system bootstraps with. Authorization compares titles by
// exact string equality, so these are part of the API contract.
const (
	RoleFreshman RoleTitle = "freshman"
	RoleResident RoleTitle = "resident"
	RoleAlumnus  RoleTitle = "alumnus"
	RoleAdmin    RoleTitle = "admin"
)
