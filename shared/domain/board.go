package domain

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Title           BoardTitle
	ReadableRoleIds []RoleId
	WritableRoleIds []RoleId
}

type Board struct {
	Id              BoardId
	Title           BoardTitle
	ReadableRoleIds []RoleId
	WritableRoleIds []RoleId
	RolesReadable   Roles // populated
	RolesWritable   Roles // populated
	Version         int64
}

func (b *Board) CanRead(roleId RoleId) bool {
	return containsRole(b.ReadableRoleIds, roleId)
}

func (b *Board) CanWrite(roleId RoleId) bool {
	return containsRole(b.WritableRoleIds, roleId)
}

func containsRole(ids []RoleId, id RoleId) bool {
	for _, r := range ids {
		if r == id {
			return true
		}
	}
	return false
}
