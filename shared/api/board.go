package api

import "github.com/campusboard/campusboard/shared/domain"

// Request DTOs

type CreateBoardRequest struct {
	Title         string   `json:"title" validate:"required,max=64"`
	RolesReadable []string `json:"roles_readable"`
	RolesWritable []string `json:"roles_writable"`
}

type UpdateBoardRequest struct {
	RolesReadable []string `json:"roles_readable"`
	RolesWritable []string `json:"roles_writable"`
	Version       int64    `json:"version" validate:"required,min=1"`
}

// Response DTOs

type BoardView struct {
	Id            domain.BoardId     `json:"id"`
	Title         domain.BoardTitle  `json:"title"`
	RolesReadable []domain.RoleTitle `json:"roles_readable"`
	RolesWritable []domain.RoleTitle `json:"roles_writable"`
	Version       int64              `json:"version"`
}

// NewBoardView names roles from the populated role lists.
func NewBoardView(b domain.Board) BoardView {
	return BoardView{
		Id:            b.Id,
		Title:         b.Title,
		RolesReadable: roleTitles(b.RolesReadable),
		RolesWritable: roleTitles(b.RolesWritable),
		Version:       b.Version,
	}
}

func roleTitles(roles domain.Roles) []domain.RoleTitle {
	titles := make([]domain.RoleTitle, 0, len(roles))
	for _, r := range roles {
		titles = append(titles, r.Title)
	}
	return titles
}
