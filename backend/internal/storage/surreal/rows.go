package surreal

import (
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Record shapes as stored. The record id field is never decoded.

type roleRow struct {
	Num   int64  `json:"num"`
	Title string `json:"title"`
}

func (r roleRow) toDomain() domain.Role {
	return domain.Role{Id: r.Num, Title: r.Title}
}

type userRow struct {
	Num          int64  `json:"num"`
	StudentId    string `json:"student_id"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	PasswordSalt string `json:"password_salt"`
	RoleId       int64  `json:"role_id"`
	Version      int64  `json:"version"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		Id:           r.Num,
		StudentId:    r.StudentId,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		PasswordSalt: r.PasswordSalt,
		RoleId:       r.RoleId,
		Version:      r.Version,
	}
}

type boardRow struct {
	Num             int64   `json:"num"`
	Title           string  `json:"title"`
	ReadableRoleIds []int64 `json:"readable_role_ids"`
	WritableRoleIds []int64 `json:"writable_role_ids"`
	Version         int64   `json:"version"`
}

func (r boardRow) toDomain() domain.Board {
	return domain.Board{
		Id:              r.Num,
		Title:           r.Title,
		ReadableRoleIds: nonNil(r.ReadableRoleIds),
		WritableRoleIds: nonNil(r.WritableRoleIds),
		Version:         r.Version,
	}
}

type postRow struct {
	Num         int64                 `json:"num"`
	Title       string                `json:"title"`
	Content     string                `json:"content"`
	BoardId     int64                 `json:"board_id"`
	FileIds     []int64               `json:"file_ids"`
	AuthorId    int64                 `json:"author_id"`
	DateCreated models.CustomDateTime `json:"date_created"`
	Version     int64                 `json:"version"`
}

func (r postRow) toDomain() domain.Post {
	return domain.Post{
		Id:          r.Num,
		Title:       r.Title,
		Content:     r.Content,
		BoardId:     r.BoardId,
		FileIds:     nonNil(r.FileIds),
		AuthorId:    r.AuthorId,
		DateCreated: r.DateCreated.Time.UTC(),
		ReplyIds:    []domain.ReplyId{},
		Version:     r.Version,
	}
}

type replyRow struct {
	Num         int64                 `json:"num"`
	Content     string                `json:"content"`
	PostId      int64                 `json:"post_id"`
	AuthorId    int64                 `json:"author_id"`
	DateCreated models.CustomDateTime `json:"date_created"`
	Version     int64                 `json:"version"`
}

func (r replyRow) toDomain() domain.Reply {
	return domain.Reply{
		Id:          r.Num,
		Content:     r.Content,
		PostId:      r.PostId,
		AuthorId:    r.AuthorId,
		DateCreated: r.DateCreated.Time.UTC(),
		Version:     r.Version,
	}
}

// Image dimensions are stored as 0 when unknown.
type fileRow struct {
	Num         int64  `json:"num"`
	Filename    string `json:"filename"`
	SizeBytes   int64  `json:"size_bytes"`
	MimeType    string `json:"mime_type"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`
	StoragePath string `json:"storage_path"`
}

func (r fileRow) toDomain() domain.File {
	f := domain.File{
		Id: r.Num,
		FileCommonMetadata: domain.FileCommonMetadata{
			Filename:  r.Filename,
			SizeBytes: r.SizeBytes,
			MimeType:  r.MimeType,
		},
		StoragePath: r.StoragePath,
	}
	if r.ImageWidth > 0 {
		w := r.ImageWidth
		f.ImageWidth = &w
	}
	if r.ImageHeight > 0 {
		h := r.ImageHeight
		f.ImageHeight = &h
	}
	return f
}

func dimension(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
