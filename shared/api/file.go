package api

import (
	"fmt"

	"github.com/campusboard/campusboard/shared/domain"
)

type FileView struct {
	Id          domain.FileId `json:"id"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mime_type"`
	SizeBytes   int64         `json:"size_bytes"`
	ImageWidth  *int          `json:"image_width,omitempty"`
	ImageHeight *int          `json:"image_height,omitempty"`
	Url         string        `json:"url"`
}

// NewFileView hides the on-disk path behind the download route.
func NewFileView(f domain.File) FileView {
	return FileView{
		Id:          f.Id,
		Filename:    f.Filename,
		MimeType:    f.MimeType,
		SizeBytes:   f.SizeBytes,
		ImageWidth:  f.ImageWidth,
		ImageHeight: f.ImageHeight,
		Url:         fmt.Sprintf("/v1/files/%d/raw", f.Id),
	}
}
