package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/campusboard/campusboard/shared/api"
	"github.com/campusboard/campusboard/shared/logger"
	mw "github.com/campusboard/campusboard/shared/middleware"
	"github.com/campusboard/campusboard/shared/utils"
	"github.com/campusboard/campusboard/shared/validation"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

// multipartOverhead leaves room for multipart framing around the file.
const multipartOverhead = 1 << 20

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	maxFileSize := h.cfg.Public.MaxUploadSize
	if err := validation.ValidateAndParseMultipart(r, w, validation.CalculateMaxRequestSize(maxFileSize, multipartOverhead)); err != nil {
		writeUploadError(w, fmt.Errorf("%w: upload exceeds the limit of %.1f MB", validation.ErrPayloadTooLarge, validation.FormatSizeMB(maxFileSize)))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[uploadField]
	if len(headers) != 1 {
		utils.WriteErrorAndStatusCode(w, badRequest(fmt.Sprintf("expected exactly one %q field", uploadField)))
		return
	}
	if headers[0].Size > maxFileSize {
		writeUploadError(w, fmt.Errorf("%w: file exceeds the limit of %.1f MB", validation.ErrPayloadTooLarge, validation.FormatSizeMB(maxFileSize)))
		return
	}

	pending, err := validation.ValidateUpload(headers[0], h.cfg.Public.AllowedMimeTypes)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	if closer, ok := pending.Data.(io.Closer); ok {
		defer closer.Close()
	}

	file, err := h.file.Upload(r.Context(), mw.GetUserFromContext(r), pending)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "File uploaded", api.FileResult(*file))
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	file, err := h.file.Get(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "OK", api.FileResult(*file))
}

// DownloadFile streams the stored bytes with the recorded MIME type.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	file, rc, err := h.file.Open(r.Context(), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.SizeBytes, 10))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": file.Filename}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.Log.Warn("file download interrupted", "file_id", id, "error", err)
	}
}
