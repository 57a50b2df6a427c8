package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/campusboard/shared/api"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
)

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mpw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mpw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mpw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/files", &body)
	req.Header.Set("Content-Type", mpw.FormDataContentType())
	return req
}

func TestUploadFileHandler(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		var got domain.FileCommonMetadata
		var gotData string
		files := &MockFileService{
			MockUpload: func(ctx context.Context, actor *domain.User, pending *domain.PendingFile) (*domain.File, error) {
				got = pending.FileCommonMetadata
				b, err := io.ReadAll(pending.Data)
				require.NoError(t, err)
				gotData = string(b)
				return &domain.File{Id: 8, FileCommonMetadata: pending.FileCommonMetadata, StoragePath: "secret/path.txt"}, nil
			},
		}
		h := newTestHandler(Services{File: files})
		router := newRouter(residentUser)
		router.Post("/v1/files", h.UploadFile)

		rr := serve(router, multipartUpload(t, "file", "notes.txt", "text/plain", []byte("hello")))

		assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "notes.txt", got.Filename)
		assert.Equal(t, "text/plain", got.MimeType)
		assert.Equal(t, int64(5), got.SizeBytes)
		assert.Equal(t, "hello", gotData)

		var view api.FileView
		decodeEnvelope(t, rr, "file", &view)
		assert.Equal(t, "/v1/files/8/raw", view.Url)
		assert.NotContains(t, rr.Body.String(), "secret/path.txt")
	})

	t.Run("disallowed type", func(t *testing.T) {
		h := newTestHandler(Services{File: &MockFileService{}})
		router := newRouter(residentUser)
		router.Post("/v1/files", h.UploadFile)

		rr := serve(router, multipartUpload(t, "file", "run.sh", "application/x-sh", []byte("#!/bin/sh")))
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})

	t.Run("too large", func(t *testing.T) {
		h := newTestHandler(Services{File: &MockFileService{}})
		router := newRouter(residentUser)
		router.Post("/v1/files", h.UploadFile)

		rr := serve(router, multipartUpload(t, "file", "big.txt", "text/plain", bytes.Repeat([]byte("a"), 2<<10)))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})

	t.Run("wrong field", func(t *testing.T) {
		h := newTestHandler(Services{File: &MockFileService{}})
		router := newRouter(residentUser)
		router.Post("/v1/files", h.UploadFile)

		rr := serve(router, multipartUpload(t, "attachment", "notes.txt", "text/plain", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		h := newTestHandler(Services{File: &MockFileService{}})
		router := newRouter(residentUser)
		router.Post("/v1/files", h.UploadFile)

		rr := serve(router, multipartUpload(t, "file", "empty.txt", "text/plain", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDownloadFileHandler(t *testing.T) {
	files := &MockFileService{
		MockOpen: func(ctx context.Context, id domain.FileId) (*domain.File, io.ReadCloser, error) {
			if id != 8 {
				return nil, nil, errors.NotFound("file", id)
			}
			file := &domain.File{Id: 8, FileCommonMetadata: domain.FileCommonMetadata{Filename: "notes.txt", MimeType: "text/plain", SizeBytes: 5}}
			return file, io.NopCloser(strings.NewReader("hello")), nil
		},
	}
	h := newTestHandler(Services{File: files})
	router := newRouter(residentUser)
	router.Get("/v1/files/{id}/raw", h.DownloadFile)

	rr := serve(router, createRequest(t, http.MethodGet, "/v1/files/8/raw", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "hello", rr.Body.String())
	assert.Equal(t, "text/plain", rr.Header().Get("Content-Type"))
	assert.Equal(t, "5", rr.Header().Get("Content-Length"))
	assert.Equal(t, `inline; filename=notes.txt`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))

	rr = serve(router, createRequest(t, http.MethodGet, "/v1/files/9/raw", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetFileHandler(t *testing.T) {
	h := newTestHandler(Services{File: &MockFileService{}})
	router := newRouter(residentUser)
	router.Get("/v1/files/{id}", h.GetFile)

	rr := serve(router, createRequest(t, http.MethodGet, "/v1/files/3", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var view api.FileView
	decodeEnvelope(t, rr, "file", &view)
	assert.Equal(t, domain.FileId(3), view.Id)
}
