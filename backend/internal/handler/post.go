package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/shared/api"
	mw "github.com/campusboard/campusboard/shared/middleware"
	"github.com/campusboard/campusboard/shared/utils"
)

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Write(r.Context(), mw.GetUserFromContext(r), service.PostData{
		Title:   body.Title,
		Content: body.Content,
		BoardId: body.BoardId,
		FileIds: body.FileIds,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Post created", api.PostResult(*post))
}

// GetPostPage serves /posts/page/{page}?board=<title>&year=<yyyy>. The year
// defaults to the current one.
func (h *Handler) GetPostPage(w http.ResponseWriter, r *http.Request) {
	page, err := parseIntParam(chi.URLParam(r, "page"), "page")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	board := r.URL.Query().Get("board")
	if board == "" {
		utils.WriteErrorAndStatusCode(w, badRequest("board is required"))
		return
	}
	var year int
	if yearQuery := r.URL.Query().Get("year"); yearQuery != "" {
		if year, err = parseIntParam(yearQuery, "year"); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	result, err := h.post.ListPage(r.Context(), mw.GetUserFromContext(r), board, year, page)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "OK", api.PostPageResult(result.Posts, result.Total, result.Page, result.PageSize))
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Get(r.Context(), mw.GetUserFromContext(r), id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "OK", api.PostResult(*post))
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	post, err := h.post.Update(r.Context(), mw.GetUserFromContext(r), id, service.PostUpdate{
		Title:   body.Title,
		Content: body.Content,
		FileIds: body.FileIds,
		Version: body.Version,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Post updated", api.PostResult(*post))
}

func (h *Handler) RemovePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.post.Remove(r.Context(), mw.GetUserFromContext(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "Post removed", nil)
}
