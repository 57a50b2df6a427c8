package handler

import (
	"net/http"

	"github.com/campusboard/campusboard/shared/api"
	mw "github.com/campusboard/campusboard/shared/middleware"
	"github.com/campusboard/campusboard/shared/utils"
)

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var body api.CreateRoleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	role, err := h.role.Create(r.Context(), mw.GetUserFromContext(r), body.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, "Role created", api.RoleResult(*role))
}

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, "OK", api.RolesResult(h.role.List()))
}
