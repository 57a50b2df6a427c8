package handler

import (
	"fmt"
	"net/http"

	"github.com/campusboard/campusboard/shared/utils"
)

// Init runs the idempotent bootstrap.
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	report, err := h.setup.Init(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	message := fmt.Sprintf("Initialized: roles created %v, boards created %v, admin created %t",
		report.RolesCreated, report.BoardsCreated, report.AdminCreated)
	utils.WriteJSON(w, http.StatusOK, message, nil)
}
