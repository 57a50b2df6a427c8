package handler

import (
	"net/http"

	"github.com/campusboard/campusboard/shared/api"
	"github.com/campusboard/campusboard/shared/domain"
	mw "github.com/campusboard/campusboard/shared/middleware"
	"github.com/campusboard/campusboard/shared/utils"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, user, err := h.auth.Login(r.Context(), domain.Credentials{StudentId: body.StudentId, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     mw.AccessTokenCookie,
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSON(w, http.StatusOK, "You logged in", api.SessionResult(*user, accessToken))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	mw.ClearSessionCookie(w, h.cfg.Public.SecureCookies)
	utils.WriteJSON(w, http.StatusOK, "You logged out", nil)
}

func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Check(r.Context(), mw.GetUserFromContext(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, "OK", api.SessionResult(*user, ""))
}
