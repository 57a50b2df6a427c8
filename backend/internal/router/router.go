package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campusboard/campusboard/backend/internal/setup"
	mw "github.com/campusboard/campusboard/shared/middleware"
	"github.com/campusboard/campusboard/shared/middleware/metrics"
)

// New builds the API router.
// IMPORTANT! a limiter passed to Use counts requests of every route in that group combined
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, "/raw"))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	limiters := deps.Limiters

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.With(mw.RateLimit(limiters.Init, mw.GetIP)).Post("/init", h.Init)

		v1.Route("/auth", func(auth chi.Router) {
			// brute force protection: per student id and per address
			auth.With(
				mw.RateLimit(limiters.LoginSid, mw.GetFieldFromBody("sid")),
				mw.RateLimit(limiters.LoginIP, mw.GetIP),
			).Post("/login", h.Login)
			auth.Post("/logout", h.Logout)
			auth.With(authMw.NeedAuth()).Get("/check", h.CheckAuth)
		})

		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(authMw.AdminOnly())
			admin.Post("/roles", h.CreateRole)
			admin.Post("/users", h.RegisterUser)
			admin.Delete("/users/{id}", h.RemoveUser)
			admin.Post("/boards", h.CreateBoard)
			admin.Put("/boards/{id}", h.UpdateBoard)
			admin.Delete("/boards/{id}", h.RemoveBoard)
		})

		v1.Group(func(loggedIn chi.Router) {
			loggedIn.Use(authMw.NeedAuth())
			loggedIn.Use(mw.RateLimit(limiters.User, mw.GetUserIDFromContext))

			// writes: 1 per second per user with a small burst
			writes := mw.RateLimit(limiters.UserWrites, mw.GetUserIDFromContext)

			loggedIn.Get("/roles", h.GetRoles)

			loggedIn.Get("/users", h.GetUsers)
			loggedIn.Get("/users/search", h.SearchUsers)
			loggedIn.Get("/users/{id}", h.GetUser)
			loggedIn.With(writes).Put("/users/{id}", h.UpdateUser)

			loggedIn.Get("/boards", h.GetBoards)
			loggedIn.Get("/boards/{id}", h.GetBoard)

			loggedIn.With(writes).Post("/posts", h.CreatePost)
			loggedIn.Get("/posts/page/{page}", h.GetPostPage)
			loggedIn.Get("/posts/{id}", h.GetPost)
			loggedIn.With(writes).Put("/posts/{id}", h.UpdatePost)
			loggedIn.Delete("/posts/{id}", h.RemovePost)

			loggedIn.With(writes).Post("/replies", h.CreateReply)
			loggedIn.Get("/replies/{id}", h.GetReply)
			loggedIn.With(writes).Put("/replies/{id}", h.UpdateReply)
			loggedIn.Delete("/replies/{id}", h.RemoveReply)

			loggedIn.With(writes).Post("/files", h.UploadFile)
			loggedIn.Get("/files/{id}", h.GetFile)
			loggedIn.Get("/files/{id}/raw", h.DownloadFile)
		})
	})

	return r
}
