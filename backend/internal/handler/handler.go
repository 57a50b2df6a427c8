package handler

import (
	"context"
	"time"

	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/shared/config"
)

// HealthChecker reports whether storage answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RoleFreshness reports when the role cache last loaded from storage.
type RoleFreshness interface {
	LastRefresh() time.Time
}

// Probes feed the readiness endpoint. Roles may be nil.
type Probes struct {
	Storage HealthChecker
	Roles   RoleFreshness
}

// Services groups everything the handlers delegate to.
type Services struct {
	Auth  service.AuthService
	Setup service.SetupService
	Role  service.RoleService
	User  service.UserService
	Board service.BoardService
	Post  service.PostService
	Reply service.ReplyService
	File  service.FileService
}

type Handler struct {
	auth   service.AuthService
	setup  service.SetupService
	role   service.RoleService
	user   service.UserService
	board  service.BoardService
	post   service.PostService
	reply  service.ReplyService
	file   service.FileService
	probes Probes
	cfg    *config.Config
}

func New(s Services, probes Probes, cfg *config.Config) *Handler {
	return &Handler{
		auth:   s.Auth,
		setup:  s.Setup,
		role:   s.Role,
		user:   s.User,
		board:  s.Board,
		post:   s.Post,
		reply:  s.Reply,
		file:   s.File,
		probes: probes,
		cfg:    cfg,
	}
}
