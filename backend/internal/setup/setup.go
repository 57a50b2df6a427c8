package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/campusboard/campusboard/backend/internal/handler"
	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/backend/internal/storage/fs"
	"github.com/campusboard/campusboard/backend/internal/storage/memory"
	"github.com/campusboard/campusboard/backend/internal/storage/pg"
	"github.com/campusboard/campusboard/backend/internal/storage/surreal"
	"github.com/campusboard/campusboard/backend/internal/utils"
	"github.com/campusboard/campusboard/shared/blacklist"
	"github.com/campusboard/campusboard/shared/config"
	"github.com/campusboard/campusboard/shared/jwt"
	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/markdown"
	mw "github.com/campusboard/campusboard/shared/middleware"
	rl "github.com/campusboard/campusboard/shared/middleware/ratelimiter"
	"github.com/campusboard/campusboard/shared/rolecache"
)

const sessionPruneInterval = 10 * time.Minute

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        storage.Storage
	Roles          *rolecache.Cache
	Sessions       *blacklist.Cache
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Limiters       *Limiters
}

// Limiters are the request limiters the router mounts. Each one sweeps idle
// buckets in its own goroutine.
type Limiters struct {
	Init       *rl.Limiter
	LoginSid   *rl.Limiter
	LoginIP    *rl.Limiter
	User       *rl.Limiter
	UserWrites *rl.Limiter
}

// NewLimiters builds the limiters and stops their sweepers once ctx is done.
func NewLimiters(ctx context.Context) *Limiters {
	l := &Limiters{
		Init:       rl.New("init", 1.0/10, 1, time.Hour),
		LoginSid:   rl.New("login_sid", 5.0/60, 5, time.Hour),
		LoginIP:    rl.New("login_ip", 1, 3, time.Hour),
		User:       rl.New("user", 100, 100, time.Hour),
		UserWrites: rl.New("user_writes", 1, 5, time.Hour),
	}
	go func() {
		<-ctx.Done()
		l.Stop()
	}()
	return l
}

func (l *Limiters) all() []*rl.Limiter {
	return []*rl.Limiter{l.Init, l.LoginSid, l.LoginIP, l.User, l.UserWrites}
}

// Stop ends every sweeper. Calling it more than once is safe.
func (l *Limiters) Stop() {
	for _, limiter := range l.all() {
		limiter.Stop()
	}
}

// NewStorage opens the backend named in config and prepares its schema.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	var backend storage.Storage
	switch cfg.Public.Storage {
	case config.StorageMemory:
		backend = memory.New()
	case config.StoragePg:
		s, err := pg.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("pg migrate: %w", err)
		}
		backend = s
	case config.StorageSurreal:
		s, err := surreal.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("surreal migrate: %w", err)
		}
		backend = s
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Public.Storage)
	}
	logger.Log.Info("storage ready", "backend", cfg.Public.Storage)
	return storage.Instrument(backend, cfg.Public.Storage), nil
}

// SetupDependencies initializes all dependencies required for the application.
// The role cache is filled before it returns. Background refresh, session
// pruning and limiter sweeps run until ctx is done.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	store, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	media, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		store.Close()
		return nil, err
	}

	roles := rolecache.New(store)
	if err := roles.Refresh(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("initial role cache load: %w", err)
	}
	if cfg.Public.RoleCacheRefreshInterval > 0 {
		roles.StartBackgroundUpdate(ctx, cfg.Public.RoleCacheRefreshInterval)
	}

	sessions := blacklist.NewCache(cfg.JwtTTL())
	sessions.StartBackgroundUpdate(ctx, sessionPruneInterval)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	validator := utils.New()
	admin := cfg.Private.RootAdmin

	services := handler.Services{
		Auth:  service.NewAuth(store, jwtService),
		Setup: service.NewSetup(store, roles, service.RootAdmin{StudentId: admin.StudentId, Name: admin.Name, Password: admin.Password}),
		Role:  service.NewRole(store, roles, validator),
		User:  service.NewUser(store, roles, validator, sessions),
		Board: service.NewBoard(store, roles, validator),
		Post: service.NewPost(store, media, markdown.New(), validator, service.PostConfig{
			PostsPerPage:  cfg.Public.PostsPerPage,
			ExcerptLength: cfg.Public.ExcerptLength,
		}),
		Reply: service.NewReply(store, validator),
		File:  service.NewFile(store, media),
	}

	return &Dependencies{
		Config:         cfg,
		Storage:        store,
		Roles:          roles,
		Sessions:       sessions,
		Handler:        handler.New(services, handler.Probes{Storage: store, Roles: roles}, cfg),
		AuthMiddleware: mw.NewAuth(jwtService, roles, cfg.Public.SecureCookies).WithRevocations(sessions),
		Limiters:       NewLimiters(ctx),
	}, nil
}
