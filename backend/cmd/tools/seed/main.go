package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/campusboard/campusboard/backend/internal/service"
	"github.com/campusboard/campusboard/backend/internal/setup"
	"github.com/campusboard/campusboard/backend/internal/storage/fs"
	"github.com/campusboard/campusboard/backend/internal/utils"
	"github.com/campusboard/campusboard/shared/config"
	"github.com/campusboard/campusboard/shared/domain"
	"github.com/campusboard/campusboard/shared/errors"
	"github.com/campusboard/campusboard/shared/logger"
	"github.com/campusboard/campusboard/shared/markdown"
	"github.com/campusboard/campusboard/shared/rolecache"
)

var seedRoles = []domain.RoleTitle{domain.RoleFreshman, domain.RoleResident, domain.RoleAlumnus}

func main() {
	var (
		configFolder string
		users        int
		posts        int
		password     string
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.IntVar(&users, "users", 10, "number of users to create")
	flag.IntVar(&posts, "posts", 5, "number of posts per board")
	flag.StringVar(&password, "password", "password", "password for every seeded user")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	if cfg.Public.Storage == config.StorageMemory {
		logger.Log.Warn("memory storage is not persisted, seeded data is lost on exit")
	}

	if err := run(context.Background(), cfg, users, posts, domain.Password(password)); err != nil {
		logger.Log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, userCount, postCount int, password domain.Password) error {
	store, err := setup.NewStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	media, err := fs.New(cfg.Public.UploadDir)
	if err != nil {
		return err
	}

	roles := rolecache.New(store)
	validator := utils.New()
	admin := cfg.Private.RootAdmin

	setupService := service.NewSetup(store, roles, service.RootAdmin{StudentId: admin.StudentId, Name: admin.Name, Password: admin.Password})
	report, err := setupService.Init(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	logger.Log.Info("bootstrap done", "roles", report.RolesCreated, "boards", report.BoardsCreated, "admin", report.AdminCreated)

	root, err := store.FindUserBySID(ctx, domain.StudentId(admin.StudentId))
	if err != nil {
		return fmt.Errorf("find root admin: %w", err)
	}

	userService := service.NewUser(store, roles, validator, nil)
	boardService := service.NewBoard(store, roles, validator)
	postService := service.NewPost(store, media, markdown.New(), validator, service.PostConfig{
		PostsPerPage:  cfg.Public.PostsPerPage,
		ExcerptLength: cfg.Public.ExcerptLength,
	})

	authors := make([]domain.User, 0, userCount)
	for i := range userCount {
		u, err := userService.Register(ctx, root, service.RegisterData{
			StudentId: domain.StudentId(fmt.Sprintf("S%05d", i+1)),
			Name:      fmt.Sprintf("Student %d", i+1),
			Password:  password,
			Role:      seedRoles[i%len(seedRoles)],
		})
		if errors.IsDuplicate(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("register user %d: %w", i+1, err)
		}
		authors = append(authors, *u)
	}
	logger.Log.Info("users created", "count", len(authors))

	boards, err := boardService.List(ctx, root)
	if err != nil {
		return err
	}
	for _, board := range boards {
		writers := writersOf(board, authors)
		if len(writers) == 0 {
			writers = []domain.User{*root}
		}
		for i := range postCount {
			author := writers[i%len(writers)]
			_, err := postService.Write(ctx, &author, service.PostData{
				Title:   domain.PostTitle(fmt.Sprintf("%s notes #%d", board.Title, i+1)),
				Content: domain.Content(samplePost(board.Title, author.Name, i)),
				BoardId: board.Id,
			})
			if err != nil {
				return fmt.Errorf("post to %s: %w", board.Title, err)
			}
		}
		logger.Log.Info("posts created", "board", board.Title, "count", postCount)
	}
	return nil
}

func writersOf(board domain.Board, users []domain.User) []domain.User {
	var out []domain.User
	for _, u := range users {
		if board.CanWrite(u.RoleId) {
			out = append(out, u)
		}
	}
	return out
}

func samplePost(board domain.BoardTitle, author string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Entry %d\n\n", n+1)
	fmt.Fprintf(&b, "Posted by **%s** to *%s*.\n\n", author, board)
	b.WriteString("Lecture notes, reading lists and questions for the next meeting. ")
	b.WriteString("Reply below if something is unclear or missing.\n")
	return b.String()
}
