// Package surreal stores entities in SurrealDB, one table per entity kind.
//
// Records are addressed as table:<num> where num is the entity id allocated
// from the sequence table. Every record also carries num as a plain field, and
// queries select and filter on it rather than on record ids.
package surreal

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusboard/campusboard/backend/internal/storage"
	"github.com/campusboard/campusboard/shared/config"
	"github.com/campusboard/campusboard/shared/logger"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

const (
	tableRoles    = "roles"
	tableUsers    = "users"
	tableBoards   = "boards"
	tablePosts    = "posts"
	tableReplies  = "replies"
	tableFiles    = "files"
	tableSequence = "sequence"
)

var schema = []string{
	"DEFINE INDEX IF NOT EXISTS roles_title ON TABLE roles FIELDS title UNIQUE",
	"DEFINE INDEX IF NOT EXISTS roles_num ON TABLE roles FIELDS num UNIQUE",
	"DEFINE INDEX IF NOT EXISTS users_student_id ON TABLE users FIELDS student_id UNIQUE",
	"DEFINE INDEX IF NOT EXISTS users_num ON TABLE users FIELDS num UNIQUE",
	"DEFINE INDEX IF NOT EXISTS boards_title ON TABLE boards FIELDS title UNIQUE",
	"DEFINE INDEX IF NOT EXISTS boards_num ON TABLE boards FIELDS num UNIQUE",
	"DEFINE INDEX IF NOT EXISTS posts_num ON TABLE posts FIELDS num UNIQUE",
	"DEFINE INDEX IF NOT EXISTS posts_board_date ON TABLE posts FIELDS board_id, date_created",
	"DEFINE INDEX IF NOT EXISTS replies_num ON TABLE replies FIELDS num UNIQUE",
	"DEFINE INDEX IF NOT EXISTS replies_post ON TABLE replies FIELDS post_id",
	"DEFINE INDEX IF NOT EXISTS files_num ON TABLE files FIELDS num UNIQUE",
}

// errIndexViolation marks a write rejected by a unique index.
var errIndexViolation = stderrors.New("unique index violation")

type Storage struct {
	db       *surrealdb.DB
	resolver *storage.Resolver
	now      func() time.Time
}

var _ storage.Storage = (*Storage)(nil)
var _ storage.Source = (*Storage)(nil)

// New connects, signs in and selects the configured namespace and database.
func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	log := logger.Component("surreal")
	pub, priv := cfg.Public.Surreal, cfg.Private.Surreal
	log.Info("connecting to surrealdb", "endpoint", pub.Endpoint, "namespace", pub.Namespace, "database", pub.Database)

	db, err := surrealdb.FromEndpointURLString(ctx, pub.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}
	if priv.User != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{Username: priv.User, Password: priv.Password}); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("failed to sign in to surrealdb: %w", err)
		}
	}
	if err := db.Use(ctx, pub.Namespace, pub.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}
	log.Info("successfully connected to surrealdb")

	s := &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}
	s.resolver = storage.NewResolver(s)
	return s, nil
}

// Migrate defines the unique and lookup indexes. It is idempotent.
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.exec(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to apply schema %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	_, err := surrealdb.Query[any](ctx, s.db, "RETURN true", nil)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close(context.Background())
}

// query runs sql and returns the result of its last statement.
func query[T any](ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) (T, error) {
	var zero T
	res, err := surrealdb.Query[T](ctx, db, sql, vars)
	if err != nil {
		return zero, classify(err)
	}
	if res == nil || len(*res) == 0 {
		return zero, nil
	}
	last := (*res)[len(*res)-1]
	if last.Status != "OK" {
		return zero, fmt.Errorf("query status %s", last.Status)
	}
	return last.Result, nil
}

func (s *Storage) exec(ctx context.Context, sql string, vars map[string]any) error {
	_, err := query[any](ctx, s.db, sql, vars)
	return err
}

func classify(err error) error {
	if strings.Contains(err.Error(), "already contains") {
		return fmt.Errorf("%w: %v", errIndexViolation, err)
	}
	return err
}

// nextNum allocates the next id of table. Ids of failed inserts are not reused.
func (s *Storage) nextNum(ctx context.Context, table string) (int64, error) {
	n, err := query[int64](ctx, s.db,
		"UPSERT ONLY type::thing($seq, $tb) SET last += 1 RETURN VALUE last",
		map[string]any{"seq": tableSequence, "tb": table})
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", table, err)
	}
	return n, nil
}

type numRow struct {
	Num int64 `json:"num"`
}

func (s *Storage) exists(ctx context.Context, table string, num int64) (bool, error) {
	rows, err := query[[]numRow](ctx, s.db,
		"SELECT num FROM type::table($tb) WHERE num = $num",
		map[string]any{"tb": table, "num": num})
	if err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	return len(rows) > 0, nil
}

// missingNum returns the first of nums with no record in table.
func (s *Storage) missingNum(ctx context.Context, table string, nums []int64) (int64, bool, error) {
	if len(nums) == 0 {
		return 0, true, nil
	}
	rows, err := query[[]numRow](ctx, s.db,
		"SELECT num FROM type::table($tb) WHERE num INSIDE $nums",
		map[string]any{"tb": table, "nums": nums})
	if err != nil {
		return 0, false, fmt.Errorf("failed to check %s references: %w", table, err)
	}
	found := make(map[int64]bool, len(rows))
	for _, r := range rows {
		found[r.Num] = true
	}
	for _, n := range nums {
		if !found[n] {
			return n, false, nil
		}
	}
	return 0, true, nil
}

// remove deletes table:num and reports whether it existed.
func (s *Storage) remove(ctx context.Context, table string, num int64) (bool, error) {
	rows, err := query[[]numRow](ctx, s.db,
		"DELETE type::thing($tb, $num) RETURN BEFORE",
		map[string]any{"tb": table, "num": num})
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return len(rows) > 0, nil
}

func datetime(t time.Time) *models.CustomDateTime {
	return &models.CustomDateTime{Time: t.UTC()}
}

// selectRows reads every record of table matching where, ordered by num.
func selectRows[R any](ctx context.Context, db *surrealdb.DB, table, where string, vars map[string]any) ([]R, error) {
	sql := "SELECT * FROM type::table($tb)"
	if where != "" {
		sql += " WHERE " + where
	}
	sql += " ORDER BY num"

	params := map[string]any{"tb": table}
	for k, v := range vars {
		params[k] = v
	}
	rows, err := query[[]R](ctx, db, sql, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	if rows == nil {
		rows = []R{}
	}
	return rows, nil
}

// selectOne reads table:num. ok is false when the record does not exist.
func selectOne[R any](ctx context.Context, db *surrealdb.DB, table string, num int64) (R, bool, error) {
	var zero R
	rows, err := selectRows[R](ctx, db, table, "num = $num", map[string]any{"num": num})
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}
	return rows[0], true, nil
}

// lookup implements the storage.Source batch reads.
func lookup[R any, D any](ctx context.Context, db *surrealdb.DB, table string, ids []int64, conv func(R) D, key func(D) int64) (map[int64]D, error) {
	out := make(map[int64]D, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := selectRows[R](ctx, db, table, "num INSIDE $nums", map[string]any{"nums": ids})
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		d := conv(r)
		out[key(d)] = d
	}
	return out, nil
}

func convert[R any, D any](rows []R, conv func(R) D) []D {
	out := make([]D, len(rows))
	for i, r := range rows {
		out[i] = conv(r)
	}
	return out
}
